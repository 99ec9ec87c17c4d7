// Package middleware provides authentication and authorization middleware for the Gin web framework.
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"civiccare/internal/models"
	"civiccare/internal/serviceinterfaces"
)

// Session keys for storing user information
const (
	// UserIDKey is the key used to store user ID in session
	UserIDKey = "user_id"
	// UserEmailKey is the key used to store the user's email in session
	UserEmailKey = "user_email"
)

// IdentityKey is the gin context key holding the resolved caller identity.
const IdentityKey = "identity"

// ResolveIdentity resolves the session into a caller identity once per
// request and stores it in the gin context. Every request passes through it,
// authenticated or not; downstream handlers read the identity instead of the
// raw session.
func ResolveIdentity(identityService serviceinterfaces.IdentityServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		userID := ""
		if v := session.Get(UserIDKey); v != nil {
			if s, ok := v.(string); ok {
				userID = s
			}
		}

		identity, err := identityService.Resolve(c.Request.Context(), userID)
		if err != nil {
			HandleAppError(c, err)
			c.Abort()
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// GetIdentity returns the resolved identity from the gin context, falling
// back to anonymous when the resolution middleware did not run.
func GetIdentity(c *gin.Context) models.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if identity, ok := v.(models.Identity); ok {
			return identity
		}
	}
	return models.Anonymous()
}

// RequireAuth returns a middleware that requires an authenticated caller.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetIdentity(c).IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "UNAUTHORIZED",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin returns a middleware that requires any admin identity.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if !identity.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "UNAUTHORIZED",
			})
			c.Abort()
			return
		}
		if !identity.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
				"code":  "FORBIDDEN",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireMasterAdmin returns a middleware that only admits the configured
// master admin.
func RequireMasterAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if !identity.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "UNAUTHORIZED",
			})
			c.Abort()
			return
		}
		if identity.Kind != models.IdentityMasterAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Master admin access required",
				"code":  "FORBIDDEN",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
