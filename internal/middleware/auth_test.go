package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"civiccare/internal/models"
)

type fakeIdentityService struct {
	identities map[string]models.Identity
}

func (f *fakeIdentityService) Resolve(_ context.Context, userID string) (models.Identity, error) {
	if identity, ok := f.identities[userID]; ok {
		return identity, nil
	}
	return models.Anonymous(), nil
}

func newAuthTestRouter(identities map[string]models.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("test-session", store))
	router.Use(ResolveIdentity(&fakeIdentityService{identities: identities}))

	router.POST("/login/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(UserIDKey, c.Param("id"))
		_ = session.Save()
		c.Status(http.StatusOK)
	})
	router.GET("/me", RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, GetIdentity(c))
	})
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/master", RequireMasterAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func loginAs(t *testing.T, router *gin.Engine, userID string) []*http.Cookie {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login/"+userID, nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	return w.Result().Cookies()
}

func getWithCookies(router *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	router := newAuthTestRouter(map[string]models.Identity{
		"u-1": {Kind: models.IdentityCitizen, UserID: "u-1"},
	})

	// No session
	w := getWithCookies(router, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Session for a known user
	cookies := loginAs(t, router, "u-1")
	w = getWithCookies(router, "/me", cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	// Session for an unknown user resolves to anonymous and is rejected
	cookies = loginAs(t, router, "u-gone")
	w = getWithCookies(router, "/me", cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	router := newAuthTestRouter(map[string]models.Identity{
		"u-citizen": {Kind: models.IdentityCitizen, UserID: "u-citizen"},
		"u-dept":    {Kind: models.IdentityDepartmentAdmin, UserID: "u-dept", Department: "roads"},
		"u-master":  {Kind: models.IdentityMasterAdmin, UserID: "u-master"},
	})

	w := getWithCookies(router, "/admin", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cookies := loginAs(t, router, "u-citizen")
	w = getWithCookies(router, "/admin", cookies)
	assert.Equal(t, http.StatusForbidden, w.Code)

	cookies = loginAs(t, router, "u-dept")
	w = getWithCookies(router, "/admin", cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	cookies = loginAs(t, router, "u-master")
	w = getWithCookies(router, "/admin", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireMasterAdmin(t *testing.T) {
	router := newAuthTestRouter(map[string]models.Identity{
		"u-dept":   {Kind: models.IdentityDepartmentAdmin, UserID: "u-dept", Department: "roads"},
		"u-master": {Kind: models.IdentityMasterAdmin, UserID: "u-master"},
	})

	cookies := loginAs(t, router, "u-dept")
	w := getWithCookies(router, "/master", cookies)
	assert.Equal(t, http.StatusForbidden, w.Code, "department admins are not master admins")

	cookies = loginAs(t, router, "u-master")
	w = getWithCookies(router, "/master", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetIdentity_DefaultsToAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, models.IdentityAnonymous, GetIdentity(c).Kind)
}
