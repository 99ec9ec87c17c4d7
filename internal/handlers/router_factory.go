package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"civiccare/internal/config"
	"civiccare/internal/middleware"
	"civiccare/internal/observability"
	"civiccare/internal/serviceinterfaces"
	"civiccare/internal/version"
)

// NewRouter creates the application router with all middleware and routes.
func NewRouter(
	cfg *config.Config,
	userService serviceinterfaces.UserServiceInterface,
	identityService serviceinterfaces.IdentityServiceInterface,
	adminService serviceinterfaces.AdminServiceInterface,
	categoryService serviceinterfaces.CategoryServiceInterface,
	complaintService serviceinterfaces.ComplaintServiceInterface,
	logger *observability.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// HTTP request logging through the observability logger
	router.Use(func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		fields := map[string]interface{}{
			"http.method":      c.Request.Method,
			"http.path":        c.Request.URL.Path,
			"http.status_code": statusCode,
			"http.latency_ms":  latency.Milliseconds(),
			"http.client_ip":   c.ClientIP(),
			"http.user_agent":  c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields["http.error"] = c.Errors.String()
		}

		switch {
		case statusCode >= 500:
			logger.Error(c.Request.Context(), "HTTP request failed", nil, fields)
		case statusCode >= 400:
			logger.Warn(c.Request.Context(), "HTTP request warning", fields)
		default:
			logger.Info(c.Request.Context(), "HTTP request", fields)
		}
	})

	// Health check endpoint (defined before any middleware)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "backend"})
	})

	// OpenTelemetry middleware for HTTP tracing with automatic error attributes
	router.Use(observability.GinMiddlewareWithErrorHandling("civiccare-backend"))

	// Panic recovery with structured error payloads
	router.Use(middleware.ErrorRecoveryMiddleware(nil))

	// Disable automatic redirection for trailing slashes, which is better for APIs
	router.RedirectTrailingSlash = false

	// CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Sessions
	store := cookie.NewStore([]byte(cfg.Server.SessionSecret))
	sessionOpts := sessions.Options{
		Path:     config.SessionPath,
		MaxAge:   int(config.SessionMaxAge.Seconds()),
		HttpOnly: config.SessionHTTPOnly,
		Secure:   config.SessionSecure,
	}
	if cfg.Server.Debug {
		sessionOpts.SameSite = http.SameSiteDefaultMode
	} else {
		sessionOpts.SameSite = http.SameSiteLaxMode
		sessionOpts.Secure = true
	}
	store.Options(sessionOpts)
	router.Use(sessions.Sessions(config.SessionName, store))

	gin.SetMode(gin.ReleaseMode)
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	}

	// Security headers
	secureConfig := secure.DefaultConfig()
	secureConfig.SSLRedirect = false
	secureConfig.ContentSecurityPolicy = config.DefaultCSP
	router.Use(secure.New(secureConfig))

	// Resolve the caller identity once per request
	router.Use(middleware.ResolveIdentity(identityService))

	// Initialize handlers
	authHandler := NewAuthHandler(userService, cfg, logger)
	complaintHandler := NewComplaintHandler(complaintService, cfg, logger)
	categoryHandler := NewCategoryHandler(categoryService, cfg, logger)
	adminHandler := NewAdminHandler(adminService, cfg, logger)

	v1 := router.Group("/v1")
	{
		v1.GET("/version", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"service":   "backend",
				"version":   version.Version,
				"commit":    version.Commit,
				"buildTime": version.BuildTime,
			})
		})

		auth := v1.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/status", authHandler.Status)
		}

		complaints := v1.Group("/complaints")
		{
			// Tracking is public: the citizen proves ownership with the
			// tracking ID and contact email, not a session.
			complaints.POST("/track", complaintHandler.Track)

			complaints.POST("", middleware.RequireAuth(), complaintHandler.Create)
			complaints.GET("", middleware.RequireAuth(), complaintHandler.List)
			complaints.GET("/:id", middleware.RequireAuth(), complaintHandler.Get)
			complaints.PUT("/:id/status", middleware.RequireAdmin(), complaintHandler.UpdateStatus)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", middleware.RequireAdmin(), categoryHandler.Create)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/access-requests", middleware.RequireAuth(), adminHandler.RequestAccess)
			admin.GET("/users", middleware.RequireMasterAdmin(), adminHandler.List)
			admin.POST("/users/:id/approve", middleware.RequireMasterAdmin(), adminHandler.Approve)
		}
	}

	return router
}
