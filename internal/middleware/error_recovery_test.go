package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	contextutils "civiccare/internal/utils"
)

func TestErrorRecoveryMiddleware_RecoversFromPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorRecoveryMiddleware(nil))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestErrorRecoveryMiddleware_CircuitBreakerOpens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorRecoveryMiddleware(&ErrorRecoveryConfig{
		EnableCircuitBreaker:    true,
		CircuitBreakerThreshold: 2,
		CircuitBreakerTimeout:   time.Minute,
	}))
	router.GET("/fail", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	}

	// Threshold reached, next request is shed
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleAppError_MapsCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", contextutils.ErrRecordNotFound, http.StatusNotFound},
		{"forbidden", contextutils.ErrForbidden, http.StatusForbidden},
		{"unauthorized", contextutils.ErrUnauthorized, http.StatusUnauthorized},
		{"invalid credentials", contextutils.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid status", contextutils.ErrInvalidStatus, http.StatusBadRequest},
		{"invalid severity", contextutils.ErrInvalidSeverity, http.StatusBadRequest},
		{"missing required", contextutils.ErrMissingRequired, http.StatusBadRequest},
		{"duplicate", contextutils.ErrRecordExists, http.StatusConflict},
		{"db connection", contextutils.ErrDatabaseConnection, http.StatusServiceUnavailable},
		{"plain error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			HandleAppError(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
