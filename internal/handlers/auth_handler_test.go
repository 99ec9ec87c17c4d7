package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civiccare/internal/config"
	"civiccare/internal/middleware"
	"civiccare/internal/models"
	contextutils "civiccare/internal/utils"
)

func newAuthTestRouter(userService *mockUserService, identities map[string]models.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	handler := NewAuthHandler(userService, cfg, testLogger())

	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("test-session", store))
	router.Use(middleware.ResolveIdentity(&mockIdentityService{identities: identities}))

	auth := router.Group("/v1/auth")
	auth.POST("/signup", handler.Signup)
	auth.POST("/login", handler.Login)
	auth.POST("/logout", handler.Logout)
	auth.GET("/status", handler.Status)
	return router
}

func TestAuthHandler_Signup(t *testing.T) {
	users := &mockUserService{}
	router := newAuthTestRouter(users, nil)

	w := doJSON(router, http.MethodPost, "/v1/auth/signup", SignupRequest{
		Email:    "new@example.com",
		FullName: "New User",
		Password: "supersecret",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		User    UserResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "new@example.com", resp.User.Email)

	// Session cookie is set on signup
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestAuthHandler_SignupValidation(t *testing.T) {
	router := newAuthTestRouter(&mockUserService{}, nil)

	// Missing password
	w := doJSON(router, http.MethodPost, "/v1/auth/signup", gin.H{
		"email": "new@example.com", "full_name": "X",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Short password
	w = doJSON(router, http.MethodPost, "/v1/auth/signup", SignupRequest{
		Email: "new@example.com", FullName: "X", Password: "short",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Bad email
	w = doJSON(router, http.MethodPost, "/v1/auth/signup", SignupRequest{
		Email: "nope", FullName: "X", Password: "supersecret",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_SignupDuplicate(t *testing.T) {
	users := &mockUserService{createErr: contextutils.ErrRecordExists}
	router := newAuthTestRouter(users, nil)

	w := doJSON(router, http.MethodPost, "/v1/auth/signup", SignupRequest{
		Email: "dup@example.com", FullName: "X", Password: "supersecret",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_LoginAndStatus(t *testing.T) {
	user := &models.User{ID: "u-1", Email: "c@example.com", FullName: "C"}
	users := &mockUserService{
		users: map[string]*models.User{"c@example.com": user},
		authenticate: func(email, password string) (*models.User, error) {
			if email == "c@example.com" && password == "supersecret" {
				return user, nil
			}
			return nil, contextutils.ErrInvalidCredentials
		},
	}
	identities := map[string]models.Identity{
		"u-1": {Kind: models.IdentityCitizen, UserID: "u-1", Email: "c@example.com"},
	}
	router := newAuthTestRouter(users, identities)

	// Wrong password
	w := doJSON(router, http.MethodPost, "/v1/auth/login", LoginRequest{Email: "c@example.com", Password: "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Successful login sets the session
	w = doJSON(router, http.MethodPost, "/v1/auth/login", LoginRequest{Email: "c@example.com", Password: "supersecret"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// Status reflects the resolved identity
	w = doJSON(router, http.MethodGet, "/v1/auth/status", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Authenticated bool            `json:"authenticated"`
		Identity      models.Identity `json:"identity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Authenticated)
	assert.Equal(t, models.IdentityCitizen, status.Identity.Kind)

	// Logout clears the session
	w = doJSON(router, http.MethodPost, "/v1/auth/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/v1/auth/status", nil, w.Result().Cookies())
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.Authenticated)
}

func TestAuthHandler_StatusAnonymous(t *testing.T) {
	router := newAuthTestRouter(&mockUserService{}, nil)

	w := doJSON(router, http.MethodGet, "/v1/auth/status", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}
