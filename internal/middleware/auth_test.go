package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reportly/config"
	"reportly/internal/auth"
	"reportly/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "reportly-test",
	}
}

func newAuthTestRouter(cfg *config.JWTConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", AuthRequired(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	r.GET("/admin", AuthRequired(cfg), RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func getWithToken(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	cfg := testJWTConfig()
	r := newAuthTestRouter(cfg)
	token, err := auth.GenerateAccessToken(cfg, 7, "u@example.com", domain.RoleUser)
	require.NoError(t, err)

	w := getWithToken(r, "/whoami", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestAuthRequiredRejectsMissingOrBadToken(t *testing.T) {
	cfg := testJWTConfig()
	r := newAuthTestRouter(cfg)

	w := getWithToken(r, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = getWithToken(r, "/whoami", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A refresh token must not open authenticated routes.
	refresh, err := auth.GenerateRefreshToken(cfg, 7)
	require.NoError(t, err)
	w = getWithToken(r, "/whoami", refresh)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	cfg := testJWTConfig()
	r := newAuthTestRouter(cfg)

	userToken, err := auth.GenerateAccessToken(cfg, 1, "u@example.com", domain.RoleUser)
	require.NoError(t, err)
	w := getWithToken(r, "/admin", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := auth.GenerateAccessToken(cfg, 2, "a@example.com", domain.RoleAdmin)
	require.NoError(t, err)
	w = getWithToken(r, "/admin", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
