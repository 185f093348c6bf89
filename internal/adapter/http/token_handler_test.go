package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhle2104/shopcore-api/configs"
	"github.com/minhle2104/shopcore-api/internal/adapter/http/middleware"
)

func testConfig() configs.Config {
	var cfg configs.Config
	cfg.Security.JWTSecret = "test-secret"
	cfg.Security.Issuer = "shopcore-api"
	cfg.Security.Audience = "shopcore-clients"
	cfg.Security.TTL = time.Hour
	return cfg
}

func issueToken(t *testing.T, cfg configs.Config, form url.Values) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/v1/token", NewTokenHandler(cfg).IssueToken)

	req := httptest.NewRequest(http.MethodPost, "/v1/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func TestIssueTokenRejectsBadClient(t *testing.T) {
	code, _ := issueToken(t, testConfig(), url.Values{
		"client_id": {"storefront-web"}, "client_secret": {"wrong"},
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = issueToken(t, testConfig(), url.Values{})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestIssueTokenRejectsBadUserID(t *testing.T) {
	code, _ := issueToken(t, testConfig(), url.Values{
		"client_id": {"storefront-web"}, "client_secret": {"storefront-secret"}, "user_id": {"abc"},
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestTokenAuthzRoundTrip(t *testing.T) {
	cfg := testConfig()

	code, body := issueToken(t, cfg, url.Values{
		"client_id": {"storefront-web"}, "client_secret": {"storefront-secret"}, "user_id": {"7"},
	})
	require.Equal(t, http.StatusOK, code)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	authz := middleware.NewAuthz(cfg)
	r.GET("/protected", authz.Require("cart.read"), func(c *gin.Context) {
		uid, ok := middleware.UserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": uid})
	})
	r.GET("/admin", authz.Require("orders.admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Token carries cart.read and the sub claim.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())

	// Same token lacks orders.admin.
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Missing or garbage tokens are 401.
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
