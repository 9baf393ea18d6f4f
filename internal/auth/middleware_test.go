package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"userhub/internal/config"
	"userhub/internal/user"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "secret"
	return cfg
}

func setupTestJWT(secret string, userId uint, username, role string, exp time.Duration) string {
	token, _ := GenerateJWT(secret, userId, username, role, exp)
	return token
}

func newGuardedRouter(cfg *config.Config, requireAdmin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(cfg, requireAdmin))
	r.GET("/test", func(c *gin.Context) {
		c.String(200, "OK")
	})
	return r
}

func TestMiddleware_MissingHeader(t *testing.T) {
	r := newGuardedRouter(testConfig(), false)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	r := newGuardedRouter(testConfig(), false)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer not.a.valid.jwt")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for invalid JWT, got %d", w.Code)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	cfg := testConfig()
	r := newGuardedRouter(cfg, false)
	token := setupTestJWT(cfg.Server.JWTSecret, 123, "user", "user", -time.Minute)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", w.Code)
	}
}

func TestMiddleware_NonAdminForbidden(t *testing.T) {
	cfg := testConfig()
	r := newGuardedRouter(cfg, true)
	token := setupTestJWT(cfg.Server.JWTSecret, 123, "normaluser", "user", time.Minute)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", w.Code)
	}
}

func TestMiddleware_AdminAllowed(t *testing.T) {
	cfg := testConfig()
	r := newGuardedRouter(cfg, true)
	token := setupTestJWT(cfg.Server.JWTSecret, 222, "adminuser", string(user.RoleAdmin), time.Minute)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", w.Code)
	}
}

func TestMiddleware_SetsContextClaims(t *testing.T) {
	cfg := testConfig()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(cfg, false))
	r.GET("/who", func(c *gin.Context) {
		userId, _ := c.Get("userId")
		role, _ := c.Get("userRole")
		c.JSON(200, gin.H{"id": userId, "role": role})
	})
	token := setupTestJWT(cfg.Server.JWTSecret, 7, "claimuser", "user", time.Minute)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/who", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if body != `{"id":7,"role":"user"}` {
		t.Errorf("unexpected claims payload: %s", body)
	}
}
