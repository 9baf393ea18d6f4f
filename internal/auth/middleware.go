package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"userhub/internal/config"
	"userhub/internal/user"
)

// Middleware guards a route. Requests without a valid Bearer token get a 401
// before any handler or store access; admin-only routes get a 403 when the
// token's role is insufficient.
func Middleware(cfg *config.Config, requireAdmin bool) gin.HandlerFunc {
	required := user.RoleUser
	if requireAdmin {
		required = user.RoleAdmin
	}
	return func(c *gin.Context) {
		claims, ok := claimsFromRequest(cfg, c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
			return
		}
		if !Authorize(user.Role(claims.Role), required) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Admin privileges required"})
			return
		}
		c.Set("userId", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("userRole", claims.Role)
		c.Next()
	}
}

func claimsFromRequest(cfg *config.Config, authHeader string) (*Claims, bool) {
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := ParseJWT(cfg.Server.JWTSecret, tokenStr)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// VerifyToken checks a raw token string outside the middleware chain, e.g.
// for websocket upgrades where the token arrives as a query parameter.
func VerifyToken(cfg *config.Config, tokenStr string) (*Claims, error) {
	return ParseJWT(cfg.Server.JWTSecret, tokenStr)
}
