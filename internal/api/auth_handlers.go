package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"userhub/internal/auth"
	"userhub/internal/config"
	"userhub/internal/db"
	"userhub/internal/user"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func LoginHandler(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	ttl := time.Duration(cfg.Server.TokenTTLMinutes) * time.Minute
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request"})
			return
		}
		var u user.User
		// Same response for unknown username and wrong password.
		if err := db.DB.Where("username = ?", req.Username).First(&u).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid username or password"})
			return
		}
		if err := user.CheckPassword(u.PasswordHash, req.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid username or password"})
			return
		}
		if !u.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"detail": "Account disabled"})
			return
		}
		token, err := auth.GenerateJWT(cfg.Server.JWTSecret, u.ID, u.Username, string(u.Role), ttl)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to generate token"})
			return
		}
		if rdb != nil {
			_ = auth.MarkOnline(rdb, u.ID, ttl)
		}
		c.JSON(http.StatusOK, gin.H{
			"access_token": token,
			"token_type":   "bearer",
			"user":         u.Public(),
		})
	}
}

func LogoutHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, exists := c.Get("userId")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		// Tokens are verified statelessly; logout only drops the presence
		// marker, so a repeat call is a no-op rather than an error.
		if rdb != nil {
			_ = auth.MarkOffline(rdb, userId.(uint))
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

func RegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := strings.TrimSpace(c.PostForm("username"))
		password := c.PostForm("password")
		if username == "" || password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Username and password required"})
			return
		}
		pwHash, err := user.HashPassword(password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Password hash failed"})
			return
		}
		u := user.User{
			Username:     username,
			PasswordHash: pwHash,
			Role:         user.RoleUser,
			Name:         c.PostForm("name"),
			Email:        c.PostForm("email"),
			IsActive:     true,
		}
		if err := db.DB.Create(&u).Error; err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique") {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Username already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Registration failed"})
			return
		}
		c.JSON(http.StatusCreated, u.Public())
	}
}
