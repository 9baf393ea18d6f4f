package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"userhub/internal/db"
	"userhub/internal/user"
)

// GET /profile
func GetProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		var u user.User
		if err := db.DB.First(&u, userId.(uint)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		c.JSON(http.StatusOK, u.Public())
	}
}

// PUT /profile
// Self-service update of profile fields; username and role stay admin-only.
func UpdateProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		var u user.User
		if err := db.DB.First(&u, userId.(uint)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		if name, ok := c.GetPostForm("name"); ok {
			u.Name = name
		}
		if email, ok := c.GetPostForm("email"); ok {
			u.Email = email
		}
		if password, ok := c.GetPostForm("password"); ok && password != "" {
			pwHash, err := user.HashPassword(password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"detail": "Password hash failed"})
				return
			}
			u.PasswordHash = pwHash
		}
		if err := db.DB.Save(&u).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Update failed"})
			return
		}
		c.JSON(http.StatusOK, u.Public())
	}
}
