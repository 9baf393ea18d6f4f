package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"userhub/internal/db"
	"userhub/internal/user"
)

// userIDParam parses the :id path segment. Anything that is not a plain
// integer is treated as a lookup miss so the parameter can never reach the
// query layer as a raw string.
func userIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return 0, false
	}
	return uint(id), true
}

// GET /admin/users
func ListUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []user.User
		if err := db.DB.Order("id").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "List failed"})
			return
		}
		result := make([]map[string]interface{}, 0, len(users))
		for i := range users {
			result = append(result, users[i].Public())
		}
		c.JSON(http.StatusOK, result)
	}
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// POST /admin/users
func CreateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing username or password"})
			return
		}
		role := user.RoleUser
		if req.Role != "" {
			if req.Role != string(user.RoleAdmin) && req.Role != string(user.RoleUser) {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid role"})
				return
			}
			role = user.Role(req.Role)
		}
		pwHash, err := user.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Password hash failed"})
			return
		}
		newUser := user.User{
			Username:     req.Username,
			PasswordHash: pwHash,
			Role:         role,
			Name:         req.Name,
			Email:        req.Email,
			IsActive:     true,
		}
		if err := db.DB.Create(&newUser).Error; err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique") {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Username already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Create failed"})
			return
		}
		c.JSON(http.StatusCreated, newUser.Public())
	}
}

// GET /admin/users/:id
func GetUserByIdHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userIDParam(c)
		if !ok {
			return
		}
		var u user.User
		if err := db.DB.First(&u, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		c.JSON(http.StatusOK, u.Public())
	}
}

type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// PUT /admin/users/:id
func UpdateUserByIdHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userIDParam(c)
		if !ok {
			return
		}
		var req UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request"})
			return
		}
		var u user.User
		if err := db.DB.First(&u, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		if req.Username != nil && *req.Username != "" && *req.Username != u.Username {
			if u.Username == user.DefaultAdminUsername {
				c.JSON(http.StatusForbidden, gin.H{"detail": "Cannot rename the default admin"})
				return
			}
			u.Username = *req.Username
		}
		if req.Password != nil && *req.Password != "" {
			pwHash, err := user.HashPassword(*req.Password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"detail": "Password hash failed"})
				return
			}
			u.PasswordHash = pwHash
		}
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.Role != nil {
			if *req.Role != string(user.RoleAdmin) && *req.Role != string(user.RoleUser) {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid role"})
				return
			}
			u.Role = user.Role(*req.Role)
		}
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
		if err := db.DB.Save(&u).Error; err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique") {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Username already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Update failed"})
			return
		}
		c.JSON(http.StatusOK, u.Public())
	}
}

// DELETE /admin/users/:id
func DeleteUserByIdHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userIDParam(c)
		if !ok {
			return
		}
		var u user.User
		if err := db.DB.First(&u, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		if u.Username == user.DefaultAdminUsername {
			c.JSON(http.StatusForbidden, gin.H{"detail": "Cannot delete the default admin"})
			return
		}
		if err := db.DB.Delete(&u).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Delete failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}
