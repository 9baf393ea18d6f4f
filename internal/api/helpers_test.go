package api

import (
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"userhub/internal/auth"
	"userhub/internal/config"
	"userhub/internal/db"
	"userhub/internal/sop"
	"userhub/internal/user"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbConn.AutoMigrate(&user.User{}, &sop.Activity{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	db.DB = dbConn
	return dbConn
}

func resetTables(t *testing.T) {
	if err := db.DB.Exec("DELETE FROM users").Error; err != nil {
		t.Fatalf("failed to reset users table: %v", err)
	}
	if err := db.DB.Exec("DELETE FROM activities").Error; err != nil {
		t.Fatalf("failed to reset activities table: %v", err)
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "test-secret"
	cfg.Server.TokenTTLMinutes = 30
	return cfg
}

func testRouter(t *testing.T) (*gin.Engine, *config.Config) {
	setupTestDB(t)
	resetTables(t)
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	return SetupRouter(cfg, nil), cfg
}

func seedUser(t *testing.T, username, password string, role user.Role) user.User {
	pwHash, err := user.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := user.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         role,
		IsActive:     true,
	}
	if err := db.DB.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func tokenFor(t *testing.T, cfg *config.Config, u user.User) string {
	token, err := auth.GenerateJWT(cfg.Server.JWTSecret, u.ID, u.Username, string(u.Role), time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
