package user

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// DefaultAdminUsername is the reserved account the seeder maintains.
const DefaultAdminUsername = "sysadmin"

// EnsureDefaultAdmin creates the default administrator account if it does
// not exist yet. Safe to call on every startup: existence is checked by
// username, so repeated runs leave exactly one record. The unique index on
// username backstops concurrent first starts.
func EnsureDefaultAdmin(db *gorm.DB, username, password string) error {
	if username == "" {
		username = DefaultAdminUsername
	}
	var existing User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup default admin: %w", err)
	}
	pwHash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}
	admin := User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         RoleAdmin,
		Name:         "System Administrator",
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}
	log.Printf("[Bootstrap] Default admin %q created (id=%d)", username, admin.ID)
	return nil
}
