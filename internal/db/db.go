package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"userhub/internal/config"
	"userhub/internal/sop"
	"userhub/internal/user"
)

var DB *gorm.DB

func Init(cfg *config.Config) error {
	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{})
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&user.User{}, &sop.Activity{}); err != nil {
		return err
	}

	DB = db
	log.Printf("Database connected and migrated")
	return nil
}
