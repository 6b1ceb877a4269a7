package database

import (
	"log/slog"

	"noteria/backend/models"

	"gorm.io/gorm"
)

// RunMigrations brings the room, note, user and outbox tables up to date.
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Note{},
		&models.Event{},
	)
	if err != nil {
		slog.Error("migration failed", "error", err)
		return err
	}

	return nil
}
