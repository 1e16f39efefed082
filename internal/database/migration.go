package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/nelliei/albumsearcher-db/internal/models"
)

// AutoMigrate creates the users, albums and likes tables when absent.
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&models.User{},
		&models.Album{},
		&models.Like{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}
	return nil
}
