package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/smartfridge/internal/model"
)

// RunMigrations creates or updates the tables owned by this service
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.LLMCall{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", db.Dialector.Name(), err)
	}
	return nil
}
