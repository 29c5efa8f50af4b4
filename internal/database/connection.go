package database

import (
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dkorchagin/staff-directory/internal/config"
	"github.com/dkorchagin/staff-directory/internal/models"
)

// Connect opens the Postgres connection and runs migrations. TranslateError
// lets duplicate-key violations surface as gorm.ErrDuplicatedKey.
func Connect(cfg *config.Config) (*Database, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, err
	}

	return NewDatabase(db), nil
}
