package database

import (
	"log"

	"review-platform/config"
	"review-platform/internal/domain/catalog"
	"review-platform/internal/domain/reviews"
	"review-platform/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := config.DB_URL
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}

	// TranslateError makes uniqueness violations surface as
	// gorm.ErrDuplicatedKey; signup and review creation treat that as the
	// authoritative conflict signal.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}
}

// Migrate creates or updates the schema for every domain model. Split out of
// InitDB so tests and the importer can run it against their own connection.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},

		&catalog.Category{},
		&catalog.Genre{},
		&catalog.Title{},
		&catalog.GenreTitle{},

		&reviews.Review{},
		&reviews.Comment{},
	)
}
