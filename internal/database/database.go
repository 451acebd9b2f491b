package database

import (
	"fmt"
	"log"

	"github.com/clubstack/booking-api/internal/config"
	"github.com/clubstack/booking-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DSN builds the sqlite connection string for the given database path.
// Transactions take the write lock at BEGIN so that concurrent booking
// attempts against the same category queue on the busy timeout instead
// of failing on a mid-transaction lock upgrade.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate", path)
}

func Connect(cfg *config.Config) *gorm.DB {
	db, err := Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(DSN(path)), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Member{},
		&models.Club{},
		&models.Membership{},
		&models.Event{},
		&models.Category{},
		&models.Booking{},
		&models.BookingHistory{},
		&models.APIKey{},
	)
}
