package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/safhaapp/safha/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.UserBookStatus{},
		&entities.Follow{},
		&entities.Quote{},
		&entities.Review{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := createPartialIndexes(db); err != nil {
		return nil, fmt.Errorf("failed to create partial indexes: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

// createPartialIndexes installs the uniqueness guards that AutoMigrate cannot
// express. Only ACTIVE rows must be unique per pair; soft-deleted rows may
// pile up under the same pair (old follow edges keep history, and the status
// engine reactivates its single inactive row).
func createPartialIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_book_active
			ON user_book_statuses(user_id, book_id) WHERE is_active = 1`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_follow_edge_active
			ON follows(follower_id, following_id) WHERE is_active = 1`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
