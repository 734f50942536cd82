package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/medsync/internal/infrastructure/repositories"
)

// Open creates a new database connection with production-ready settings
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate migrates the users table, then best-effort provisions the
// optional user-code column and its unique index. These statements are
// allowed to fail: a schema without the column is a supported
// deployment, and the repository degrades accordingly.
func AutoMigrate(db *gorm.DB, codeColumn string) error {
	if err := db.AutoMigrate(&repositories.DBUser{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}

	if codeColumn != "" {
		db.Exec(fmt.Sprintf("ALTER TABLE users ADD COLUMN IF NOT EXISTS %s varchar(16)", codeColumn))
		// Unique index is the backstop for the non-transactional
		// check-then-insert in code generation.
		db.Exec(fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_%s ON users (%s) WHERE %s IS NOT NULL",
			codeColumn, codeColumn, codeColumn))
	}
	return nil
}
