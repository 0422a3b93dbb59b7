package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/yamdb-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureIndexes(db)
}

// EnsureIndexes creates indexes AutoMigrate cannot express from struct tags.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))`,
		`CREATE INDEX IF NOT EXISTS idx_titles_category_year ON titles (category_id, year)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_title_pub ON reviews (title_id, pub_date)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_review_pub ON comments (review_id, pub_date)`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}
	return nil
}
