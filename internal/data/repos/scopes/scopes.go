// Package scopes holds gorm scopes shared by the list queries.
package scopes

import (
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/platform/pagination"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Page applies LIMIT/OFFSET from a normalized page.
func Page(p pagination.Page) func(*gorm.DB) *gorm.DB {
	p = p.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(p.Limit).Offset(p.Offset)
	}
}

// Contains filters column case-insensitively by substring. Blank terms match everything.
func Contains(column, term string) func(*gorm.DB) *gorm.DB {
	term = strings.TrimSpace(term)
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		return db.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", "%"+likeEscaper.Replace(strings.ToLower(term))+"%")
	}
}
