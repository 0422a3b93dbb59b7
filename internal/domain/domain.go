package domain

import (
	"github.com/yungbote/yamdb-backend/internal/domain/catalog"
	"github.com/yungbote/yamdb-backend/internal/domain/reviews"
	"github.com/yungbote/yamdb-backend/internal/domain/user"
)

type Role = user.Role

const (
	RoleUser      = user.RoleUser
	RoleModerator = user.RoleModerator
	RoleAdmin     = user.RoleAdmin
)

type User = user.User

func ParseRole(s string) (Role, bool) { return user.ParseRole(s) }

type Category = catalog.Category
type Genre = catalog.Genre
type Title = catalog.Title
type TitleGenre = catalog.TitleGenre
type TitleWithRating = catalog.TitleWithRating

type Review = reviews.Review
type Comment = reviews.Comment

const (
	MinScore = reviews.MinScore
	MaxScore = reviews.MaxScore
)

func ValidScore(s int) bool { return reviews.ValidScore(s) }

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&Category{},
		&Genre{},
		&Title{},
		&TitleGenre{},
		&Review{},
		&Comment{},
	}
}
