package repos

import (
	"github.com/yungbote/yamdb-backend/internal/data/repos/catalog"
	"github.com/yungbote/yamdb-backend/internal/data/repos/reviews"
	"github.com/yungbote/yamdb-backend/internal/data/repos/user"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type CategoryRepo = catalog.CategoryRepo
type GenreRepo = catalog.GenreRepo
type TitleRepo = catalog.TitleRepo
type TitleFilter = catalog.TitleFilter

type ReviewRepo = reviews.ReviewRepo
type CommentRepo = reviews.CommentRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return catalog.NewCategoryRepo(db, baseLog)
}

func NewGenreRepo(db *gorm.DB, baseLog *logger.Logger) GenreRepo {
	return catalog.NewGenreRepo(db, baseLog)
}

func NewTitleRepo(db *gorm.DB, baseLog *logger.Logger) TitleRepo {
	return catalog.NewTitleRepo(db, baseLog)
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return reviews.NewReviewRepo(db, baseLog)
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return reviews.NewCommentRepo(db, baseLog)
}
