package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/data/repos"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
)

type Repos struct {
	User     repos.UserRepo
	Category repos.CategoryRepo
	Genre    repos.GenreRepo
	Title    repos.TitleRepo
	Review   repos.ReviewRepo
	Comment  repos.CommentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:     repos.NewUserRepo(db, log),
		Category: repos.NewCategoryRepo(db, log),
		Genre:    repos.NewGenreRepo(db, log),
		Title:    repos.NewTitleRepo(db, log),
		Review:   repos.NewReviewRepo(db, log),
		Comment:  repos.NewCommentRepo(db, log),
	}
}
