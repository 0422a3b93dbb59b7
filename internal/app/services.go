package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/observability"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
	"github.com/yungbote/yamdb-backend/internal/services"
)

type Services struct {
	Auth    services.AuthService
	User    services.UserService
	Catalog services.CatalogService
	Title   services.TitleService
	Review  services.ReviewService
	Comment services.CommentService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	return Services{
		Auth: services.NewAuthService(db, log, repos.User, clients.Mailer, clients.SignupLimiter, metrics, services.AuthConfig{
			JWTSecretKey: cfg.JWTSecretKey,
			AccessTTL:    cfg.AccessTokenTTL,
			CodeTTL:      cfg.ConfirmationCodeTTL,
		}),
		User:    services.NewUserService(db, log, repos.User),
		Catalog: services.NewCatalogService(db, log, repos.Category, repos.Genre),
		Title:   services.NewTitleService(db, log, repos.Title, repos.Category, repos.Genre),
		Review:  services.NewReviewService(db, log, repos.Title, repos.Review, metrics),
		Comment: services.NewCommentService(db, log, repos.Review, repos.Comment),
	}
}
