package app

import (
	"gorm.io/gorm"

	apphttp "github.com/yungbote/yamdb-backend/internal/http"
	httpH "github.com/yungbote/yamdb-backend/internal/http/handlers"
	httpMW "github.com/yungbote/yamdb-backend/internal/http/middleware"
	"github.com/yungbote/yamdb-backend/internal/observability"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
)

type Middleware struct {
	Auth        *httpMW.AuthMiddleware
	AuthLimiter *httpMW.IPRateLimiter
}

type Handlers struct {
	Health  *httpH.HealthHandler
	Auth    *httpH.AuthHandler
	User    *httpH.UserHandler
	Catalog *httpH.CatalogHandler
	Title   *httpH.TitleHandler
	Review  *httpH.ReviewHandler
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:        httpMW.NewAuthMiddleware(log, services.Auth),
		AuthLimiter: httpMW.NewIPRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst),
	}
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(db),
		Auth:    httpH.NewAuthHandler(services.Auth),
		User:    httpH.NewUserHandler(services.User),
		Catalog: httpH.NewCatalogHandler(services.Catalog),
		Title:   httpH.NewTitleHandler(services.Title),
		Review:  httpH.NewReviewHandler(services.Review, services.Comment),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *apphttp.Server {
	return apphttp.NewServer(log, cfg.HTTPAddr, apphttp.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.ServiceName,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		AuthLimiter:    middleware.AuthLimiter,
		AuthMiddleware: middleware.Auth,
		AuthHandler:    handlers.Auth,
		UserHandler:    handlers.User,
		CatalogHandler: handlers.Catalog,
		TitleHandler:   handlers.Title,
		ReviewHandler:  handlers.Review,
		HealthHandler:  handlers.Health,
	})
}
