package http

import (
	"fmt"
	"net/http"
	"strings"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/yamdb-backend/internal/http/handlers"
	httpMW "github.com/yungbote/yamdb-backend/internal/http/middleware"
	"github.com/yungbote/yamdb-backend/internal/http/response"
	"github.com/yungbote/yamdb-backend/internal/observability"
	"github.com/yungbote/yamdb-backend/internal/platform/apierr"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string
	// AuthLimiter throttles the public signup/token endpoints per client IP.
	AuthLimiter *httpMW.IPRateLimiter

	AuthMiddleware *httpMW.AuthMiddleware
	AuthHandler    *httpH.AuthHandler
	UserHandler    *httpH.UserHandler
	CatalogHandler *httpH.CatalogHandler
	TitleHandler   *httpH.TitleHandler
	ReviewHandler  *httpH.ReviewHandler
	HealthHandler  *httpH.HealthHandler
}

// handle registers path with and without the trailing slash.
func handle(g gin.IRoutes, method, path string, handlers ...gin.HandlerFunc) {
	trimmed := strings.TrimSuffix(path, "/")
	g.Handle(method, trimmed, handlers...)
	g.Handle(method, trimmed+"/", handlers...)
}

const (
	healthPath  = "/healthcheck"
	metricsPath = "/metrics"
)

func methodNotAllowed(c *gin.Context) {
	response.RespondError(c, http.StatusMethodNotAllowed, "method_not_allowed",
		fmt.Errorf("method %q not allowed", c.Request.Method))
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "yamdb-backend"
	}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.HandleMethodNotAllowed = true
	r.Use(otelgin.Middleware(serviceName))
	r.Use(ginzap.RecoveryWithZap(log.Zap(), true))
	r.Use(httpMW.RequestContext())
	r.Use(httpMW.RequestLogger(log, healthPath, metricsPath))
	r.Use(httpMW.Metrics(cfg.Metrics, healthPath, metricsPath))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	r.NoRoute(func(c *gin.Context) {
		response.RespondAPIError(c, apierr.NotFound("resource"))
	})
	r.NoMethod(methodNotAllowed)

	// Health
	if cfg.HealthHandler != nil {
		r.GET(healthPath, cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET(metricsPath, gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api/v1")
	am := cfg.AuthMiddleware
	if am != nil {
		api.Use(am.Authenticate())
	}
	requireAuth := func(c *gin.Context) { c.Next() }
	requireAdmin := requireAuth
	if am != nil {
		requireAuth = am.RequireAuth()
		requireAdmin = am.RequireAdmin()
	}

	// Auth (public)
	if cfg.AuthHandler != nil {
		throttled := httpMW.RateLimit(cfg.AuthLimiter)
		handle(api, http.MethodPost, "/auth/signup/", throttled, cfg.AuthHandler.Signup)
		handle(api, http.MethodPost, "/auth/token/", throttled, cfg.AuthHandler.Token)
	}

	// Users
	if cfg.UserHandler != nil {
		uh := cfg.UserHandler
		handle(api, http.MethodGet, "/users/me/", requireAuth, uh.GetMe)
		handle(api, http.MethodPatch, "/users/me/", requireAuth, uh.UpdateMe)
		// The profile cannot be deleted; without this DELETE would reach /users/:username/.
		handle(api, http.MethodDelete, "/users/me/", methodNotAllowed)
		handle(api, http.MethodGet, "/users/", requireAdmin, uh.List)
		handle(api, http.MethodPost, "/users/", requireAdmin, uh.Create)
		handle(api, http.MethodGet, "/users/:username/", requireAdmin, uh.Get)
		handle(api, http.MethodPatch, "/users/:username/", requireAdmin, uh.Update)
		handle(api, http.MethodDelete, "/users/:username/", requireAdmin, uh.Delete)
	}

	// Categories and genres
	if cfg.CatalogHandler != nil {
		ch := cfg.CatalogHandler
		handle(api, http.MethodGet, "/categories/", ch.ListCategories)
		handle(api, http.MethodPost, "/categories/", requireAdmin, ch.CreateCategory)
		handle(api, http.MethodDelete, "/categories/:slug/", requireAdmin, ch.DeleteCategory)
		handle(api, http.MethodGet, "/genres/", ch.ListGenres)
		handle(api, http.MethodPost, "/genres/", requireAdmin, ch.CreateGenre)
		handle(api, http.MethodDelete, "/genres/:slug/", requireAdmin, ch.DeleteGenre)
	}

	// Titles
	if cfg.TitleHandler != nil {
		th := cfg.TitleHandler
		handle(api, http.MethodGet, "/titles/", th.List)
		handle(api, http.MethodPost, "/titles/", requireAdmin, th.Create)
		handle(api, http.MethodGet, "/titles/:title_id/", th.Get)
		handle(api, http.MethodPatch, "/titles/:title_id/", requireAdmin, th.Update)
		handle(api, http.MethodDelete, "/titles/:title_id/", requireAdmin, th.Delete)
	}

	// Reviews and comments; ownership is checked in the services.
	if cfg.ReviewHandler != nil {
		rh := cfg.ReviewHandler
		reviews := "/titles/:title_id/reviews/"
		review := reviews + ":review_id/"
		comments := review + "comments/"
		comment := comments + ":comment_id/"

		handle(api, http.MethodGet, reviews, rh.List)
		handle(api, http.MethodPost, reviews, requireAuth, rh.Create)
		handle(api, http.MethodGet, review, rh.Get)
		handle(api, http.MethodPatch, review, requireAuth, rh.Update)
		handle(api, http.MethodDelete, review, requireAuth, rh.Delete)

		handle(api, http.MethodGet, comments, rh.ListComments)
		handle(api, http.MethodPost, comments, requireAuth, rh.CreateComment)
		handle(api, http.MethodGet, comment, rh.GetComment)
		handle(api, http.MethodPatch, comment, requireAuth, rh.UpdateComment)
		handle(api, http.MethodDelete, comment, requireAuth, rh.DeleteComment)
	}

	return r
}
