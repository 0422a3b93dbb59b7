package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/http/response"
	"github.com/yungbote/yamdb-backend/internal/platform/apierr"
	"github.com/yungbote/yamdb-backend/internal/platform/ctxutil"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
	"github.com/yungbote/yamdb-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// Authenticate resolves a bearer token when one is sent. Anonymous requests
// pass through; a bad token is rejected even on public routes.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			c.Next()
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("Token rejected", "error", err)
			response.RespondAPIError(c, err)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests with 401.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ctxutil.Authenticated(c.Request.Context()) {
			response.RespondAPIError(c, apierr.Unauthorized("authentication credentials were not provided"))
			return
		}
		c.Next()
	}
}

// RequireAdmin allows only admins and superusers.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil || rd.UserID == 0 {
			response.RespondAPIError(c, apierr.Unauthorized("authentication credentials were not provided"))
			return
		}
		if !rd.IsSuperuser && rd.Role != string(types.RoleAdmin) {
			response.RespondAPIError(c, apierr.Forbidden("you do not have permission to perform this action"))
			return
		}
		c.Next()
	}
}

// RequireAuthForWrites leaves safe methods public and requires a user otherwise.
func (am *AuthMiddleware) RequireAuthForWrites() gin.HandlerFunc {
	requireAuth := am.RequireAuth()
	return func(c *gin.Context) {
		switch c.Request.Method {
		case "GET", "HEAD", "OPTIONS":
			c.Next()
		default:
			requireAuth(c)
		}
	}
}

func extractTokenFromAll(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
