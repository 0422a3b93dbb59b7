package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/yamdb-backend/internal/http/response"
	"github.com/yungbote/yamdb-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /auth/signup/
// body: { "email": "...", "username": "..." }
func (ah *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,max=254,email"`
		Username string `json:"username" binding:"required,max=150,username,not_me"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	user, _, err := ah.authService.Signup(c.Request.Context(), req.Email, req.Username)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"email":    user.Email,
		"username": user.Username,
	})
}

// POST /auth/token/
// body: { "username": "...", "confirmation_code": "..." }
func (ah *AuthHandler) Token(c *gin.Context) {
	var req struct {
		Username         string `json:"username" binding:"required"`
		ConfirmationCode string `json:"confirmation_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	token, err := ah.authService.ObtainToken(c.Request.Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"token": token})
}
