package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/yamdb-backend/internal/http/response"
	"github.com/yungbote/yamdb-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type userPatchRequest struct {
	Username  *string `json:"username" binding:"omitempty,max=150,username,not_me"`
	Email     *string `json:"email" binding:"omitempty,max=254,email"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

func (r userPatchRequest) patch() services.UserPatch {
	return services.UserPatch{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
		Role:      r.Role,
	}
}

// GET /users/me/
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(dbcFrom(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, me)
}

// PATCH /users/me/
// The role field is accepted but ignored.
func (uh *UserHandler) UpdateMe(c *gin.Context) {
	var req userPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	me, err := uh.userService.UpdateMe(dbcFrom(c), req.patch())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, me)
}

// GET /users/?search=
func (uh *UserHandler) List(c *gin.Context) {
	page := pageFrom(c)
	users, total, err := uh.userService.List(dbcFrom(c), c.Query("search"), page)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	respondPage(c, page, total, users)
}

// POST /users/
func (uh *UserHandler) Create(c *gin.Context) {
	var req struct {
		Username  string `json:"username" binding:"required,max=150,username,not_me"`
		Email     string `json:"email" binding:"required,max=254,email"`
		FirstName string `json:"first_name" binding:"max=150"`
		LastName  string `json:"last_name" binding:"max=150"`
		Bio       string `json:"bio"`
		Role      string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	u, err := uh.userService.Create(dbcFrom(c), services.UserInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      req.Role,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, u)
}

// GET /users/:username/
func (uh *UserHandler) Get(c *gin.Context) {
	u, err := uh.userService.Get(dbcFrom(c), c.Param("username"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, u)
}

// PATCH /users/:username/
func (uh *UserHandler) Update(c *gin.Context) {
	var req userPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	u, err := uh.userService.Update(dbcFrom(c), c.Param("username"), req.patch())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, u)
}

// DELETE /users/:username/
func (uh *UserHandler) Delete(c *gin.Context) {
	if err := uh.userService.Delete(dbcFrom(c), c.Param("username")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}
