package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/yamdb-backend/internal/http/response"
	"github.com/yungbote/yamdb-backend/internal/services"
)

// CatalogHandler serves both /categories/ and /genres/.
type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type nameSlugRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

func (ch *CatalogHandler) ListCategories(c *gin.Context) {
	page := pageFrom(c)
	items, total, err := ch.catalogService.ListCategories(dbcFrom(c), c.Query("search"), page)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	respondPage(c, page, total, items)
}

func (ch *CatalogHandler) CreateCategory(c *gin.Context) {
	var req nameSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	item, err := ch.catalogService.CreateCategory(dbcFrom(c), req.Name, req.Slug)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, item)
}

func (ch *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := ch.catalogService.DeleteCategory(dbcFrom(c), c.Param("slug")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (ch *CatalogHandler) ListGenres(c *gin.Context) {
	page := pageFrom(c)
	items, total, err := ch.catalogService.ListGenres(dbcFrom(c), c.Query("search"), page)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	respondPage(c, page, total, items)
}

func (ch *CatalogHandler) CreateGenre(c *gin.Context) {
	var req nameSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	item, err := ch.catalogService.CreateGenre(dbcFrom(c), req.Name, req.Slug)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, item)
}

func (ch *CatalogHandler) DeleteGenre(c *gin.Context) {
	if err := ch.catalogService.DeleteGenre(dbcFrom(c), c.Param("slug")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}
