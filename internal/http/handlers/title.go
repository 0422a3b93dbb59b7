package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/yamdb-backend/internal/data/repos"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/http/response"
	"github.com/yungbote/yamdb-backend/internal/platform/apierr"
	"github.com/yungbote/yamdb-backend/internal/services"
)

type TitleHandler struct {
	titleService services.TitleService
}

func NewTitleHandler(titleService services.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

type titleView struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Year        int             `json:"year"`
	Description string          `json:"description"`
	Rating      *int            `json:"rating"`
	Category    *types.Category `json:"category"`
	Genre       []types.Genre   `json:"genre"`
}

func newTitleView(t *types.TitleWithRating) titleView {
	genres := t.Genres
	if genres == nil {
		genres = []types.Genre{}
	}
	return titleView{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Rating:      t.Rating,
		Category:    t.Category,
		Genre:       genres,
	}
}

func titleFilterFrom(c *gin.Context) (repos.TitleFilter, error) {
	f := repos.TitleFilter{
		CategorySlug: strings.TrimSpace(c.Query("category")),
		GenreSlug:    strings.TrimSpace(c.Query("genre")),
		Name:         strings.TrimSpace(c.Query("name")),
	}
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return f, apierr.Validation("year", "enter a whole number")
		}
		f.Year = year
	}
	return f, nil
}

// GET /titles/?category=&genre=&name=&year=
func (th *TitleHandler) List(c *gin.Context) {
	filter, err := titleFilterFrom(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	page := pageFrom(c)
	titles, total, err := th.titleService.List(dbcFrom(c), filter, page)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	views := make([]titleView, 0, len(titles))
	for _, t := range titles {
		views = append(views, newTitleView(t))
	}
	respondPage(c, page, total, views)
}

// GET /titles/:title_id/
func (th *TitleHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "title_id", "title")
	if !ok {
		return
	}
	t, err := th.titleService.Get(dbcFrom(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, newTitleView(t))
}

// POST /titles/
// body: { "name", "year", "description", "category": "<slug>", "genre": ["<slug>"] }
func (th *TitleHandler) Create(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required,max=256"`
		Year        *int     `json:"year" binding:"required,gte=0,past_year"`
		Description string   `json:"description"`
		Category    string   `json:"category" binding:"required,slug"`
		Genre       []string `json:"genre" binding:"required,dive,slug"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	t, err := th.titleService.Create(dbcFrom(c), services.TitleInput{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genre:       req.Genre,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, newTitleView(t))
}

// PATCH /titles/:title_id/
func (th *TitleHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "title_id", "title")
	if !ok {
		return
	}
	var req struct {
		Name        *string   `json:"name" binding:"omitempty,max=256"`
		Year        *int      `json:"year" binding:"omitempty,gte=0,past_year"`
		Description *string   `json:"description"`
		Category    *string   `json:"category" binding:"omitempty,slug"`
		Genre       *[]string `json:"genre" binding:"omitempty,dive,slug"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	t, err := th.titleService.Update(dbcFrom(c), id, services.TitlePatch{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genre:       req.Genre,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, newTitleView(t))
}

// DELETE /titles/:title_id/
func (th *TitleHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "title_id", "title")
	if !ok {
		return
	}
	if err := th.titleService.Delete(dbcFrom(c), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}
