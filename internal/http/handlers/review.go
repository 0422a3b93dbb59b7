package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/yamdb-backend/internal/http/response"
	"github.com/yungbote/yamdb-backend/internal/services"
)

type ReviewHandler struct {
	reviewService  services.ReviewService
	commentService services.CommentService
}

func NewReviewHandler(reviewService services.ReviewService, commentService services.CommentService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, commentService: commentService}
}

func (rh *ReviewHandler) titleAndReview(c *gin.Context) (uint, uint, bool) {
	titleID, ok := uintParam(c, "title_id", "title")
	if !ok {
		return 0, 0, false
	}
	reviewID, ok := uintParam(c, "review_id", "review")
	if !ok {
		return 0, 0, false
	}
	return titleID, reviewID, true
}

// GET /titles/:title_id/reviews/
func (rh *ReviewHandler) List(c *gin.Context) {
	titleID, ok := uintParam(c, "title_id", "title")
	if !ok {
		return
	}
	page := pageFrom(c)
	items, total, err := rh.reviewService.List(dbcFrom(c), titleID, page)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	respondPage(c, page, total, items)
}

// GET /titles/:title_id/reviews/:review_id/
func (rh *ReviewHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := rh.titleAndReview(c)
	if !ok {
		return
	}
	r, err := rh.reviewService.Get(dbcFrom(c), titleID, reviewID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, r)
}

// POST /titles/:title_id/reviews/
// body: { "text": "...", "score": 1..10 }
func (rh *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := uintParam(c, "title_id", "title")
	if !ok {
		return
	}
	var req struct {
		Text  string `json:"text"`
		Score int    `json:"score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	r, err := rh.reviewService.Create(dbcFrom(c), titleID, req.Text, req.Score)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, r)
}

// PATCH /titles/:title_id/reviews/:review_id/
func (rh *ReviewHandler) Update(c *gin.Context) {
	titleID, reviewID, ok := rh.titleAndReview(c)
	if !ok {
		return
	}
	var req struct {
		Text  *string `json:"text"`
		Score *int    `json:"score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	r, err := rh.reviewService.Update(dbcFrom(c), titleID, reviewID, services.ReviewPatch{Text: req.Text, Score: req.Score})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, r)
}

// DELETE /titles/:title_id/reviews/:review_id/
func (rh *ReviewHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := rh.titleAndReview(c)
	if !ok {
		return
	}
	if err := rh.reviewService.Delete(dbcFrom(c), titleID, reviewID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET .../reviews/:review_id/comments/
func (rh *ReviewHandler) ListComments(c *gin.Context) {
	titleID, reviewID, ok := rh.titleAndReview(c)
	if !ok {
		return
	}
	page := pageFrom(c)
	items, total, err := rh.commentService.List(dbcFrom(c), titleID, reviewID, page)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	respondPage(c, page, total, items)
}

// GET .../comments/:comment_id/
func (rh *ReviewHandler) GetComment(c *gin.Context) {
	titleID, reviewID, ok := rh.titleAndReview(c)
	if !ok {
		return
	}
	commentID, ok := uintParam(c, "comment_id", "comment")
	if !ok {
		return
	}
	cm, err := rh.commentService.Get(dbcFrom(c), titleID, reviewID, commentID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, cm)
}

// POST .../reviews/:review_id/comments/
// body: { "text": "..." }
func (rh *ReviewHandler) CreateComment(c *gin.Context) {
	titleID, reviewID, ok := rh.titleAndReview(c)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	cm, err := rh.commentService.Create(dbcFrom(c), titleID, reviewID, req.Text)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, cm)
}

// PATCH .../comments/:comment_id/
func (rh *ReviewHandler) UpdateComment(c *gin.Context) {
	titleID, reviewID, ok := rh.titleAndReview(c)
	if !ok {
		return
	}
	commentID, ok := uintParam(c, "comment_id", "comment")
	if !ok {
		return
	}
	var req struct {
		Text *string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	cm, err := rh.commentService.Update(dbcFrom(c), titleID, reviewID, commentID, req.Text)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, cm)
}

// DELETE .../comments/:comment_id/
func (rh *ReviewHandler) DeleteComment(c *gin.Context) {
	titleID, reviewID, ok := rh.titleAndReview(c)
	if !ok {
		return
	}
	commentID, ok := uintParam(c, "comment_id", "comment")
	if !ok {
		return
	}
	if err := rh.commentService.Delete(dbcFrom(c), titleID, reviewID, commentID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}
