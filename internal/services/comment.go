package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/data/repos"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/platform/apierr"
	"github.com/yungbote/yamdb-backend/internal/platform/dbctx"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
	"github.com/yungbote/yamdb-backend/internal/platform/pagination"
	"github.com/yungbote/yamdb-backend/internal/platform/sanitize"
)

type CommentService interface {
	List(dbc dbctx.Context, titleID, reviewID uint, page pagination.Page) ([]*types.Comment, int64, error)
	Get(dbc dbctx.Context, titleID, reviewID, commentID uint) (*types.Comment, error)
	Create(dbc dbctx.Context, titleID, reviewID uint, text string) (*types.Comment, error)
	Update(dbc dbctx.Context, titleID, reviewID, commentID uint, text *string) (*types.Comment, error)
	Delete(dbc dbctx.Context, titleID, reviewID, commentID uint) error
}

type commentService struct {
	db          *gorm.DB
	log         *logger.Logger
	reviewRepo  repos.ReviewRepo
	commentRepo repos.CommentRepo
	now         func() time.Time
}

func NewCommentService(db *gorm.DB, log *logger.Logger, reviewRepo repos.ReviewRepo, commentRepo repos.CommentRepo) CommentService {
	return &commentService{
		db:          db,
		log:         log.With("service", "CommentService"),
		reviewRepo:  reviewRepo,
		commentRepo: commentRepo,
		now:         time.Now,
	}
}

// review resolves the parent review, which must belong to titleID.
func (cs *commentService) review(dbc dbctx.Context, titleID, reviewID uint) (*types.Review, error) {
	r, err := cs.reviewRepo.GetByID(dbc, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apierr.NotFound("review")
	}
	return r, nil
}

func (cs *commentService) List(dbc dbctx.Context, titleID, reviewID uint, page pagination.Page) ([]*types.Comment, int64, error) {
	if _, err := cs.review(dbc, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return cs.commentRepo.List(dbc, reviewID, page)
}

func (cs *commentService) Get(dbc dbctx.Context, titleID, reviewID, commentID uint) (*types.Comment, error) {
	if _, err := cs.review(dbc, titleID, reviewID); err != nil {
		return nil, err
	}
	c, err := cs.commentRepo.GetByID(dbc, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apierr.NotFound("comment")
	}
	return c, nil
}

func (cs *commentService) Create(dbc dbctx.Context, titleID, reviewID uint, text string) (*types.Comment, error) {
	rd, err := requireAuth(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	text = sanitize.Text(text)
	if text == "" {
		return nil, apierr.Validation("text", "this field is required")
	}
	if _, err := cs.review(dbc, titleID, reviewID); err != nil {
		return nil, err
	}
	c := &types.Comment{
		ReviewID: reviewID,
		AuthorID: rd.UserID,
		Text:     text,
		PubDate:  cs.now().UTC(),
	}
	if err := cs.commentRepo.Create(dbc, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return cs.commentRepo.GetByID(dbc, reviewID, c.ID)
}

func (cs *commentService) Update(dbc dbctx.Context, titleID, reviewID, commentID uint, text *string) (*types.Comment, error) {
	c, err := cs.Get(dbc, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if _, err := requireAuthorOrStaff(dbc.Ctx, c.AuthorID); err != nil {
		return nil, err
	}
	if text != nil {
		t := sanitize.Text(*text)
		if t == "" {
			return nil, apierr.Validation("text", "this field is required")
		}
		if err := cs.commentRepo.UpdateFields(dbc, c.ID, map[string]interface{}{"text": t}); err != nil {
			return nil, fmt.Errorf("update comment: %w", err)
		}
	}
	return cs.Get(dbc, titleID, reviewID, commentID)
}

func (cs *commentService) Delete(dbc dbctx.Context, titleID, reviewID, commentID uint) error {
	c, err := cs.Get(dbc, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if _, err := requireAuthorOrStaff(dbc.Ctx, c.AuthorID); err != nil {
		return err
	}
	if err := cs.commentRepo.DeleteByID(dbc, c.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
