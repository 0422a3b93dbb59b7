package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/data/repos"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/domain/reviews"
	"github.com/yungbote/yamdb-backend/internal/observability"
	"github.com/yungbote/yamdb-backend/internal/platform/apierr"
	"github.com/yungbote/yamdb-backend/internal/platform/dbctx"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
	"github.com/yungbote/yamdb-backend/internal/platform/pagination"
	"github.com/yungbote/yamdb-backend/internal/platform/sanitize"
)

type ReviewPatch struct {
	Text  *string
	Score *int
}

type ReviewService interface {
	List(dbc dbctx.Context, titleID uint, page pagination.Page) ([]*types.Review, int64, error)
	Get(dbc dbctx.Context, titleID, reviewID uint) (*types.Review, error)
	Create(dbc dbctx.Context, titleID uint, text string, score int) (*types.Review, error)
	Update(dbc dbctx.Context, titleID, reviewID uint, patch ReviewPatch) (*types.Review, error)
	Delete(dbc dbctx.Context, titleID, reviewID uint) error
}

type reviewService struct {
	db         *gorm.DB
	log        *logger.Logger
	titleRepo  repos.TitleRepo
	reviewRepo repos.ReviewRepo
	metrics    *observability.Metrics
	now        func() time.Time
}

func NewReviewService(db *gorm.DB, log *logger.Logger, titleRepo repos.TitleRepo, reviewRepo repos.ReviewRepo, metrics *observability.Metrics) ReviewService {
	return &reviewService{
		db:         db,
		log:        log.With("service", "ReviewService"),
		titleRepo:  titleRepo,
		reviewRepo: reviewRepo,
		metrics:    metrics,
		now:        time.Now,
	}
}

func (rs *reviewService) ensureTitle(dbc dbctx.Context, titleID uint) error {
	ok, err := rs.titleRepo.Exists(dbc, titleID)
	if err != nil {
		return err
	}
	if !ok {
		return apierr.NotFound("title")
	}
	return nil
}

func (rs *reviewService) List(dbc dbctx.Context, titleID uint, page pagination.Page) ([]*types.Review, int64, error) {
	if err := rs.ensureTitle(dbc, titleID); err != nil {
		return nil, 0, err
	}
	return rs.reviewRepo.List(dbc, titleID, page)
}

func (rs *reviewService) Get(dbc dbctx.Context, titleID, reviewID uint) (*types.Review, error) {
	if err := rs.ensureTitle(dbc, titleID); err != nil {
		return nil, err
	}
	r, err := rs.reviewRepo.GetByID(dbc, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apierr.NotFound("review")
	}
	return r, nil
}

func reviewExists() error {
	return apierr.BadRequest("review_exists", "you have already reviewed this title")
}

func (rs *reviewService) Create(dbc dbctx.Context, titleID uint, text string, score int) (*types.Review, error) {
	rd, err := requireAuth(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	text = sanitize.Text(text)
	if err := validateReview(&text, &score); err != nil {
		return nil, err
	}

	var id uint
	err = dbc.DB(rs.db).Transaction(func(tx *gorm.DB) error {
		txc := dbc.WithTx(tx)
		if err := rs.ensureTitle(txc, titleID); err != nil {
			return err
		}
		exists, err := rs.reviewRepo.ExistsForAuthor(txc, titleID, rd.UserID)
		if err != nil {
			return err
		}
		if exists {
			return reviewExists()
		}
		r := &types.Review{
			TitleID:  titleID,
			AuthorID: rd.UserID,
			Text:     text,
			Score:    score,
			PubDate:  rs.now().UTC(),
		}
		if err := rs.reviewRepo.Create(txc, r); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return reviewExists()
			}
			return fmt.Errorf("create review: %w", err)
		}
		id = r.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	rs.metrics.IncReviewsPosted()
	return rs.reviewRepo.GetByID(dbc, titleID, id)
}

func (rs *reviewService) Update(dbc dbctx.Context, titleID, reviewID uint, patch ReviewPatch) (*types.Review, error) {
	r, err := rs.Get(dbc, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if _, err := requireAuthorOrStaff(dbc.Ctx, r.AuthorID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if patch.Text != nil {
		t := sanitize.Text(*patch.Text)
		if err := validateReview(&t, nil); err != nil {
			return nil, err
		}
		updates["text"] = t
	}
	if patch.Score != nil {
		if err := validateReview(nil, patch.Score); err != nil {
			return nil, err
		}
		updates["score"] = *patch.Score
	}
	if err := rs.reviewRepo.UpdateFields(dbc, r.ID, updates); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return rs.Get(dbc, titleID, reviewID)
}

func (rs *reviewService) Delete(dbc dbctx.Context, titleID, reviewID uint) error {
	r, err := rs.Get(dbc, titleID, reviewID)
	if err != nil {
		return err
	}
	if _, err := requireAuthorOrStaff(dbc.Ctx, r.AuthorID); err != nil {
		return err
	}
	if err := rs.reviewRepo.DeleteByID(dbc, r.ID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// validateReview checks whichever of text and score is non-nil.
func validateReview(text *string, score *int) error {
	if text != nil && strings.TrimSpace(*text) == "" {
		return apierr.Validation("text", "this field is required")
	}
	if score != nil && !reviews.ValidScore(*score) {
		return apierr.Validation("score", fmt.Sprintf("score must be between %d and %d", reviews.MinScore, reviews.MaxScore))
	}
	return nil
}
