package reviews

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/data/repos/scopes"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/platform/dbctx"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
	"github.com/yungbote/yamdb-backend/internal/platform/pagination"
)

type ReviewRepo interface {
	Create(dbc dbctx.Context, r *types.Review) error
	GetByID(dbc dbctx.Context, titleID, reviewID uint) (*types.Review, error)
	List(dbc dbctx.Context, titleID uint, page pagination.Page) ([]*types.Review, int64, error)
	ExistsForAuthor(dbc dbctx.Context, titleID, authorID uint) (bool, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	DeleteByID(dbc dbctx.Context, id uint) error
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return &reviewRepo{db: db, log: baseLog.With("repo", "ReviewRepo")}
}

func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("reviews.*, users.username AS author").
		Joins("LEFT JOIN users ON users.id = reviews.author_id")
}

func (r *reviewRepo) Create(dbc dbctx.Context, rv *types.Review) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Create(rv).Error
}

func (r *reviewRepo) GetByID(dbc dbctx.Context, titleID, reviewID uint) (*types.Review, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var rv types.Review
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.Review{}).
		Scopes(withAuthor).
		Where("reviews.id = ? AND reviews.title_id = ?", reviewID, titleID).
		Take(&rv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepo) List(dbc dbctx.Context, titleID uint, page pagination.Page) ([]*types.Review, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	db := transaction.WithContext(dbc.Ctx)

	var total int64
	if err := db.Model(&types.Review{}).Where("title_id = ?", titleID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.Review
	if err := db.Model(&types.Review{}).
		Scopes(withAuthor, scopes.Page(page)).
		Where("reviews.title_id = ?", titleID).
		Order("reviews.pub_date ASC").Order("reviews.id ASC").
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *reviewRepo) ExistsForAuthor(dbc dbctx.Context, titleID, authorID uint) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reviewRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Review{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// DeleteByID removes the review and its comments.
func (r *reviewRepo) DeleteByID(dbc dbctx.Context, id uint) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&types.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&types.Review{}).Error
	})
}
