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

type CommentRepo interface {
	Create(dbc dbctx.Context, c *types.Comment) error
	GetByID(dbc dbctx.Context, reviewID, commentID uint) (*types.Comment, error)
	List(dbc dbctx.Context, reviewID uint, page pagination.Page) ([]*types.Comment, int64, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	DeleteByID(dbc dbctx.Context, id uint) error
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func commentWithAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("comments.*, users.username AS author").
		Joins("LEFT JOIN users ON users.id = comments.author_id")
}

func (r *commentRepo) Create(dbc dbctx.Context, c *types.Comment) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Create(c).Error
}

func (r *commentRepo) GetByID(dbc dbctx.Context, reviewID, commentID uint) (*types.Comment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var c types.Comment
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.Comment{}).
		Scopes(commentWithAuthor).
		Where("comments.id = ? AND comments.review_id = ?", commentID, reviewID).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepo) List(dbc dbctx.Context, reviewID uint, page pagination.Page) ([]*types.Comment, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	db := transaction.WithContext(dbc.Ctx)

	var total int64
	if err := db.Model(&types.Comment{}).Where("review_id = ?", reviewID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.Comment
	if err := db.Model(&types.Comment{}).
		Scopes(commentWithAuthor, scopes.Page(page)).
		Where("comments.review_id = ?", reviewID).
		Order("comments.pub_date ASC").Order("comments.id ASC").
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *commentRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Comment{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *commentRepo) DeleteByID(dbc dbctx.Context, id uint) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Where("id = ?", id).Delete(&types.Comment{}).Error
}
