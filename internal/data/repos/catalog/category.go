package catalog

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/data/repos/scopes"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/platform/dbctx"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
	"github.com/yungbote/yamdb-backend/internal/platform/pagination"
)

type CategoryRepo interface {
	Create(dbc dbctx.Context, c *types.Category) error
	GetBySlug(dbc dbctx.Context, slug string) (*types.Category, error)
	List(dbc dbctx.Context, search string, page pagination.Page) ([]*types.Category, int64, error)
	// DeleteBySlug reports false when no category matched.
	DeleteBySlug(dbc dbctx.Context, slug string) (bool, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) Create(dbc dbctx.Context, c *types.Category) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Create(c).Error
}

func (r *categoryRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Category, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if slug == "" {
		return nil, nil
	}
	var c types.Category
	err := transaction.WithContext(dbc.Ctx).Where("slug = ?", slug).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) List(dbc dbctx.Context, search string, page pagination.Page) ([]*types.Category, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	base := transaction.WithContext(dbc.Ctx).Model(&types.Category{}).Scopes(scopes.Contains("name", search))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.Category
	if err := base.Session(&gorm.Session{}).
		Order("name ASC").Order("id ASC").
		Scopes(scopes.Page(page)).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// DeleteBySlug detaches the category from its titles before removing it.
func (r *categoryRepo) DeleteBySlug(dbc dbctx.Context, slug string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	deleted := false
	err := transaction.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		var c types.Category
		err := tx.Where("slug = ?", slug).Take(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&types.Title{}).
			Where("category_id = ?", c.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&types.Category{}, c.ID).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}
