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

type GenreRepo interface {
	Create(dbc dbctx.Context, g *types.Genre) error
	GetBySlug(dbc dbctx.Context, slug string) (*types.Genre, error)
	GetBySlugs(dbc dbctx.Context, slugs []string) ([]*types.Genre, error)
	List(dbc dbctx.Context, search string, page pagination.Page) ([]*types.Genre, int64, error)
	DeleteBySlug(dbc dbctx.Context, slug string) (bool, error)
}

type genreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenreRepo(db *gorm.DB, baseLog *logger.Logger) GenreRepo {
	return &genreRepo{db: db, log: baseLog.With("repo", "GenreRepo")}
}

func (r *genreRepo) Create(dbc dbctx.Context, g *types.Genre) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Create(g).Error
}

func (r *genreRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Genre, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if slug == "" {
		return nil, nil
	}
	var g types.Genre
	err := transaction.WithContext(dbc.Ctx).Where("slug = ?", slug).Take(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetBySlugs returns the genres that exist; callers compare lengths to detect unknown slugs.
func (r *genreRepo) GetBySlugs(dbc dbctx.Context, slugs []string) ([]*types.Genre, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Genre
	if len(slugs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("slug IN ?", slugs).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *genreRepo) List(dbc dbctx.Context, search string, page pagination.Page) ([]*types.Genre, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	base := transaction.WithContext(dbc.Ctx).Model(&types.Genre{}).Scopes(scopes.Contains("name", search))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.Genre
	if err := base.Session(&gorm.Session{}).
		Order("name ASC").Order("id ASC").
		Scopes(scopes.Page(page)).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// DeleteBySlug drops the genre and its title links; titles are kept.
func (r *genreRepo) DeleteBySlug(dbc dbctx.Context, slug string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	deleted := false
	err := transaction.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		var g types.Genre
		err := tx.Where("slug = ?", slug).Take(&g).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("genre_id = ?", g.ID).Delete(&types.TitleGenre{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&types.Genre{}, g.ID).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}
