package catalog

import (
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/yamdb-backend/internal/data/repos/scopes"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/platform/dbctx"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
	"github.com/yungbote/yamdb-backend/internal/platform/pagination"
)

// TitleFilter narrows title lists. Zero values are ignored.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
}

type TitleRepo interface {
	Create(dbc dbctx.Context, t *types.Title, genreIDs []uint) error
	GetByID(dbc dbctx.Context, id uint) (*types.TitleWithRating, error)
	Exists(dbc dbctx.Context, id uint) (bool, error)
	List(dbc dbctx.Context, filter TitleFilter, page pagination.Page) ([]*types.TitleWithRating, int64, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	ReplaceGenres(dbc dbctx.Context, id uint, genreIDs []uint) error
	DeleteByID(dbc dbctx.Context, id uint) error
}

type titleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTitleRepo(db *gorm.DB, baseLog *logger.Logger) TitleRepo {
	return &titleRepo{db: db, log: baseLog.With("repo", "TitleRepo")}
}

func (r *titleRepo) Create(dbc dbctx.Context, t *types.Title, genreIDs []uint) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(t).Error; err != nil {
			return err
		}
		return insertTitleGenres(tx, t.ID, genreIDs)
	})
}

func insertTitleGenres(tx *gorm.DB, titleID uint, genreIDs []uint) error {
	if len(genreIDs) == 0 {
		return nil
	}
	rows := make([]types.TitleGenre, 0, len(genreIDs))
	for _, gid := range genreIDs {
		rows = append(rows, types.TitleGenre{TitleID: titleID, GenreID: gid})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *titleRepo) GetByID(dbc dbctx.Context, id uint) (*types.TitleWithRating, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == 0 {
		return nil, nil
	}
	titles, err := r.loadTitles(transaction.WithContext(dbc.Ctx), []uint{id})
	if err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return nil, nil
	}

	var avg struct{ AvgScore *float64 }
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Review{}).
		Select("AVG(CAST(score AS FLOAT)) AS avg_score").
		Where("title_id = ?", id).
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	return &types.TitleWithRating{Title: *titles[0], Rating: roundRating(avg.AvgScore)}, nil
}

func (r *titleRepo) Exists(dbc dbctx.Context, id uint) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Title{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type ratingRow struct {
	ID       uint
	AvgScore *float64
}

// List pages title ids ordered by rating (unrated last) then name, and
// hydrates category and genres for that page only.
func (r *titleRepo) List(dbc dbctx.Context, filter TitleFilter, page pagination.Page) ([]*types.TitleWithRating, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	db := transaction.WithContext(dbc.Ctx)

	var total int64
	if err := db.Model(&types.Title{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ranked []ratingRow
	if err := db.Model(&types.Title{}).
		Select("titles.id AS id, AVG(CAST(reviews.score AS FLOAT)) AS avg_score").
		Joins("LEFT JOIN reviews ON reviews.title_id = titles.id").
		Scopes(filter.scope).
		Group("titles.id, titles.name").
		Order("AVG(CAST(reviews.score AS FLOAT)) IS NULL").
		Order("AVG(CAST(reviews.score AS FLOAT)) DESC").
		Order("titles.name ASC").
		Order("titles.id ASC").
		Scopes(scopes.Page(page)).
		Scan(&ranked).Error; err != nil {
		return nil, 0, err
	}
	if len(ranked) == 0 {
		return []*types.TitleWithRating{}, total, nil
	}

	ids := make([]uint, 0, len(ranked))
	for _, row := range ranked {
		ids = append(ids, row.ID)
	}
	titles, err := r.loadTitles(db, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[uint]*types.Title, len(titles))
	for _, t := range titles {
		byID[t.ID] = t
	}

	out := make([]*types.TitleWithRating, 0, len(ranked))
	for _, row := range ranked {
		t, ok := byID[row.ID]
		if !ok {
			continue
		}
		out = append(out, &types.TitleWithRating{Title: *t, Rating: roundRating(row.AvgScore)})
	}
	return out, total, nil
}

func (f TitleFilter) scope(db *gorm.DB) *gorm.DB {
	if f.CategorySlug != "" {
		db = db.Where("titles.category_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Model(&types.Category{}).Select("id").Where("slug = ?", f.CategorySlug))
	}
	if f.GenreSlug != "" {
		db = db.Where("titles.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Table("title_genre").
				Select("title_genre.title_id").
				Joins("JOIN genres ON genres.id = title_genre.genre_id").
				Where("genres.slug = ?", f.GenreSlug))
	}
	if f.Year != 0 {
		db = db.Where("titles.year = ?", f.Year)
	}
	return scopes.Contains("titles.name", f.Name)(db)
}

func (r *titleRepo) loadTitles(db *gorm.DB, ids []uint) ([]*types.Title, error) {
	var out []*types.Title
	err := db.
		Preload("Category").
		Preload("Genres", func(q *gorm.DB) *gorm.DB { return q.Order("genres.name ASC") }).
		Where("id IN ?", ids).
		Find(&out).Error
	return out, err
}

func roundRating(avg *float64) *int {
	if avg == nil {
		return nil
	}
	v := int(math.Round(*avg))
	return &v
}

func (r *titleRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Title{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *titleRepo) ReplaceGenres(dbc dbctx.Context, id uint, genreIDs []uint) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("title_id = ?", id).Delete(&types.TitleGenre{}).Error; err != nil {
			return err
		}
		return insertTitleGenres(tx, id, genreIDs)
	})
}

// DeleteByID removes the title, its genre links, reviews and their comments.
func (r *titleRepo) DeleteByID(dbc dbctx.Context, id uint) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		reviewIDs := tx.Model(&types.Review{}).Select("id").Where("title_id = ?", id)
		if err := tx.Where("review_id IN (?)", reviewIDs).Delete(&types.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", id).Delete(&types.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", id).Delete(&types.TitleGenre{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&types.Title{}).Error
	})
}
