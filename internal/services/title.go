package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/data/repos"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/platform/apierr"
	"github.com/yungbote/yamdb-backend/internal/platform/dbctx"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
	"github.com/yungbote/yamdb-backend/internal/platform/pagination"
	"github.com/yungbote/yamdb-backend/internal/platform/sanitize"
	"github.com/yungbote/yamdb-backend/internal/platform/validation"
)

type TitleInput struct {
	Name        string
	Year        *int
	Description string
	Category    string
	Genre       []string
}

type TitlePatch struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genre       *[]string
}

type TitleService interface {
	List(dbc dbctx.Context, filter repos.TitleFilter, page pagination.Page) ([]*types.TitleWithRating, int64, error)
	Get(dbc dbctx.Context, id uint) (*types.TitleWithRating, error)
	Create(dbc dbctx.Context, in TitleInput) (*types.TitleWithRating, error)
	Update(dbc dbctx.Context, id uint, patch TitlePatch) (*types.TitleWithRating, error)
	Delete(dbc dbctx.Context, id uint) error
}

type titleService struct {
	db           *gorm.DB
	log          *logger.Logger
	titleRepo    repos.TitleRepo
	categoryRepo repos.CategoryRepo
	genreRepo    repos.GenreRepo
}

func NewTitleService(db *gorm.DB, log *logger.Logger, titleRepo repos.TitleRepo, categoryRepo repos.CategoryRepo, genreRepo repos.GenreRepo) TitleService {
	return &titleService{
		db:           db,
		log:          log.With("service", "TitleService"),
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

func (ts *titleService) List(dbc dbctx.Context, filter repos.TitleFilter, page pagination.Page) ([]*types.TitleWithRating, int64, error) {
	filter.CategorySlug = strings.TrimSpace(filter.CategorySlug)
	filter.GenreSlug = strings.TrimSpace(filter.GenreSlug)
	return ts.titleRepo.List(dbc, filter, page)
}

func (ts *titleService) Get(dbc dbctx.Context, id uint) (*types.TitleWithRating, error) {
	t, err := ts.titleRepo.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apierr.NotFound("title")
	}
	return t, nil
}

func (ts *titleService) Create(dbc dbctx.Context, in TitleInput) (*types.TitleWithRating, error) {
	if _, err := requireAdmin(dbc.Ctx); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	fields := map[string]string{}
	if msg := titleNameProblem(name); msg != "" {
		fields["name"] = msg
	}
	if in.Year == nil {
		fields["year"] = "this field is required"
	} else if msg := yearProblem(*in.Year); msg != "" {
		fields["year"] = msg
	}
	if strings.TrimSpace(in.Category) == "" {
		fields["category"] = "this field is required"
	}
	if len(in.Genre) == 0 {
		fields["genre"] = "this list may not be empty"
	}
	if len(fields) > 0 {
		return nil, invalidTitle(fields)
	}

	var id uint
	err := dbc.DB(ts.db).Transaction(func(tx *gorm.DB) error {
		txc := dbc.WithTx(tx)
		category, err := ts.resolveCategory(txc, in.Category)
		if err != nil {
			return err
		}
		genreIDs, err := ts.resolveGenres(txc, in.Genre)
		if err != nil {
			return err
		}
		t := &types.Title{
			Name:        name,
			Year:        *in.Year,
			Description: sanitize.Text(in.Description),
			CategoryID:  &category.ID,
		}
		if err := ts.titleRepo.Create(txc, t, genreIDs); err != nil {
			return fmt.Errorf("create title: %w", err)
		}
		id = t.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	ts.log.Info("Title created", "title_id", id)
	return ts.Get(dbc, id)
}

func (ts *titleService) Update(dbc dbctx.Context, id uint, patch TitlePatch) (*types.TitleWithRating, error) {
	if _, err := requireAdmin(dbc.Ctx); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	fields := map[string]string{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if msg := titleNameProblem(name); msg != "" {
			fields["name"] = msg
		}
		updates["name"] = name
	}
	if patch.Year != nil {
		if msg := yearProblem(*patch.Year); msg != "" {
			fields["year"] = msg
		}
		updates["year"] = *patch.Year
	}
	if patch.Description != nil {
		updates["description"] = sanitize.Text(*patch.Description)
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		fields["category"] = "this field may not be blank"
	}
	if patch.Genre != nil && len(*patch.Genre) == 0 {
		fields["genre"] = "this list may not be empty"
	}
	if len(fields) > 0 {
		return nil, invalidTitle(fields)
	}

	err := dbc.DB(ts.db).Transaction(func(tx *gorm.DB) error {
		txc := dbc.WithTx(tx)
		exists, err := ts.titleRepo.Exists(txc, id)
		if err != nil {
			return err
		}
		if !exists {
			return apierr.NotFound("title")
		}
		if patch.Category != nil {
			category, err := ts.resolveCategory(txc, *patch.Category)
			if err != nil {
				return err
			}
			updates["category_id"] = category.ID
		}
		if err := ts.titleRepo.UpdateFields(txc, id, updates); err != nil {
			return fmt.Errorf("update title: %w", err)
		}
		if patch.Genre != nil {
			genreIDs, err := ts.resolveGenres(txc, *patch.Genre)
			if err != nil {
				return err
			}
			if err := ts.titleRepo.ReplaceGenres(txc, id, genreIDs); err != nil {
				return fmt.Errorf("replace genres: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ts.Get(dbc, id)
}

func (ts *titleService) Delete(dbc dbctx.Context, id uint) error {
	if _, err := requireAdmin(dbc.Ctx); err != nil {
		return err
	}
	exists, err := ts.titleRepo.Exists(dbc, id)
	if err != nil {
		return err
	}
	if !exists {
		return apierr.NotFound("title")
	}
	if err := ts.titleRepo.DeleteByID(dbc, id); err != nil {
		return fmt.Errorf("delete title: %w", err)
	}
	ts.log.Info("Title deleted", "title_id", id)
	return nil
}

func (ts *titleService) resolveCategory(dbc dbctx.Context, slug string) (*types.Category, error) {
	slug = strings.TrimSpace(slug)
	c, err := ts.categoryRepo.GetBySlug(dbc, slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apierr.Validation("category", fmt.Sprintf("category %q does not exist", slug))
	}
	return c, nil
}

// resolveGenres maps slugs to ids, rejecting any slug that does not exist.
func (ts *titleService) resolveGenres(dbc dbctx.Context, slugs []string) ([]uint, error) {
	seen := make(map[string]struct{}, len(slugs))
	uniq := make([]string, 0, len(slugs))
	for _, s := range slugs {
		s = strings.TrimSpace(s)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		uniq = append(uniq, s)
	}
	genres, err := ts.genreRepo.GetBySlugs(dbc, uniq)
	if err != nil {
		return nil, err
	}
	found := make(map[string]uint, len(genres))
	for _, g := range genres {
		found[g.Slug] = g.ID
	}
	ids := make([]uint, 0, len(uniq))
	for _, s := range uniq {
		id, ok := found[s]
		if !ok {
			return nil, apierr.Validation("genre", fmt.Sprintf("genre %q does not exist", s))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func titleNameProblem(name string) string {
	switch {
	case name == "":
		return "this field is required"
	case len(name) > 256:
		return "ensure this field has no more than 256 characters"
	}
	return ""
}

func yearProblem(year int) string {
	return validation.Var(year, validation.YearRules)
}

func invalidTitle(fields map[string]string) error {
	return apierr.Invalid("invalid title data", fields)
}
