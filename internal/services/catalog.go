package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/data/repos"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/platform/apierr"
	"github.com/yungbote/yamdb-backend/internal/platform/dbctx"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
	"github.com/yungbote/yamdb-backend/internal/platform/pagination"
	"github.com/yungbote/yamdb-backend/internal/platform/validation"
)

// CatalogService manages categories and genres. Both are flat name/slug
// pairs with identical rules.
type CatalogService interface {
	ListCategories(dbc dbctx.Context, search string, page pagination.Page) ([]*types.Category, int64, error)
	CreateCategory(dbc dbctx.Context, name, slug string) (*types.Category, error)
	DeleteCategory(dbc dbctx.Context, slug string) error

	ListGenres(dbc dbctx.Context, search string, page pagination.Page) ([]*types.Genre, int64, error)
	CreateGenre(dbc dbctx.Context, name, slug string) (*types.Genre, error)
	DeleteGenre(dbc dbctx.Context, slug string) error
}

type catalogService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
	genreRepo    repos.GenreRepo
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, categoryRepo repos.CategoryRepo, genreRepo repos.GenreRepo) CatalogService {
	return &catalogService{
		db:           db,
		log:          log.With("service", "CatalogService"),
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

type nameSlugFields struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

func validateNameSlug(name, slug string) (string, string, error) {
	in := nameSlugFields{Name: strings.TrimSpace(name), Slug: strings.TrimSpace(slug)}
	if fields := validation.Check(in); len(fields) > 0 {
		return "", "", apierr.Invalid("invalid name or slug", fields)
	}
	return in.Name, in.Slug, nil
}

func slugTaken(slug string) error {
	e := apierr.Validation("slug", fmt.Sprintf("slug %q already exists", slug))
	return e.WithCode("slug_exists")
}

func (cs *catalogService) ListCategories(dbc dbctx.Context, search string, page pagination.Page) ([]*types.Category, int64, error) {
	return cs.categoryRepo.List(dbc, search, page)
}

func (cs *catalogService) CreateCategory(dbc dbctx.Context, name, slug string) (*types.Category, error) {
	if _, err := requireAdmin(dbc.Ctx); err != nil {
		return nil, err
	}
	name, slug, err := validateNameSlug(name, slug)
	if err != nil {
		return nil, err
	}
	existing, err := cs.categoryRepo.GetBySlug(dbc, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, slugTaken(slug)
	}
	c := &types.Category{Name: name, Slug: slug}
	if err := cs.categoryRepo.Create(dbc, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, slugTaken(slug)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (cs *catalogService) DeleteCategory(dbc dbctx.Context, slug string) error {
	if _, err := requireAdmin(dbc.Ctx); err != nil {
		return err
	}
	ok, err := cs.categoryRepo.DeleteBySlug(dbc, strings.TrimSpace(slug))
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if !ok {
		return apierr.NotFound("category")
	}
	return nil
}

func (cs *catalogService) ListGenres(dbc dbctx.Context, search string, page pagination.Page) ([]*types.Genre, int64, error) {
	return cs.genreRepo.List(dbc, search, page)
}

func (cs *catalogService) CreateGenre(dbc dbctx.Context, name, slug string) (*types.Genre, error) {
	if _, err := requireAdmin(dbc.Ctx); err != nil {
		return nil, err
	}
	name, slug, err := validateNameSlug(name, slug)
	if err != nil {
		return nil, err
	}
	existing, err := cs.genreRepo.GetBySlug(dbc, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, slugTaken(slug)
	}
	g := &types.Genre{Name: name, Slug: slug}
	if err := cs.genreRepo.Create(dbc, g); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, slugTaken(slug)
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}
	return g, nil
}

func (cs *catalogService) DeleteGenre(dbc dbctx.Context, slug string) error {
	if _, err := requireAdmin(dbc.Ctx); err != nil {
		return err
	}
	ok, err := cs.genreRepo.DeleteBySlug(dbc, strings.TrimSpace(slug))
	if err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	if !ok {
		return apierr.NotFound("genre")
	}
	return nil
}
