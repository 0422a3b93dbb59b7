package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/data/repos/testutil"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/platform/dbctx"
	"github.com/yungbote/yamdb-backend/internal/platform/pagination"
)

func TestCategoryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewCategoryRepo(db, testutil.Logger(t))

	require.NoError(t, repo.Create(dbc, &types.Category{Name: "Movies", Slug: "movie"}))
	require.NoError(t, repo.Create(dbc, &types.Category{Name: "Books", Slug: "book"}))
	err := tx.Transaction(func(sp *gorm.DB) error {
		return repo.Create(dbctx.Context{Ctx: dbc.Ctx, Tx: sp}, &types.Category{Name: "Films", Slug: "movie"})
	})
	assert.Error(t, err)

	list, total, err := repo.List(dbc, "", pagination.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "Books", list[0].Name)

	list, total, err = repo.List(dbc, "mov", pagination.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "movie", list[0].Slug)

	movie, err := repo.GetBySlug(dbc, "movie")
	require.NoError(t, err)
	require.NotNil(t, movie)
	title := testutil.SeedTitle(t, tx, "Alien", 1979, movie)

	ok, err := repo.DeleteBySlug(dbc, "movie")
	require.NoError(t, err)
	assert.True(t, ok)

	var reloaded types.Title
	require.NoError(t, tx.First(&reloaded, title.ID).Error)
	assert.Nil(t, reloaded.CategoryID)

	ok, err = repo.DeleteBySlug(dbc, "movie")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenreRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewGenreRepo(db, testutil.Logger(t))

	drama := testutil.SeedGenre(t, tx, "Drama", "drama")
	testutil.SeedGenre(t, tx, "Comedy", "comedy")
	title := testutil.SeedTitle(t, tx, "Fargo", 1996, nil, drama)

	found, err := repo.GetBySlugs(dbc, []string{"drama", "comedy", "missing"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "Comedy", found[0].Name)

	ok, err := repo.DeleteBySlug(dbc, "drama")
	require.NoError(t, err)
	assert.True(t, ok)

	var links int64
	require.NoError(t, tx.Model(&types.TitleGenre{}).Where("title_id = ?", title.ID).Count(&links).Error)
	assert.Zero(t, links)

	var titles int64
	require.NoError(t, tx.Model(&types.Title{}).Count(&titles).Error)
	assert.EqualValues(t, 1, titles)
}

func TestTitleRepoListRatingAndFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewTitleRepo(db, testutil.Logger(t))

	movie := testutil.SeedCategory(t, tx, "Movie", "movie")
	book := testutil.SeedCategory(t, tx, "Book", "book")
	drama := testutil.SeedGenre(t, tx, "Drama", "drama")
	scifi := testutil.SeedGenre(t, tx, "Sci-Fi", "sci-fi")

	unrated := testutil.SeedTitle(t, tx, "Aardvark", 2000, book, drama)
	low := testutil.SeedTitle(t, tx, "Blade Runner", 1982, movie, scifi, drama)
	high := testutil.SeedTitle(t, tx, "Casablanca", 1942, movie, drama)

	a := testutil.SeedUser(t, tx, "a", types.RoleUser)
	b := testutil.SeedUser(t, tx, "b", types.RoleUser)
	testutil.SeedReview(t, tx, low, a, 6)
	testutil.SeedReview(t, tx, low, b, 7)
	testutil.SeedReview(t, tx, high, a, 9)

	all, total, err := repo.List(dbc, TitleFilter{}, pagination.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, high.ID, all[0].ID)
	assert.Equal(t, low.ID, all[1].ID)
	assert.Equal(t, unrated.ID, all[2].ID)
	require.NotNil(t, all[0].Rating)
	assert.Equal(t, 9, *all[0].Rating)
	require.NotNil(t, all[1].Rating)
	assert.Equal(t, 7, *all[1].Rating) // 6.5 rounds half away from zero
	assert.Nil(t, all[2].Rating)
	require.NotNil(t, all[1].Category)
	assert.Equal(t, "movie", all[1].Category.Slug)
	require.Len(t, all[1].Genres, 2)
	assert.Equal(t, "Drama", all[1].Genres[0].Name)

	got, total, err := repo.List(dbc, TitleFilter{CategorySlug: "movie", GenreSlug: "sci-fi"}, pagination.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, low.ID, got[0].ID)

	got, _, err = repo.List(dbc, TitleFilter{Name: "BLANC"}, pagination.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, high.ID, got[0].ID)

	got, _, err = repo.List(dbc, TitleFilter{Year: 2000}, pagination.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, unrated.ID, got[0].ID)

	page, total, err := repo.List(dbc, TitleFilter{}, pagination.Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, low.ID, page[0].ID)
}

func TestTitleRepoCreateUpdateDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewTitleRepo(db, testutil.Logger(t))

	cat := testutil.SeedCategory(t, tx, "Music", "music")
	rock := testutil.SeedGenre(t, tx, "Rock", "rock")
	jazz := testutil.SeedGenre(t, tx, "Jazz", "jazz")

	title := &types.Title{Name: "Kind of Blue", Year: 1959, CategoryID: &cat.ID}
	require.NoError(t, repo.Create(dbc, title, []uint{jazz.ID}))
	require.NotZero(t, title.ID)

	got, err := repo.GetByID(dbc, title.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Rating)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, "jazz", got.Genres[0].Slug)

	require.NoError(t, repo.UpdateFields(dbc, title.ID, map[string]interface{}{"description": "modal"}))
	require.NoError(t, repo.ReplaceGenres(dbc, title.ID, []uint{rock.ID, jazz.ID}))
	got, err = repo.GetByID(dbc, title.ID)
	require.NoError(t, err)
	assert.Equal(t, "modal", got.Description)
	assert.Len(t, got.Genres, 2)

	u := testutil.SeedUser(t, tx, "miles", types.RoleUser)
	review := testutil.SeedReview(t, tx, &got.Title, u, 10)
	testutil.SeedComment(t, tx, review, u, "so what")

	got, err = repo.GetByID(dbc, title.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 10, *got.Rating)

	require.NoError(t, repo.DeleteByID(dbc, title.ID))
	exists, err := repo.Exists(dbc, title.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	var reviews, comments, links int64
	require.NoError(t, tx.Model(&types.Review{}).Count(&reviews).Error)
	require.NoError(t, tx.Model(&types.Comment{}).Count(&comments).Error)
	require.NoError(t, tx.Model(&types.TitleGenre{}).Count(&links).Error)
	assert.Zero(t, reviews)
	assert.Zero(t, comments)
	assert.Zero(t, links)

	missing, err := repo.GetByID(dbc, title.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
