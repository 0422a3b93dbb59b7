package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/platform/pagination"
)

func TestCatalogCategories(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin", types.RoleAdmin)
	mod := f.seedUser(t, "mod", types.RoleModerator)

	_, err := f.catalog.CreateCategory(as(mod), "Films", "films")
	requireAPIError(t, err, http.StatusForbidden, "forbidden")

	c, err := f.catalog.CreateCategory(as(admin), " Films ", "films")
	require.NoError(t, err)
	assert.Equal(t, "Films", c.Name)

	_, err = f.catalog.CreateCategory(as(admin), "Movies", "films")
	requireAPIError(t, err, http.StatusBadRequest, "slug_exists")

	_, err = f.catalog.CreateCategory(as(admin), "", "bad slug")
	e := requireAPIError(t, err, http.StatusBadRequest, "validation_error")
	assert.Contains(t, e.Fields, "name")
	assert.Contains(t, e.Fields, "slug")

	list, total, err := f.catalog.ListCategories(as(nil), "fil", pagination.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "films", list[0].Slug)

	require.NoError(t, f.catalog.DeleteCategory(as(admin), "films"))
	err = f.catalog.DeleteCategory(as(admin), "films")
	requireAPIError(t, err, http.StatusNotFound, "not_found")
}

func TestCatalogGenres(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin", types.RoleAdmin)

	_, err := f.catalog.CreateGenre(as(nil), "Rock", "rock")
	requireAPIError(t, err, http.StatusUnauthorized, "unauthorized")

	_, err = f.catalog.CreateGenre(as(admin), "Rock", "rock")
	require.NoError(t, err)
	_, err = f.catalog.CreateGenre(as(admin), "Rock again", "rock")
	requireAPIError(t, err, http.StatusBadRequest, "slug_exists")

	list, total, err := f.catalog.ListGenres(as(nil), "", pagination.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Rock", list[0].Name)

	require.NoError(t, f.catalog.DeleteGenre(as(admin), "rock"))
	requireAPIError(t, f.catalog.DeleteGenre(as(admin), "rock"), http.StatusNotFound, "not_found")
}
