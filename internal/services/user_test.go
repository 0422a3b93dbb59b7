package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/platform/pagination"
)

func strp(s string) *string { return &s }

func TestUpdateMeIgnoresRole(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "hank", types.RoleUser)

	got, err := f.users.UpdateMe(as(u), UserPatch{
		Bio:       strp("<b>hi</b> there"),
		FirstName: strp("Hank"),
		Role:      strp("admin"),
	})
	require.NoError(t, err)
	assert.Equal(t, "hi there", got.Bio)
	assert.Equal(t, "Hank", got.FirstName)
	assert.Equal(t, types.RoleUser, got.Role)

	me, err := f.users.GetMe(as(u))
	require.NoError(t, err)
	assert.Equal(t, "Hank", me.FirstName)

	_, err = f.users.GetMe(as(nil))
	requireAPIError(t, err, http.StatusUnauthorized, "unauthorized")
}

func TestUpdateMeUniqueness(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "ivy", types.RoleUser)
	f.seedUser(t, "jack", types.RoleUser)

	_, err := f.users.UpdateMe(as(u), UserPatch{Username: strp("jack")})
	requireAPIError(t, err, http.StatusBadRequest, "username_taken")

	_, err = f.users.UpdateMe(as(u), UserPatch{Email: strp("jack@example.com")})
	requireAPIError(t, err, http.StatusBadRequest, "email_taken")

	_, err = f.users.UpdateMe(as(u), UserPatch{Username: strp("me")})
	requireAPIError(t, err, http.StatusBadRequest, "validation_error")

	got, err := f.users.UpdateMe(as(u), UserPatch{Username: strp("ivy")})
	require.NoError(t, err)
	assert.Equal(t, "ivy", got.Username)
}

func TestAdminUserManagement(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin", types.RoleAdmin)
	plain := f.seedUser(t, "kate", types.RoleUser)

	_, _, err := f.users.List(as(plain), "", pagination.Page{})
	requireAPIError(t, err, http.StatusForbidden, "forbidden")
	_, _, err = f.users.List(as(nil), "", pagination.Page{})
	requireAPIError(t, err, http.StatusUnauthorized, "unauthorized")

	created, err := f.users.Create(as(admin), UserInput{Username: "leo", Email: "leo@example.com", Role: "moderator"})
	require.NoError(t, err)
	assert.Equal(t, types.RoleModerator, created.Role)

	_, err = f.users.Create(as(admin), UserInput{Username: "leo", Email: "leo2@example.com"})
	requireAPIError(t, err, http.StatusBadRequest, "username_taken")
	_, err = f.users.Create(as(admin), UserInput{Username: "mia", Email: "mia@example.com", Role: "owner"})
	requireAPIError(t, err, http.StatusBadRequest, "validation_error")

	list, total, err := f.users.List(as(admin), "le", pagination.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "leo", list[0].Username)

	updated, err := f.users.Update(as(admin), "kate", UserPatch{Role: strp("admin")})
	require.NoError(t, err)
	assert.Equal(t, types.RoleAdmin, updated.Role)

	got, err := f.users.Get(as(admin), "leo")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	require.NoError(t, f.users.Delete(as(admin), "leo"))
	_, err = f.users.Get(as(admin), "leo")
	requireAPIError(t, err, http.StatusNotFound, "not_found")
}

func TestAdminUpdateRejectsBlankRole(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin", types.RoleAdmin)
	f.seedUser(t, "nina", types.RoleModerator)

	_, err := f.users.Update(as(admin), "nina", UserPatch{Role: strp("  ")})
	e := requireAPIError(t, err, http.StatusBadRequest, "validation_error")
	assert.Contains(t, e.Fields, "role")

	got, err := f.users.Get(as(admin), "nina")
	require.NoError(t, err)
	assert.Equal(t, types.RoleModerator, got.Role)

	created, err := f.users.Create(as(admin), UserInput{Username: "omar", Email: "omar@example.com"})
	require.NoError(t, err)
	assert.Equal(t, types.RoleUser, created.Role)

	me, err := f.users.UpdateMe(as(got), UserPatch{Role: strp(""), Bio: strp("hi")})
	require.NoError(t, err)
	assert.Equal(t, types.RoleModerator, me.Role)
}

func TestSuperuserCountsAsAdmin(t *testing.T) {
	f := newFixture(t)
	root := f.seedUser(t, "root", types.RoleUser)
	root.IsSuperuser = true

	_, _, err := f.users.List(as(root), "", pagination.Page{})
	require.NoError(t, err)
}
