package validation

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupBody struct {
	Username string `json:"username" validate:"required,max=150,username,not_me"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

type titleBody struct {
	Slug string `json:"slug" validate:"required,slug"`
	Year int    `json:"year" validate:"past_year"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterOn(v))
	return v
}

func TestUsernameRules(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(signupBody{Username: "jane.doe+1@x", Email: "jane@example.com"}))

	fields := Fields(v.Struct(signupBody{Username: "ME", Email: "jane@example.com"}))
	assert.Contains(t, fields, "username")

	fields = Fields(v.Struct(signupBody{Username: "bad name!", Email: "nope"}))
	assert.Equal(t, "letters, digits and @/./+/-/_ only", fields["username"])
	assert.Equal(t, "enter a valid email address", fields["email"])
}

func TestSlugAndYear(t *testing.T) {
	v := newValidator(t)
	prev := Now
	Now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { Now = prev })

	assert.NoError(t, v.Struct(titleBody{Slug: "sci-fi_2", Year: 2024}))
	fields := Fields(v.Struct(titleBody{Slug: "sci fi", Year: 2025}))
	assert.Equal(t, "letters, digits, hyphens and underscores only", fields["slug"])
	assert.Equal(t, "year cannot be in the future", fields["year"])
}

func TestFieldsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, Fields(assert.AnError))
	assert.Nil(t, Fields(nil))
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsReservedUsername(" Me "))
	assert.False(t, IsReservedUsername("meow"))
	assert.True(t, ValidSlug("drama"))
	assert.False(t, ValidSlug("drama!"))
}

func TestCheckReadsBindingTags(t *testing.T) {
	type body struct {
		Username string `json:"username" binding:"required,max=150,username,not_me"`
		Year     *int   `json:"year" binding:"required,gte=0,past_year"`
	}
	year := 1999
	assert.Nil(t, Check(body{Username: "alice", Year: &year}))

	fields := Check(body{Username: "me"})
	assert.Equal(t, `"me" is not a valid username`, fields["username"])
	assert.Equal(t, "this field is required", fields["year"])
}

func TestVar(t *testing.T) {
	assert.Empty(t, Var("alice@example.com", EmailRules))
	assert.Equal(t, "enter a valid email address", Var("alice", EmailRules))
	assert.Equal(t, "this field is required", Var("", UsernameRules))
	assert.Equal(t, "ensure this value is greater than or equal to 0", Var(-1, YearRules))
	assert.Empty(t, Var(0, YearRules))
	assert.Equal(t, "year cannot be in the future", Var(Now().Year()+1, YearRules))
	assert.Equal(t, "letters, digits, hyphens and underscores only", Var("a b", SlugRules))
}
