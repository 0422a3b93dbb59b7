package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/data/repos"
	"github.com/yungbote/yamdb-backend/internal/data/repos/testutil"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	httpH "github.com/yungbote/yamdb-backend/internal/http/handlers"
	httpMW "github.com/yungbote/yamdb-backend/internal/http/middleware"
	"github.com/yungbote/yamdb-backend/internal/observability"
	"github.com/yungbote/yamdb-backend/internal/platform/mail"
	"github.com/yungbote/yamdb-backend/internal/platform/throttle"
	"github.com/yungbote/yamdb-backend/internal/platform/validation"
	"github.com/yungbote/yamdb-backend/internal/services"
)

type apiFixture struct {
	db     *gorm.DB
	mail   *mail.Recorder
	router *gin.Engine
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.Register())
	db := testutil.DB(t)
	log := testutil.Logger(t)
	metrics := observability.NewMetrics()

	userRepo := repos.NewUserRepo(db, log)
	categoryRepo := repos.NewCategoryRepo(db, log)
	genreRepo := repos.NewGenreRepo(db, log)
	titleRepo := repos.NewTitleRepo(db, log)
	reviewRepo := repos.NewReviewRepo(db, log)
	commentRepo := repos.NewCommentRepo(db, log)

	rec := &mail.Recorder{}
	authService := services.NewAuthService(db, log, userRepo, rec, throttle.NewMemory(0, time.Minute), metrics, services.AuthConfig{
		JWTSecretKey: "router-secret",
		BcryptCost:   bcrypt.MinCost,
	})

	router := NewRouter(RouterConfig{
		Log:            log,
		Metrics:        metrics,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, authService),
		AuthHandler:    httpH.NewAuthHandler(authService),
		UserHandler:    httpH.NewUserHandler(services.NewUserService(db, log, userRepo)),
		CatalogHandler: httpH.NewCatalogHandler(services.NewCatalogService(db, log, categoryRepo, genreRepo)),
		TitleHandler:   httpH.NewTitleHandler(services.NewTitleService(db, log, titleRepo, categoryRepo, genreRepo)),
		ReviewHandler: httpH.NewReviewHandler(
			services.NewReviewService(db, log, titleRepo, reviewRepo, metrics),
			services.NewCommentService(db, log, reviewRepo, commentRepo),
		),
		HealthHandler: httpH.NewHealthHandler(db),
	})
	return &apiFixture{db: db, mail: rec, router: router}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

var codeRe = regexp.MustCompile(`confirmation code: (\S+)`)

// login runs the signup/token exchange and returns an access token.
func (f *apiFixture) login(t *testing.T, username, email string) string {
	t.Helper()
	res := f.do(t, http.MethodPost, "/api/v1/auth/signup/", "", gin.H{"email": email, "username": username})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	msg, ok := f.mail.Last(email)
	require.True(t, ok)
	m := codeRe.FindStringSubmatch(msg.Text)
	require.Len(t, m, 2)

	res = f.do(t, http.MethodPost, "/api/v1/auth/token", "", gin.H{"username": username, "confirmation_code": m[1]})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func (f *apiFixture) admin(t *testing.T) string {
	t.Helper()
	testutil.SeedUser(t, f.db, "root", types.RoleAdmin)
	return f.login(t, "root", "root@example.com")
}

func decode(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &out), res.Body.String())
	return out
}

func TestSignupResponseShape(t *testing.T) {
	f := newAPIFixture(t)
	res := f.do(t, http.MethodPost, "/api/v1/auth/signup/", "", gin.H{"email": "Alice@Example.com", "username": "alice"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, map[string]any{"email": "alice@example.com", "username": "alice"}, decode(t, res))

	res = f.do(t, http.MethodPost, "/api/v1/auth/signup/", "", gin.H{"email": "x@example.com", "username": "me"})
	require.Equal(t, http.StatusBadRequest, res.Code)
	errBody := decode(t, res)["error"].(map[string]any)
	assert.Equal(t, "validation_error", errBody["code"])
	assert.Contains(t, errBody["fields"], "username")

	res = f.do(t, http.MethodPost, "/api/v1/auth/signup/", "", gin.H{})
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestTokenRejectsWrongCode(t *testing.T) {
	f := newAPIFixture(t)
	res := f.do(t, http.MethodPost, "/api/v1/auth/signup/", "", gin.H{"email": "bob@example.com", "username": "bob"})
	require.Equal(t, http.StatusOK, res.Code)

	res = f.do(t, http.MethodPost, "/api/v1/auth/token/", "", gin.H{"username": "bob", "confirmation_code": "WRONG"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = f.do(t, http.MethodPost, "/api/v1/auth/token/", "", gin.H{"username": "ghost", "confirmation_code": "WRONG"})
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestReviewFlowAndRating(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.admin(t)

	res := f.do(t, http.MethodPost, "/api/v1/categories/", adminToken, gin.H{"name": "Movie", "slug": "movie"})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	assert.Equal(t, map[string]any{"name": "Movie", "slug": "movie"}, decode(t, res))

	res = f.do(t, http.MethodPost, "/api/v1/genres", adminToken, gin.H{"name": "Drama", "slug": "drama"})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	res = f.do(t, http.MethodPost, "/api/v1/titles/", adminToken, gin.H{
		"name": "Stalker", "year": 1979, "category": "movie", "genre": []string{"drama"},
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	title := decode(t, res)
	assert.Nil(t, title["rating"])
	assert.Equal(t, map[string]any{"name": "Movie", "slug": "movie"}, title["category"])
	assert.Len(t, title["genre"], 1)
	titlePath := "/api/v1/titles/" + jsonID(title) + "/"

	userToken := f.login(t, "alice", "alice@example.com")

	res = f.do(t, http.MethodPost, titlePath+"reviews/", "", gin.H{"text": "great", "score": 9})
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = f.do(t, http.MethodPost, titlePath+"reviews/", userToken, gin.H{"text": "great", "score": 9})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	review := decode(t, res)
	assert.Equal(t, "alice", review["author"])
	assert.NotEmpty(t, review["pub_date"])

	res = f.do(t, http.MethodPost, titlePath+"reviews/", userToken, gin.H{"text": "again", "score": 2})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = f.do(t, http.MethodPost, titlePath+"reviews/", adminToken, gin.H{"text": "ok", "score": 4})
	require.Equal(t, http.StatusCreated, res.Code)

	res = f.do(t, http.MethodGet, titlePath, "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 7, decode(t, res)["rating"])

	reviewPath := titlePath + "reviews/" + jsonID(review) + "/"
	res = f.do(t, http.MethodPost, reviewPath+"comments/", userToken, gin.H{"text": "agreed"})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	res = f.do(t, http.MethodGet, reviewPath+"comments", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	page := decode(t, res)
	assert.EqualValues(t, 1, page["count"])
	assert.Nil(t, page["next"])

	otherToken := f.login(t, "carol", "carol@example.com")
	res = f.do(t, http.MethodPatch, reviewPath, otherToken, gin.H{"text": "hijack"})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = f.do(t, http.MethodPut, reviewPath, userToken, gin.H{"text": "put", "score": 1})
	assert.Equal(t, http.StatusMethodNotAllowed, res.Code)

	res = f.do(t, http.MethodDelete, reviewPath, userToken, nil)
	assert.Equal(t, http.StatusNoContent, res.Code)
}

func TestAdminOnlyRoutes(t *testing.T) {
	f := newAPIFixture(t)
	userToken := f.login(t, "dave", "dave@example.com")

	res := f.do(t, http.MethodPost, "/api/v1/titles/", userToken, gin.H{"name": "x", "year": 2000, "category": "movie"})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = f.do(t, http.MethodGet, "/api/v1/users/", userToken, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = f.do(t, http.MethodGet, "/api/v1/users/me/", userToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "user", decode(t, res)["role"])

	res = f.do(t, http.MethodPatch, "/api/v1/users/me/", userToken, gin.H{"role": "admin", "bio": "hi"})
	require.Equal(t, http.StatusOK, res.Code)
	me := decode(t, res)
	assert.Equal(t, "user", me["role"])
	assert.Equal(t, "hi", me["bio"])

	adminToken := f.admin(t)
	res = f.do(t, http.MethodGet, "/api/v1/users/dave/", adminToken, nil)
	assert.Equal(t, http.StatusOK, res.Code)
	res = f.do(t, http.MethodGet, "/api/v1/users/?search=da", adminToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, decode(t, res)["count"])
}

func TestPaginationLinksAreAbsolute(t *testing.T) {
	f := newAPIFixture(t)
	for _, slug := range []string{"a", "b", "c"} {
		testutil.SeedGenre(t, f.db, "Genre "+slug, slug)
	}
	res := f.do(t, http.MethodGet, "/api/v1/genres/?limit=2", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	page := decode(t, res)
	assert.EqualValues(t, 3, page["count"])
	assert.Equal(t, "http://example.com/api/v1/genres/?limit=2&offset=2", page["next"])
	assert.Nil(t, page["previous"])
	assert.Len(t, page["results"], 2)
}

func TestNotFoundAndHealth(t *testing.T) {
	f := newAPIFixture(t)

	res := f.do(t, http.MethodGet, "/api/v1/titles/abc/", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	res = f.do(t, http.MethodGet, "/api/v1/titles/999/", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	res = f.do(t, http.MethodGet, "/api/v1/nowhere/", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	res = f.do(t, http.MethodGet, "/api/v1/titles/?year=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = f.do(t, http.MethodGet, "/api/v1/titles/", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = f.do(t, http.MethodGet, "/healthcheck", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)

	res = f.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "yamdb_http_requests_total")
}

func jsonID(obj map[string]any) string {
	f, _ := obj["id"].(float64)
	return strconv.Itoa(int(f))
}

func TestRequestBodyValidation(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.admin(t)
	testutil.SeedCategory(t, f.db, "Movie", "movie")
	testutil.SeedGenre(t, f.db, "Drama", "drama")

	fieldsOf := func(res *httptest.ResponseRecorder) map[string]any {
		t.Helper()
		require.Equal(t, http.StatusBadRequest, res.Code, res.Body.String())
		errBody := decode(t, res)["error"].(map[string]any)
		assert.Equal(t, "validation_error", errBody["code"])
		return errBody["fields"].(map[string]any)
	}

	res := f.do(t, http.MethodPost, "/api/v1/titles/", adminToken, gin.H{
		"name": "NoYear", "category": "movie", "genre": []string{"drama"},
	})
	assert.Equal(t, "this field is required", fieldsOf(res)["year"])

	res = f.do(t, http.MethodPost, "/api/v1/titles/", adminToken, gin.H{
		"name": "Ancient", "year": -500, "category": "movie", "genre": []string{"drama"},
	})
	assert.Contains(t, fieldsOf(res), "year")

	res = f.do(t, http.MethodPost, "/api/v1/titles/", adminToken, gin.H{
		"name": "Future", "year": time.Now().Year() + 1, "category": "movie", "genre": []string{"drama"},
	})
	assert.Equal(t, "year cannot be in the future", fieldsOf(res)["year"])

	res = f.do(t, http.MethodPost, "/api/v1/categories/", adminToken, gin.H{"name": "Bad", "slug": "bad slug"})
	assert.Equal(t, "letters, digits, hyphens and underscores only", fieldsOf(res)["slug"])

	res = f.do(t, http.MethodPost, "/api/v1/auth/signup/", "", gin.H{"email": "nope", "username": "bad name"})
	fields := fieldsOf(res)
	assert.Equal(t, "enter a valid email address", fields["email"])
	assert.Equal(t, "letters, digits and @/./+/-/_ only", fields["username"])
}

func TestDeleteOwnProfileNotAllowed(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.admin(t)

	res := f.do(t, http.MethodDelete, "/api/v1/users/me/", adminToken, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, res.Code)
	res = f.do(t, http.MethodDelete, "/api/v1/users/me", adminToken, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, res.Code)

	res = f.do(t, http.MethodGet, "/api/v1/users/me/", adminToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "root", decode(t, res)["username"])
}
