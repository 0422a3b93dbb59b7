package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/data/repos"
	"github.com/yungbote/yamdb-backend/internal/data/repos/testutil"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/observability"
	"github.com/yungbote/yamdb-backend/internal/platform/apierr"
	"github.com/yungbote/yamdb-backend/internal/platform/ctxutil"
	"github.com/yungbote/yamdb-backend/internal/platform/dbctx"
	"github.com/yungbote/yamdb-backend/internal/platform/mail"
	"github.com/yungbote/yamdb-backend/internal/platform/throttle"
)

type fixture struct {
	db       *gorm.DB
	mail     *mail.Recorder
	auth     AuthService
	users    UserService
	catalog  CatalogService
	titles   TitleService
	reviews  ReviewService
	comments CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
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
	return &fixture{
		db:   db,
		mail: rec,
		auth: NewAuthService(db, log, userRepo, rec, throttle.NewMemory(3, time.Minute), metrics, AuthConfig{
			JWTSecretKey: "test-secret",
			BcryptCost:   bcrypt.MinCost,
		}),
		users:    NewUserService(db, log, userRepo),
		catalog:  NewCatalogService(db, log, categoryRepo, genreRepo),
		titles:   NewTitleService(db, log, titleRepo, categoryRepo, genreRepo),
		reviews:  NewReviewService(db, log, titleRepo, reviewRepo, metrics),
		comments: NewCommentService(db, log, reviewRepo, commentRepo),
	}
}

func (f *fixture) seedUser(t *testing.T, username string, role types.Role) *types.User {
	t.Helper()
	return testutil.SeedUser(t, f.db, username, role)
}

func as(u *types.User) dbctx.Context {
	if u == nil {
		return dbctx.From(context.Background())
	}
	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		UserID:      u.ID,
		Username:    u.Username,
		Role:        string(u.Role),
		IsSuperuser: u.IsSuperuser,
	})
	return dbctx.From(ctx)
}

var codeRe = regexp.MustCompile(`confirmation code: (\S+)`)

func (f *fixture) lastCode(t *testing.T, email string) string {
	t.Helper()
	msg, ok := f.mail.Last(email)
	require.True(t, ok, "no mail sent to %s", email)
	m := codeRe.FindStringSubmatch(msg.Text)
	require.Len(t, m, 2, "no code in %q", msg.Text)
	return m[1]
}

func requireAPIError(t *testing.T, err error, status int, code string) *apierr.Error {
	t.Helper()
	require.Error(t, err)
	e := apierr.As(err)
	require.Equal(t, status, e.Status, "error: %v", err)
	if code != "" {
		require.Equal(t, code, e.Code)
	}
	return e
}
