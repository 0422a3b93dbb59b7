package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/data/repos"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/observability"
	"github.com/yungbote/yamdb-backend/internal/platform/apierr"
	"github.com/yungbote/yamdb-backend/internal/platform/ctxutil"
	"github.com/yungbote/yamdb-backend/internal/platform/dbctx"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
	"github.com/yungbote/yamdb-backend/internal/platform/mail"
	"github.com/yungbote/yamdb-backend/internal/platform/throttle"
	"github.com/yungbote/yamdb-backend/internal/platform/validation"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type AuthService interface {
	// Signup registers a new user or re-issues a code for an existing
	// username/email pair. created reports whether a user row was inserted.
	Signup(ctx context.Context, email, username string) (user *types.User, created bool, err error)
	ObtainToken(ctx context.Context, username, code string) (string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type AuthConfig struct {
	JWTSecretKey string
	AccessTTL    time.Duration
	CodeTTL      time.Duration
	CodeLength   int
	BcryptCost   int
}

type JWTClaims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	mailer   mail.Sender
	limiter  throttle.Limiter
	metrics  *observability.Metrics
	cfg      AuthConfig
	now      func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	mailer mail.Sender,
	limiter throttle.Limiter,
	metrics *observability.Metrics,
	cfg AuthConfig,
) AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 24 * time.Hour
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = time.Hour
	}
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = 8
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if limiter == nil {
		limiter = throttle.NewMemory(0, time.Minute)
	}
	return &authService{
		db:       db,
		log:      log.With("service", "AuthService"),
		userRepo: userRepo,
		mailer:   mailer,
		limiter:  limiter,
		metrics:  metrics,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (as *authService) Signup(ctx context.Context, email, username string) (*types.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if err := validateSignup(email, username); err != nil {
		return nil, false, err
	}

	allowed, err := as.limiter.Allow(ctx, "signup:"+email)
	if err != nil {
		// limiter errors fail open
		as.log.Warn("Signup throttle unavailable", "error", err)
		allowed = true
	}
	if !allowed {
		return nil, false, apierr.TooManyRequests("too many confirmation codes requested, try again later")
	}

	var (
		user    *types.User
		created bool
	)
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		byUsername, err := as.userRepo.GetByUsername(dbc, username)
		if err != nil {
			return fmt.Errorf("lookup username: %w", err)
		}
		switch {
		case byUsername != nil && byUsername.Email == email:
			user = byUsername
		case byUsername != nil:
			return apierr.BadRequest("username_taken", fmt.Sprintf("username %q is already taken", username))
		default:
			byEmail, err := as.userRepo.GetByEmail(dbc, email)
			if err != nil {
				return fmt.Errorf("lookup email: %w", err)
			}
			if byEmail != nil {
				return apierr.BadRequest("email_taken", fmt.Sprintf("email %s is already taken", email))
			}
			user = &types.User{Username: username, Email: email, Role: types.RoleUser}
			if err := as.userRepo.Create(dbc, user); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apierr.BadRequest("username_taken", "username or email is already taken")
				}
				return fmt.Errorf("create user: %w", err)
			}
			created = true
		}
		return as.issueCode(dbc, user)
	})
	if err != nil {
		return nil, false, err
	}
	as.log.Info("Confirmation code issued", "user_id", user.ID, "created", created)
	return user, created, nil
}

type accountFields struct {
	Email    string `json:"email" binding:"required,max=254,email"`
	Username string `json:"username" binding:"required,max=150,username,not_me"`
}

func validateSignup(email, username string) error {
	if fields := validation.Check(accountFields{Email: email, Username: username}); len(fields) > 0 {
		return apierr.Invalid("invalid signup data", fields)
	}
	return nil
}

// issueCode stores a fresh code hash and mails the plaintext. A mail failure
// rolls back the surrounding transaction.
func (as *authService) issueCode(dbc dbctx.Context, user *types.User) error {
	code, err := generateCode(as.cfg.CodeLength)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), as.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}
	if err := as.userRepo.SetConfirmationCode(dbc, user.ID, string(hash), as.now().Add(as.cfg.CodeTTL)); err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	if err := as.mailer.Send(dbc.Ctx, mail.ConfirmationMessage(user.Email, user.Username, code)); err != nil {
		as.log.Error("Failed to send confirmation code", "user_id", user.ID, "error", err)
		return apierr.New(http.StatusServiceUnavailable, "mail_unavailable", errors.New("could not send the confirmation email, try again later"))
	}
	as.metrics.IncCodesIssued()
	return nil
}

func generateCode(n int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[idx.Int64()]
	}
	return string(b), nil
}

func (as *authService) ObtainToken(ctx context.Context, username, code string) (string, error) {
	username = strings.TrimSpace(username)
	code = strings.TrimSpace(code)
	fields := map[string]string{}
	if username == "" {
		fields["username"] = "this field is required"
	}
	if code == "" {
		fields["confirmation_code"] = "this field is required"
	}
	if len(fields) > 0 {
		return "", apierr.Invalid("invalid token request", fields)
	}

	var token string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		user, err := as.userRepo.GetByUsername(dbc, username)
		if err != nil {
			return fmt.Errorf("lookup user: %w", err)
		}
		if user == nil {
			return apierr.NotFound("user")
		}
		if !as.codeMatches(user, code) {
			return apierr.Validation("confirmation_code", "invalid or expired confirmation code").WithCode("invalid_confirmation_code")
		}
		if err := as.userRepo.ClearConfirmationCode(dbc, user.ID); err != nil {
			return fmt.Errorf("consume code: %w", err)
		}
		token, err = as.generateAccessToken(user)
		return err
	})
	if err != nil {
		return "", err
	}
	as.metrics.IncTokensIssued()
	return token, nil
}

func (as *authService) codeMatches(user *types.User, code string) bool {
	if user.ConfirmationCodeHash == nil || user.ConfirmationCodeExpiresAt == nil {
		return false
	}
	if as.now().After(*user.ConfirmationCodeExpiresAt) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*user.ConfirmationCodeHash), []byte(strings.ToUpper(code))) == nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.cfg.JWTSecretKey))
}

// SetContextFromToken resolves the bearer token to a user. An empty token
// leaves ctx anonymous.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.cfg.JWTSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return ctx, apierr.Unauthorized("invalid or expired token")
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, apierr.Unauthorized("invalid or expired token")
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return ctx, apierr.Unauthorized("invalid user id in token")
	}
	user, err := as.userRepo.GetByID(dbctx.Context{Ctx: ctx}, uint(id))
	if err != nil {
		return ctx, fmt.Errorf("load token user: %w", err)
	}
	if user == nil {
		return ctx, apierr.Unauthorized("user not found")
	}
	rd := &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      user.ID,
		Username:    user.Username,
		Role:        string(user.Role),
		IsSuperuser: user.IsSuperuser,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.cfg.AccessTTL
}
