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
	"github.com/yungbote/yamdb-backend/internal/platform/sanitize"
	"github.com/yungbote/yamdb-backend/internal/platform/validation"
)

// UserInput is the admin create payload.
type UserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

// UserPatch carries optional profile changes; nil fields are left alone.
type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

type UserService interface {
	GetMe(dbc dbctx.Context) (*types.User, error)
	// UpdateMe applies patch to the caller; Role is ignored.
	UpdateMe(dbc dbctx.Context, patch UserPatch) (*types.User, error)

	List(dbc dbctx.Context, search string, page pagination.Page) ([]*types.User, int64, error)
	Create(dbc dbctx.Context, in UserInput) (*types.User, error)
	Get(dbc dbctx.Context, username string) (*types.User, error)
	Update(dbc dbctx.Context, username string, patch UserPatch) (*types.User, error)
	Delete(dbc dbctx.Context, username string) error
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	rd, err := requireAuth(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	u, err := us.userRepo.GetByID(dbc, rd.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apierr.NotFound("user")
	}
	return u, nil
}

func (us *userService) UpdateMe(dbc dbctx.Context, patch UserPatch) (*types.User, error) {
	rd, err := requireAuth(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	patch.Role = nil
	return us.update(dbc, rd.UserID, patch)
}

func (us *userService) List(dbc dbctx.Context, search string, page pagination.Page) ([]*types.User, int64, error) {
	if _, err := requireAdmin(dbc.Ctx); err != nil {
		return nil, 0, err
	}
	return us.userRepo.List(dbc, search, page)
}

func (us *userService) Create(dbc dbctx.Context, in UserInput) (*types.User, error) {
	if _, err := requireAdmin(dbc.Ctx); err != nil {
		return nil, err
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateSignup(in.Email, in.Username); err != nil {
		return nil, err
	}
	role, ok := types.ParseRole(in.Role)
	if !ok {
		return nil, apierr.Validation("role", "must be one of: user moderator admin")
	}
	user := &types.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Bio:       sanitize.Text(in.Bio),
		Role:      role,
	}
	if err := validateNames(user.FirstName, user.LastName); err != nil {
		return nil, err
	}

	err := dbc.DB(us.db).Transaction(func(tx *gorm.DB) error {
		txc := dbc.WithTx(tx)
		if err := us.ensureUnique(txc, 0, user.Username, user.Email); err != nil {
			return err
		}
		if err := us.userRepo.Create(txc, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierr.BadRequest("username_taken", "username or email is already taken")
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	us.log.Info("User created by admin", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (us *userService) Get(dbc dbctx.Context, username string) (*types.User, error) {
	if _, err := requireAdmin(dbc.Ctx); err != nil {
		return nil, err
	}
	return us.mustGetByUsername(dbc, username)
}

func (us *userService) Update(dbc dbctx.Context, username string, patch UserPatch) (*types.User, error) {
	if _, err := requireAdmin(dbc.Ctx); err != nil {
		return nil, err
	}
	u, err := us.mustGetByUsername(dbc, username)
	if err != nil {
		return nil, err
	}
	return us.update(dbc, u.ID, patch)
}

func (us *userService) Delete(dbc dbctx.Context, username string) error {
	if _, err := requireAdmin(dbc.Ctx); err != nil {
		return err
	}
	u, err := us.mustGetByUsername(dbc, username)
	if err != nil {
		return err
	}
	if err := us.userRepo.DeleteByID(dbc, u.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	us.log.Info("User deleted", "user_id", u.ID)
	return nil
}

func (us *userService) mustGetByUsername(dbc dbctx.Context, username string) (*types.User, error) {
	u, err := us.userRepo.GetByUsername(dbc, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apierr.NotFound("user")
	}
	return u, nil
}

func (us *userService) update(dbc dbctx.Context, id uint, patch UserPatch) (*types.User, error) {
	updates := map[string]interface{}{}
	var newUsername, newEmail string

	if patch.Username != nil {
		newUsername = strings.TrimSpace(*patch.Username)
		if err := validateUsername(newUsername); err != nil {
			return nil, err
		}
		updates["username"] = newUsername
	}
	if patch.Email != nil {
		newEmail = strings.ToLower(strings.TrimSpace(*patch.Email))
		if msg := validation.Var(newEmail, validation.EmailRules); msg != "" {
			return nil, apierr.Validation("email", msg)
		}
		updates["email"] = newEmail
	}
	if patch.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*patch.LastName)
	}
	if err := validateNames(strField(updates, "first_name"), strField(updates, "last_name")); err != nil {
		return nil, err
	}
	if patch.Bio != nil {
		updates["bio"] = sanitize.Text(*patch.Bio)
	}
	if patch.Role != nil {
		if strings.TrimSpace(*patch.Role) == "" {
			return nil, apierr.Validation("role", "this field may not be blank")
		}
		role, ok := types.ParseRole(*patch.Role)
		if !ok {
			return nil, apierr.Validation("role", "must be one of: user moderator admin")
		}
		updates["role"] = role
	}

	var out *types.User
	err := dbc.DB(us.db).Transaction(func(tx *gorm.DB) error {
		txc := dbc.WithTx(tx)
		if err := us.ensureUnique(txc, id, newUsername, newEmail); err != nil {
			return err
		}
		if err := us.userRepo.UpdateFields(txc, id, updates); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierr.BadRequest("username_taken", "username or email is already taken")
			}
			return fmt.Errorf("update user: %w", err)
		}
		u, err := us.userRepo.GetByID(txc, id)
		if err != nil {
			return err
		}
		if u == nil {
			return apierr.NotFound("user")
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ensureUnique rejects a username or email held by a user other than selfID.
func (us *userService) ensureUnique(dbc dbctx.Context, selfID uint, username, email string) error {
	if username != "" {
		other, err := us.userRepo.GetByUsername(dbc, username)
		if err != nil {
			return err
		}
		if other != nil && other.ID != selfID {
			return apierr.BadRequest("username_taken", fmt.Sprintf("username %q is already taken", username))
		}
	}
	if email != "" {
		other, err := us.userRepo.GetByEmail(dbc, email)
		if err != nil {
			return err
		}
		if other != nil && other.ID != selfID {
			return apierr.BadRequest("email_taken", fmt.Sprintf("email %s is already taken", email))
		}
	}
	return nil
}

func validateUsername(username string) error {
	if msg := validation.Var(username, validation.UsernameRules); msg != "" {
		return apierr.Validation("username", msg)
	}
	return nil
}

func validateNames(first, last string) error {
	if len(first) > 150 {
		return apierr.Validation("first_name", "ensure this field has no more than 150 characters")
	}
	if len(last) > 150 {
		return apierr.Validation("last_name", "ensure this field has no more than 150 characters")
	}
	return nil
}

func strField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}
