package user

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/data/repos/scopes"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/platform/dbctx"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
	"github.com/yungbote/yamdb-backend/internal/platform/pagination"
)

type UserRepo interface {
	Create(dbc dbctx.Context, u *types.User) error
	GetByID(dbc dbctx.Context, id uint) (*types.User, error)
	GetByUsername(dbc dbctx.Context, username string) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	List(dbc dbctx.Context, search string, page pagination.Page) ([]*types.User, int64, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	SetConfirmationCode(dbc dbctx.Context, id uint, codeHash string, expiresAt time.Time) error
	ClearConfirmationCode(dbc dbctx.Context, id uint) error
	DeleteByID(dbc dbctx.Context, id uint) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Create(dbc dbctx.Context, u *types.User) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if u.Role == "" {
		u.Role = types.RoleUser
	}
	return transaction.WithContext(dbc.Ctx).Create(u).Error
}

func (r *userRepo) GetByID(dbc dbctx.Context, id uint) (*types.User, error) {
	if id == 0 {
		return nil, nil
	}
	return r.first(dbc, "id = ?", id)
}

func (r *userRepo) GetByUsername(dbc dbctx.Context, username string) (*types.User, error) {
	if username == "" {
		return nil, nil
	}
	return r.first(dbc, "username = ?", username)
}

func (r *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	if email == "" {
		return nil, nil
	}
	return r.first(dbc, "email = ?", email)
}

// first returns nil, nil when no row matches.
func (r *userRepo) first(dbc dbctx.Context, query string, args ...interface{}) (*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var u types.User
	err := transaction.WithContext(dbc.Ctx).Where(query, args...).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) List(dbc dbctx.Context, search string, page pagination.Page) ([]*types.User, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	base := transaction.WithContext(dbc.Ctx).Model(&types.User{}).Scopes(scopes.Contains("username", search))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.User
	if err := base.Session(&gorm.Session{}).
		Order("username ASC").
		Scopes(scopes.Page(page)).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *userRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *userRepo) SetConfirmationCode(dbc dbctx.Context, id uint, codeHash string, expiresAt time.Time) error {
	return r.UpdateFields(dbc, id, map[string]interface{}{
		"confirmation_code_hash":       codeHash,
		"confirmation_code_expires_at": expiresAt.UTC(),
	})
}

func (r *userRepo) ClearConfirmationCode(dbc dbctx.Context, id uint) error {
	return r.UpdateFields(dbc, id, map[string]interface{}{
		"confirmation_code_hash":       nil,
		"confirmation_code_expires_at": nil,
	})
}

// DeleteByID removes the user together with their reviews and comments and
// every comment left on those reviews.
func (r *userRepo) DeleteByID(dbc dbctx.Context, id uint) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		authored := tx.Model(&types.Review{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("author_id = ? OR review_id IN (?)", id, authored).Delete(&types.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&types.Review{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&types.User{}).Error
	})
}
