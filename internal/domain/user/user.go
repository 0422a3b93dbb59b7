package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// ParseRole normalizes s; empty maps to RoleUser, the default for new accounts.
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoleUser, true
	}
	r := Role(s)
	return r, r.Valid()
}

type User struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	Username    string `gorm:"column:username;size:150;uniqueIndex;not null" json:"username"`
	Email       string `gorm:"column:email;size:254;uniqueIndex;not null" json:"email"`
	FirstName   string `gorm:"column:first_name;size:150;not null;default:''" json:"first_name"`
	LastName    string `gorm:"column:last_name;size:150;not null;default:''" json:"last_name"`
	Bio         string `gorm:"column:bio;type:text;not null;default:''" json:"bio"`
	Role        Role   `gorm:"column:role;size:16;not null;default:'user'" json:"role"`
	IsSuperuser bool   `gorm:"column:is_superuser;not null;default:false" json:"-"`

	// Only the bcrypt hash of the outstanding code is stored.
	ConfirmationCodeHash      *string    `gorm:"column:confirmation_code_hash" json:"-"`
	ConfirmationCodeExpiresAt *time.Time `gorm:"column:confirmation_code_expires_at" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool {
	return u != nil && (u.Role == RoleAdmin || u.IsSuperuser)
}

func (u *User) IsModerator() bool {
	return u != nil && u.Role == RoleModerator
}
