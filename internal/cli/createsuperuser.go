package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/app"
	"github.com/yungbote/yamdb-backend/internal/data/repos"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/platform/dbctx"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
	"github.com/yungbote/yamdb-backend/internal/platform/validation"
)

func createSuperuserCmd() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an admin account that can sign in through /auth/signup/",
		RunE: func(c *cobra.Command, _ []string) error {
			b, err := newBootstrap()
			if err != nil {
				return err
			}
			defer b.log.Sync()
			theDB, err := app.OpenDB(b.cfg, b.log)
			if err != nil {
				return err
			}
			if sqlDB, err := theDB.DB(); err == nil {
				defer sqlDB.Close()
			}
			u, err := createSuperuser(c.Context(), theDB, b.log, username, email)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.OutOrStdout(), "superuser %s <%s> created\n", u.Username, u.Email)
			return err
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func createSuperuser(ctx context.Context, theDB *gorm.DB, log *logger.Logger, username, email string) (*types.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if msg := validation.Var(username, validation.UsernameRules); msg != "" {
		return nil, fmt.Errorf("invalid username %q: %s", username, msg)
	}
	if msg := validation.Var(email, validation.EmailRules); msg != "" {
		return nil, fmt.Errorf("invalid email %q: %s", email, msg)
	}

	userRepo := repos.NewUserRepo(theDB, log)
	u := &types.User{Username: username, Email: email, Role: types.RoleAdmin, IsSuperuser: true}
	err := theDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if existing, err := userRepo.GetByUsername(dbc, username); err != nil {
			return err
		} else if existing != nil {
			return fmt.Errorf("username %q is already taken", username)
		}
		if existing, err := userRepo.GetByEmail(dbc, email); err != nil {
			return err
		} else if existing != nil {
			return fmt.Errorf("email %s is already taken", email)
		}
		return userRepo.Create(dbc, u)
	})
	if err != nil {
		return nil, err
	}
	log.Info("Superuser created", "user_id", u.ID)
	return u, nil
}
