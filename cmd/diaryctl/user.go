package main

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/spec-kit/diary-service/internal/repository"
)

// NewUserCmd creates the user subcommand group.
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newSetActiveCmd("activate", "Allow an account to log in again", true))
	cmd.AddCommand(newSetActiveCmd("deactivate", "Block an account; its existing tokens stop working", false))
	return cmd
}

func newSetActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			users := repository.NewUserRepository(s.pg.PoolHandle())
			if err := setActive(s.ctx, users, args[0], active); err != nil {
				return err
			}
			cmd.Printf("%s: active=%t\n", args[0], active)
			return nil
		},
	}
}

func setActive(ctx context.Context, users repository.UserRepository, username string, active bool) error {
	user, err := users.GetByUsername(ctx, username)
	if errors.Is(err, pgx.ErrNoRows) {
		return oops.Code("USER_NOT_FOUND").With("username", username).Errorf("no user named %q", username)
	}
	if err != nil {
		return err
	}
	return users.SetActive(ctx, user.ID, active)
}
