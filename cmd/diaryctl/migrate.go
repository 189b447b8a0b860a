package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/spec-kit/diary-service/internal/persistence"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := persistence.RunMigrations(s.ctx, s.pg.PoolHandle(), s.logger); err != nil {
				return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
			}
			cmd.Println("migrations applied")
			return nil
		},
	}
}
