package main

import (
	"context"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/diary-service/internal/config"
	"github.com/spec-kit/diary-service/internal/observability"
	"github.com/spec-kit/diary-service/internal/persistence"
)

const defaultTimeout = 30 * time.Second

// Global flags available to all subcommands.
var timeout time.Duration

// NewRootCmd creates the root command for the ops CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diaryctl",
		Short: "Maintenance tasks for diary-service",
		Long: `diaryctl applies migrations, imports quotes and questions,
purges expired revocations and toggles account activation.
Connection settings come from the same environment as the API server.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "timeout for database operations (e.g., 30s, 1m)")

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewPurgeCmd())
	cmd.AddCommand(NewUserCmd())

	return cmd
}

// session holds what every database-backed subcommand needs.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	pg     *persistence.Postgres
	logger *zap.Logger
}

func (s *session) Close() {
	s.pg.Close()
	_ = s.logger.Sync()
	s.cancel()
}

// openSession loads configuration and connects to Postgres.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if cfg.Postgres.DSN == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("POSTGRES_DSN or POSTGRES_* variables are required")
	}

	logger, err := observability.NewLogger(cfg.Logger, "diaryctl")
	if err != nil {
		return nil, oops.Code("LOGGER_INIT_FAILED").Wrap(err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		cancel()
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	return &session{ctx: ctx, cancel: cancel, pg: pg, logger: logger}, nil
}
