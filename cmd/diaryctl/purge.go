package main

import (
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/spec-kit/diary-service/internal/repository"
)

// NewPurgeCmd creates the purge-revocations subcommand.
func NewPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-revocations",
		Short: "Delete revocation entries whose tokens have already expired",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := repository.NewRevocationRepository(s.pg.PoolHandle()).PurgeExpired(s.ctx, time.Now())
			if err != nil {
				return oops.Code("PURGE_FAILED").Wrap(err)
			}
			cmd.Printf("purged %d expired revocations\n", n)
			return nil
		},
	}
}
