package repository

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// RevocationRepository persists revoked bearer tokens.
type RevocationRepository interface {
	Contains(ctx context.Context, token string) (bool, error)
	// Revoke inserts the token once; a repeated call reports created=false and no error.
	Revoke(ctx context.Context, token, userID string, expiredAt time.Time) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type revocationRepository struct {
	pool DBTX
}

// NewRevocationRepository returns a Postgres-backed implementation.
func NewRevocationRepository(pool DBTX) RevocationRepository {
	return &revocationRepository{pool: pool}
}

func (r *revocationRepository) Contains(ctx context.Context, token string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE token=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, token).Scan(&exists); err != nil {
		return false, oops.Code("REVOCATION_LOOKUP_FAILED").Wrap(err)
	}
	return exists, nil
}

func (r *revocationRepository) Revoke(ctx context.Context, token, userID string, expiredAt time.Time) (bool, error) {
	const query = `
        INSERT INTO token_blacklist (token, user_id, expired_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (token) DO NOTHING`

	cmd, err := r.pool.Exec(ctx, query, token, userID, expiredAt)
	if err != nil {
		return false, oops.Code("REVOCATION_INSERT_FAILED").
			With("user_id", userID).
			Wrap(err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *revocationRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM token_blacklist WHERE expired_at <= $1`

	cmd, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, oops.Code("REVOCATION_PURGE_FAILED").Wrap(err)
	}
	return cmd.RowsAffected(), nil
}
