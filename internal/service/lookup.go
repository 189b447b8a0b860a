package service

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// nilOnNoRows turns a repository miss into a nil result.
func nilOnNoRows[T any](v *T, err error) (*T, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return v, err
}
