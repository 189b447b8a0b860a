package service

import (
	apperrors "github.com/spec-kit/diary-service/pkg/util/errorutil"
)

const maxPageSize = 100

// Page bounds a list query. A zero Limit selects the caller's default.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) normalize(defaultLimit int) (Page, error) {
	if p.Limit == 0 {
		p.Limit = defaultLimit
	}
	if p.Limit < 0 || p.Limit > maxPageSize {
		return p, apperrors.NewValidationError("limit must be between 1 and 100", map[string]any{"limit": p.Limit})
	}
	if p.Offset < 0 {
		return p, apperrors.NewValidationError("offset must not be negative", map[string]any{"offset": p.Offset})
	}
	return p, nil
}
