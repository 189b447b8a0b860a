package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/diary-service/internal/domain"
)

// RevocationChecker reports whether a raw token has been revoked.
type RevocationChecker interface {
	Contains(ctx context.Context, token string) (bool, error)
}

// UserFinder loads principals by identifier.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// IdentityResolver turns a bearer token into an authenticated principal.
type IdentityResolver struct {
	tokens      *TokenCodec
	revocations RevocationChecker
	users       UserFinder
	now         func() time.Time
}

// NewIdentityResolver composes the codec, revocation store and user lookup.
func NewIdentityResolver(tokens *TokenCodec, revocations RevocationChecker, users UserFinder) *IdentityResolver {
	return &IdentityResolver{
		tokens:      tokens,
		revocations: revocations,
		users:       users,
		now:         tokens.now,
	}
}

// Resolve runs the checks in order and stops at the first failure:
// revocation, signature, subject, expiry, lookup, active flag.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*domain.User, error) {
	// Issued tokens are ASCII, so nothing else can be revoked or decode.
	if token == "" || !utf8.ValidString(token) {
		return nil, Unauthorized(ReasonInvalidToken)
	}

	revoked, err := r.revocations.Contains(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, Unauthorized(ReasonRevoked)
	}

	claims, err := r.tokens.Decode(token, VariantAccess)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, Unauthorized(ReasonExpired)
		}
		return nil, Unauthorized(ReasonInvalidToken)
	}

	if claims.Subject == "" {
		return nil, Unauthorized(ReasonMissingSubject)
	}

	if claims.ExpiresAt != nil && r.now().Unix() >= claims.ExpiresAt.Unix() {
		return nil, Unauthorized(ReasonExpired)
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, Unauthorized(ReasonNoSuchUser)
	}
	user, err := r.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Unauthorized(ReasonNoSuchUser)
		}
		return nil, fmt.Errorf("load principal: %w", err)
	}

	if !user.IsActive {
		return nil, Forbidden(ReasonInactiveAccount)
	}
	return user, nil
}
