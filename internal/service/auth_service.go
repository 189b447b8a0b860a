package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/diary-service/internal/auth"
	"github.com/spec-kit/diary-service/internal/domain"
	"github.com/spec-kit/diary-service/internal/events"
	"github.com/spec-kit/diary-service/internal/repository"
)

// dummyPassword is hashed once at startup so unknown-user logins cost one bcrypt compare.
const dummyPassword = "diary-service-timing-equalizer"

// RevocationStore records logged-out tokens.
type RevocationStore interface {
	Contains(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token, userID string, expiredAt time.Time) (bool, error)
}

// AuthService coordinates registration, login and logout flows.
type AuthService struct {
	users       repository.UserRepository
	revocations RevocationStore
	tokens      *auth.TokenCodec
	hasher      auth.PasswordHasher
	dispatcher  events.Dispatcher
	failures    auth.FailureRecorder
	logger      *zap.Logger
	dummyHash   string
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Users       repository.UserRepository
	Revocations RevocationStore
	Tokens      *auth.TokenCodec
	Hasher      auth.PasswordHasher
	Dispatcher  events.Dispatcher
	Failures    auth.FailureRecorder
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) (*AuthService, error) {
	if deps.Users == nil || deps.Revocations == nil || deps.Tokens == nil || deps.Hasher == nil {
		return nil, errors.New("auth service: users, revocations, tokens and hasher are required")
	}
	dummy, err := deps.Hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash dummy password: %w", err)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:       deps.Users,
		revocations: deps.Revocations,
		tokens:      deps.Tokens,
		hasher:      deps.Hasher,
		dispatcher:  deps.Dispatcher,
		failures:    deps.Failures,
		logger:      logger,
		dummyHash:   dummy,
	}, nil
}

// Register creates an active account. The username is checked before the email.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if err := s.ensureFree(ctx, s.users.GetByUsername, username, auth.ReasonUsernameTaken); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, s.users.GetByEmail, email, auth.ReasonEmailTaken); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, auth.Conflict(auth.ReasonUsernameTaken)
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, auth.Conflict(auth.ReasonEmailTaken)
		}
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Username: user.Username,
		Email:    user.Email,
	})
	return user, nil
}

// Login verifies credentials and issues an access token.
// Unknown accounts and wrong passwords yield the same bad_credentials failure.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*domain.User, string, time.Time, error) {
	user, err := s.lookup(ctx, usernameOrEmail)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	hash := s.dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	ok, err := s.hasher.Verify(password, hash)
	if err != nil && user != nil {
		s.logger.Warn("stored password hash unusable", zap.String("user_id", user.ID), zap.Error(err))
	}
	if user == nil || !ok {
		s.recordFailure(auth.ReasonBadCredentials)
		return nil, "", time.Time{}, auth.Unauthorized(auth.ReasonBadCredentials)
	}

	if !user.IsActive {
		s.recordFailure(auth.ReasonInactiveAccount)
		return nil, "", time.Time{}, auth.Forbidden(auth.ReasonInactiveAccount)
	}

	token, exp, err := s.tokens.Issue(user.ID, auth.VariantAccess, 0)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID, events.UserLoggedInPayload{
		Username:  user.Username,
		ExpiresAt: exp,
	})
	return user, token, exp, nil
}

// Logout revokes token until its natural expiry. Undecodable tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Decode(token, auth.VariantAccess)
	if err != nil {
		return nil
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil
	}

	revokedUntil := s.tokens.Now()
	if claims.ExpiresAt != nil {
		revokedUntil = claims.ExpiresAt.Time
	}

	created, err := s.revocations.Revoke(ctx, token, claims.Subject, revokedUntil)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.publish(ctx, events.EventTokenRevoked, claims.Subject, events.TokenRevokedPayload{
		RevokedUntil: revokedUntil,
		Created:      created,
	})
	return nil
}

// lookup tries the username first, then the email. A nil user means no match.
func (s *AuthService) lookup(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	if !utf8.ValidString(usernameOrEmail) {
		return nil, nil
	}
	user, err := s.users.GetByUsername(ctx, usernameOrEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	user, err = s.users.GetByEmail(ctx, usernameOrEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return nil, nil
}

func (s *AuthService) ensureFree(ctx context.Context, find func(context.Context, string) (*domain.User, error), value, reason string) error {
	_, err := find(ctx, value)
	if err == nil {
		return auth.Conflict(reason)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

func (s *AuthService) recordFailure(reason string) {
	if s.failures != nil {
		s.failures.RecordAuthFailure(reason)
	}
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: s.tokens.Now(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
