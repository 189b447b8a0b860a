package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/diary-service/internal/domain"
	apperrors "github.com/spec-kit/diary-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller and the token it presented.
type Principal struct {
	User  *domain.User
	Token string
}

// FailureRecorder observes rejected requests by failure kind.
type FailureRecorder interface {
	RecordAuthFailure(reason string)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	resolver *IdentityResolver
	recorder FailureRecorder
}

// NewAuthMiddleware constructs middleware. recorder may be nil.
func NewAuthMiddleware(resolver *IdentityResolver, recorder FailureRecorder) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver, recorder: recorder}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		m.record(ReasonInvalidToken)
		return Unauthorized(ReasonInvalidToken)
	}

	user, err := m.resolver.Resolve(c.UserContext(), token)
	if err != nil {
		if reason := apperrors.ReasonOf(err); reason != "" {
			m.record(reason)
		}
		return err
	}

	c.Locals(principalKey, &Principal{User: user, Token: token})
	return c.Next()
}

func (m *AuthMiddleware) record(reason string) {
	if m.recorder != nil {
		m.recorder.RecordAuthFailure(reason)
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
