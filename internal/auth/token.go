package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/diary-service/internal/config"
)

// Variant distinguishes access tokens from refresh tokens.
type Variant string

const (
	VariantAccess  Variant = "access"
	VariantRefresh Variant = "refresh"
)

var (
	// ErrInvalidToken covers bad signatures, malformed payloads and wrong variants.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when the token verifies but its exp has passed.
	ErrTokenExpired = errors.New("token expired")
)

// Claims describes the JWT payload.
type Claims struct {
	Type Variant `json:"typ"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed, time-limited bearer tokens.
type TokenCodec struct {
	method *jwt.SigningMethodHMAC
	keys   map[Variant][]byte
	ttls   map[Variant]time.Duration
	now    func() time.Time
}

// CodecOption customizes a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// NewTokenCodec builds a codec from auth configuration.
func NewTokenCodec(cfg config.AuthConfig, opts ...CodecOption) (*TokenCodec, error) {
	var method *jwt.SigningMethodHMAC
	switch cfg.Algorithm {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("signing secret is required")
	}

	accessTTL := cfg.AccessTokenTTL()
	if accessTTL <= 0 {
		accessTTL = 60 * time.Minute
	}
	refreshTTL := cfg.RefreshTokenTTL()
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}

	codec := &TokenCodec{
		method: method,
		keys: map[Variant][]byte{
			VariantAccess:  []byte(cfg.SecretKey),
			VariantRefresh: []byte(cfg.RefreshSecret()),
		},
		ttls: map[Variant]time.Duration{
			VariantAccess:  accessTTL,
			VariantRefresh: refreshTTL,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(codec)
	}
	return codec, nil
}

// Issue signs a token for subject. A zero ttl selects the variant default.
func (c *TokenCodec) Issue(subject string, variant Variant, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("subject is required")
	}
	key, ok := c.keys[variant]
	if !ok {
		return "", time.Time{}, fmt.Errorf("unknown token variant %q", variant)
	}
	if ttl == 0 {
		ttl = c.ttls[variant]
	}

	now := c.now()
	expiresAt := jwt.NewNumericDate(now.Add(ttl))
	claims := &Claims{
		Type: variant,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			ExpiresAt: expiresAt,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(c.method, claims)
	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt.Time, nil
}

// Decode verifies tokenStr under the key bound to variant and returns its claims.
// Any failure yields ErrTokenExpired or ErrInvalidToken.
func (c *TokenCodec) Decode(tokenStr string, variant Variant) (*Claims, error) {
	key, ok := c.keys[variant]
	if !ok {
		return nil, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.clock),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Type != variant {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Now reports the codec's current time, truncated to the second.
func (c *TokenCodec) Now() time.Time {
	return c.clock()
}

// exp is stored in whole seconds, so compare against a second-truncated clock.
func (c *TokenCodec) clock() time.Time {
	return c.now().Truncate(time.Second)
}
