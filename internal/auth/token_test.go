package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/diary-service/internal/config"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Unix(1_700_000_000, 0)}
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SecretKey:             "access-secret",
		RefreshSecretKey:      "refresh-secret",
		Algorithm:             "HS256",
		AccessTokenTTLMinutes: 60,
		RefreshTokenTTLDays:   7,
	}
}

func newTestCodec(t *testing.T, cfg config.AuthConfig, clock *fakeClock) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(cfg, WithClock(clock.Now))
	require.NoError(t, err)
	return codec
}

func TestTokenCodec_IssueAndDecode(t *testing.T) {
	clock := newClock()
	codec := newTestCodec(t, testAuthConfig(), clock)

	token, exp, err := codec.Issue("user-123", VariantAccess, 0)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(60*time.Minute), exp)

	claims, err := codec.Decode(token, VariantAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, VariantAccess, claims.Type)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestTokenCodec_DefaultTTLs(t *testing.T) {
	clock := newClock()
	codec := newTestCodec(t, testAuthConfig(), clock)

	_, refreshExp, err := codec.Issue("u1", VariantRefresh, 0)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(7*24*time.Hour), refreshExp)

	_, customExp, err := codec.Issue("u1", VariantAccess, 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(5*time.Minute), customExp)
}

func TestTokenCodec_TokensAreUnique(t *testing.T) {
	codec := newTestCodec(t, testAuthConfig(), newClock())

	first, _, err := codec.Issue("u1", VariantAccess, 0)
	require.NoError(t, err)
	second, _, err := codec.Issue("u1", VariantAccess, 0)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenCodec_ExpiryBoundaryIsInclusive(t *testing.T) {
	clock := newClock()
	codec := newTestCodec(t, testAuthConfig(), clock)

	token, _, err := codec.Issue("u1", VariantAccess, 10*time.Second)
	require.NoError(t, err)

	clock.Advance(9*time.Second + 999*time.Millisecond)
	_, err = codec.Decode(token, VariantAccess)
	require.NoError(t, err, "token must be valid during its last second")

	clock.Advance(time.Millisecond)
	_, err = codec.Decode(token, VariantAccess)
	require.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_VariantsUseIndependentKeys(t *testing.T) {
	codec := newTestCodec(t, testAuthConfig(), newClock())

	access, _, err := codec.Issue("u1", VariantAccess, 0)
	require.NoError(t, err)
	refresh, _, err := codec.Issue("u1", VariantRefresh, 0)
	require.NoError(t, err)

	_, err = codec.Decode(access, VariantRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.Decode(refresh, VariantAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := codec.Decode(refresh, VariantRefresh)
	require.NoError(t, err)
	assert.Equal(t, VariantRefresh, claims.Type)
}

func TestTokenCodec_SharedSecretFallback(t *testing.T) {
	cfg := testAuthConfig()
	cfg.RefreshSecretKey = ""
	codec := newTestCodec(t, cfg, newClock())

	assert.Equal(t, codec.keys[VariantAccess], codec.keys[VariantRefresh])

	// The typ claim still keeps the variants apart when the keys coincide.
	refresh, _, err := codec.Issue("u1", VariantRefresh, 0)
	require.NoError(t, err)
	_, err = codec.Decode(refresh, VariantAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_RejectsBadTokens(t *testing.T) {
	clock := newClock()
	codec := newTestCodec(t, testAuthConfig(), clock)

	valid, _, err := codec.Issue("u1", VariantAccess, 0)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)
	otherPayload := strings.Split(mustIssue(t, codec, "u2"), ".")[1]
	tampered := parts[0] + "." + otherPayload + "." + parts[2]

	wrongKey := newTestCodec(t, config.AuthConfig{SecretKey: "other", Algorithm: "HS256", AccessTokenTTLMinutes: 60, RefreshTokenTTLDays: 7}, clock)
	foreign := mustIssue(t, wrongKey, "u1")

	hs512 := newTestCodec(t, config.AuthConfig{SecretKey: "access-secret", Algorithm: "HS512", AccessTokenTTLMinutes: 60, RefreshTokenTTLDays: 7}, clock)
	otherAlg := mustIssue(t, hs512, "u1")

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Type:             VariantAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "tampered payload", token: tampered},
		{name: "signed with another secret", token: foreign},
		{name: "signed with another algorithm", token: otherAlg},
		{name: "unsigned", token: unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := codec.Decode(tt.token, VariantAccess)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenCodec_ExpiredForgeryIsInvalidNotExpired(t *testing.T) {
	clock := newClock()
	forger := newTestCodec(t, config.AuthConfig{SecretKey: "forged", Algorithm: "HS256", AccessTokenTTLMinutes: 60, RefreshTokenTTLDays: 7}, clock)
	codec := newTestCodec(t, testAuthConfig(), clock)

	token, _, err := forger.Issue("u1", VariantAccess, time.Second)
	require.NoError(t, err)
	clock.Advance(time.Minute)

	_, err = codec.Decode(token, VariantAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_RequiresExpiry(t *testing.T) {
	codec := newTestCodec(t, testAuthConfig(), newClock())

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Type:             VariantAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = codec.Decode(token, VariantAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_IssueValidation(t *testing.T) {
	codec := newTestCodec(t, testAuthConfig(), newClock())

	_, _, err := codec.Issue("", VariantAccess, 0)
	require.Error(t, err)

	_, _, err = codec.Issue("u1", Variant("session"), 0)
	require.Error(t, err)
}

func TestNewTokenCodec_Validation(t *testing.T) {
	cfg := testAuthConfig()
	cfg.Algorithm = "RS256"
	_, err := NewTokenCodec(cfg)
	require.Error(t, err)

	cfg = testAuthConfig()
	cfg.SecretKey = ""
	_, err = NewTokenCodec(cfg)
	require.Error(t, err)
}

func mustIssue(t *testing.T, codec *TokenCodec, subject string) string {
	t.Helper()
	token, _, err := codec.Issue(subject, VariantAccess, 0)
	require.NoError(t, err)
	return token
}
