package token

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/elearning/internal/config"
	"github.com/vncsmyrnk/elearning/internal/core/domain"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func testConfig() config.TokenConfig {
	return config.TokenConfig{
		ActivationSecret: "activation-secret",
		AccessSecret:     "access-secret",
		RefreshSecret:    "refresh-secret",
		ActivationTTL:    5 * time.Minute,
		AccessTTL:        5 * time.Minute,
		RefreshTTL:       72 * time.Hour,
	}
}

func TestCodec_SessionRoundTrip(t *testing.T) {
	clock := newClock()
	codec := NewCodec(testConfig()).WithClock(clock.Now)

	for _, kind := range []domain.TokenKind{domain.TokenAccess, domain.TokenRefresh} {
		t.Run(string(kind), func(t *testing.T) {
			raw, err := codec.SignSession(kind, domain.SessionPayload{ID: "user-1"}, time.Minute)
			require.NoError(t, err)

			payload, err := codec.VerifySession(kind, raw)
			require.NoError(t, err)
			assert.Equal(t, "user-1", payload.ID)
		})
	}
}

func TestCodec_SessionExpiry(t *testing.T) {
	clock := newClock()
	codec := NewCodec(testConfig()).WithClock(clock.Now)

	raw, err := codec.SignSession(domain.TokenAccess, domain.SessionPayload{ID: "user-1"}, 5*time.Minute)
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)
	_, err = codec.VerifySession(domain.TokenAccess, raw)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = codec.VerifySession(domain.TokenAccess, raw)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestCodec_RejectsTamperedPayload(t *testing.T) {
	codec := NewCodec(testConfig())

	raw, err := codec.SignSession(domain.TokenAccess, domain.SessionPayload{ID: "user-1"}, time.Minute)
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	body, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	forged := strings.Replace(string(body), `"id":"user-1"`, `"id":"admin-1"`, 1)
	require.NotEqual(t, string(body), forged)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err = codec.VerifySession(domain.TokenAccess, strings.Join(parts, "."))
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

// The last signature character carries padding bits; every substitute must
// fail, including those that decode to the same bytes without strict decoding.
func TestCodec_RejectsAlteredSignatureTail(t *testing.T) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	codec := NewCodec(testConfig())

	for _, kind := range []domain.TokenKind{domain.TokenAccess, domain.TokenRefresh} {
		raw, err := codec.SignSession(kind, domain.SessionPayload{ID: "user-1"}, time.Minute)
		require.NoError(t, err)

		head, last := raw[:len(raw)-1], raw[len(raw)-1]
		for i := 0; i < len(alphabet); i++ {
			if alphabet[i] == last {
				continue
			}
			forged := head + string(alphabet[i])
			_, err := codec.VerifySession(kind, forged)
			assert.ErrorIs(t, err, domain.ErrInvalidToken, "%s: %q -> %q", kind, last, alphabet[i])
		}
	}
}

func TestCodec_RejectsGarbage(t *testing.T) {
	codec := NewCodec(testConfig())

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.VerifySession(domain.TokenAccess, raw)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, raw)
	}
}

func TestCodec_KindsAreNotInterchangeable(t *testing.T) {
	codec := NewCodec(testConfig())

	access, err := codec.SignSession(domain.TokenAccess, domain.SessionPayload{ID: "user-1"}, time.Minute)
	require.NoError(t, err)
	refresh, err := codec.SignSession(domain.TokenRefresh, domain.SessionPayload{ID: "user-1"}, time.Minute)
	require.NoError(t, err)

	_, err = codec.VerifySession(domain.TokenRefresh, access)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	_, err = codec.VerifySession(domain.TokenAccess, refresh)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	_, err = codec.VerifyActivation(access)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCodec_KindClaimIsChecked(t *testing.T) {
	// Same secret, wrong kind claim.
	cfg := testConfig()
	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
		Kind:             domain.TokenRefresh,
		UserID:           "user-1",
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
	require.NoError(t, err)

	_, err = NewCodec(cfg).VerifySession(domain.TokenAccess, raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCodec_RejectsOtherAlgorithms(t *testing.T) {
	cfg := testConfig()
	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
		Kind:             domain.TokenAccess,
		UserID:           "user-1",
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(cfg.AccessSecret))
	require.NoError(t, err)

	_, err = NewCodec(cfg).VerifySession(domain.TokenAccess, raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCodec_TokensAreUnique(t *testing.T) {
	clock := newClock()
	codec := NewCodec(testConfig()).WithClock(clock.Now)

	first, err := codec.SignSession(domain.TokenAccess, domain.SessionPayload{ID: "user-1"}, time.Minute)
	require.NoError(t, err)
	second, err := codec.SignSession(domain.TokenAccess, domain.SessionPayload{ID: "user-1"}, time.Minute)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCodec_SignSessionValidation(t *testing.T) {
	codec := NewCodec(testConfig())

	_, err := codec.SignSession(domain.TokenAccess, domain.SessionPayload{}, time.Minute)
	assert.Error(t, err)

	_, err = codec.SignSession(domain.TokenActivation, domain.SessionPayload{ID: "user-1"}, time.Minute)
	assert.Error(t, err)
}

func TestCodec_ActivationRoundTrip(t *testing.T) {
	clock := newClock()
	codec := NewCodec(testConfig()).WithClock(clock.Now)

	in := domain.ActivationPayload{
		User:           domain.PendingUser{Name: "Ana", Email: "ana@example.com", Password: "secret123"},
		ActivationCode: "4821",
	}
	raw, err := codec.SignActivation(in, 5*time.Minute)
	require.NoError(t, err)

	out, err := codec.VerifyActivation(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	clock.Advance(6 * time.Minute)
	_, err = codec.VerifyActivation(raw)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestCodec_ActivationRequiresEmailAndCode(t *testing.T) {
	codec := NewCodec(testConfig())

	raw, err := codec.SignActivation(domain.ActivationPayload{User: domain.PendingUser{Email: "ana@example.com"}}, time.Minute)
	require.NoError(t, err)

	_, err = codec.VerifyActivation(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCodec_ActivationTokenIsNotASession(t *testing.T) {
	codec := NewCodec(testConfig())

	raw, err := codec.SignActivation(domain.ActivationPayload{
		User:           domain.PendingUser{Email: "ana@example.com"},
		ActivationCode: "1234",
	}, time.Minute)
	require.NoError(t, err)

	_, err = codec.VerifySession(domain.TokenAccess, raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
