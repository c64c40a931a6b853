package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/lms-dashboard/internal/testutil"
)

func TestDecode(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	credential := testutil.MintCredential(t, jwt.MapClaims{
		"sub":  "u1",
		"exp":  exp,
		"role": "teacher",
		"iat":  time.Now().Unix(),
	})

	claims, err := Decode(credential)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, exp, claims.ExpiresAt)

	role, ok := claims.StringAttribute("role")
	assert.True(t, ok)
	assert.Equal(t, "teacher", role)
	assert.NotContains(t, claims.Attributes, "sub")
	assert.NotContains(t, claims.Attributes, "exp")
	assert.Contains(t, claims.Attributes, "iat")
}

func TestDecode_SignatureIsNotVerified(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	credential, err := tok.SignedString([]byte("a key the dashboard never sees"))
	require.NoError(t, err)

	claims, err := Decode(credential)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		credential string
	}{
		{name: "empty", credential: ""},
		{name: "garbage", credential: "not-a-token"},
		{name: "two segments", credential: "abc.def"},
		{name: "bad base64", credential: "!!!.@@@.###"},
		{name: "payload not json", credential: "eyJhbGciOiJub25lIn0.bm90IGpzb24."},
		{name: "missing exp", credential: testutil.MintCredential(t, jwt.MapClaims{"sub": "u1"})},
		{name: "non numeric exp", credential: testutil.MintCredential(t, jwt.MapClaims{"sub": "u1", "exp": "tomorrow"})},
		{name: "non string sub", credential: testutil.MintCredential(t, jwt.MapClaims{"sub": 12, "exp": time.Now().Unix()})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Decode(tt.credential)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrMalformedCredential)
		})
	}
}

func TestDecode_MissingExp(t *testing.T) {
	_, err := Decode(testutil.MintCredential(t, jwt.MapClaims{"sub": "u1"}))
	assert.ErrorIs(t, err, ErrMissingClaim)
	assert.Contains(t, err.Error(), "exp")
}

func TestDecode_ExpOutOfRange(t *testing.T) {
	for _, exp := range []any{int64(-9_223_372_036_854_776), 9.3e15, 1e19} {
		credential := testutil.MintCredential(t, jwt.MapClaims{"sub": "u1", "exp": exp})

		_, err := Decode(credential)
		assert.ErrorIs(t, err, ErrMalformedCredential, "exp %v", exp)
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name string
		exp  int64
		now  time.Time
		want bool
	}{
		{name: "future", exp: now.Unix() + 3600, now: now, want: false},
		{name: "past", exp: now.Unix() - 1, now: now, want: true},
		{name: "exactly now", exp: now.Unix(), now: now, want: true},
		{name: "one millisecond before", exp: now.Unix(), now: now.Add(-time.Millisecond), want: false},
		{name: "far future", exp: 9_300_000_000_000_000, now: now, want: false},
		{name: "far past", exp: -9_223_372_036_854_776, now: now, want: true},
		{name: "upper bound", exp: maxExp, now: now, want: false},
		{name: "lower bound", exp: -maxExp, now: now, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExpired(&Claims{ExpiresAt: tt.exp}, tt.now))
		})
	}
}
