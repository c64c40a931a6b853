// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// MintCredential builds an unsigned JWT carrying claims. The dashboard never
// verifies signatures, so alg "none" is enough to exercise decoding.
func MintCredential(t testing.TB, claims jwt.MapClaims) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return s
}

// MintFor builds a credential for subject expiring at exp.
func MintFor(t testing.TB, subject string, exp time.Time) string {
	t.Helper()
	return MintCredential(t, jwt.MapClaims{
		"sub": subject,
		"exp": exp.Unix(),
	})
}
