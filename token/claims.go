// Package token decodes the credential issued by the backend's login endpoint.
//
// Decoding is a format parse only. Signatures are never verified here: the
// dashboard has no key material, and the backend remains the authority that
// rejects tampered or revoked credentials with 401 on use. Claims returned by
// this package must therefore never be treated as proof of anything beyond
// "this is what the stored credential says".
package token

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedCredential is returned when a credential cannot be parsed
	// into the expected claims shape.
	ErrMalformedCredential = errors.New("malformed credential")

	// ErrMissingClaim is returned when a required claim is missing
	ErrMissingClaim = errors.New("missing required claim")
)

// maxExp bounds exp so that its millisecond value fits in an int64
const maxExp = math.MaxInt64 / 1000

// registered claim names that are lifted out of Attributes
var registered = map[string]struct{}{
	"sub": {},
	"exp": {},
}

// Claims holds what a credential asserts about its holder.
type Claims struct {
	Subject string
	// ExpiresAt is in seconds since the Unix epoch.
	ExpiresAt int64
	// Attributes carries every other claim embedded in the credential.
	Attributes map[string]any
}

// Decode extracts claims from a credential without verifying its signature.
func Decode(credential string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	raw := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(credential, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}

	return parseClaims(raw)
}

func parseClaims(raw jwt.MapClaims) (*Claims, error) {
	exp, err := raw.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: exp: %v", ErrMalformedCredential, err)
	}
	if exp == nil {
		return nil, fmt.Errorf("%w: %w: exp", ErrMalformedCredential, ErrMissingClaim)
	}
	if e := exp.Unix(); e > maxExp || e < -maxExp {
		return nil, fmt.Errorf("%w: exp %d out of range", ErrMalformedCredential, e)
	}

	sub, err := raw.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("%w: sub: %v", ErrMalformedCredential, err)
	}

	attrs := make(map[string]any, len(raw))
	for k, v := range raw {
		if _, ok := registered[k]; ok {
			continue
		}
		attrs[k] = v
	}

	return &Claims{
		Subject:    sub,
		ExpiresAt:  exp.Unix(),
		Attributes: attrs,
	}, nil
}

// IsExpired reports whether the claims have lapsed at now. Claims carry
// second resolution; the comparison is done in milliseconds.
func IsExpired(claims *Claims, now time.Time) bool {
	switch {
	case claims.ExpiresAt > maxExp:
		return false
	case claims.ExpiresAt < -maxExp:
		return true
	}
	return claims.ExpiresAt*1000 <= now.UnixMilli()
}

// ExpiryTime returns the expiry as a time.Time
func (c *Claims) ExpiryTime() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

// StringAttribute returns a string-valued embedded claim.
func (c *Claims) StringAttribute(name string) (string, bool) {
	v, ok := c.Attributes[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
