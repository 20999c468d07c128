// Package session owns the client-side authentication lifecycle: the persisted bearer
// token, the decoded identity, request decoration and the guard for protected commands.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the bearer token the client reads
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token is expired at now. Expiry at exactly now counts.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// DecodeToken reads the claims of a JWT without verifying its signature; the client holds
// no key and the server re-validates every request anyway.
func DecodeToken(raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrMalformedToken
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp == nil {
		return Claims{}, fmt.Errorf("%w: no exp claim", ErrMalformedToken)
	}

	subject, _ := claims.GetSubject()

	return Claims{
		Subject:   subject,
		ExpiresAt: exp.Time,
	}, nil
}
