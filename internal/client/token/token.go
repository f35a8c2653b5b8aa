// Package token decodes bearer tokens issued by the marketplace backend
// into identity claims. The backend is the authority on token validity;
// the client only needs the embedded payload, so tokens are parsed without
// signature or expiry verification — a token that fails to decode is
// treated as unusable, nothing more.
package token

import (
	"fmt"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// AdminAuthority is the authority label that marks administrator accounts.
const AdminAuthority = "ROLE_ADMIN"

// Claims holds the identity payload embedded in a session token.
type Claims struct {
	// Authorities lists the role labels granted to the subject.
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// Decode extracts the claims from a raw token string without verifying
// the signature or expiry. It returns an error only when the token is
// structurally malformed.
func Decode(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return claims, nil
}

// HasAuthority reports whether the claims grant the given authority label.
func (c *Claims) HasAuthority(authority string) bool {
	if c == nil {
		return false
	}
	return slices.Contains(c.Authorities, authority)
}

// IsAdmin reports whether the claims grant the admin authority.
// A nil receiver reports false: no session means no privileges, not an error.
func (c *Claims) IsAdmin() bool {
	return c.HasAuthority(AdminAuthority)
}
