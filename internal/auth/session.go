package auth

import (
	"strings"
	"time"
)

// Session resolves the current user from the stored token, falling back to a
// static id for local backends.
type Session struct {
	Fallback string // used when no usable token is present
	Now      func() time.Time
}

// CurrentUser returns the token subject, or Fallback when there is no token.
// An expired or undecodable token means no user.
func (s Session) CurrentUser() (string, bool) {
	ti, err := GetToken()
	if err != nil {
		return "", false
	}
	if ti == nil || strings.TrimSpace(ti.Token) == "" {
		return s.Fallback, s.Fallback != ""
	}
	c, err := ParseClaims(ti.Token)
	if err != nil {
		return "", false
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if c.Expired(now()) {
		return "", false
	}
	return c.Subject, true
}

// SignOut forgets the saved token.
func (s Session) SignOut() error { return DeleteToken() }

// Token returns the raw bearer token, or "" when signed out.
func (s Session) Token() string {
	ti, err := GetToken()
	if err != nil || ti == nil {
		return ""
	}
	return ti.Token
}
