package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes the two signing contexts of the token issuer.
type TokenKind string

const (
	// AccessToken is the short-lived bearer credential.
	AccessToken TokenKind = "access"

	// RefreshToken is the long-lived credential exchanged for a new pair.
	RefreshToken TokenKind = "refresh"
)

// TokenClaims is the claim set carried by both token kinds.
//
// Kind is embedded as the "typ" claim so that a token signed for one context
// is rejected by the other even if both secrets were misconfigured to match.
// Username, Email and FullName are only populated for access tokens.
type TokenClaims struct {
	jwt.RegisteredClaims

	Kind     TokenKind `json:"typ"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
	FullName string    `json:"fullName,omitempty"`
}

// UserID returns the subject claim, which holds the user identifier.
func (c TokenClaims) UserID() string {
	return c.Subject
}

// TokenPair is a freshly issued access/refresh pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is the result of a successful login.
type Session struct {
	User User `json:"user"`
	TokenPair
}
