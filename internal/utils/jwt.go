package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-vidtube/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidTokenParams = errors.New("invalid params for generating JWT token")
	ErrWrongTokenKind     = errors.New("token kind mismatch")
	ErrEmptySubject       = errors.New("empty subject error")
)

// GenerateJWTToken creates a signed HMAC-SHA256 JWT for user.
//
// The token carries the standard claims iss, sub (user id), iat, exp and a
// unique jti, plus the kind as the "typ" claim. Access tokens additionally
// carry username, email and full name.
//
// Example usage:
//
//	signed, err := utils.GenerateJWTToken("vidtube", models.AccessToken, user, time.Hour, "secret")
func GenerateJWTToken(issuer string, kind models.TokenKind, user models.User, tokenDuration time.Duration, signKey string) (string, error) {
	if issuer == "" || tokenDuration == 0 || signKey == "" || user.ID == "" {
		return "", ErrInvalidTokenParams
	}

	now := time.Now()
	claims := &models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        NewUUIDGenerator().Generate(),
			Issuer:    issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Kind: kind,
	}
	if kind == models.AccessToken {
		claims.Username = user.Username
		claims.Email = user.Email
		claims.FullName = user.FullName
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return signed, nil
}

// ValidateAndParseJWTToken verifies the signature, issuer, expiry and kind of
// tokenString and returns its claims.
//
// Example usage:
//
//	claims, err := utils.ValidateAndParseJWTToken(raw, "secret", "vidtube", models.RefreshToken)
//	if err != nil {
//	    // handle invalid or expired token
//	}
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string, kind models.TokenKind) (models.TokenClaims, error) {
	var claims models.TokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.TokenClaims{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Kind != kind {
		return models.TokenClaims{}, ErrWrongTokenKind
	}
	if claims.Subject == "" {
		return models.TokenClaims{}, ErrEmptySubject
	}

	return claims, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>" header.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
