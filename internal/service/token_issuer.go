package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/config"
	"github.com/MKhiriev/go-vidtube/internal/utils"
	"github.com/MKhiriev/go-vidtube/models"
)

var errUnknownTokenKind = errors.New("unknown token kind")

type signingContext struct {
	secret string
	expiry time.Duration
}

// tokenIssuer implements [TokenIssuer] with HS256 JWTs.
type tokenIssuer struct {
	issuer   string
	contexts map[models.TokenKind]signingContext
}

// NewTokenIssuer builds the access and refresh signing contexts from cfg.
func NewTokenIssuer(cfg config.Auth) TokenIssuer {
	return &tokenIssuer{
		issuer: cfg.TokenIssuer,
		contexts: map[models.TokenKind]signingContext{
			models.AccessToken:  {secret: cfg.AccessTokenSecret, expiry: cfg.AccessTokenExpiry},
			models.RefreshToken: {secret: cfg.RefreshTokenSecret, expiry: cfg.RefreshTokenExpiry},
		},
	}
}

func (t *tokenIssuer) Issue(kind models.TokenKind, user models.User) (string, error) {
	sc, ok := t.contexts[kind]
	if !ok {
		return "", ErrTokenGenerationFailed.Wrap(fmt.Errorf("%w: %q", errUnknownTokenKind, kind))
	}

	token, err := utils.GenerateJWTToken(t.issuer, kind, user, sc.expiry, sc.secret)
	if err != nil {
		return "", ErrTokenGenerationFailed.Wrap(err)
	}
	return token, nil
}

func (t *tokenIssuer) IssuePair(user models.User) (models.TokenPair, error) {
	accessToken, err := t.Issue(models.AccessToken, user)
	if err != nil {
		return models.TokenPair{}, err
	}
	refreshToken, err := t.Issue(models.RefreshToken, user)
	if err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Verify fails with ErrInvalidAccessToken or ErrInvalidRefreshToken.
func (t *tokenIssuer) Verify(kind models.TokenKind, token string) (models.TokenClaims, error) {
	invalid := ErrInvalidAccessToken
	if kind == models.RefreshToken {
		invalid = ErrInvalidRefreshToken
	}

	sc, ok := t.contexts[kind]
	if !ok {
		return models.TokenClaims{}, invalid.Wrap(fmt.Errorf("%w: %q", errUnknownTokenKind, kind))
	}

	claims, err := utils.ValidateAndParseJWTToken(token, sc.secret, t.issuer, kind)
	if err != nil {
		return models.TokenClaims{}, invalid.Wrap(err)
	}
	return claims, nil
}

func (t *tokenIssuer) Expiry(kind models.TokenKind) time.Duration {
	return t.contexts[kind].expiry
}
