package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/service"
	"github.com/MKhiriev/go-vidtube/internal/utils"
)

// auth rejects the request with 401 unless it carries a valid access token
// of an existing user. The sanitized user and its id are stored in the
// request context via [utils.WithUser], and the request logger gains a
// user_id field.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := accessTokenFromRequest(r)
		if err != nil {
			h.writeError(w, r, service.ErrUnauthorized.Wrap(err))
			return
		}

		user, err := h.services.AuthService.Authenticate(r.Context(), token)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(r, user.ID, utils.WithUser(r.Context(), user))))
	})
}

// optionalAuth attaches the user when a valid access token is present and
// lets the request through anonymously otherwise.
func (h *Handler) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := accessTokenFromRequest(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := h.services.AuthService.Authenticate(r.Context(), token)
		if err != nil {
			logger.FromRequest(r).Debug().Err(err).Msg("ignoring invalid access token on public route")
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(r, user.ID, utils.WithUser(r.Context(), user))))
	})
}

// accessTokenFromRequest prefers the accessToken cookie and falls back to
// an "Authorization: Bearer <token>" header.
func accessTokenFromRequest(r *http.Request) (string, error) {
	if token := cookieValue(r, accessTokenCookie); token != "" {
		return token, nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrEmptyAuthorizationHeader
	}

	token, err := utils.ParseBearerToken(header)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAuthorizationHeader, err)
	}
	return token, nil
}

// withPrincipal adds user_id to the request logger stored in ctx.
func withPrincipal(r *http.Request, userID string, ctx context.Context) context.Context {
	return logger.FromRequest(r).WithUserID(userID).WithContext(ctx)
}
