package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-vidtube/models"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// tokenCookie builds an HttpOnly cookie valid for the whole site.
// SameSite=None needs Secure, so insecure mode falls back to Lax.
func (h *Handler) tokenCookie(name, value string, maxAge time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(maxAge.Seconds()),
	}
	if h.server.CookieInsecure {
		cookie.Secure = false
		cookie.SameSite = http.SameSiteLaxMode
	}
	return cookie
}

func (h *Handler) setTokenCookies(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, h.tokenCookie(accessTokenCookie, pair.AccessToken, h.authCfg.AccessTokenExpiry))
	http.SetCookie(w, h.tokenCookie(refreshTokenCookie, pair.RefreshToken, h.authCfg.RefreshTokenExpiry))
}

// clearTokenCookies expires both cookies; MaxAge<0 is sent as Max-Age=0.
func (h *Handler) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		cookie := h.tokenCookie(name, "", 0)
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}

// cookieValue returns the named cookie's value or "".
func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
