package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/service"
	"github.com/MKhiriev/go-vidtube/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- Helpers ----

// okServices answers every call successfully so that routing, not business
// logic, decides the outcome.
func okServices() *service.Services {
	session := models.Session{User: alice, TokenPair: models.TokenPair{AccessToken: "at", RefreshToken: "rt"}}
	return &service.Services{
		AuthService: &mockAuthService{
			registerFn:       func(context.Context, models.RegisterRequest) (models.User, error) { return alice, nil },
			loginFn:          func(context.Context, models.LoginRequest) (models.Session, error) { return session, nil },
			logoutFn:         func(context.Context, string) error { return nil },
			refreshFn:        func(context.Context, string) (models.TokenPair, error) { return session.TokenPair, nil },
			changePasswordFn: func(context.Context, string, models.ChangePasswordRequest) error { return nil },
		},
		UserService: &mockUserService{
			updateAccountFn:    func(context.Context, string, models.AccountDetails) (models.User, error) { return alice, nil },
			updateAvatarFn:     func(context.Context, string, string) (models.User, error) { return alice, nil },
			updateCoverImageFn: func(context.Context, string, string) (models.User, error) { return alice, nil },
		},
		ChannelService: &mockChannelService{
			profileFn: func(_ context.Context, username, viewerID string) (models.ChannelProfile, error) {
				return models.ChannelProfile{Username: username, IsSubscribed: viewerID != ""}, nil
			},
			historyFn: func(context.Context, string) ([]models.WatchHistoryEntry, error) {
				return []models.WatchHistoryEntry{}, nil
			},
		},
		HealthService: &mockHealthService{status: models.HealthStatus{Status: "ok", BuildVersion: "test-version"}},
	}
}

func serve(router http.Handler, method, path string, decorate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if decorate != nil {
		decorate(req)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ---- Route table ----

func TestInit_RegistersRoutes(t *testing.T) {
	router := newTestHandler(t, okServices()).Init()

	routes := []struct {
		method  string
		pattern string
	}{
		{http.MethodGet, "/api/v1/healthcheck"},
		{http.MethodPost, "/api/v1/users/register"},
		{http.MethodPost, "/api/v1/users/login"},
		{http.MethodPost, "/api/v1/users/refresh-token"},
		{http.MethodGet, "/api/v1/users/channel/{username}"},
		{http.MethodPost, "/api/v1/users/logout"},
		{http.MethodPost, "/api/v1/users/change-password"},
		{http.MethodGet, "/api/v1/users/current"},
		{http.MethodPatch, "/api/v1/users/account"},
		{http.MethodPatch, "/api/v1/users/avatar"},
		{http.MethodPatch, "/api/v1/users/cover-image"},
		{http.MethodGet, "/api/v1/users/watch-history"},
		{http.MethodGet, "/metrics"},
	}

	registered := map[string]bool{}
	err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	for _, rt := range routes {
		assert.True(t, registered[rt.method+" "+rt.pattern], "route %s %s is not registered", rt.method, rt.pattern)
	}
}

// ---- Public and protected routes ----

func TestInit_PublicRoutes(t *testing.T) {
	router := newTestHandler(t, okServices()).Init()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"healthcheck", http.MethodGet, "/api/v1/healthcheck", http.StatusOK},
		{"register", http.MethodPost, "/api/v1/users/register", http.StatusCreated},
		{"login", http.MethodPost, "/api/v1/users/login", http.StatusOK},
		{"refresh", http.MethodPost, "/api/v1/users/refresh-token", http.StatusOK},
		{"channel", http.MethodGet, "/api/v1/users/channel/alice", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(router, tt.method, tt.path, nil)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			assert.NotEmpty(t, rr.Header().Get(traceIDHeader))
		})
	}
}

func TestInit_ProtectedRoutes(t *testing.T) {
	router := newTestHandler(t, okServices()).Init()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/users/logout"},
		{http.MethodPost, "/api/v1/users/change-password"},
		{http.MethodGet, "/api/v1/users/current"},
		{http.MethodPatch, "/api/v1/users/account"},
		{http.MethodPatch, "/api/v1/users/avatar"},
		{http.MethodPatch, "/api/v1/users/cover-image"},
		{http.MethodGet, "/api/v1/users/watch-history"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := serve(router, tt.method, tt.path, nil)
			requireErrorEnvelope(t, rr, http.StatusUnauthorized, "Unauthorized request")

			rr = serve(router, tt.method, tt.path, bearer(aliceToken))
			assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		})
	}
}

func TestInit_ChannelUsesOptionalAuth(t *testing.T) {
	router := newTestHandler(t, okServices()).Init()

	anonymous := decodeResponse(t, serve(router, http.MethodGet, "/api/v1/users/channel/bob", nil))
	assert.Equal(t, false, anonymous.Data.(map[string]any)["isSubscribed"])
	assert.Equal(t, "bob", anonymous.Data.(map[string]any)["username"])

	viewer := decodeResponse(t, serve(router, http.MethodGet, "/api/v1/users/channel/bob", bearer(aliceToken)))
	assert.Equal(t, true, viewer.Data.(map[string]any)["isSubscribed"])

	forged := serve(router, http.MethodGet, "/api/v1/users/channel/bob", bearer("forged"))
	assert.Equal(t, http.StatusOK, forged.Code)
}

// ---- Not found ----

func TestInit_NotFoundEnvelopes(t *testing.T) {
	router := newTestHandler(t, okServices()).Init()

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"unknown root path", http.MethodGet, "/nope"},
		{"unknown api path", http.MethodGet, "/api/v1/videos"},
		{"unknown users path", http.MethodGet, "/api/v1/users/unknown"},
		{"wrong method on login", http.MethodGet, "/api/v1/users/login"},
		{"wrong method on current", http.MethodDelete, "/api/v1/users/current"},
		{"static disabled path", http.MethodGet, "/api/v1/static/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(router, tt.method, tt.path, nil)
			requireErrorEnvelope(t, rr, http.StatusNotFound, "Route not found")
		})
	}
}

// ---- Static files ----

func TestInit_ServesLocalMedia(t *testing.T) {
	h := newTestHandler(t, okServices())
	require.NoError(t, os.MkdirAll(filepath.Join(h.staticDir, "vidtube"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(h.staticDir, "vidtube", "a.png"), []byte("png"), 0o644))

	rr := serve(h.Init(), http.MethodGet, "/static/vidtube/a.png", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "png", rr.Body.String())
}

func TestInit_NoStaticWithS3(t *testing.T) {
	h := newTestHandler(t, okServices())
	h.staticDir = ""

	rr := serve(h.Init(), http.MethodGet, "/static/vidtube/a.png", nil)

	requireErrorEnvelope(t, rr, http.StatusNotFound, "Route not found")
}

// ---- Middleware chain ----

func TestInit_RecoversPanics(t *testing.T) {
	svcs := okServices()
	svcs.HealthService = panickingHealth{}
	router := newTestHandler(t, svcs).Init()

	rr := serve(router, http.MethodGet, "/api/v1/healthcheck", nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

type panickingHealth struct{}

func (panickingHealth) Check(context.Context) (models.HealthStatus, error) {
	panic("boom")
}

func TestInit_RequestTimeout(t *testing.T) {
	svcs := okServices()
	svcs.HealthService = slowHealth{}
	h := newTestHandler(t, svcs)
	h.server.RequestTimeout = 20 * time.Millisecond

	rr := serve(h.Init(), http.MethodGet, "/api/v1/healthcheck", nil)

	requireErrorEnvelope(t, rr, http.StatusGatewayTimeout, "Request timed out")
}

// slowHealth blocks until the request context ends.
type slowHealth struct{}

func (slowHealth) Check(ctx context.Context) (models.HealthStatus, error) {
	<-ctx.Done()
	return models.HealthStatus{}, ctx.Err()
}

func TestInit_GzipJSON(t *testing.T) {
	router := newTestHandler(t, okServices()).Init()

	rr := serve(router, http.MethodGet, "/api/v1/healthcheck", func(r *http.Request) {
		r.Header.Set("Accept-Encoding", "gzip")
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
}

func TestInit_HealthcheckUnavailable(t *testing.T) {
	svcs := okServices()
	svcs.HealthService = &mockHealthService{err: service.ErrServiceUnavailable}
	router := newTestHandler(t, svcs).Init()

	rr := serve(router, http.MethodGet, "/api/v1/healthcheck", nil)

	requireErrorEnvelope(t, rr, http.StatusServiceUnavailable, "Service unavailable")
	assert.False(t, strings.Contains(rr.Body.String(), "buildVersion"))
}
