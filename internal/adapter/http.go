package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/models"
	"github.com/go-resty/resty/v2"
)

const (
	apiPrefix      = "/api/v1"
	defaultTimeout = 15 * time.Second
)

// Config configures [NewHTTPClient].
type Config struct {
	// Address is the server base URL. A bare host:port gets an http scheme.
	Address string
	Timeout time.Duration
}

type httpClient struct {
	client *resty.Client

	mu     sync.RWMutex
	tokens models.TokenPair

	logger *logger.Logger
}

// NewHTTPClient constructs the REST implementation of [APIClient].
//
// The client keeps no cookie jar: the access token travels in the
// Authorization header and the refresh token in the refresh body, so the
// held pair is the only credential state.
func NewHTTPClient(cfg Config, logger *logger.Logger) (APIClient, error) {
	baseURL, err := normalizeBaseURL(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid api address: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL + apiPrefix).
		SetTimeout(cfg.Timeout).
		SetCookieJar(nil).
		SetHeader("Accept", "application/json")

	return &httpClient{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (c *httpClient) SetTokens(pair models.TokenPair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = models.TokenPair{
		AccessToken:  strings.TrimSpace(pair.AccessToken),
		RefreshToken: strings.TrimSpace(pair.RefreshToken),
	}
}

func (c *httpClient) Tokens() models.TokenPair {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

func (c *httpClient) Health(ctx context.Context) (models.HealthStatus, error) {
	resp, err := c.client.R().SetContext(ctx).Get("/healthcheck")
	if err != nil {
		return models.HealthStatus{}, fmt.Errorf("healthcheck request: %w", err)
	}
	return decodeData[models.HealthStatus](resp)
}

func (c *httpClient) Register(ctx context.Context, params RegisterParams) (models.User, error) {
	req := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"fullName": params.FullName,
			"email":    params.Email,
			"username": params.Username,
			"password": params.Password,
		})
	if params.AvatarPath != "" {
		req.SetFile("avatar", params.AvatarPath)
	}
	if params.CoverImagePath != "" {
		req.SetFile("coverImage", params.CoverImagePath)
	}

	resp, err := req.Post("/users/register")
	if err != nil {
		return models.User{}, fmt.Errorf("register request: %w", err)
	}
	return decodeData[models.User](resp)
}

func (c *httpClient) Login(ctx context.Context, credentials models.LoginRequest) (models.Session, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(credentials).
		Post("/users/login")
	if err != nil {
		return models.Session{}, fmt.Errorf("login request: %w", err)
	}
	session, err := decodeData[models.Session](resp)
	if err != nil {
		return session, err
	}

	c.SetTokens(session.TokenPair)
	c.logger.Debug().Str("user_id", session.User.ID).Msg("logged in")
	return session, nil
}

func (c *httpClient) Refresh(ctx context.Context) (models.TokenPair, error) {
	refreshToken := c.Tokens().RefreshToken
	if refreshToken == "" {
		return models.TokenPair{}, ErrNoRefreshToken
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.RefreshRequest{RefreshToken: refreshToken}).
		Post("/users/refresh-token")
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("refresh request: %w", err)
	}
	pair, err := decodeData[models.TokenPair](resp)
	if err != nil {
		return pair, err
	}

	c.SetTokens(pair)
	return pair, nil
}

func (c *httpClient) Logout(ctx context.Context) error {
	resp, err := c.authedRequest(ctx).Post("/users/logout")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	c.SetTokens(models.TokenPair{})
	return nil
}

func (c *httpClient) ChangePassword(ctx context.Context, passwords models.ChangePasswordRequest) error {
	resp, err := c.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(passwords).
		Post("/users/change-password")
	if err != nil {
		return fmt.Errorf("change password request: %w", err)
	}
	return mapHTTPError(resp)
}

func (c *httpClient) CurrentUser(ctx context.Context) (models.User, error) {
	resp, err := c.authedRequest(ctx).Get("/users/current")
	if err != nil {
		return models.User{}, fmt.Errorf("current user request: %w", err)
	}
	return decodeData[models.User](resp)
}

func (c *httpClient) UpdateAccount(ctx context.Context, details models.AccountDetails) (models.User, error) {
	resp, err := c.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(details).
		Patch("/users/account")
	if err != nil {
		return models.User{}, fmt.Errorf("update account request: %w", err)
	}
	return decodeData[models.User](resp)
}

func (c *httpClient) UpdateAvatar(ctx context.Context, path string) (models.User, error) {
	return c.uploadImage(ctx, "/users/avatar", "avatar", path)
}

func (c *httpClient) UpdateCoverImage(ctx context.Context, path string) (models.User, error) {
	return c.uploadImage(ctx, "/users/cover-image", "coverImage", path)
}

func (c *httpClient) uploadImage(ctx context.Context, endpoint, field, path string) (models.User, error) {
	resp, err := c.authedRequest(ctx).
		SetFile(field, path).
		Patch(endpoint)
	if err != nil {
		return models.User{}, fmt.Errorf("upload %s request: %w", field, err)
	}
	return decodeData[models.User](resp)
}

// ChannelProfile sends the access token when one is held so that the
// server can fill isSubscribed for the viewer.
func (c *httpClient) ChannelProfile(ctx context.Context, username string) (models.ChannelProfile, error) {
	resp, err := c.authedRequest(ctx).
		SetPathParam("username", username).
		Get("/users/channel/{username}")
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("channel profile request: %w", err)
	}
	return decodeData[models.ChannelProfile](resp)
}

func (c *httpClient) WatchHistory(ctx context.Context) ([]models.WatchHistoryEntry, error) {
	resp, err := c.authedRequest(ctx).Get("/users/watch-history")
	if err != nil {
		return nil, fmt.Errorf("watch history request: %w", err)
	}
	return decodeData[[]models.WatchHistoryEntry](resp)
}

func (c *httpClient) authedRequest(ctx context.Context) *resty.Request {
	req := c.client.R().SetContext(ctx)
	if token := c.Tokens().AccessToken; token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// decodeData maps the status and unwraps the envelope's data field.
func decodeData[T any](resp *resty.Response) (T, error) {
	var envelope struct {
		Data    T    `json:"data"`
		Success bool `json:"success"`
	}
	if err := mapHTTPError(resp); err != nil {
		return envelope.Data, err
	}

	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return envelope.Data, fmt.Errorf("%w: %w", ErrUnexpectedPayload, err)
	}
	if !envelope.Success {
		return envelope.Data, fmt.Errorf("%w: success=false on %d", ErrUnexpectedPayload, resp.StatusCode())
	}
	return envelope.Data, nil
}
