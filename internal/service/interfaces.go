package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vidtube/models"
)

// AuthService runs the session lifecycle: registration, login, logout,
// refresh token rotation and password change. Authenticate resolves the
// principal of an access token for the auth middleware.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (models.Session, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error
	Authenticate(ctx context.Context, accessToken string) (models.User, error)
}

// UserService updates the profile of an authenticated user. Image methods
// take the local temp path of the uploaded file.
type UserService interface {
	UpdateAccountDetails(ctx context.Context, userID string, details models.AccountDetails) (models.User, error)
	UpdateAvatar(ctx context.Context, userID, avatarPath string) (models.User, error)
	UpdateCoverImage(ctx context.Context, userID, coverImagePath string) (models.User, error)
}

// ChannelService serves the read-only channel views.
type ChannelService interface {
	GetUserChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	GetWatchHistory(ctx context.Context, userID string) ([]models.WatchHistoryEntry, error)
}

// HealthService reports build info and store liveness.
type HealthService interface {
	Check(ctx context.Context) (models.HealthStatus, error)
}

// TokenIssuer signs and verifies the two token kinds. Each kind has its own
// secret and lifetime.
type TokenIssuer interface {
	Issue(kind models.TokenKind, user models.User) (string, error)
	IssuePair(user models.User) (models.TokenPair, error)
	Verify(kind models.TokenKind, token string) (models.TokenClaims, error)
	Expiry(kind models.TokenKind) time.Duration
}
