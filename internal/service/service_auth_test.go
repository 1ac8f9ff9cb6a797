package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/config"
	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/media"
	"github.com/MKhiriev/go-vidtube/internal/mock"
	"github.com/MKhiriev/go-vidtube/internal/store"
	"github.com/MKhiriev/go-vidtube/internal/utils"
	"github.com/MKhiriev/go-vidtube/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

var testAuthConfig = config.Auth{
	AccessTokenSecret:  "access-secret",
	AccessTokenExpiry:  time.Hour,
	RefreshTokenSecret: "refresh-secret",
	RefreshTokenExpiry: 24 * time.Hour,
	TokenIssuer:        "vidtube-test",
}

var testHasher = utils.NewPasswordHasher(bcrypt.MinCost)

// newTestAuthSvc builds an authService with a mocked repository and uploader
// and the real token issuer and hasher.
func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (*authService, *mock.MockUserRepository, *mock.MockUploader) {
	t.Helper()
	repo := mock.NewMockUserRepository(ctrl)
	uploader := mock.NewMockUploader(ctrl)

	svc := NewAuthService(repo, uploader, NewTokenIssuer(testAuthConfig), testHasher, logger.Nop()).(*authService)
	return svc, repo, uploader
}

func hashed(t *testing.T, plain string) string {
	t.Helper()
	h, err := testHasher.Hash(plain)
	require.NoError(t, err)
	return h
}

func storedAlice(t *testing.T) models.User {
	return models.User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@x.com",
		FullName:     "Alice A",
		Avatar:       "https://cdn/a.png",
		WatchHistory: []string{},
		PasswordHash: hashed(t, "correct-horse"),
	}
}

func validRegisterRequest() models.RegisterRequest {
	return models.RegisterRequest{
		FullName:   "Alice A",
		Email:      "alice@x.com",
		Username:   "Alice",
		Password:   "correct-horse",
		AvatarPath: "/tmp/avatar.png",
	}
}

func assertServiceError(t *testing.T, err error, sentinel *Error, status int) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel), "expected %v, got %v", sentinel, err)
	assert.Equal(t, status, AsError(err).Status)
}

// ── Register ─────────────────────────────────────────────────────────────────

func TestAuthService_Register_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, uploader := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	req := validRegisterRequest()
	req.CoverImagePath = "/tmp/cover.png"

	stored := storedAlice(t)
	stored.CoverImage = "https://cdn/c.png"
	stored.RefreshToken = "should-not-leak"

	gomock.InOrder(
		repo.EXPECT().FindUserByUsernameOrEmail(ctx, "alice", "alice@x.com").Return(models.User{}, store.ErrUserNotFound),
		uploader.EXPECT().Upload(ctx, "/tmp/avatar.png").Return(media.UploadResult{URL: "https://cdn/a.png"}, nil),
		uploader.EXPECT().Upload(ctx, "/tmp/cover.png").Return(media.UploadResult{URL: "https://cdn/c.png"}, nil),
		repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, "alice", u.Username, "username must be stored lowercase")
			assert.Equal(t, "https://cdn/a.png", u.Avatar)
			assert.Equal(t, "https://cdn/c.png", u.CoverImage)
			assert.NotEqual(t, "correct-horse", u.PasswordHash, "raw password must never be persisted")
			assert.True(t, testHasher.Verify(u.PasswordHash, "correct-horse"))
			u.ID = "user-1"
			return u, nil
		}),
		repo.EXPECT().FindUserByID(ctx, "user-1").Return(stored, nil),
	)

	user, err := svc.Register(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "user-1", user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.Empty(t, user.RefreshToken)
	assert.Equal(t, "https://cdn/c.png", user.CoverImage)
}

func TestAuthService_Register_BlankFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.RegisterRequest)
	}{
		{name: "full name", mutate: func(r *models.RegisterRequest) { r.FullName = "" }},
		{name: "email whitespace", mutate: func(r *models.RegisterRequest) { r.Email = "   " }},
		{name: "username", mutate: func(r *models.RegisterRequest) { r.Username = "\t" }},
		{name: "password", mutate: func(r *models.RegisterRequest) { r.Password = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, _, _ := newTestAuthSvc(t, ctrl)

			req := validRegisterRequest()
			tt.mutate(&req)

			_, err := svc.Register(context.Background(), req)
			assertServiceError(t, err, ErrAllFieldsRequired, http.StatusBadRequest)
		})
	}
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No repository or uploader calls are expected: nothing may be uploaded.
	svc, _, _ := newTestAuthSvc(t, ctrl)

	req := validRegisterRequest()
	req.Password = strings.Repeat("x", 80)

	_, err := svc.Register(context.Background(), req)
	assertServiceError(t, err, ErrPasswordTooLong, http.StatusBadRequest)
	assert.Equal(t, KindValidation, AsError(err).Kind)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	repo.EXPECT().FindUserByUsernameOrEmail(gomock.Any(), "alice", "alice@x.com").Return(storedAlice(t), nil)

	_, err := svc.Register(context.Background(), validRegisterRequest())
	assertServiceError(t, err, ErrUserAlreadyExists, http.StatusConflict)
}

func TestAuthService_Register_MissingAvatar(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	repo.EXPECT().FindUserByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserNotFound)

	req := validRegisterRequest()
	req.AvatarPath = ""

	_, err := svc.Register(context.Background(), req)
	assertServiceError(t, err, ErrAvatarRequired, http.StatusBadRequest)
}

func TestAuthService_Register_AvatarUploadFails(t *testing.T) {
	tests := []struct {
		name   string
		result media.UploadResult
		err    error
	}{
		{name: "uploader error", err: media.ErrUploadFailed},
		{name: "empty url", result: media.UploadResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, repo, uploader := newTestAuthSvc(t, ctrl)

			repo.EXPECT().FindUserByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserNotFound)
			uploader.EXPECT().Upload(gomock.Any(), "/tmp/avatar.png").Return(tt.result, tt.err)

			_, err := svc.Register(context.Background(), validRegisterRequest())
			assertServiceError(t, err, ErrAvatarUploadFailed, http.StatusBadRequest)
			assert.Equal(t, KindUpload, AsError(err).Kind)
		})
	}
}

func TestAuthService_Register_CoverUploadFailureIsTolerated(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, uploader := newTestAuthSvc(t, ctrl)

	req := validRegisterRequest()
	req.CoverImagePath = "/tmp/cover.png"

	repo.EXPECT().FindUserByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserNotFound)
	uploader.EXPECT().Upload(gomock.Any(), "/tmp/avatar.png").Return(media.UploadResult{URL: "https://cdn/a.png"}, nil)
	uploader.EXPECT().Upload(gomock.Any(), "/tmp/cover.png").Return(media.UploadResult{}, media.ErrUploadFailed)
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u models.User) (models.User, error) {
		assert.Empty(t, u.CoverImage)
		u.ID = "user-1"
		return u, nil
	})
	repo.EXPECT().FindUserByID(gomock.Any(), "user-1").Return(storedAlice(t), nil)

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
}

func TestAuthService_Register_CreateConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, uploader := newTestAuthSvc(t, ctrl)

	repo.EXPECT().FindUserByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserNotFound)
	uploader.EXPECT().Upload(gomock.Any(), "/tmp/avatar.png").Return(media.UploadResult{URL: "https://cdn/a.png"}, nil)
	uploader.EXPECT().Upload(gomock.Any(), "").Return(media.UploadResult{}, nil)
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserAlreadyExists)

	_, err := svc.Register(context.Background(), validRegisterRequest())
	assertServiceError(t, err, ErrUserAlreadyExists, http.StatusConflict)
}

func TestAuthService_Register_ReadBackMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, uploader := newTestAuthSvc(t, ctrl)

	repo.EXPECT().FindUserByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserNotFound)
	uploader.EXPECT().Upload(gomock.Any(), "/tmp/avatar.png").Return(media.UploadResult{URL: "https://cdn/a.png"}, nil)
	uploader.EXPECT().Upload(gomock.Any(), "").Return(media.UploadResult{}, nil)
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(models.User{ID: "user-1"}, nil)
	repo.EXPECT().FindUserByID(gomock.Any(), "user-1").Return(models.User{}, store.ErrUserNotFound)

	_, err := svc.Register(context.Background(), validRegisterRequest())
	assertServiceError(t, err, ErrRegisterFailed, http.StatusInternalServerError)
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	alice := storedAlice(t)
	var storedRefresh string

	repo.EXPECT().FindUserByUsernameOrEmail(ctx, "alice", "").Return(alice, nil)
	repo.EXPECT().SetRefreshToken(ctx, "user-1", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, token string) error {
		storedRefresh = token
		return nil
	})

	session, err := svc.Login(ctx, models.LoginRequest{Username: " ALICE ", Password: "correct-horse"})
	require.NoError(t, err)

	assert.Equal(t, storedRefresh, session.RefreshToken, "returned refresh token must be the stored one")
	assert.NotEmpty(t, session.AccessToken)
	assert.Empty(t, session.User.PasswordHash)
	assert.Empty(t, session.User.RefreshToken)

	claims, err := svc.tokens.Verify(models.AccessToken, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "alice", claims.Username)
}

func TestAuthService_Login_ByEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	repo.EXPECT().FindUserByUsernameOrEmail(gomock.Any(), "", "alice@x.com").Return(storedAlice(t), nil)
	repo.EXPECT().SetRefreshToken(gomock.Any(), "user-1", gomock.Any()).Return(nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "alice@x.com", Password: "correct-horse"})
	require.NoError(t, err)
}

func TestAuthService_Login_NoIdentifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.Login(context.Background(), models.LoginRequest{Password: "x"})
	assertServiceError(t, err, ErrCredentialsRequired, http.StatusBadRequest)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	repo.EXPECT().FindUserByUsernameOrEmail(gomock.Any(), "bob", "").Return(models.User{}, store.ErrUserNotFound)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "bob", Password: "x"})
	assertServiceError(t, err, ErrUserDoesNotExist, http.StatusNotFound)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	repo.EXPECT().FindUserByUsernameOrEmail(gomock.Any(), "alice", "").Return(storedAlice(t), nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "wrong"})
	assertServiceError(t, err, ErrInvalidPassword, http.StatusUnauthorized)
}

func TestAuthService_Login_StoreTokenFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	repo.EXPECT().FindUserByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(storedAlice(t), nil)
	repo.EXPECT().SetRefreshToken(gomock.Any(), "user-1", gomock.Any()).Return(errors.New("db down"))

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "correct-horse"})
	assertServiceError(t, err, ErrTokenGenerationFailed, http.StatusInternalServerError)
}

// ── Logout ───────────────────────────────────────────────────────────────────

func TestAuthService_Logout_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	repo.EXPECT().ClearRefreshToken(gomock.Any(), "user-1").Return(nil).Times(2)

	require.NoError(t, svc.Logout(context.Background(), "user-1"))
	require.NoError(t, svc.Logout(context.Background(), "user-1"))
}

func TestAuthService_Logout_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	repo.EXPECT().ClearRefreshToken(gomock.Any(), "user-1").Return(errors.New("db down"))

	err := svc.Logout(context.Background(), "user-1")
	assertServiceError(t, err, ErrInternal, http.StatusInternalServerError)
}

// ── Refresh ──────────────────────────────────────────────────────────────────

func TestAuthService_Refresh_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	alice := storedAlice(t)
	current, err := svc.tokens.Issue(models.RefreshToken, alice)
	require.NoError(t, err)
	alice.RefreshToken = current

	repo.EXPECT().FindUserByID(gomock.Any(), "user-1").Return(alice, nil)
	repo.EXPECT().RotateRefreshToken(gomock.Any(), "user-1", current, gomock.Any()).Return(nil)

	pair, err := svc.Refresh(context.Background(), current)
	require.NoError(t, err)

	assert.NotEqual(t, current, pair.RefreshToken)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestAuthService_Refresh_Rejections(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _ := newTestAuthSvc(t, ctrl)

	alice := storedAlice(t)
	access, err := svc.tokens.Issue(models.AccessToken, alice)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  *Error
	}{
		{name: "absent", token: "", want: ErrRefreshTokenRequired},
		{name: "whitespace", token: "  ", want: ErrRefreshTokenRequired},
		{name: "garbage", token: "not.a.jwt", want: ErrInvalidRefreshToken},
		{name: "access token", token: access, want: ErrInvalidRefreshToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Refresh(context.Background(), tt.token)
			assertServiceError(t, err, tt.want, http.StatusUnauthorized)
		})
	}
}

func TestAuthService_Refresh_UserGone(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	token, err := svc.tokens.Issue(models.RefreshToken, storedAlice(t))
	require.NoError(t, err)

	repo.EXPECT().FindUserByID(gomock.Any(), "user-1").Return(models.User{}, store.ErrUserNotFound)

	_, err = svc.Refresh(context.Background(), token)
	assertServiceError(t, err, ErrInvalidRefreshToken, http.StatusUnauthorized)
}

func TestAuthService_Refresh_StaleToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	alice := storedAlice(t)
	stale, err := svc.tokens.Issue(models.RefreshToken, alice)
	require.NoError(t, err)
	alice.RefreshToken, err = svc.tokens.Issue(models.RefreshToken, alice)
	require.NoError(t, err)

	repo.EXPECT().FindUserByID(gomock.Any(), "user-1").Return(alice, nil)

	_, err = svc.Refresh(context.Background(), stale)
	assertServiceError(t, err, ErrRefreshTokenExpiredOrUsed, http.StatusUnauthorized)
}

func TestAuthService_Refresh_AfterLogout(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	alice := storedAlice(t)
	token, err := svc.tokens.Issue(models.RefreshToken, alice)
	require.NoError(t, err)

	repo.EXPECT().FindUserByID(gomock.Any(), "user-1").Return(alice, nil)

	_, err = svc.Refresh(context.Background(), token)
	assertServiceError(t, err, ErrRefreshTokenExpiredOrUsed, http.StatusUnauthorized)
}

func TestAuthService_Refresh_LostRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	alice := storedAlice(t)
	current, err := svc.tokens.Issue(models.RefreshToken, alice)
	require.NoError(t, err)
	alice.RefreshToken = current

	repo.EXPECT().FindUserByID(gomock.Any(), "user-1").Return(alice, nil)
	repo.EXPECT().RotateRefreshToken(gomock.Any(), "user-1", current, gomock.Any()).Return(store.ErrRefreshTokenMismatch)

	_, err = svc.Refresh(context.Background(), current)
	assertServiceError(t, err, ErrRefreshTokenExpiredOrUsed, http.StatusUnauthorized)
}

// ── ChangePassword ───────────────────────────────────────────────────────────

func TestAuthService_ChangePassword_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	repo.EXPECT().FindUserByID(gomock.Any(), "user-1").Return(storedAlice(t), nil)
	repo.EXPECT().UpdatePassword(gomock.Any(), "user-1", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, hash string) error {
		assert.True(t, testHasher.Verify(hash, "battery-staple"))
		return nil
	})

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{OldPassword: "correct-horse", NewPassword: "battery-staple"})
	require.NoError(t, err)
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	// UpdatePassword is not expected: the hash must stay untouched.
	repo.EXPECT().FindUserByID(gomock.Any(), "user-1").Return(storedAlice(t), nil)

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "battery-staple"})
	assertServiceError(t, err, ErrInvalidOldPassword, http.StatusBadRequest)
	assert.Equal(t, KindAuth, AsError(err).Kind)
}

func TestAuthService_ChangePassword_EmptyNewPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _ := newTestAuthSvc(t, ctrl)

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{OldPassword: "correct-horse", NewPassword: " "})
	assertServiceError(t, err, ErrPasswordRequired, http.StatusBadRequest)
}

func TestAuthService_ChangePassword_NewPasswordTooLong(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _ := newTestAuthSvc(t, ctrl)

	err := svc.ChangePassword(context.Background(), "user-1",
		models.ChangePasswordRequest{OldPassword: "correct-horse", NewPassword: strings.Repeat("x", 80)})
	assertServiceError(t, err, ErrPasswordTooLong, http.StatusBadRequest)
	assert.Equal(t, KindValidation, AsError(err).Kind)
}

// ── Authenticate ─────────────────────────────────────────────────────────────

func TestAuthService_Authenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	alice := storedAlice(t)
	alice.RefreshToken = "stored"
	access, err := svc.tokens.Issue(models.AccessToken, alice)
	require.NoError(t, err)

	repo.EXPECT().FindUserByID(gomock.Any(), "user-1").Return(alice, nil)

	user, err := svc.Authenticate(context.Background(), access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.Empty(t, user.RefreshToken)
}

func TestAuthService_Authenticate_Rejections(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, repo, _ := newTestAuthSvc(t, ctrl)

	alice := storedAlice(t)
	refresh, err := svc.tokens.Issue(models.RefreshToken, alice)
	require.NoError(t, err)
	access, err := svc.tokens.Issue(models.AccessToken, alice)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "")
	assertServiceError(t, err, ErrUnauthorized, http.StatusUnauthorized)

	_, err = svc.Authenticate(context.Background(), refresh)
	assertServiceError(t, err, ErrInvalidAccessToken, http.StatusUnauthorized)

	repo.EXPECT().FindUserByID(gomock.Any(), "user-1").Return(models.User{}, store.ErrUserNotFound)
	_, err = svc.Authenticate(context.Background(), access)
	assertServiceError(t, err, ErrInvalidAccessToken, http.StatusUnauthorized)
}
