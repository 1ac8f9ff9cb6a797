package service

import (
	"context"
	"errors"
	"strings"

	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/media"
	"github.com/MKhiriev/go-vidtube/internal/store"
	"github.com/MKhiriev/go-vidtube/internal/utils"
	"github.com/MKhiriev/go-vidtube/internal/validators"
	"github.com/MKhiriev/go-vidtube/models"
)

// authService is the concrete implementation of AuthService.
//
// Every operation is a fixed sequence of store, hasher, uploader and token
// issuer calls; the first failing step ends the operation with an [*Error].
type authService struct {
	// userRepository persists accounts and the single active refresh token.
	userRepository store.UserRepository

	// uploader stores avatar and cover images at registration.
	uploader media.Uploader

	// tokens signs and verifies access and refresh tokens.
	tokens TokenIssuer

	// hasher hashes and verifies passwords with bcrypt.
	hasher *utils.PasswordHasher

	validator validators.Validator

	logger *logger.Logger
}

// NewAuthService constructs an AuthService. All collaborators are required.
func NewAuthService(
	userRepository store.UserRepository,
	uploader media.Uploader,
	tokens TokenIssuer,
	hasher *utils.PasswordHasher,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepository: userRepository,
		uploader:       uploader,
		tokens:         tokens,
		hasher:         hasher,
		validator:      validators.NewUserValidator(),
		logger:         logger,
	}
}

// normalizeUsername trims and lowercases; usernames are stored lowercase.
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register creates an account.
//
// Order of checks: text fields and password length (400), duplicate
// username or email (409), avatar presence (400), avatar upload (400). The
// password is hashed before anything is uploaded. The cover image is optional
// and a failed cover upload leaves it empty. The stored record is re-read
// before it is returned without its secrets.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req,
		validators.FieldFullName, validators.FieldEmail, validators.FieldUsername, validators.FieldPassword); err != nil {
		if errors.Is(err, validators.ErrPasswordTooLong) {
			return models.User{}, ErrPasswordTooLong
		}
		return models.User{}, ErrAllFieldsRequired
	}

	username := normalizeUsername(req.Username)
	email := strings.TrimSpace(req.Email)

	_, err := a.userRepository.FindUserByUsernameOrEmail(ctx, username, email)
	switch {
	case err == nil:
		return models.User{}, ErrUserAlreadyExists
	case !errors.Is(err, store.ErrUserNotFound):
		log.Err(err).Str("username", username).Msg("duplicate user lookup failed")
		return models.User{}, ErrRegisterFailed.Wrap(err)
	}

	if err = a.validator.Validate(ctx, req, validators.FieldAvatar); err != nil {
		return models.User{}, ErrAvatarRequired
	}

	passwordHash, err := a.hasher.Hash(req.Password)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, ErrRegisterFailed.Wrap(err)
	}

	avatar, err := a.uploader.Upload(ctx, req.AvatarPath)
	if err != nil || avatar.URL == "" {
		log.Err(err).Str("username", username).Msg("avatar upload failed")
		return models.User{}, ErrAvatarUploadFailed.Wrap(err)
	}

	cover, err := a.uploader.Upload(ctx, req.CoverImagePath)
	if err != nil {
		log.Warn().Err(err).Str("username", username).Msg("cover image upload failed, registering without it")
		cover = media.UploadResult{}
	}

	created, err := a.userRepository.CreateUser(ctx, models.User{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		Avatar:       avatar.URL,
		CoverImage:   cover.URL,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, store.ErrUserAlreadyExists) {
			return models.User{}, ErrUserAlreadyExists
		}
		log.Err(err).Str("username", username).Msg("user creation ended with error")
		return models.User{}, ErrRegisterFailed.Wrap(err)
	}

	stored, err := a.userRepository.FindUserByID(ctx, created.ID)
	if err != nil {
		log.Err(err).Str("user_id", created.ID).Msg("created user could not be read back")
		return models.User{}, ErrRegisterFailed.Wrap(err)
	}

	log.Info().Str("user_id", stored.ID).Str("username", stored.Username).Msg("user registered")
	return stored.Sanitized(), nil
}

// Login verifies the credentials, issues a fresh token pair and stores the
// new refresh token, which invalidates any previous one.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.Session, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.Session{}, ErrCredentialsRequired
	}

	username := normalizeUsername(req.Username)
	email := strings.TrimSpace(req.Email)

	user, err := a.userRepository.FindUserByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.Session{}, ErrUserDoesNotExist
		}
		log.Err(err).Str("username", username).Msg("user search by username or email failed")
		return models.Session{}, ErrInternal.Wrap(err)
	}

	if !a.hasher.Verify(user.PasswordHash, req.Password) {
		log.Debug().Str("user_id", user.ID).Msg("wrong password")
		return models.Session{}, ErrInvalidPassword
	}

	pair, err := a.issueSession(ctx, user)
	if err != nil {
		return models.Session{}, err
	}

	return models.Session{User: user.Sanitized(), TokenPair: pair}, nil
}

// issueSession issues a new pair and stores its refresh token.
func (a *authService) issueSession(ctx context.Context, user models.User) (models.TokenPair, error) {
	pair, err := a.tokens.IssuePair(user)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", user.ID).Msg("token pair generation failed")
		return models.TokenPair{}, ErrTokenGenerationFailed.Wrap(err)
	}

	if err = a.userRepository.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", user.ID).Msg("storing refresh token failed")
		return models.TokenPair{}, ErrTokenGenerationFailed.Wrap(err)
	}

	return pair, nil
}

// Logout clears the stored refresh token. Logging out twice is not an error.
func (a *authService) Logout(ctx context.Context, userID string) error {
	if err := a.userRepository.ClearRefreshToken(ctx, userID); err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", userID).Msg("clearing refresh token failed")
		return ErrInternal.Wrap(err)
	}
	return nil
}

// Refresh exchanges the stored refresh token for a new pair.
//
// The token must verify, its user must exist, and it must equal the token
// currently stored for that user. The replacement is a compare-and-rotate
// in the store, so of two concurrent refreshes with the same token only one
// succeeds.
func (a *authService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, models.RefreshRequest{RefreshToken: refreshToken}); err != nil {
		return models.TokenPair{}, ErrRefreshTokenRequired
	}

	claims, err := a.tokens.Verify(models.RefreshToken, refreshToken)
	if err != nil {
		log.Debug().Err(err).Msg("refresh token verification failed")
		return models.TokenPair{}, ErrInvalidRefreshToken.Wrap(err)
	}

	user, err := a.userRepository.FindUserByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.TokenPair{}, ErrInvalidRefreshToken
		}
		log.Err(err).Str("user_id", claims.UserID()).Msg("user lookup for refresh failed")
		return models.TokenPair{}, ErrInternal.Wrap(err)
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		log.Warn().Str("user_id", user.ID).Msg("stale refresh token presented")
		return models.TokenPair{}, ErrRefreshTokenExpiredOrUsed
	}

	pair, err := a.tokens.IssuePair(user)
	if err != nil {
		log.Err(err).Str("user_id", user.ID).Msg("token pair generation failed")
		return models.TokenPair{}, ErrTokenGenerationFailed.Wrap(err)
	}

	err = a.userRepository.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken)
	switch {
	case errors.Is(err, store.ErrRefreshTokenMismatch):
		log.Warn().Str("user_id", user.ID).Msg("refresh token rotated concurrently")
		return models.TokenPair{}, ErrRefreshTokenExpiredOrUsed
	case errors.Is(err, store.ErrUserNotFound):
		return models.TokenPair{}, ErrInvalidRefreshToken
	case err != nil:
		log.Err(err).Str("user_id", user.ID).Msg("refresh token rotation failed")
		return models.TokenPair{}, ErrInternal.Wrap(err)
	}

	return pair, nil
}

// ChangePassword replaces the password hash after verifying oldPassword.
// A wrong old password never touches the stored hash.
func (a *authService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		if errors.Is(err, validators.ErrPasswordTooLong) {
			return ErrPasswordTooLong
		}
		return ErrPasswordRequired
	}

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrUserDoesNotExist
		}
		log.Err(err).Str("user_id", userID).Msg("user lookup for password change failed")
		return ErrInternal.Wrap(err)
	}

	if !a.hasher.Verify(user.PasswordHash, req.OldPassword) {
		return ErrInvalidOldPassword
	}

	passwordHash, err := a.hasher.Hash(req.NewPassword)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return ErrInternal.Wrap(err)
	}

	if err = a.userRepository.UpdatePassword(ctx, userID, passwordHash); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrUserDoesNotExist
		}
		log.Err(err).Str("user_id", userID).Msg("password update failed")
		return ErrInternal.Wrap(err)
	}

	return nil
}

// Authenticate resolves the user of an access token. Any failure is a 401.
func (a *authService) Authenticate(ctx context.Context, accessToken string) (models.User, error) {
	if strings.TrimSpace(accessToken) == "" {
		return models.User{}, ErrUnauthorized
	}

	claims, err := a.tokens.Verify(models.AccessToken, accessToken)
	if err != nil {
		return models.User{}, ErrInvalidAccessToken.Wrap(err)
	}

	user, err := a.userRepository.FindUserByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, ErrInvalidAccessToken
		}
		logger.FromContext(ctx).Err(err).Str("user_id", claims.UserID()).Msg("user lookup for access token failed")
		return models.User{}, ErrInternal.Wrap(err)
	}

	return user.Sanitized(), nil
}
