package service

import (
	"context"
	"errors"
	"strings"

	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/media"
	"github.com/MKhiriev/go-vidtube/internal/store"
	"github.com/MKhiriev/go-vidtube/internal/validators"
	"github.com/MKhiriev/go-vidtube/models"
)

type userService struct {
	userRepository store.UserRepository
	uploader       media.Uploader
	validator      validators.Validator

	logger *logger.Logger
}

func NewUserService(userRepository store.UserRepository, uploader media.Uploader, logger *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		uploader:       uploader,
		validator:      validators.NewUserValidator(),
		logger:         logger,
	}
}

// UpdateAccountDetails sets the full name and email. Both are required; an
// email owned by another user is a conflict.
func (s *userService) UpdateAccountDetails(ctx context.Context, userID string, details models.AccountDetails) (models.User, error) {
	if err := s.validator.Validate(ctx, details); err != nil {
		return models.User{}, ErrAllFieldsRequired
	}

	details.FullName = strings.TrimSpace(details.FullName)
	details.Email = strings.TrimSpace(details.Email)

	user, err := s.userRepository.UpdateAccountDetails(ctx, userID, details)
	if err != nil {
		return models.User{}, s.mapUpdateError(ctx, "account details", userID, err)
	}
	return user.Sanitized(), nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID, avatarPath string) (models.User, error) {
	if avatarPath == "" {
		return models.User{}, ErrAvatarRequired
	}

	url, err := s.upload(ctx, avatarPath, ErrAvatarUploadFailed)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.userRepository.UpdateAvatar(ctx, userID, url)
	if err != nil {
		return models.User{}, s.mapUpdateError(ctx, "avatar", userID, err)
	}
	return user.Sanitized(), nil
}

func (s *userService) UpdateCoverImage(ctx context.Context, userID, coverImagePath string) (models.User, error) {
	if coverImagePath == "" {
		return models.User{}, ErrCoverImageRequired
	}

	url, err := s.upload(ctx, coverImagePath, ErrCoverImageUploadFailed)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.userRepository.UpdateCoverImage(ctx, userID, url)
	if err != nil {
		return models.User{}, s.mapUpdateError(ctx, "cover image", userID, err)
	}
	return user.Sanitized(), nil
}

// upload stores the temp file and fails with uploadErr when no URL comes back.
func (s *userService) upload(ctx context.Context, localPath string, uploadErr *Error) (string, error) {
	result, err := s.uploader.Upload(ctx, localPath)
	if err != nil || result.URL == "" {
		logger.FromContext(ctx).Err(err).Str("path", localPath).Msg("image upload failed")
		return "", uploadErr.Wrap(err)
	}
	return result.URL, nil
}

func (s *userService) mapUpdateError(ctx context.Context, what, userID string, err error) error {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return ErrUserDoesNotExist
	case errors.Is(err, store.ErrUserAlreadyExists):
		return ErrUserAlreadyExists
	default:
		logger.FromContext(ctx).Err(err).Str("user_id", userID).Msgf("%s update failed", what)
		return ErrUpdateFailed.Wrap(err)
	}
}
