package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/media"
	"github.com/MKhiriev/go-vidtube/internal/mock"
	"github.com/MKhiriev/go-vidtube/internal/store"
	"github.com/MKhiriev/go-vidtube/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestUserSvc(t *testing.T) (UserService, *mock.MockUserRepository, *mock.MockUploader) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	uploader := mock.NewMockUploader(ctrl)
	return NewUserService(repo, uploader, logger.Nop()), repo, uploader
}

func TestUserService_UpdateAccountDetails(t *testing.T) {
	svc, repo, _ := newTestUserSvc(t)

	repo.EXPECT().
		UpdateAccountDetails(gomock.Any(), "user-1", models.AccountDetails{FullName: "Alice B", Email: "b@x.com"}).
		Return(models.User{ID: "user-1", FullName: "Alice B", Email: "b@x.com", PasswordHash: "hash"}, nil)

	user, err := svc.UpdateAccountDetails(context.Background(), "user-1", models.AccountDetails{FullName: " Alice B ", Email: "b@x.com "})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", user.FullName)
	assert.Empty(t, user.PasswordHash)
}

func TestUserService_UpdateAccountDetails_Errors(t *testing.T) {
	tests := []struct {
		name     string
		details  models.AccountDetails
		storeErr error
		want     *Error
		status   int
	}{
		{name: "missing email", details: models.AccountDetails{FullName: "A"}, want: ErrAllFieldsRequired, status: http.StatusBadRequest},
		{name: "email taken", details: models.AccountDetails{FullName: "A", Email: "e"}, storeErr: store.ErrUserAlreadyExists, want: ErrUserAlreadyExists, status: http.StatusConflict},
		{name: "user gone", details: models.AccountDetails{FullName: "A", Email: "e"}, storeErr: store.ErrUserNotFound, want: ErrUserDoesNotExist, status: http.StatusNotFound},
		{name: "store failure", details: models.AccountDetails{FullName: "A", Email: "e"}, storeErr: errors.New("boom"), want: ErrUpdateFailed, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestUserSvc(t)
			if tt.storeErr != nil {
				repo.EXPECT().UpdateAccountDetails(gomock.Any(), "user-1", gomock.Any()).Return(models.User{}, tt.storeErr)
			}

			_, err := svc.UpdateAccountDetails(context.Background(), "user-1", tt.details)
			assertServiceError(t, err, tt.want, tt.status)
		})
	}
}

func TestUserService_UpdateAvatar(t *testing.T) {
	svc, repo, uploader := newTestUserSvc(t)

	uploader.EXPECT().Upload(gomock.Any(), "/tmp/new.png").Return(media.UploadResult{URL: "https://cdn/new.png"}, nil)
	repo.EXPECT().UpdateAvatar(gomock.Any(), "user-1", "https://cdn/new.png").
		Return(models.User{ID: "user-1", Avatar: "https://cdn/new.png", RefreshToken: "r"}, nil)

	user, err := svc.UpdateAvatar(context.Background(), "user-1", "/tmp/new.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/new.png", user.Avatar)
	assert.Empty(t, user.RefreshToken)
}

func TestUserService_UpdateAvatar_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		svc, _, _ := newTestUserSvc(t)
		_, err := svc.UpdateAvatar(context.Background(), "user-1", "")
		assertServiceError(t, err, ErrAvatarRequired, http.StatusBadRequest)
	})

	t.Run("upload fails", func(t *testing.T) {
		svc, _, uploader := newTestUserSvc(t)
		uploader.EXPECT().Upload(gomock.Any(), "/tmp/new.png").Return(media.UploadResult{}, media.ErrUploadFailed)

		_, err := svc.UpdateAvatar(context.Background(), "user-1", "/tmp/new.png")
		assertServiceError(t, err, ErrAvatarUploadFailed, http.StatusBadRequest)
		assert.ErrorIs(t, err, media.ErrUploadFailed)
	})
}

func TestUserService_UpdateCoverImage(t *testing.T) {
	svc, repo, uploader := newTestUserSvc(t)

	uploader.EXPECT().Upload(gomock.Any(), "/tmp/cover.png").Return(media.UploadResult{URL: "https://cdn/cover.png"}, nil)
	repo.EXPECT().UpdateCoverImage(gomock.Any(), "user-1", "https://cdn/cover.png").
		Return(models.User{ID: "user-1", CoverImage: "https://cdn/cover.png"}, nil)

	user, err := svc.UpdateCoverImage(context.Background(), "user-1", "/tmp/cover.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/cover.png", user.CoverImage)
}

func TestUserService_UpdateCoverImage_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		svc, _, _ := newTestUserSvc(t)
		_, err := svc.UpdateCoverImage(context.Background(), "user-1", "")
		assertServiceError(t, err, ErrCoverImageRequired, http.StatusBadRequest)
	})

	t.Run("empty url", func(t *testing.T) {
		svc, _, uploader := newTestUserSvc(t)
		uploader.EXPECT().Upload(gomock.Any(), "/tmp/cover.png").Return(media.UploadResult{}, nil)

		_, err := svc.UpdateCoverImage(context.Background(), "user-1", "/tmp/cover.png")
		assertServiceError(t, err, ErrCoverImageUploadFailed, http.StatusBadRequest)
	})

	t.Run("user gone", func(t *testing.T) {
		svc, repo, uploader := newTestUserSvc(t)
		uploader.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(media.UploadResult{URL: "u"}, nil)
		repo.EXPECT().UpdateCoverImage(gomock.Any(), "user-1", "u").Return(models.User{}, store.ErrUserNotFound)

		_, err := svc.UpdateCoverImage(context.Background(), "user-1", "/tmp/cover.png")
		assertServiceError(t, err, ErrUserDoesNotExist, http.StatusNotFound)
	})
}
