package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/store"
	"github.com/MKhiriev/go-vidtube/models"
)

type channelService struct {
	channelRepository store.ChannelRepository

	logger *logger.Logger
}

func NewChannelService(channelRepository store.ChannelRepository, logger *logger.Logger) ChannelService {
	return &channelService{
		channelRepository: channelRepository,
		logger:            logger,
	}
}

// GetUserChannelProfile looks the channel up by its lowercased username.
// viewerID may be empty for anonymous requests.
func (s *channelService) GetUserChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	username = normalizeUsername(username)
	if username == "" {
		return models.ChannelProfile{}, ErrUsernameMissing
	}

	profile, err := s.channelRepository.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		if errors.Is(err, store.ErrChannelNotFound) {
			return models.ChannelProfile{}, ErrChannelDoesNotExist
		}
		logger.FromContext(ctx).Err(err).Str("username", username).Msg("channel profile lookup failed")
		return models.ChannelProfile{}, ErrInternal.Wrap(err)
	}

	return profile, nil
}

// GetWatchHistory never returns a nil slice.
func (s *channelService) GetWatchHistory(ctx context.Context, userID string) ([]models.WatchHistoryEntry, error) {
	history, err := s.channelRepository.GetWatchHistory(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", userID).Msg("watch history lookup failed")
		return nil, ErrInternal.Wrap(err)
	}
	if history == nil {
		history = []models.WatchHistoryEntry{}
	}
	return history, nil
}
