package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/models"
	"github.com/jackc/pgerrcode"
)

// channelRepository is the PostgreSQL implementation of [ChannelRepository].
type channelRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewChannelRepository(db *DB, logger *logger.Logger) ChannelRepository {
	logger.Debug().Msg("creating channel repository")
	return &channelRepository{
		db:     db,
		logger: logger,
	}
}

func (r *channelRepository) GetChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildChannelProfileQuery(username, viewerID)
	if err != nil {
		log.Err(err).Str("func", "*channelRepository.GetChannelProfile").Msg("error building query")
		return models.ChannelProfile{}, err
	}

	var profile models.ChannelProfile
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&profile.ID, &profile.FullName, &profile.Username, &profile.Email, &profile.Avatar, &profile.CoverImage,
		&profile.SubscribersCount, &profile.ChannelsSubscribedToCount, &profile.IsSubscribed,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.ChannelProfile{}, ErrChannelNotFound
	case postgresError(err) == pgerrcode.InvalidTextRepresentation:
		// a viewer id that is not a uuid cannot be subscribed to anything
		return r.GetChannelProfile(ctx, username, "")
	case err != nil:
		log.Err(err).Str("func", "*channelRepository.GetChannelProfile").Bool("retryable", r.db.retryable(err)).Msg("error querying channel profile")
		return models.ChannelProfile{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return profile, nil
}

func (r *channelRepository) GetWatchHistory(ctx context.Context, userID string) ([]models.WatchHistoryEntry, error) {
	log := logger.FromContext(ctx)
	history := make([]models.WatchHistoryEntry, 0)

	rows, err := r.db.QueryContext(ctx, getWatchHistory, userID)
	if err != nil {
		if postgresError(err) == pgerrcode.InvalidTextRepresentation {
			return history, nil
		}
		log.Err(err).Str("func", "*channelRepository.GetWatchHistory").Bool("retryable", r.db.retryable(err)).Msg("error querying watch history")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.WatchHistoryEntry
		if err = rows.Scan(
			&entry.ID, &entry.VideoFile, &entry.Thumbnail, &entry.Title, &entry.Description, &entry.Duration,
			&entry.Views, &entry.IsPublished, &entry.CreatedAt, &entry.UpdatedAt,
			&entry.Owner.FullName, &entry.Owner.Username, &entry.Owner.Avatar,
		); err != nil {
			log.Err(err).Str("func", "*channelRepository.GetWatchHistory").Msg("error scanning watch history row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		history = append(history, entry)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*channelRepository.GetWatchHistory").Msg("error iterating watch history rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return history, nil
}
