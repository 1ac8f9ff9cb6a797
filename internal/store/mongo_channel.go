package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type channelProfileDocument struct {
	ID                        bson.ObjectID `bson:"_id"`
	FullName                  string        `bson:"fullName"`
	Username                  string        `bson:"username"`
	Email                     string        `bson:"email"`
	Avatar                    string        `bson:"avatar"`
	CoverImage                string        `bson:"coverImage"`
	SubscribersCount          int64         `bson:"subscribersCount"`
	ChannelsSubscribedToCount int64         `bson:"channelsSubscribedToCount"`
	IsSubscribed              bool          `bson:"isSubscribed"`
}

func (d channelProfileDocument) toModel() models.ChannelProfile {
	return models.ChannelProfile{
		ID:                        d.ID.Hex(),
		FullName:                  d.FullName,
		Username:                  d.Username,
		Email:                     d.Email,
		Avatar:                    d.Avatar,
		CoverImage:                d.CoverImage,
		SubscribersCount:          d.SubscribersCount,
		ChannelsSubscribedToCount: d.ChannelsSubscribedToCount,
		IsSubscribed:              d.IsSubscribed,
	}
}

type ownerDocument struct {
	FullName string `bson:"fullName"`
	Username string `bson:"username"`
	Avatar   string `bson:"avatar"`
}

type historyVideoDocument struct {
	ID          bson.ObjectID `bson:"_id"`
	VideoFile   string        `bson:"videoFile"`
	Thumbnail   string        `bson:"thumbnail"`
	Title       string        `bson:"title"`
	Description string        `bson:"description"`
	Duration    float64       `bson:"duration"`
	Views       int64         `bson:"views"`
	IsPublished bool          `bson:"isPublished"`
	Owner       ownerDocument `bson:"owner"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

func (d historyVideoDocument) toModel() models.WatchHistoryEntry {
	return models.WatchHistoryEntry{
		ID:          d.ID.Hex(),
		VideoFile:   d.VideoFile,
		Thumbnail:   d.Thumbnail,
		Title:       d.Title,
		Description: d.Description,
		Duration:    d.Duration,
		Views:       d.Views,
		IsPublished: d.IsPublished,
		Owner: models.OwnerSummary{
			FullName: d.Owner.FullName,
			Username: d.Owner.Username,
			Avatar:   d.Owner.Avatar,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// mongoChannelRepository is the MongoDB implementation of [ChannelRepository].
type mongoChannelRepository struct {
	logger *logger.Logger
	db     *MongoDB
	users  *mongo.Collection
}

func NewMongoChannelRepository(db *MongoDB, logger *logger.Logger) ChannelRepository {
	logger.Debug().Msg("creating mongo channel repository")
	return &mongoChannelRepository{
		logger: logger,
		db:     db,
		users:  db.collection(usersCollection),
	}
}

func (r *mongoChannelRepository) GetChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	log := logger.FromContext(ctx)

	var viewer *bson.ObjectID
	if id, err := bson.ObjectIDFromHex(viewerID); err == nil {
		viewer = &id
	}

	cursor, err := r.users.Aggregate(ctx, channelProfilePipeline(username, viewer))
	if err != nil {
		log.Err(err).Str("func", "*mongoChannelRepository.GetChannelProfile").Bool("retryable", r.db.retryable(err)).Msg("error aggregating channel profile")
		return models.ChannelProfile{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var docs []channelProfileDocument
	if err = cursor.All(ctx, &docs); err != nil {
		log.Err(err).Str("func", "*mongoChannelRepository.GetChannelProfile").Msg("error decoding channel profile")
		return models.ChannelProfile{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if len(docs) == 0 {
		return models.ChannelProfile{}, ErrChannelNotFound
	}

	return docs[0].toModel(), nil
}

func (r *mongoChannelRepository) GetWatchHistory(ctx context.Context, userID string) ([]models.WatchHistoryEntry, error) {
	log := logger.FromContext(ctx)
	history := make([]models.WatchHistoryEntry, 0)

	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return history, nil
	}

	cursor, err := r.users.Aggregate(ctx, watchHistoryPipeline(id))
	if err != nil {
		log.Err(err).Str("func", "*mongoChannelRepository.GetWatchHistory").Bool("retryable", r.db.retryable(err)).Msg("error aggregating watch history")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var docs []historyVideoDocument
	if err = cursor.All(ctx, &docs); err != nil {
		log.Err(err).Str("func", "*mongoChannelRepository.GetWatchHistory").Msg("error decoding watch history")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	for _, doc := range docs {
		history = append(history, doc.toModel())
	}
	return history, nil
}
