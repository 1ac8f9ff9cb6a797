package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/config"
	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/models"
	"github.com/redis/go-redis/v9"
)

const (
	userCacheKeyPrefix     = "user:session:"
	cacheInvalidateTimeout = 2 * time.Second
)

func userCacheKey(userID string) string {
	return userCacheKeyPrefix + userID
}

// NewRedisClient opens a client for cfg and checks it with PING.
func NewRedisClient(ctx context.Context, cfg config.Cache, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Err(err).Str("func", "NewRedisClient").Str("address", cfg.RedisAddress).Msg("error connecting redis (ping)")
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().Str("func", "NewRedisClient").Str("address", cfg.RedisAddress).Msg("connected to redis successfully")
	return client, nil
}

// cachedUser is the cache encoding of [models.User]. Unlike the API
// encoding it keeps the password hash and refresh token, which the auth
// flows read through FindUserByID.
type cachedUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage"`
	WatchHistory []string  `json:"watchHistory"`
	PasswordHash string    `json:"passwordHash"`
	RefreshToken string    `json:"refreshToken"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func marshalCachedUser(user models.User) (string, error) {
	payload, err := json.Marshal(cachedUser(user))
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func unmarshalCachedUser(payload string) (models.User, error) {
	var cached cachedUser
	if err := json.Unmarshal([]byte(payload), &cached); err != nil {
		return models.User{}, err
	}
	user := models.User(cached)
	if user.WatchHistory == nil {
		user.WatchHistory = []string{}
	}
	return user, nil
}

// cachedUserRepository is a read-through cache for FindUserByID in front of
// another [UserRepository]. Every mutation of a user drops its entry, so the
// refresh token check never reads a rotated token from the cache.
type cachedUserRepository struct {
	UserRepository

	client redis.Cmdable
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedUserRepository wraps next with a redis cache whose entries live
// for ttl.
func NewCachedUserRepository(next UserRepository, client redis.Cmdable, ttl time.Duration, logger *logger.Logger) UserRepository {
	logger.Debug().Dur("ttl", ttl).Msg("creating cached user repository")
	return &cachedUserRepository{
		UserRepository: next,
		client:         client,
		ttl:            ttl,
		logger:         logger,
	}
}

func (c *cachedUserRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	log := logger.FromContext(ctx)
	key := userCacheKey(userID)

	payload, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		user, decodeErr := unmarshalCachedUser(payload)
		if decodeErr == nil {
			return user, nil
		}
		log.Warn().Err(decodeErr).Str("func", "*cachedUserRepository.FindUserByID").Msg("dropping undecodable cache entry")
		c.invalidate(ctx, userID)
	case errors.Is(err, redis.Nil):
	default:
		log.Warn().Err(err).Str("func", "*cachedUserRepository.FindUserByID").Msg("cache read failed, falling back to store")
	}

	user, err := c.UserRepository.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	if payload, err = marshalCachedUser(user); err == nil {
		err = c.client.Set(ctx, key, payload, c.ttl).Err()
	}
	if err != nil {
		log.Warn().Err(err).Str("func", "*cachedUserRepository.FindUserByID").Msg("cache write failed")
	}

	return user, nil
}

func (c *cachedUserRepository) SetRefreshToken(ctx context.Context, userID, refreshToken string) error {
	defer c.invalidate(ctx, userID)
	return c.UserRepository.SetRefreshToken(ctx, userID, refreshToken)
}

func (c *cachedUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	defer c.invalidate(ctx, userID)
	return c.UserRepository.ClearRefreshToken(ctx, userID)
}

func (c *cachedUserRepository) RotateRefreshToken(ctx context.Context, userID, current, next string) error {
	defer c.invalidate(ctx, userID)
	return c.UserRepository.RotateRefreshToken(ctx, userID, current, next)
}

func (c *cachedUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	defer c.invalidate(ctx, userID)
	return c.UserRepository.UpdatePassword(ctx, userID, passwordHash)
}

func (c *cachedUserRepository) UpdateAccountDetails(ctx context.Context, userID string, details models.AccountDetails) (models.User, error) {
	defer c.invalidate(ctx, userID)
	return c.UserRepository.UpdateAccountDetails(ctx, userID, details)
}

func (c *cachedUserRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) (models.User, error) {
	defer c.invalidate(ctx, userID)
	return c.UserRepository.UpdateAvatar(ctx, userID, avatarURL)
}

func (c *cachedUserRepository) UpdateCoverImage(ctx context.Context, userID, coverImageURL string) (models.User, error) {
	defer c.invalidate(ctx, userID)
	return c.UserRepository.UpdateCoverImage(ctx, userID, coverImageURL)
}

// invalidate outlives the request: a cancelled caller must not leave a
// stale password hash or refresh token cached for the whole TTL.
func (c *cachedUserRepository) invalidate(ctx context.Context, userID string) {
	delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheInvalidateTimeout)
	defer cancel()

	if err := c.client.Del(delCtx, userCacheKey(userID)).Err(); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("func", "*cachedUserRepository.invalidate").Str("user_id", userID).Msg("cache invalidation failed")
	}
}
