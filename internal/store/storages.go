package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MKhiriev/go-vidtube/internal/config"
	"github.com/MKhiriev/go-vidtube/internal/logger"
)

// Backend names the credential store implementation picked from a DSN.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendMongo    Backend = "mongo"
)

// BackendForDSN selects the backend by DSN scheme: mongodb:// and
// mongodb+srv:// open MongoDB, postgres:// and postgresql:// (or a key=value
// DSN) open PostgreSQL.
func BackendForDSN(dsn string) (Backend, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return "", fmt.Errorf("%w: empty DSN", ErrUnsupportedDSN)
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return BackendMongo, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), !strings.Contains(dsn, "://"):
		return BackendPostgres, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDSN, dsn[:strings.Index(dsn, "://")])
	}
}

// Storages groups the repositories the service layer depends on together
// with the liveness probe of the backing store.
type Storages struct {
	Users    UserRepository
	Channels ChannelRepository
	Pinger   Pinger

	Backend Backend

	closers []io.Closer
}

// NewStorages opens the credential store selected by cfg.DB.DSN and, for
// PostgreSQL, applies pending migrations. When cfg.Cache.RedisAddress is
// set, Users is wrapped with the redis cache.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	backend, err := BackendForDSN(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	storages := &Storages{Backend: backend}

	switch backend {
	case BackendMongo:
		db, err := NewConnectMongo(ctx, cfg.DB, logger)
		if err != nil {
			return nil, fmt.Errorf("mongo connection error: %w", err)
		}
		storages.Users = NewMongoUserRepository(db, logger)
		storages.Channels = NewMongoChannelRepository(db, logger)
		storages.Pinger = db
		storages.closers = append(storages.closers, db)
	default:
		db, err := NewConnectPostgres(ctx, cfg.DB, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres connection error: %w", err)
		}
		if err = db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		if version, err := db.SchemaVersion(); err == nil {
			logger.Info().Int64("schema_version", version).Msg("database migrated")
		}
		storages.Users = NewUserRepository(db, logger)
		storages.Channels = NewChannelRepository(db, logger)
		storages.Pinger = db
		storages.closers = append(storages.closers, db)
	}

	if cfg.Cache.RedisAddress != "" {
		client, err := NewRedisClient(ctx, cfg.Cache, logger)
		if err != nil {
			storages.Close()
			return nil, fmt.Errorf("redis connection error: %w", err)
		}
		storages.Users = NewCachedUserRepository(storages.Users, client, cfg.Cache.TTL, logger)
		storages.closers = append(storages.closers, client)
	}

	logger.Info().Str("backend", string(backend)).Bool("cache", cfg.Cache.RedisAddress != "").Msg("storages ready")
	return storages, nil
}

// Close releases every connection opened by NewStorages.
func (s *Storages) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
