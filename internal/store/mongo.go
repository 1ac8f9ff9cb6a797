package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vidtube/internal/config"
	"github.com/MKhiriev/go-vidtube/internal/logger"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	usersCollection         = "users"
	videosCollection        = "videos"
	subscriptionsCollection = "subscriptions"
)

// MongoDB wraps a connected client and the database holding the vidtube
// collections.
type MongoDB struct {
	client *mongo.Client
	db     *mongo.Database
	logger *logger.Logger
}

// NewConnectMongo connects to cfg.DSN, pings the primary and makes sure the
// unique indexes exist.
func NewConnectMongo(ctx context.Context, cfg config.DB, log *logger.Logger) (*MongoDB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.DSN))
	if err != nil {
		log.Err(err).Str("func", "NewConnectMongo").Msg("error creating mongo client")
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		log.Err(err).Str("func", "NewConnectMongo").Msg("error connecting database (ping)")
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	m := &MongoDB{
		client: client,
		db:     client.Database(cfg.Name),
		logger: log,
	}
	if err = m.ensureIndexes(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectMongo").Msg("error creating indexes")
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.Info().Str("func", "NewConnectMongo").Str("database", cfg.Name).Msg("connected to mongo successfully")
	return m, nil
}

func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	_, err := m.db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create users indexes: %w", err)
	}

	_, err = m.db.Collection(subscriptionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "subscriber", Value: 1}, {Key: "channel", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "channel", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create subscriptions indexes: %w", err)
	}
	return nil
}

func (m *MongoDB) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoDB) Close() error {
	return m.client.Disconnect(context.Background())
}

func (m *MongoDB) collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// retryable reports whether err is a transient network or timeout failure.
func (m *MongoDB) retryable(err error) bool {
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}
