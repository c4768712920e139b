package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/geotrail/location-log/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

const (
	collectionUsers     = "users"
	collectionLocations = "locations"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store is the MongoDB-backed ports.Store.
type Store struct {
	client    *mongo.Client
	db        *mongo.Database
	users     *UserRepository
	locations *LocationRepository
}

// Open creates the client. The driver connects lazily, so Open does not fail
// when the server is down.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout).
		SetAppName("location-log"))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	db := client.Database(cfg.Database)
	return &Store{
		client:    client,
		db:        db,
		users:     NewUserRepository(db),
		locations: NewLocationRepository(db),
	}, nil
}

// EnsureSchema creates the unique email index, which backs the duplicate
// registration check, and the listing index.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.db.Collection(collectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return classify(fmt.Errorf("mongo users index: %w", err))
	}

	_, err = s.db.Collection(collectionLocations).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "device", Value: 1}, {Key: "ts", Value: -1}},
	})
	if err != nil {
		return classify(fmt.Errorf("mongo locations index: %w", err))
	}
	return nil
}

func (s *Store) Users() ports.UserRepository         { return s.users }
func (s *Store) Locations() ports.LocationRepository { return s.locations }

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return classify(fmt.Errorf("mongo ping: %w", err))
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
