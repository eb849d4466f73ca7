package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB
// connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping,
// and returns both the client and the selected database. A default timeout
// is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the unique indexes the domain invariants rely on.
// Email uniqueness for users and clients is enforced here, at the store
// level, not in application code. Emails are stored lowercased, so the
// plain unique index is effectively case-insensitive.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	emailUnique := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, emailUnique); err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}

	// Clients may omit email entirely; the sparse variant only indexes
	// documents that carry one.
	clientEmailUnique := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	}
	if _, err := db.Collection(clientsCollection).Indexes().CreateOne(ctx, clientEmailUnique); err != nil {
		return fmt.Errorf("create clients email index: %w", err)
	}

	apptByClient := mongo.IndexModel{
		Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "date", Value: 1}},
	}
	if _, err := db.Collection(appointmentsCollection).Indexes().CreateOne(ctx, apptByClient); err != nil {
		return fmt.Errorf("create appointments client index: %w", err)
	}

	return nil
}
