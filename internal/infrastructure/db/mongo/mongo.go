package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// appName tags connections in the server logs and in currentOp output.
const appName = "qdw-api"

const defaultTimeout = 10 * time.Second

// Config holds the connection settings for the registration database.
type Config struct {
	URI      string
	Database string
	// Timeout bounds both dialing and the startup ping; zero means the
	// default.
	Timeout time.Duration
}

// Connect dials the registration database and pings the primary before any
// handler takes traffic, so a bad URI fails the process at startup. Returns
// the client for shutdown and the database handle the repositories use.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
