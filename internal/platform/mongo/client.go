// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

// Package mongo provides a managed MongoDB client and database handle for
// the Fairway application.
//
// # Architecture
//
// This package is part of the Infrastructure layer. It manages the physical
// database connections and provides the handle from which the domain layer's
// repository implementations obtain their collections.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Opinionated client settings for the Fairway workload.
const (
	// maxPoolSize is the maximum number of connections in the driver pool.
	maxPoolSize = 25
	// minPoolSize keeps a warm set of connections to avoid cold-start latency.
	minPoolSize = 5
	// maxConnIdleTime closes connections that have been idle too long.
	maxConnIdleTime = 10 * time.Minute
	// connectTimeout is the maximum time allowed to establish a new connection.
	connectTimeout = 5 * time.Second
	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second
)

// Connect creates and validates a new MongoDB client, returning the
// application database handle alongside it.
//
// # Parameters
//   - ctx: Context for the initial connection attempt.
//   - uri: A mongodb:// connection URL.
//   - database: Name of the application database.
//   - logger: Structured logger for client-level events.
func Connect(ctx context.Context, uri, database string, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPoolSize).
		SetMinPoolSize(minPoolSize).
		SetMaxConnIdleTime(maxConnIdleTime).
		SetConnectTimeout(connectTimeout)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo: failed to connect: %w", err)
	}

	// Validate that we can actually reach the database.
	if err := Ping(ctx, client); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	logger.Info("mongo client connected",
		slog.String("database", database),
		slog.Int("max_pool_size", maxPoolSize),
	)

	return client, client.Database(database), nil
}

// Ping verifies that the MongoDB client is healthy.
func Ping(ctx context.Context, client *mongo.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo: ping failed: %w", err)
	}

	return nil
}
