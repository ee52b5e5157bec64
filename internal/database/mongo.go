// Package database opens the catalog's backing stores.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoDB returns a handle to the named database without waiting for a
// server. The driver connects in the background, so an unreachable server
// only surfaces on the first operation.
func NewMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(50)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	return client.Database(database), nil
}

// ConnectMongoDB connects to uri and returns the named database after a
// successful ping.
func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	db, err := NewMongoDB(ctx, uri, database)
	if err != nil {
		return nil, err
	}
	if err := db.Client().Ping(ctx, readpref.Primary()); err != nil {
		_ = db.Client().Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return db, nil
}
