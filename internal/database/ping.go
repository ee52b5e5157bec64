package database

import (
	"context"
	"database/sql"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// PingFunc adapts a connectivity check to the Ping(ctx) interface used by the
// health endpoint and the seeder.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

func MongoPinger(db *mongo.Database) PingFunc {
	return func(ctx context.Context) error {
		return db.Client().Ping(ctx, readpref.Primary())
	}
}

func SQLPinger(db *sql.DB) PingFunc {
	return db.PingContext
}

// NopPinger always reports the store as reachable.
func NopPinger() PingFunc {
	return func(context.Context) error { return nil }
}
