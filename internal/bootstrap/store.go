// Package bootstrap assembles the catalog dependencies shared by the API
// server and the seed command.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/georgemunganga/ustaz-catalog/internal/config"
	"github.com/georgemunganga/ustaz-catalog/internal/database"
	"github.com/georgemunganga/ustaz-catalog/internal/modules/catalog"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store bundles the repositories for the configured driver. Close releases
// every underlying connection.
type Store struct {
	Products catalog.ProductRepository
	Combos   catalog.ComboRepository
	Pinger   database.PingFunc

	closers []func()
}

func (s *Store) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// OpenStore connects to the configured database and, when REDIS_ADDR is set,
// puts a Redis cache in front of product reads. An unreachable database is
// logged and the store is still returned: its operations fail as unavailable
// until the database comes back. An unreachable Redis is logged and skipped.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Store, error) {
	s := &Store{}

	switch cfg.Database.Driver {
	case config.DriverMongo:
		db, err := database.NewMongoDB(ctx, cfg.Database.MongoURI, cfg.Database.MongoDBName)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() {
			if err := db.Client().Disconnect(context.Background()); err != nil {
				log.Warn("failed to disconnect MongoDB", zap.Error(err))
			}
		})
		s.Products = catalog.NewMongoProductRepository(db)
		s.Combos = catalog.NewMongoComboRepository(db)
		s.Pinger = database.MongoPinger(db)

		if err := s.Pinger.Ping(ctx); err != nil {
			log.Warn("MongoDB unreachable, starting without it; indexes are created on the next start",
				zap.Error(err))
			break
		}
		if err := catalog.EnsureMongoIndexes(ctx, db); err != nil {
			s.Close()
			return nil, err
		}
		log.Info("connected to MongoDB", zap.String("database", cfg.Database.MongoDBName))

	case config.DriverPostgres:
		db, err := database.NewPostgres(cfg.Database.PostgresURL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { db.Close() })
		s.Products = catalog.NewPostgresProductRepository(db)
		s.Combos = catalog.NewPostgresComboRepository(db)
		s.Pinger = database.SQLPinger(db)

		if err := s.Pinger.Ping(ctx); err != nil {
			log.Warn("PostgreSQL unreachable, starting without it; migrations run on the next start",
				zap.Error(err))
			break
		}
		if err := database.RunMigrations(db); err != nil {
			s.Close()
			return nil, err
		}
		log.Info("connected to PostgreSQL")

	case config.DriverMemory:
		s.Products = catalog.NewMemoryProductRepository()
		s.Combos = catalog.NewMemoryComboRepository()
		s.Pinger = database.NopPinger()
		log.Warn("using in-memory catalog store; data is lost on restart")

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Database.Driver)
	}

	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, product cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			client.Close()
		} else {
			s.closers = append(s.closers, func() { client.Close() })
			s.Products = catalog.NewCachedProductRepository(s.Products, client, cfg.Redis.TTL, log)
			log.Info("product cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
		}
	}
	return s, nil
}
