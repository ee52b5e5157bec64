package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/georgemunganga/ustaz-catalog/internal/config"
	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
	"github.com/georgemunganga/ustaz-catalog/internal/modules/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func memoryConfig() *config.Config {
	return &config.Config{Database: config.Database{Driver: config.DriverMemory}}
}

func TestOpenStore_Memory(t *testing.T) {
	s, err := OpenStore(context.Background(), memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Pinger.Ping(context.Background()))
	n, err := s.Products.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenStore_RedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.Redis.Addr = mr.Addr()

	s, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	_, err = catalog.NewSeeder(s.Products, s.Pinger, zap.NewNop()).Seed(context.Background())
	require.NoError(t, err)
	_, err = s.Products.List(context.Background())
	require.NoError(t, err)
	assert.True(t, mr.Exists("catalog:products"))
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Database.Driver = "sqlite"

	_, err := OpenStore(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenStore_UnreachableDatabaseStillStarts(t *testing.T) {
	tests := []struct {
		name string
		db   config.Database
	}{
		{"mongo", config.Database{Driver: config.DriverMongo, MongoURI: "mongodb://127.0.0.1:1", MongoDBName: "storefront"}},
		{"postgres", config.Database{Driver: config.DriverPostgres, PostgresURL: "postgres://u:p@127.0.0.1:1/storefront?sslmode=disable"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			s, err := OpenStore(ctx, &config.Config{Database: tt.db}, zap.NewNop())
			require.NoError(t, err)
			require.NotNil(t, s)
			defer s.Close()

			seedCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			n, err := catalog.NewSeeder(s.Products, s.Pinger, zap.NewNop()).Seed(seedCtx)
			assert.ErrorIs(t, err, httpx.ErrUnavailable)
			assert.Zero(t, n)

			listCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_, err = s.Products.List(listCtx)
			assert.ErrorIs(t, err, httpx.ErrUnavailable)
		})
	}
}
