package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productListKey   = "catalog:products"
	productKeyPrefix = "catalog:product:"
	generationKey    = "catalog:generation"
)

// cachedProducts is a read-through Redis cache over a ProductRepository.
// Cache failures are logged and never fail a request.
//
// Every write bumps generationKey. A read only stores what it loaded if the
// generation is unchanged since before the load, so a slow reader cannot put
// a value back after a concurrent write invalidated it.
type cachedProducts struct {
	ProductRepository
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewCachedProductRepository wraps next with a Redis cache for List and
// GetByID. Writes invalidate the affected keys.
func NewCachedProductRepository(next ProductRepository, client *redis.Client, ttl time.Duration, log *zap.Logger) ProductRepository {
	return &cachedProducts{ProductRepository: next, client: client, ttl: ttl, log: log}
}

func (c *cachedProducts) List(ctx context.Context) ([]*Product, error) {
	var products []*Product
	if c.get(ctx, productListKey, &products) {
		return products, nil
	}
	gen, ok := c.generation(ctx)
	products, err := c.ProductRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		c.set(ctx, productListKey, products, gen)
	}
	return products, nil
}

func (c *cachedProducts) GetByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	if c.get(ctx, productKeyPrefix+id, &p) {
		p.normalize()
		return &p, nil
	}
	gen, ok := c.generation(ctx)
	found, err := c.ProductRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ok {
		c.set(ctx, productKeyPrefix+id, found, gen)
	}
	return found, nil
}

func (c *cachedProducts) Create(ctx context.Context, p *Product) error {
	if err := c.ProductRepository.Create(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *cachedProducts) CreateMany(ctx context.Context, ps []*Product) error {
	if err := c.ProductRepository.CreateMany(ctx, ps); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *cachedProducts) Update(ctx context.Context, p *Product) error {
	if err := c.ProductRepository.Update(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, productKeyPrefix+p.ID)
	return nil
}

func (c *cachedProducts) Delete(ctx context.Context, id string) error {
	if err := c.ProductRepository.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, productKeyPrefix+id)
	return nil
}

func (c *cachedProducts) DeleteAll(ctx context.Context) error {
	if err := c.ProductRepository.DeleteAll(ctx); err != nil {
		return err
	}
	keys := []string{}
	iter := c.client.Scan(ctx, 0, productKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache scan failed", zap.Error(err))
	}
	c.invalidate(ctx, keys...)
	return nil
}

func (c *cachedProducts) get(ctx context.Context, key string, dst interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.log.Warn("cache entry unreadable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// generation returns the current write generation. ok is false when Redis
// cannot be read, in which case nothing should be cached.
func (c *cachedProducts) generation(ctx context.Context) (int64, bool) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.log.Warn("cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

// set stores v under key unless a write has happened since gen was read.
func (c *cachedProducts) set(ctx context.Context, key string, v interface{}, gen int64) {
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, generationKey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidate bumps the generation and drops the list key plus any extra keys.
func (c *cachedProducts) invalidate(ctx context.Context, keys ...string) {
	keys = append(keys, productListKey)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		c.log.Warn("cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
