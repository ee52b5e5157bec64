package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingProducts struct {
	ProductRepository
	lists int
	gets  int
}

func (c *countingProducts) List(ctx context.Context) ([]*Product, error) {
	c.lists++
	return c.ProductRepository.List(ctx)
}

func (c *countingProducts) GetByID(ctx context.Context, id string) (*Product, error) {
	c.gets++
	return c.ProductRepository.GetByID(ctx, id)
}

func setupCache(t *testing.T) (ProductRepository, *countingProducts, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	inner := &countingProducts{ProductRepository: NewMemoryProductRepository()}
	return NewCachedProductRepository(inner, client, time.Minute, zap.NewNop()), inner, mr
}

func testProduct(id, name string) *Product {
	p := &Product{ID: id, Name: name, Price: "₦1,000", Category: CategoryCasual, CreatedAt: time.Now()}
	p.normalize()
	return p
}

func TestCache_ListServedFromRedis(t *testing.T) {
	repo, inner, mr := setupCache(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testProduct("p1", "Cap")))

	first, err := repo.List(ctx)
	require.NoError(t, err)
	second, err := repo.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.lists)
	assert.True(t, mr.Exists(productListKey))
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Name, second[0].Name)
}

func TestCache_WritesInvalidate(t *testing.T) {
	repo, inner, mr := setupCache(t)
	ctx := context.Background()
	p := testProduct("p1", "Cap")
	require.NoError(t, repo.Create(ctx, p))

	_, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	_, err = repo.List(ctx)
	require.NoError(t, err)

	p.Name = "Embroidered Cap"
	require.NoError(t, repo.Update(ctx, p))
	assert.False(t, mr.Exists(productListKey))
	assert.False(t, mr.Exists(productKeyPrefix+"p1"))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Embroidered Cap", got.Name)
	assert.Equal(t, 2, inner.gets)

	require.NoError(t, repo.Delete(ctx, "p1"))
	_, err = repo.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCache_DeleteAllDropsEveryKey(t *testing.T) {
	repo, _, mr := setupCache(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateMany(ctx, []*Product{testProduct("a", "A"), testProduct("b", "B")}))
	for _, id := range []string{"a", "b"} {
		_, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
	}

	require.NoError(t, repo.DeleteAll(ctx))

	assert.Equal(t, []string{generationKey}, mr.Keys())
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCache_RedisDownFallsThrough(t *testing.T) {
	repo, inner, mr := setupCache(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testProduct("p1", "Cap")))
	mr.Close()

	products, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, inner.lists)
}

// slowReader runs afterLoad once, between loading a product from the store
// and returning it, to interleave a write with an in-flight read.
type slowReader struct {
	ProductRepository
	afterLoad func()
}

func (s *slowReader) GetByID(ctx context.Context, id string) (*Product, error) {
	p, err := s.ProductRepository.GetByID(ctx, id)
	if hook := s.afterLoad; hook != nil {
		s.afterLoad = nil
		hook()
	}
	return p, err
}

func TestCache_ReadDoesNotRestoreValueReplacedByConcurrentWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	inner := &slowReader{ProductRepository: NewMemoryProductRepository()}
	repo := NewCachedProductRepository(inner, client, time.Hour, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testProduct("p1", "Cap")))

	inner.afterLoad = func() {
		updated := testProduct("p1", "Embroidered Cap")
		require.NoError(t, repo.Update(ctx, updated))
	}
	stale, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Cap", stale.Name, "the in-flight read returns what it loaded")
	assert.False(t, mr.Exists(productKeyPrefix+"p1"), "the stale value must not be cached")

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Embroidered Cap", got.Name)
}
