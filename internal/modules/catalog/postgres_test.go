package catalog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/georgemunganga/ustaz-catalog/internal/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db))
	return db
}

func TestPostgresProducts(t *testing.T) {
	db := setupPostgres(t)
	repo := NewPostgresProductRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Microsecond)
	older := testProduct(uuid.NewString(), "Cap")
	older.CreatedAt = base.Add(-time.Minute)
	newer := testProduct(uuid.NewString(), "Kaftan")
	newer.CreatedAt = base
	newer.Images = []string{"https://x/1.jpg", "https://x/2.jpg"}
	newer.Image = newer.Images[0]
	newer.MediaIDs = []string{"m1", "m2"}
	newer.Colors = []ColorVariant{{Name: "White", Images: []string{"https://x/w.jpg"}}}
	require.NoError(t, repo.CreateMany(ctx, []*Product{older, newer}))

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, newer.ID, products[0].ID)
	assert.Equal(t, newer.Images, products[0].Images)
	assert.Equal(t, newer.MediaIDs, products[0].MediaIDs)
	assert.Equal(t, "White", products[0].Colors[0].Name)
	assert.Empty(t, products[1].Colors)

	newer.Price = "₦2,000"
	require.NoError(t, repo.Update(ctx, newer))
	got, err := repo.GetByID(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, "₦2,000", got.Price)

	found, err := repo.GetByIDs(ctx, []string{older.ID, "not-a-uuid", uuid.NewString()})
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrProductNotFound)

	require.NoError(t, repo.Delete(ctx, older.ID))
	assert.ErrorIs(t, repo.Delete(ctx, older.ID), ErrProductNotFound)

	require.NoError(t, repo.DeleteAll(ctx))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPostgresCombos(t *testing.T) {
	db := setupPostgres(t)
	repo := NewPostgresComboRepository(db)
	ctx := context.Background()

	c := &Combo{
		ID:         uuid.NewString(),
		Name:       "Festive Set",
		ProductIDs: []string{"a", "b"},
		Image:      PlaceholderImage,
		Popular:    true,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.ProductIDs)
	assert.True(t, got.Popular)

	c.ProductIDs = []string{"b"}
	c.Popular = false
	require.NoError(t, repo.Update(ctx, c))
	combos, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, combos, 1)
	assert.Equal(t, []string{"b"}, combos[0].ProductIDs)
	assert.False(t, combos[0].Popular)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrComboNotFound)
}
