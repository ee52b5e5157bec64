package catalog

import (
	"context"
	"fmt"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
)

var (
	ErrProductNotFound = fmt.Errorf("product: %w", httpx.ErrNotFound)
	ErrComboNotFound   = fmt.Errorf("combo: %w", httpx.ErrNotFound)
)

// ProductRepository stores products. List returns newest first; GetByIDs
// silently skips ids that do not exist.
type ProductRepository interface {
	List(ctx context.Context) ([]*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	CreateMany(ctx context.Context, ps []*Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// ComboRepository stores combos. List returns newest first.
type ComboRepository interface {
	List(ctx context.Context) ([]*Combo, error)
	GetByID(ctx context.Context, id string) (*Combo, error)
	Create(ctx context.Context, c *Combo) error
	Update(ctx context.Context, c *Combo) error
	Delete(ctx context.Context, id string) error
}
