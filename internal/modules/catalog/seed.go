package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Seeder loads the initial product set into an empty catalog.
type Seeder struct {
	products ProductRepository
	db       Pinger
	log      *zap.Logger
	now      func() time.Time
}

func NewSeeder(products ProductRepository, db Pinger, log *zap.Logger) *Seeder {
	return &Seeder{products: products, db: db, log: log, now: time.Now}
}

// Seed inserts SeedProducts when the catalog is empty and returns how many
// records were written. The emptiness check is not atomic: two processes
// starting at the same time against an empty store can both seed.
func (s *Seeder) Seed(ctx context.Context) (int, error) {
	if err := s.db.Ping(ctx); err != nil {
		return 0, fmt.Errorf("seed skipped, store unreachable: %w: %v", httpx.ErrUnavailable, err)
	}
	n, err := s.products.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Debug("catalog already populated, skipping seed", zap.Int64("count", n))
		return 0, nil
	}
	return s.insert(ctx)
}

// Reset removes every product and inserts the seed set again.
func (s *Seeder) Reset(ctx context.Context) (int, error) {
	if err := s.db.Ping(ctx); err != nil {
		return 0, fmt.Errorf("reset skipped, store unreachable: %w: %v", httpx.ErrUnavailable, err)
	}
	if err := s.products.DeleteAll(ctx); err != nil {
		return 0, err
	}
	s.log.Info("cleared existing products")
	return s.insert(ctx)
}

func (s *Seeder) insert(ctx context.Context) (int, error) {
	seeds := SeedProducts()
	now := s.now()
	// Earlier entries get later timestamps so the newest-first listing
	// returns the seed set in declaration order.
	for i, p := range seeds {
		p.ID = uuid.NewString()
		p.CreatedAt = now.Add(-time.Duration(i) * time.Second)
		p.UpdatedAt = p.CreatedAt
	}
	if err := s.products.CreateMany(ctx, seeds); err != nil {
		return 0, err
	}
	s.log.Info("initial products seeded", zap.Int("count", len(seeds)))
	return len(seeds), nil
}

// SeedProducts returns a fresh copy of the initial catalog.
func SeedProducts() []*Product {
	img := PlaceholderImage
	seeds := []*Product{
		{
			Name:        "Premium Cotton Kaftan",
			Price:       "₦18,000",
			Category:    CategoryTraditional,
			Description: "Elegant traditional kaftan made from premium cotton fabric. Perfect for formal occasions and daily wear.",
			FabricType:  "100% Cotton",
			Texture:     "Smooth and breathable",
			Quality:     "Premium",
			Care:        "Machine wash cold, hang dry",
			Colors: []ColorVariant{
				{Name: "White", Images: []string{img}},
				{Name: "Navy Blue", Images: []string{img}},
			},
		},
		{
			Name:        "Embroidered Agbada Set",
			Price:       "₦35,000",
			Category:    CategoryPremium,
			Description: "Luxurious hand-embroidered Agbada with matching cap and trousers. Crafted for special occasions.",
			FabricType:  "Silk blend",
			Texture:     "Smooth with intricate embroidery",
			Quality:     "Luxury",
			Care:        "Dry clean only",
		},
		{
			Name:        "Ankara Print Fabric",
			Price:       "₦8,500",
			Category:    CategoryFabrics,
			Description: "Vibrant Ankara print fabric, 6 yards. High-quality wax print perfect for traditional and modern designs.",
			FabricType:  "Cotton wax print",
			Texture:     "Smooth with vibrant colors",
			Quality:     "Standard",
			Care:        "Machine wash warm, iron on medium heat",
			Colors: []ColorVariant{
				{Name: "Red & Gold", Images: []string{img}},
				{Name: "Blue & Yellow", Images: []string{img}},
			},
		},
		{Name: "3-Piece Senator", Price: "₦15,000", Category: CategoryTraditional},
		{Name: "Embroidered Cap", Price: "₦5,000", Category: CategoryAccessories},
		{Name: "Daily Jalabiya", Price: "₦18,000", Category: CategoryCasual},
	}
	for _, p := range seeds {
		p.Image = img
		p.Images = []string{img}
		p.normalize()
	}
	return seeds
}
