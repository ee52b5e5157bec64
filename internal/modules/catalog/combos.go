package catalog

import (
	"context"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
	"github.com/georgemunganga/ustaz-catalog/internal/modules/media"
	"go.uber.org/zap"
)

func (s *service) ListCombos(ctx context.Context) ([]*Combo, error) {
	combos, err := s.combos.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.resolveProducts(ctx, combos...); err != nil {
		return nil, err
	}
	return combos, nil
}

func (s *service) GetCombo(ctx context.Context, id string) (*Combo, error) {
	c, err := s.combos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolveProducts(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) CreateCombo(ctx context.Context, fields ComboFields, file *media.File) (*Combo, error) {
	c := &Combo{}
	applyComboFields(c, fields)
	switch {
	case c.Name == "":
		return nil, httpx.Validation("name is required")
	case fields.ProductIDs == nil:
		return nil, httpx.Validation("products is required")
	}

	c.Image = PlaceholderImage
	if file != nil {
		if err := media.CheckFormat(*file); err != nil {
			return nil, err
		}
		asset, err := s.media.Upload(ctx, *file)
		if err != nil {
			return nil, err
		}
		c.Image, c.MediaID = asset.URL, asset.Handle
	}

	now := s.now()
	c.ID = s.newID()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.combos.Create(ctx, c); err != nil {
		s.deleteAssets(ctx, []string{c.MediaID})
		return nil, err
	}
	s.log.Info("combo created", zap.String("id", c.ID), zap.Int("products", len(c.ProductIDs)))
	if err := s.resolveProducts(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) UpdateCombo(ctx context.Context, id string, fields ComboFields, file *media.File) (*Combo, error) {
	c, err := s.combos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyComboFields(c, fields)

	var newHandle string
	if file != nil {
		if err := media.CheckFormat(*file); err != nil {
			return nil, err
		}
		asset, err := s.media.Upload(ctx, *file)
		if err != nil {
			return nil, err
		}
		s.deleteAssets(ctx, []string{c.MediaID})
		c.Image, c.MediaID = asset.URL, asset.Handle
		newHandle = asset.Handle
	}
	c.UpdatedAt = s.now()

	if err := s.combos.Update(ctx, c); err != nil {
		s.deleteAssets(ctx, []string{newHandle})
		return nil, err
	}
	if err := s.resolveProducts(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCombo(ctx context.Context, id string) error {
	c, err := s.combos.GetByID(ctx, id)
	if err != nil {
		return err
	}
	s.deleteAssets(ctx, []string{c.MediaID})
	if err := s.combos.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("combo deleted", zap.String("id", id))
	return nil
}

// resolveProducts fills Products from ProductIDs with a single lookup.
// References to products that no longer exist are left out.
func (s *service) resolveProducts(ctx context.Context, combos ...*Combo) error {
	var ids []string
	for _, c := range combos {
		ids = append(ids, c.ProductIDs...)
	}
	found, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]*Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	for _, c := range combos {
		c.Products = make([]*Product, 0, len(c.ProductIDs))
		for _, id := range c.ProductIDs {
			if p, ok := byID[id]; ok {
				c.Products = append(c.Products, p)
			}
		}
	}
	return nil
}

func applyComboFields(c *Combo, f ComboFields) {
	setRequired(&c.Name, f.Name)
	setOptional(&c.Description, f.Description)
	setOptional(&c.OriginalPrice, f.OriginalPrice)
	setOptional(&c.ComboPrice, f.ComboPrice)
	setOptional(&c.Savings, f.Savings)
	if f.ProductIDs != nil {
		c.ProductIDs = append([]string{}, (*f.ProductIDs)...)
	}
	if f.Popular != nil {
		c.Popular = *f.Popular
	}
	if c.ProductIDs == nil {
		c.ProductIDs = []string{}
	}
}
