package catalog

import (
	"context"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
	"github.com/georgemunganga/ustaz-catalog/internal/modules/media"
	"go.uber.org/zap"
)

func (s *service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.products.List(ctx)
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *service) CreateProduct(ctx context.Context, fields ProductFields, files []media.File) (*Product, error) {
	p := &Product{}
	if err := applyProductFields(p, fields); err != nil {
		return nil, err
	}
	switch {
	case p.Name == "":
		return nil, httpx.Validation("name is required")
	case p.Price == "":
		return nil, httpx.Validation("price is required")
	case p.Category == "":
		return nil, httpx.Validation("category is required")
	}
	if err := checkProductFiles(files); err != nil {
		return nil, err
	}

	assets, err := s.uploadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	now := s.now()
	p.ID = s.newID()
	p.CreatedAt = now
	p.UpdatedAt = now
	setProductImages(p, assets)

	if err := s.products.Create(ctx, p); err != nil {
		s.deleteAssets(ctx, handles(assets))
		return nil, err
	}
	s.log.Info("product created", zap.String("id", p.ID), zap.Int("images", len(assets)))
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, fields ProductFields, files []media.File) (*Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProductFields(p, fields); err != nil {
		return nil, err
	}
	if err := checkProductFiles(files); err != nil {
		return nil, err
	}

	var assets []media.Asset
	if len(files) > 0 {
		assets, err = s.uploadAll(ctx, files)
		if err != nil {
			return nil, err
		}
		// The image set is replaced as a whole.
		s.deleteAssets(ctx, p.MediaIDs)
		setProductImages(p, assets)
	}
	p.UpdatedAt = s.now()

	if err := s.products.Update(ctx, p); err != nil {
		s.deleteAssets(ctx, handles(assets))
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	s.deleteAssets(ctx, p.MediaIDs)
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.String("id", id))
	return nil
}

func applyProductFields(p *Product, f ProductFields) error {
	setRequired(&p.Name, f.Name)
	setRequired(&p.Price, f.Price)
	if f.Category != nil && *f.Category != "" {
		c, err := ParseCategory(*f.Category)
		if err != nil {
			return err
		}
		p.Category = c
	}
	setOptional(&p.Description, f.Description)
	setOptional(&p.FabricType, f.FabricType)
	setOptional(&p.Texture, f.Texture)
	setOptional(&p.Quality, f.Quality)
	setOptional(&p.Care, f.Care)
	if f.Colors != nil {
		p.Colors = *f.Colors
	}
	p.normalize()
	return nil
}

func checkProductFiles(files []media.File) error {
	if len(files) > MaxProductImages {
		return httpx.Validation("at most %d images are allowed", MaxProductImages)
	}
	return checkFormats(files)
}

// setProductImages makes the first asset the primary image. Without assets
// the product falls back to the placeholder.
func setProductImages(p *Product, assets []media.Asset) {
	if len(assets) == 0 {
		p.Image = PlaceholderImage
		p.Images = []string{PlaceholderImage}
		p.MediaIDs = []string{}
		return
	}
	p.Images = make([]string, len(assets))
	for i, a := range assets {
		p.Images[i] = a.URL
	}
	p.Image = p.Images[0]
	p.MediaIDs = handles(assets)
}
