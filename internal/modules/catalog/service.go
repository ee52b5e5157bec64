package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
	"github.com/georgemunganga/ustaz-catalog/internal/modules/media"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines catalog business logic.
type Service interface {
	ListProducts(ctx context.Context) ([]*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, fields ProductFields, files []media.File) (*Product, error)
	UpdateProduct(ctx context.Context, id string, fields ProductFields, files []media.File) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListCombos(ctx context.Context) ([]*Combo, error)
	GetCombo(ctx context.Context, id string) (*Combo, error)
	CreateCombo(ctx context.Context, fields ComboFields, file *media.File) (*Combo, error)
	UpdateCombo(ctx context.Context, id string, fields ComboFields, file *media.File) (*Combo, error)
	DeleteCombo(ctx context.Context, id string) error
}

// ProductFields carries submitted product values. A nil field was not
// submitted. Name, Price and Category ignore empty values so a blank form
// field cannot wipe them; the free-text fields accept empty to clear.
type ProductFields struct {
	Name        *string
	Price       *string
	Category    *string
	Description *string
	FabricType  *string
	Texture     *string
	Quality     *string
	Care        *string
	Colors      *[]ColorVariant
}

// ComboFields carries submitted combo values with the same nil rules as
// ProductFields.
type ComboFields struct {
	Name          *string
	Description   *string
	ProductIDs    *[]string
	OriginalPrice *string
	ComboPrice    *string
	Savings       *string
	Popular       *bool
}

type service struct {
	products ProductRepository
	combos   ComboRepository
	media    media.Store
	log      *zap.Logger
	newID    func() string
	now      func() time.Time
}

func NewService(products ProductRepository, combos ComboRepository, store media.Store, log *zap.Logger) Service {
	return &service{
		products: products,
		combos:   combos,
		media:    store,
		log:      log,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// ParseProductIDs decodes a JSON array of product ids such as
// `["a","b"]`.
func ParseProductIDs(raw string) ([]string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, httpx.Validation("products must be a JSON array of product ids")
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, httpx.Validation("products must not contain empty ids")
		}
		out = append(out, id)
	}
	return out, nil
}

// ParseColors decodes a JSON array of color variants.
func ParseColors(raw string) ([]ColorVariant, error) {
	var colors []ColorVariant
	if err := json.Unmarshal([]byte(raw), &colors); err != nil {
		return nil, httpx.Validation("colors must be a JSON array of {name, images}")
	}
	for i := range colors {
		colors[i].Name = strings.TrimSpace(colors[i].Name)
		if colors[i].Name == "" {
			return nil, httpx.Validation("every color needs a name")
		}
		if colors[i].Images == nil {
			colors[i].Images = []string{}
		}
	}
	return colors, nil
}

// setRequired applies v to dst unless v is absent or blank.
func setRequired(dst *string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		*dst = s
	}
}

// setOptional applies v to dst when present, including the empty string.
func setOptional(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func (s *service) uploadAll(ctx context.Context, files []media.File) ([]media.Asset, error) {
	assets := make([]media.Asset, 0, len(files))
	for _, f := range files {
		asset, err := s.media.Upload(ctx, f)
		if err != nil {
			s.deleteAssets(ctx, handles(assets))
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// deleteAssets removes each handle from the media host. Failures are logged
// and otherwise ignored.
func (s *service) deleteAssets(ctx context.Context, ids []string) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if err := s.media.Delete(ctx, id); err != nil {
			s.log.Warn("failed to delete media", zap.String("media_id", id), zap.Error(err))
		}
	}
}

func checkFormats(files []media.File) error {
	for _, f := range files {
		if err := media.CheckFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func handles(assets []media.Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Handle
	}
	return out
}
