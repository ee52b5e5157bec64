package catalog

import (
	"strings"
	"time"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
)

// PlaceholderImage is used for records created without an upload.
const PlaceholderImage = "https://via.placeholder.com/400x400"

// MaxProductImages caps the number of images per product upload.
const MaxProductImages = 10

type Category string

const (
	CategoryTraditional Category = "Traditional"
	CategoryCasual      Category = "Casual"
	CategoryPremium     Category = "Premium"
	CategoryFabrics     Category = "Fabrics"
	CategoryAccessories Category = "Accessories"
)

var Categories = []Category{
	CategoryTraditional,
	CategoryCasual,
	CategoryPremium,
	CategoryFabrics,
	CategoryAccessories,
}

// ParseCategory matches s case-insensitively against Categories.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return "", httpx.Validation("category must be one of: %s", strings.Join(names, ", "))
}

// ColorVariant is a named color with its own gallery.
type ColorVariant struct {
	Name   string   `json:"name" bson:"name"`
	Images []string `json:"images" bson:"images"`
}

// Product is a storefront item. Image is always set and equals Images[0]
// whenever Images is non-empty.
type Product struct {
	ID          string         `json:"_id" bson:"_id"`
	Name        string         `json:"name" bson:"name"`
	Price       string         `json:"price" bson:"price"`
	Category    Category       `json:"category" bson:"category"`
	Description string         `json:"description" bson:"description"`
	FabricType  string         `json:"fabricType" bson:"fabric_type"`
	Texture     string         `json:"texture" bson:"texture"`
	Quality     string         `json:"quality" bson:"quality"`
	Care        string         `json:"care" bson:"care"`
	Image       string         `json:"image" bson:"image"`
	Images      []string       `json:"images" bson:"images"`
	Colors      []ColorVariant `json:"colors" bson:"colors"`
	MediaIDs    []string       `json:"mediaIds" bson:"media_ids"`
	CreatedAt   time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" bson:"updated_at"`
}

// Combo is a bundled offer over several products. ProductIDs is what gets
// stored; Products is filled on read.
type Combo struct {
	ID            string     `json:"_id" bson:"_id"`
	Name          string     `json:"name" bson:"name"`
	Description   string     `json:"description" bson:"description"`
	ProductIDs    []string   `json:"-" bson:"products"`
	Products      []*Product `json:"products" bson:"-"`
	OriginalPrice string     `json:"originalPrice" bson:"original_price"`
	ComboPrice    string     `json:"comboPrice" bson:"combo_price"`
	Savings       string     `json:"savings" bson:"savings"`
	Image         string     `json:"image" bson:"image"`
	MediaID       string     `json:"mediaId" bson:"media_id"`
	Popular       bool       `json:"popular" bson:"popular"`
	CreatedAt     time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updated_at"`
}

// normalize replaces nil slices so JSON always carries arrays.
func (p *Product) normalize() {
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Colors == nil {
		p.Colors = []ColorVariant{}
	}
	if p.MediaIDs == nil {
		p.MediaIDs = []string{}
	}
	if p.Image == "" {
		p.Image = PlaceholderImage
	}
}

func (p *Product) clone() *Product {
	c := *p
	c.Images = append([]string(nil), p.Images...)
	c.MediaIDs = append([]string(nil), p.MediaIDs...)
	if p.Colors != nil {
		c.Colors = make([]ColorVariant, len(p.Colors))
		for i, v := range p.Colors {
			c.Colors[i] = ColorVariant{Name: v.Name, Images: append([]string(nil), v.Images...)}
		}
	}
	c.normalize()
	return &c
}

func (c *Combo) clone() *Combo {
	out := *c
	out.ProductIDs = append([]string{}, c.ProductIDs...)
	out.Products = nil
	return &out
}
