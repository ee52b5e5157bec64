// Package media stores product images on a remote host. The catalog only
// ever sees the resulting URL and an opaque handle used to delete the asset.
package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
)

// AllowedFormats lists the image extensions accepted for upload.
var AllowedFormats = []string{"jpg", "jpeg", "png", "webp"}

// File is an image received from a client.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Asset is a stored image.
type Asset struct {
	URL    string `json:"url"`
	Handle string `json:"handle"`
}

// Store uploads and deletes assets on the media host.
type Store interface {
	Upload(ctx context.Context, f File) (Asset, error)
	Delete(ctx context.Context, handle string) error
}

// Format returns the lower-case extension of name without the dot.
func Format(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// CheckFormat rejects files whose extension is not in AllowedFormats.
func CheckFormat(f File) error {
	ext := Format(f.Name)
	for _, allowed := range AllowedFormats {
		if ext == allowed {
			return nil
		}
	}
	return httpx.Validation("image %q must be one of: %s", f.Name, strings.Join(AllowedFormats, ", "))
}

func uploadError(provider string, err error) error {
	return fmt.Errorf("%s upload failed: %w", provider, err)
}
