package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type cloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore returns a Store backed by a Cloudinary account. Handles
// are Cloudinary public ids.
func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (Store, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return &cloudinaryStore{cld: cld, folder: folder}, nil
}

func (s *cloudinaryStore) Upload(ctx context.Context, f File) (Asset, error) {
	resp, err := s.cld.Upload.Upload(ctx, f.Body, uploader.UploadParams{
		Folder:         s.folder,
		AllowedFormats: api.CldAPIArray(AllowedFormats),
	})
	if err != nil {
		return Asset{}, uploadError("cloudinary", err)
	}
	if resp.Error.Message != "" {
		return Asset{}, uploadError("cloudinary", errors.New(resp.Error.Message))
	}
	return Asset{URL: resp.SecureURL, Handle: resp.PublicID}, nil
}

func (s *cloudinaryStore) Delete(ctx context.Context, handle string) error {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: handle})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", handle, err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", handle, resp.Error.Message)
	}
	return nil
}
