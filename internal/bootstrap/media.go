package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/georgemunganga/ustaz-catalog/internal/config"
	"github.com/georgemunganga/ustaz-catalog/internal/modules/media"
	"go.uber.org/zap"
)

const mediaBreakerTimeout = 30 * time.Second

// NewMediaStore builds the configured media provider behind a circuit
// breaker.
func NewMediaStore(ctx context.Context, cfg config.Media, log *zap.Logger) (media.Store, error) {
	var (
		store media.Store
		err   error
	)
	switch cfg.Provider {
	case config.MediaCloudinary:
		store, err = media.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.Folder)
	case config.MediaS3:
		store, err = media.NewS3Store(ctx, cfg.S3Region, cfg.S3Bucket, cfg.Folder, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown MEDIA_PROVIDER %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	log.Info("media store ready", zap.String("provider", cfg.Provider), zap.String("folder", cfg.Folder))
	return media.WithBreaker(store, mediaBreakerTimeout, log), nil
}
