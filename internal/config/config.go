// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	MediaCloudinary = "cloudinary"
	MediaS3         = "s3"
)

type Config struct {
	Port            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	SeedOnStart     bool

	Database Database
	Redis    Redis
	Media    Media
	Auth     Auth
	Log      Log
}

type Database struct {
	Driver      string
	MongoURI    string
	MongoDBName string
	PostgresURL string
}

type Redis struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// Enabled reports whether a cache should sit in front of the product store.
func (r Redis) Enabled() bool { return r.Addr != "" }

type Media struct {
	Provider            string
	Folder              string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	S3Bucket            string
	S3Region            string
	BaseURL             string
}

type Auth struct {
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
	TokenTTL      time.Duration
}

type Log struct {
	Mode string
	File string
}

// Load reads .env when present and builds the Config from the environment.
// It does not validate; call Validate before using the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	return &Config{
		Port:            getEnv("APP_PORT", "5000"),
		RequestTimeout:  cast.ToDuration(getEnv("REQUEST_TIMEOUT", "30s")),
		ShutdownTimeout: cast.ToDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")),
		SeedOnStart:     cast.ToBool(getEnv("SEED_ON_START", "true")),
		Database: Database{
			Driver:      strings.ToLower(getEnv("DB_DRIVER", DriverMongo)),
			MongoURI:    os.Getenv("MONGODB_URI"),
			MongoDBName: getEnv("MONGODB_DATABASE", "storefront"),
			PostgresURL: os.Getenv("DATABASE_URL"),
		},
		Redis: Redis{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			TTL:      cast.ToDuration(getEnv("CACHE_TTL", "5m")),
		},
		Media: Media{
			Provider:            strings.ToLower(getEnv("MEDIA_PROVIDER", MediaCloudinary)),
			Folder:              getEnv("MEDIA_FOLDER", "moderate_ustaz_products"),
			CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			S3Bucket:            os.Getenv("S3_BUCKET"),
			S3Region:            getEnv("AWS_REGION", os.Getenv("AWS_DEFAULT_REGION")),
			BaseURL:             os.Getenv("MEDIA_BASE_URL"),
		},
		Auth: Auth{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			AdminEmail:    os.Getenv("ADMIN_EMAIL"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
			TokenTTL:      24 * time.Hour,
		},
		Log: Log{
			Mode: getEnv("LOG_MODE", "development"),
			File: os.Getenv("LOG_FILE"),
		},
	}, nil
}

// Validate rejects configurations that would fall back to insecure or
// missing values. Secrets have no defaults.
func (c *Config) Validate() error {
	var missing []string
	require := func(key, val string) {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, key)
		}
	}

	require("JWT_SECRET", c.Auth.JWTSecret)
	require("ADMIN_EMAIL", c.Auth.AdminEmail)
	require("ADMIN_PASSWORD", c.Auth.AdminPassword)

	switch c.Database.Driver {
	case DriverMongo:
		require("MONGODB_URI", c.Database.MongoURI)
	case DriverPostgres:
		require("DATABASE_URL", c.Database.PostgresURL)
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}

	if err := c.ValidateMedia(); err != nil {
		return err
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// ValidateMedia checks only the media provider settings.
func (c *Config) ValidateMedia() error {
	var missing []string
	require := func(key, val string) {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, key)
		}
	}
	switch c.Media.Provider {
	case MediaCloudinary:
		require("CLOUDINARY_CLOUD_NAME", c.Media.CloudinaryCloudName)
		require("CLOUDINARY_API_KEY", c.Media.CloudinaryAPIKey)
		require("CLOUDINARY_API_SECRET", c.Media.CloudinaryAPISecret)
	case MediaS3:
		require("S3_BUCKET", c.Media.S3Bucket)
		require("AWS_REGION", c.Media.S3Region)
		require("MEDIA_BASE_URL", c.Media.BaseURL)
	default:
		return fmt.Errorf("unknown MEDIA_PROVIDER %q", c.Media.Provider)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
