package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// objectAPI is the subset of the S3 client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Store struct {
	client  objectAPI
	bucket  string
	folder  string
	baseURL string
	newID   func() string
}

// NewS3Store returns a Store that writes objects to bucket and serves them
// from baseURL (usually a CDN in front of the bucket). Handles are object keys.
func NewS3Store(ctx context.Context, region, bucket, folder, baseURL string) (Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS default config: %w", err)
	}
	return newS3Store(s3.NewFromConfig(cfg), bucket, folder, baseURL), nil
}

func newS3Store(client objectAPI, bucket, folder, baseURL string) *s3Store {
	return &s3Store{
		client:  client,
		bucket:  bucket,
		folder:  strings.Trim(folder, "/"),
		baseURL: strings.TrimRight(baseURL, "/"),
		newID:   uuid.NewString,
	}
}

func (s *s3Store) Upload(ctx context.Context, f File) (Asset, error) {
	key := s.objectKey(f.Name)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f.Body,
	}
	if f.ContentType != "" {
		in.ContentType = aws.String(f.ContentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return Asset{}, uploadError("s3", err)
	}
	return Asset{URL: s.baseURL + "/" + key, Handle: key}, nil
}

func (s *s3Store) Delete(ctx context.Context, handle string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(handle),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", handle, err)
	}
	return nil
}

func (s *s3Store) objectKey(name string) string {
	ext := Format(name)
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%s.%s", s.folder, s.newID(), ext)
}
