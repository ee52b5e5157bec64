package media

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, CheckFormat(File{Name: "kaftan.JPG"}))
	assert.NoError(t, CheckFormat(File{Name: "agbada.webp"}))

	err := CheckFormat(File{Name: "catalog.pdf"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Contains(t, err.Error(), "catalog.pdf")
}

type fakeObjects struct {
	puts    []*s3.PutObjectInput
	deletes []string
	err     error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_UploadAndDelete(t *testing.T) {
	objects := &fakeObjects{}
	store := newS3Store(objects, "catalog-images", "/products/", "https://cdn.example.com/")
	store.newID = func() string { return "42" }

	asset, err := store.Upload(context.Background(), File{
		Name:        "Kaftan.PNG",
		ContentType: "image/png",
		Body:        strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "products/42.png", asset.Handle)
	assert.Equal(t, "https://cdn.example.com/products/42.png", asset.URL)
	require.Len(t, objects.puts, 1)
	assert.Equal(t, "catalog-images", *objects.puts[0].Bucket)
	assert.Equal(t, "image/png", *objects.puts[0].ContentType)

	require.NoError(t, store.Delete(context.Background(), asset.Handle))
	assert.Equal(t, []string{"products/42.png"}, objects.deletes)
}

func TestS3Store_KeysAreUnique(t *testing.T) {
	objects := &fakeObjects{}
	store := newS3Store(objects, "catalog-images", "products", "https://cdn.example.com")

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		asset, err := store.Upload(context.Background(), File{Name: "same.jpg", Body: strings.NewReader("x")})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(asset.Handle, "products/"))
		assert.True(t, strings.HasSuffix(asset.Handle, ".jpg"))
		assert.False(t, seen[asset.Handle], "duplicate key %s", asset.Handle)
		seen[asset.Handle] = true
	}
}

func TestS3Store_UploadError(t *testing.T) {
	store := newS3Store(&fakeObjects{err: errors.New("access denied")}, "b", "p", "https://cdn")

	_, err := store.Upload(context.Background(), File{Name: "a.jpg", Body: strings.NewReader("x")})
	assert.ErrorContains(t, err, "s3 upload failed")
}

type flakyStore struct {
	calls int
	err   error
}

func (f *flakyStore) Upload(context.Context, File) (Asset, error) {
	f.calls++
	return Asset{}, f.err
}

func (f *flakyStore) Delete(context.Context, string) error {
	f.calls++
	return f.err
}

func TestWithBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &flakyStore{err: errors.New("media host down")}
	store := WithBreaker(next, time.Minute, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := store.Upload(context.Background(), File{Name: "a.jpg"})
		require.Error(t, err)
	}
	assert.Equal(t, 5, next.calls)

	_, err := store.Upload(context.Background(), File{Name: "a.jpg"})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 5, next.calls, "open breaker must not reach the media host")
}

func TestWithBreaker_DeletesTrackedSeparately(t *testing.T) {
	next := &flakyStore{err: errors.New("media host down")}
	store := WithBreaker(next, time.Minute, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, _ = store.Upload(context.Background(), File{Name: "a.jpg"})
	}

	next.err = nil
	assert.NoError(t, store.Delete(context.Background(), "products/1.jpg"))
}
