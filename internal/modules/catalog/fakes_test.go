package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/georgemunganga/ustaz-catalog/internal/modules/media"
	"go.uber.org/zap"
)

type fakeMedia struct {
	mu        sync.Mutex
	uploads   int
	deleted   []string
	uploadErr error
	failAfter int
	deleteErr error
}

func (f *fakeMedia) Upload(_ context.Context, file media.File) (media.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil && f.uploads >= f.failAfter {
		return media.Asset{}, f.uploadErr
	}
	f.uploads++
	return media.Asset{
		URL:    fmt.Sprintf("https://media.test/%d-%s", f.uploads, file.Name),
		Handle: fmt.Sprintf("handle-%d", f.uploads),
	}, nil
}

func (f *fakeMedia) Delete(_ context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, handle)
	return f.deleteErr
}

func (f *fakeMedia) deletedHandles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var reachable = pingFunc(func(context.Context) error { return nil })
var unreachable = pingFunc(func(context.Context) error { return errors.New("no reachable servers") })

type fixture struct {
	svc      *service
	products ProductRepository
	combos   ComboRepository
	media    *fakeMedia
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	products := NewMemoryProductRepository()
	combos := NewMemoryComboRepository()
	m := &fakeMedia{}
	svc := NewService(products, combos, m, zap.NewNop()).(*service)

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return &fixture{svc: svc, products: products, combos: combos, media: m}
}

func str(s string) *string { return &s }

func images(names ...string) []media.File {
	files := make([]media.File, len(names))
	for i, n := range names {
		files[i] = media.File{Name: n, ContentType: "image/jpeg", Body: strings.NewReader("img-" + n)}
	}
	return files
}

func validFields() ProductFields {
	return ProductFields{
		Name:     str("Designer Kaftan"),
		Price:    str("₦20,000"),
		Category: str("Premium"),
	}
}
