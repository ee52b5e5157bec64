package media

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type breakerStore struct {
	next    Store
	uploads *gobreaker.CircuitBreaker[Asset]
	deletes *gobreaker.CircuitBreaker[struct{}]
}

// WithBreaker wraps next so that after five consecutive failures calls fail
// fast with gobreaker.ErrOpenState for timeout before the host is probed again.
func WithBreaker(next Store, timeout time.Duration, log *zap.Logger) Store {
	settings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("media breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}
	}
	return &breakerStore{
		next:    next,
		uploads: gobreaker.NewCircuitBreaker[Asset](settings("media-upload")),
		deletes: gobreaker.NewCircuitBreaker[struct{}](settings("media-delete")),
	}
}

func (b *breakerStore) Upload(ctx context.Context, f File) (Asset, error) {
	return b.uploads.Execute(func() (Asset, error) {
		return b.next.Upload(ctx, f)
	})
}

func (b *breakerStore) Delete(ctx context.Context, handle string) error {
	_, err := b.deletes.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Delete(ctx, handle)
	})
	return err
}
