package store

import (
	"context"
	"errors"

	carterrors "github.com/shopfront/cart_service/internal/errors"
	"github.com/shopfront/cart_service/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// BreakerProductStore wraps a ProductStore in a circuit breaker so that a
// failing catalog backend trips open instead of being hammered on every
// add-to-cart call. ErrProductNotFound is a business outcome, not a system
// failure, and must not trip the breaker.
type BreakerProductStore struct {
	next ProductStore
	cb   *gobreaker.CircuitBreaker[*Product]
}

// NewBreakerProductStore creates a circuit-breaker decorator around next.
func NewBreakerProductStore(next ProductStore, cfg config.CircuitBreakerConfig) *BreakerProductStore {
	st := gobreaker.Settings{
		Name:        "product-store-cb",
		MaxRequests: 3,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > cfg.ConsecutiveFailures ||
				(counts.TotalSuccesses+counts.TotalFailures > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(counts.TotalSuccesses+counts.TotalFailures)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, carterrors.ErrProductNotFound)
		},
	}
	return &BreakerProductStore{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[*Product](st),
	}
}

func (s *BreakerProductStore) FindByID(ctx context.Context, id string) (*Product, error) {
	return s.cb.Execute(func() (*Product, error) {
		return s.next.FindByID(ctx, id)
	})
}

func (s *BreakerProductStore) Create(ctx context.Context, product Product) error {
	// Seeding is not on the hot path; pass through.
	return s.next.Create(ctx, product)
}
