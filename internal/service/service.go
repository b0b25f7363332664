// Package service provides the implementation of cart-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	carterrors "github.com/shopfront/cart_service/internal/errors"
	"github.com/shopfront/cart_service/internal/store"
	"github.com/shopfront/cart_service/pkg/messaging"
	"github.com/shopfront/cart_service/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// CartService defines the methods for managing the cart.
// It abstracts the underlying business logic and data access.
type CartService interface {
	// AddToCart validates availability and capacity for the requested
	// product and, if all checks pass, commits the new quantity and
	// returns Success with the cart-wide total. Business rejections are
	// returned as a Failure result; the error return is reserved for
	// storage failures.
	AddToCart(ctx context.Context, productID string, quantity int64) (CartOperationResult, error)

	// Cart returns the current cart lines and total.
	Cart(ctx context.Context) (*CartDto, error)
}

// Service implements CartService and enforces the add-to-cart business rules.
type Service struct {
	// mu serializes AddToCart: the capacity check is a read-then-write
	// against the cart store and must not interleave between callers.
	mu           sync.Mutex
	cartStore    store.CartStore
	productStore store.ProductStore
	publisher    messaging.Publisher
	addsCounter  metric.Int64Counter
}

// NewService creates a new instance of CartService with the provided stores and publisher.
func NewService(cartStore store.CartStore, productStore store.ProductStore, publisher messaging.Publisher) *Service {
	meter := otel.Meter("cart-service")
	addsCounter, err := meter.Int64Counter("cart_adds", metric.WithDescription("Total number of successful cart add operations"))
	if err != nil {
		panic(fmt.Sprintf("failed to create cart_adds counter: %v", err))
	}
	return &Service{
		cartStore:    cartStore,
		productStore: productStore,
		publisher:    publisher,
		addsCounter:  addsCounter,
	}
}

// CartDto represents the cart contents returned to callers.
type CartDto struct {
	Lines      []store.CartLine `json:"lines"`
	TotalItems int64            `json:"total_items"`
}

// AddToCart runs the three checks in fixed order: product existence, stock
// availability, capacity. The first failing check produces the Failure; at
// most one write happens and only after all checks pass.
func (s *Service) AddToCart(ctx context.Context, productID string, quantity int64) (CartOperationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.productStore.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, carterrors.ErrProductNotFound) {
			return Failure{Message: msgNotFound, Reason: carterrors.ErrProductNotFound}, nil
		}
		return nil, err
	}

	if !product.InStock {
		return Failure{Message: msgOutOfStock, Reason: carterrors.ErrProductOutOfStock}, nil
	}

	current, err := s.cartStore.GetQuantity(ctx, productID)
	if err != nil {
		return nil, err
	}
	newQuantity := current + quantity
	// A sum exactly equal to MaxQuantity is still accepted.
	if newQuantity > product.MaxQuantity {
		return Failure{Message: msgMaxQuantityReached, Reason: carterrors.ErrMaxQuantityReached}, nil
	}

	// The store keeps the final resolved quantity; the summing happens here.
	if err := s.cartStore.UpsertQuantity(ctx, productID, newQuantity); err != nil {
		return nil, err
	}

	total, err := s.cartStore.TotalItems(ctx)
	if err != nil {
		return nil, err
	}

	event := events.CartItemAddedEvent{
		ProductID:  productID,
		Quantity:   quantity,
		TotalItems: total,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish CartItemAddedEvent", "error", err)
	}
	s.addsCounter.Add(ctx, 1)

	return Success{TotalItems: total}, nil
}

// Cart returns the current cart lines and the total across all lines. The
// total is computed from the lines themselves so a concurrent add cannot
// make the two disagree within one response.
func (s *Service) Cart(ctx context.Context) (*CartDto, error) {
	lines, err := s.cartStore.Lines(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, line := range lines {
		total += line.Quantity
	}
	return &CartDto{Lines: lines, TotalItems: total}, nil
}
