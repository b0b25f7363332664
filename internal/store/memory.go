package store

import (
	"context"
	"sort"
	"sync"

	carterrors "github.com/shopfront/cart_service/internal/errors"
)

// inMemoryCart implements CartStore using an in-memory map.
type inMemoryCart struct {
	mu    sync.RWMutex
	lines map[string]int64
}

// NewInMemoryCartStore creates a new in-memory CartStore.
func NewInMemoryCartStore() CartStore {
	return &inMemoryCart{
		lines: make(map[string]int64),
	}
}

func (s *inMemoryCart) UpsertQuantity(_ context.Context, productID string, newQuantity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines[productID] = newQuantity
	return nil
}

func (s *inMemoryCart) GetQuantity(_ context.Context, productID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lines[productID], nil
}

func (s *inMemoryCart) TotalItems(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, q := range s.lines {
		total += q
	}
	return total, nil
}

func (s *inMemoryCart) Lines(_ context.Context) ([]CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]CartLine, 0, len(s.lines))
	for id, q := range s.lines {
		list = append(list, CartLine{ProductID: id, Quantity: q})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
	return list, nil
}

// inMemoryProducts implements ProductStore using an in-memory map.
type inMemoryProducts struct {
	mu       sync.RWMutex
	products map[string]Product
}

// NewInMemoryProductStore creates a new in-memory ProductStore seeded with
// the given products.
func NewInMemoryProductStore(seed ...Product) ProductStore {
	products := make(map[string]Product, len(seed))
	for _, p := range seed {
		products[p.ID] = p
	}
	return &inMemoryProducts{
		products: products,
	}
}

func (s *inMemoryProducts) FindByID(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, carterrors.ErrProductNotFound
	}
	return &p, nil
}

func (s *inMemoryProducts) Create(_ context.Context, product Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[product.ID] = product
	return nil
}
