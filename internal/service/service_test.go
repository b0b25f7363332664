package service

import (
	"context"
	"errors"
	"testing"

	carterrors "github.com/shopfront/cart_service/internal/errors"
	"github.com/shopfront/cart_service/internal/store"
	"github.com/shopfront/cart_service/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCartStore is a map-backed implementation of the CartStore interface
// that records every write.
type mockCartStore struct {
	quantities map[string]int64
	upserts    []store.CartLine

	getErr    error
	upsertErr error
	totalErr  error
	linesErr  error
}

func newMockCartStore() *mockCartStore {
	return &mockCartStore{quantities: make(map[string]int64)}
}

func (m *mockCartStore) UpsertQuantity(_ context.Context, productID string, newQuantity int64) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.quantities[productID] = newQuantity
	m.upserts = append(m.upserts, store.CartLine{ProductID: productID, Quantity: newQuantity})
	return nil
}

func (m *mockCartStore) GetQuantity(_ context.Context, productID string) (int64, error) {
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.quantities[productID], nil
}

func (m *mockCartStore) TotalItems(_ context.Context) (int64, error) {
	if m.totalErr != nil {
		return 0, m.totalErr
	}
	var total int64
	for _, q := range m.quantities {
		total += q
	}
	return total, nil
}

func (m *mockCartStore) Lines(_ context.Context) ([]store.CartLine, error) {
	if m.linesErr != nil {
		return nil, m.linesErr
	}
	lines := make([]store.CartLine, 0, len(m.quantities))
	for id, q := range m.quantities {
		lines = append(lines, store.CartLine{ProductID: id, Quantity: q})
	}
	return lines, nil
}

// mockProductStore is a mock implementation of the ProductStore interface.
type mockProductStore struct {
	products map[string]store.Product
	error    error
}

func (m *mockProductStore) FindByID(_ context.Context, id string) (*store.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	p, ok := m.products[id]
	if !ok {
		return nil, carterrors.ErrProductNotFound
	}
	return &p, nil
}

func (m *mockProductStore) Create(_ context.Context, product store.Product) error {
	m.products[product.ID] = product
	return nil
}

// recordPublisher captures published events.
type recordPublisher struct {
	events []messaging.Event
	error  error
}

func (p *recordPublisher) Publish(_ context.Context, event messaging.Event) error {
	if p.error != nil {
		return p.error
	}
	p.events = append(p.events, event)
	return nil
}

func catalog(products ...store.Product) *mockProductStore {
	m := &mockProductStore{products: make(map[string]store.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func Test_CartService_AddToCart(t *testing.T) {
	errStorage := errors.New("storage down")

	testCases := []struct {
		name         string
		products     *mockProductStore
		existing     map[string]int64
		cartErr      func(*mockCartStore)
		productID    string
		quantity     int64
		expected     CartOperationResult
		expectError  error
		expectWrites int
	}{
		{
			name:         "Success - first add creates the line",
			products:     catalog(store.Product{ID: "p1", Name: "Mouse", InStock: true, MaxQuantity: 5}),
			productID:    "p1",
			quantity:     3,
			expected:     Success{TotalItems: 3},
			expectWrites: 1,
		},
		{
			name:         "Success - existing line is replaced with the sum",
			products:     catalog(store.Product{ID: "p1", InStock: true, MaxQuantity: 10}),
			existing:     map[string]int64{"p1": 4},
			productID:    "p1",
			quantity:     2,
			expected:     Success{TotalItems: 6},
			expectWrites: 1,
		},
		{
			name:         "Success - sum exactly equal to max is accepted",
			products:     catalog(store.Product{ID: "p1", InStock: true, MaxQuantity: 5}),
			existing:     map[string]int64{"p1": 3},
			productID:    "p1",
			quantity:     2,
			expected:     Success{TotalItems: 5},
			expectWrites: 1,
		},
		{
			name:         "Success - total spans all lines in the cart",
			products:     catalog(store.Product{ID: "p1", InStock: true, MaxQuantity: 5}),
			existing:     map[string]int64{"other": 7},
			productID:    "p1",
			quantity:     2,
			expected:     Success{TotalItems: 9},
			expectWrites: 1,
		},
		{
			name:         "Failure - product not found",
			products:     catalog(),
			productID:    "missing-id",
			quantity:     1,
			expected:     Failure{Message: "Not found", Reason: carterrors.ErrProductNotFound},
			expectWrites: 0,
		},
		{
			name:         "Failure - out of stock regardless of quantity",
			products:     catalog(store.Product{ID: "p2", InStock: false, MaxQuantity: 3}),
			productID:    "p2",
			quantity:     1,
			expected:     Failure{Message: "Out of stock", Reason: carterrors.ErrProductOutOfStock},
			expectWrites: 0,
		},
		{
			name:         "Failure - out of stock wins over capacity",
			products:     catalog(store.Product{ID: "p2", InStock: false, MaxQuantity: 1}),
			existing:     map[string]int64{"p2": 1},
			productID:    "p2",
			quantity:     100,
			expected:     Failure{Message: "Out of stock", Reason: carterrors.ErrProductOutOfStock},
			expectWrites: 0,
		},
		{
			name:         "Failure - sum above max is rejected",
			products:     catalog(store.Product{ID: "p1", InStock: true, MaxQuantity: 5}),
			existing:     map[string]int64{"p1": 5},
			productID:    "p1",
			quantity:     1,
			expected:     Failure{Message: "Max quantity reached", Reason: carterrors.ErrMaxQuantityReached},
			expectWrites: 0,
		},
		{
			name:         "Success - zero quantity is not rejected",
			products:     catalog(store.Product{ID: "p1", InStock: true, MaxQuantity: 5}),
			existing:     map[string]int64{"p1": 2},
			productID:    "p1",
			quantity:     0,
			expected:     Success{TotalItems: 2},
			expectWrites: 1,
		},
		{
			name:        "Error - product store failure is not a business rejection",
			products:    &mockProductStore{error: errStorage},
			productID:   "p1",
			quantity:    1,
			expectError: errStorage,
		},
		{
			name:        "Error - quantity read failure",
			products:    catalog(store.Product{ID: "p1", InStock: true, MaxQuantity: 5}),
			cartErr:     func(m *mockCartStore) { m.getErr = carterrors.ErrFailedToReadQuantity },
			productID:   "p1",
			quantity:    1,
			expectError: carterrors.ErrFailedToReadQuantity,
		},
		{
			name:        "Error - upsert failure",
			products:    catalog(store.Product{ID: "p1", InStock: true, MaxQuantity: 5}),
			cartErr:     func(m *mockCartStore) { m.upsertErr = carterrors.ErrFailedToUpsertQuantity },
			productID:   "p1",
			quantity:    1,
			expectError: carterrors.ErrFailedToUpsertQuantity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			cartStore := newMockCartStore()
			for id, q := range tc.existing {
				cartStore.quantities[id] = q
			}
			if tc.cartErr != nil {
				tc.cartErr(cartStore)
			}
			publisher := &recordPublisher{}
			svc := NewService(cartStore, tc.products, publisher)

			// when
			result, err := svc.AddToCart(context.Background(), tc.productID, tc.quantity)

			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
			assert.Len(t, cartStore.upserts, tc.expectWrites)
			if _, ok := tc.expected.(Failure); ok {
				assert.Empty(t, publisher.events, "rejected adds must not publish events")
			}
		})
	}
}

func Test_CartService_AddToCart_Sequence(t *testing.T) {
	// given: Product{id="p1", inStock=true, maxQuantity=5} and an empty cart
	cartStore := newMockCartStore()
	products := catalog(store.Product{ID: "p1", Name: "Mouse", InStock: true, MaxQuantity: 5})
	publisher := &recordPublisher{}
	svc := NewService(cartStore, products, publisher)
	ctx := context.Background()

	// when/then: 3 then 2 fill the cart to the maximum
	result, err := svc.AddToCart(ctx, "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, Success{TotalItems: 3}, result)

	result, err = svc.AddToCart(ctx, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, Success{TotalItems: 5}, result)

	// one more unit exceeds the maximum and leaves the cart untouched
	result, err = svc.AddToCart(ctx, "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, Failure{Message: "Max quantity reached", Reason: carterrors.ErrMaxQuantityReached}, result)

	total, err := cartStore.TotalItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, publisher.events, 2, "only successful adds publish events")
}

func Test_CartService_AddToCart_PublishFailureIsNotFatal(t *testing.T) {
	cartStore := newMockCartStore()
	products := catalog(store.Product{ID: "p1", InStock: true, MaxQuantity: 5})
	svc := NewService(cartStore, products, &recordPublisher{error: errors.New("nats down")})

	result, err := svc.AddToCart(context.Background(), "p1", 2)

	require.NoError(t, err)
	assert.Equal(t, Success{TotalItems: 2}, result)
}

func Test_CartService_Cart(t *testing.T) {
	cartStore := newMockCartStore()
	cartStore.quantities["p1"] = 2
	cartStore.quantities["p3"] = 4
	svc := NewService(cartStore, catalog(), &recordPublisher{})

	cart, err := svc.Cart(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(6), cart.TotalItems)
	assert.Len(t, cart.Lines, 2)
}

func Test_CartService_Cart_TotalComputedFromLines(t *testing.T) {
	cartStore := newMockCartStore()
	cartStore.quantities["p1"] = 2
	cartStore.quantities["p2"] = 3
	// the separate total read is never consulted, the lines are the truth
	cartStore.totalErr = carterrors.ErrFailedToReadTotal
	svc := NewService(cartStore, catalog(), &recordPublisher{})

	cart, err := svc.Cart(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(5), cart.TotalItems)
	assert.Len(t, cart.Lines, 2)
}

func Test_CartService_Cart_Error(t *testing.T) {
	cartStore := newMockCartStore()
	cartStore.linesErr = carterrors.ErrFailedToListLines
	svc := NewService(cartStore, catalog(), &recordPublisher{})

	cart, err := svc.Cart(context.Background())

	assert.ErrorIs(t, err, carterrors.ErrFailedToListLines)
	assert.Nil(t, cart)
}
