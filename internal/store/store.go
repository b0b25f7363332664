// Package store provides the storage contracts the cart service depends on.
package store

import (
	"context"
)

// Product is a catalog entry as the cart sees it: read-only, owned by the
// product store.
type Product struct {
	ID          string
	Name        string
	InStock     bool
	MaxQuantity int64
}

// CartLine is one entry of the cart mapping: product id to quantity.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CartStore holds the quantity per product id for one customer session.
// It abstracts the underlying data store, allowing for different
// implementations (e.g., in-memory, database).
type CartStore interface {
	// UpsertQuantity sets the stored quantity for productID to exactly
	// newQuantity. Insert if absent, overwrite if present; the caller
	// supplies the final resolved value, the store never sums.
	UpsertQuantity(ctx context.Context, productID string, newQuantity int64) error

	// GetQuantity returns the stored quantity for productID, or 0 if the
	// product has no line in the cart.
	GetQuantity(ctx context.Context, productID string) (int64, error)

	// TotalItems returns the sum of quantities across all stored lines.
	TotalItems(ctx context.Context) (int64, error)

	// Lines returns all cart lines. Returns an empty slice for an empty cart.
	Lines(ctx context.Context) ([]CartLine, error)
}

// ProductStore is a read-only lookup into the product catalog.
type ProductStore interface {
	// FindByID retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*Product, error)

	// Create adds a product to the catalog. Used for seeding and tests;
	// the cart itself never writes products.
	Create(ctx context.Context, product Product) error
}
