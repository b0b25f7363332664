// Package errors provides custom error types for cart-related operations.
package errors

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrProductOutOfStock = errors.New("product out of stock")
var ErrMaxQuantityReached = errors.New("max quantity reached")

var ErrFailedToFindProduct = errors.New("failed to find product")
var ErrFailedToCreateProduct = errors.New("failed to create product")

var ErrFailedToReadQuantity = errors.New("failed to read cart quantity")
var ErrFailedToUpsertQuantity = errors.New("failed to upsert cart quantity")
var ErrFailedToReadTotal = errors.New("failed to read cart total")
var ErrFailedToListLines = errors.New("failed to list cart lines")
