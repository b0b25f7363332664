package service

// CartOperationResult is the outcome of an AddToCart call. It is a closed
// set of variants: Success or Failure. Consumers switch over the concrete
// types; there is no third case.
type CartOperationResult interface {
	isCartOperationResult()
}

// Success reports the new total quantity across all cart lines after the
// committed write.
type Success struct {
	TotalItems int64
}

// Failure carries the human-readable reason the add was rejected and the
// sentinel error it corresponds to, for errors.Is matching in transports.
type Failure struct {
	Message string
	Reason  error
}

func (Success) isCartOperationResult() {}
func (Failure) isCartOperationResult() {}

const (
	msgNotFound           = "Not found"
	msgOutOfStock         = "Out of stock"
	msgMaxQuantityReached = "Max quantity reached"
)
