package view

import (
	"context"

	"github.com/shopfront/cart_service/internal/service"
)

// CartViewModel adapts cart operations into presentation state. It owns a
// StateHolder and translates each operation outcome into the matching
// CartState; the cart service knows nothing about it.
type CartViewModel struct {
	svc    service.CartService
	states *StateHolder
}

// NewCartViewModel creates a view model in the Idle state.
func NewCartViewModel(svc service.CartService) *CartViewModel {
	return &CartViewModel{
		svc:    svc,
		states: NewStateHolder(),
	}
}

// States exposes the holder for subscription by the rendering layer.
func (vm *CartViewModel) States() *StateHolder {
	return vm.states
}

// AddToCart runs the add operation and publishes the resulting state.
func (vm *CartViewModel) AddToCart(ctx context.Context, productID string, quantity int64) {
	result, err := vm.svc.AddToCart(ctx, productID, quantity)
	if err != nil {
		vm.states.Set(Error{Message: err.Error()})
		return
	}
	switch r := result.(type) {
	case service.Success:
		vm.states.Set(ItemAdded{TotalItems: r.TotalItems})
	case service.Failure:
		vm.states.Set(Error{Message: r.Message})
	}
}
