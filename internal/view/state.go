// Package view holds the presentation-facing cart state and the view model
// that publishes it. The service layer never touches this package.
package view

import "sync"

// CartState is the user-visible state of the cart screen. It is a closed
// set of variants: Idle, ItemAdded or Error.
type CartState interface {
	isCartState()
}

// Idle means no operation has been attempted yet.
type Idle struct{}

// ItemAdded carries the new cart-wide total after a successful add.
type ItemAdded struct {
	TotalItems int64
}

// Error carries the failure message verbatim from the cart service.
type Error struct {
	Message string
}

func (Idle) isCartState()      {}
func (ItemAdded) isCartState() {}
func (Error) isCartState()     {}

// StateHolder keeps the latest CartState snapshot and notifies subscribers
// whenever the snapshot is replaced. States are immutable values; a write
// replaces the whole snapshot.
type StateHolder struct {
	mu     sync.Mutex
	state  CartState
	subs   map[int]func(CartState)
	nextID int
}

// NewStateHolder creates a holder in the Idle state.
func NewStateHolder() *StateHolder {
	return &StateHolder{
		state: Idle{},
		subs:  make(map[int]func(CartState)),
	}
}

// Current returns the latest snapshot.
func (h *StateHolder) Current() CartState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Subscribe registers fn and immediately delivers the current snapshot to
// it. The returned function cancels the subscription.
func (h *StateHolder) Subscribe(fn func(CartState)) (cancel func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	current := h.state
	h.mu.Unlock()

	fn(current)

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Set replaces the snapshot and notifies all subscribers with the new value.
func (h *StateHolder) Set(state CartState) {
	h.mu.Lock()
	h.state = state
	fns := make([]func(CartState), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	// Notify outside the lock so subscribers may re-enter the holder.
	for _, fn := range fns {
		fn(state)
	}
}
