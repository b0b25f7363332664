package events

import (
	"encoding/json"
	"time"

	"github.com/shopfront/cart_service/pkg/messaging"
)

// CartItemAddedEvent is emitted after a quantity has been committed to the cart.
type CartItemAddedEvent struct {
	ProductID  string    `json:"product_id"`
	Quantity   int64     `json:"quantity"`
	TotalItems int64     `json:"total_items"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e CartItemAddedEvent) Subject() string {
	return messaging.CartItemAddedSubject
}

func (e CartItemAddedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
