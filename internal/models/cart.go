package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one (customer, product) pairing pending purchase. UnitPrice and
// ProductName are snapshots captured when the product was added to the cart,
// so later price edits do not change what the customer sees at checkout.
type CartLine struct {
	CustomerID  uuid.UUID `json:"customer_id"`
	ProductID   uuid.UUID `json:"product_id"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	ProductName string    `json:"product_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (l CartLine) LineTotal() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

type Cart struct {
	CustomerID uuid.UUID  `json:"customer_id"`
	Lines      []CartLine `json:"lines"`
	Total      float64    `json:"total"`
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}
