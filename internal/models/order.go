package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is the committed record of a checkout. It is immutable once created;
// its items must reproduce the cart lines that existed when the checkout was
// confirmed. TotalAmount is what the customer was charged after point
// redemption; PointsRedeemed and PointsEarned record how that figure relates
// to the cart's line totals.
type Order struct {
	ID             uuid.UUID   `json:"id"`
	CustomerID     uuid.UUID   `json:"customer_id"`
	TotalAmount    float64     `json:"total_amount"`
	PointsRedeemed int         `json:"points_redeemed"`
	PointsEarned   int         `json:"points_earned"`
	Items          []OrderItem `json:"items"`
	CreatedAt      time.Time   `json:"created_at"`
}

// OrderItem snapshots the product name and unit price as they were at
// checkout time, so the record stays meaningful after catalog edits.
type OrderItem struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	CreatedAt   time.Time `json:"created_at"`
}
