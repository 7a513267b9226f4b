package models

import (
	"fmt"

	"github.com/google/uuid"
)

type CheckoutRequest struct {
	RedeemPoints int  `json:"redeem_points" validate:"gte=0"`
	Confirm      bool `json:"confirm"`
}

// CheckoutResult distinguishes "nothing happened" (empty cart, declined
// confirmation) from a committed order without the caller having to inspect
// error strings.
type CheckoutResult struct {
	CheckedOut    bool    `json:"checked_out"`
	Message       string  `json:"message,omitempty"`
	Order         *Order  `json:"order,omitempty"`
	LoyaltyPoints int     `json:"loyalty_points"`
	ChargedTotal  float64 `json:"charged_total"`
}

// InsufficientStockError identifies the first cart line whose quantity
// exceeds the units currently available. It is returned both by the advisory
// pre-check and by the locked re-check inside the commit transaction.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
