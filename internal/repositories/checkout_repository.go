package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CheckoutRepository interface {
	// CommitCheckout writes an order and its items, decrements stock, clears
	// the cart and sets the customer's loyalty balance, all in one
	// transaction. A *models.InsufficientStockError means another checkout
	// consumed the units first; nothing is persisted in that case.
	CommitCheckout(ctx context.Context, order *models.Order, lines []models.CartLine, newLoyaltyPoints int) error
}

type checkoutRepository struct {
	DB *sql.DB
}

func NewCheckoutRepo(db *sql.DB) CheckoutRepository {
	return &checkoutRepository{DB: db}
}

func (r *checkoutRepository) CommitCheckout(ctx context.Context, order *models.Order, lines []models.CartLine, newLoyaltyPoints int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("begin checkout transaction: %w", err)
	}

	defer tx.Rollback()

	if err := lockAndVerifyStock(dbCtx, tx, lines); err != nil {
		return err
	}

	orderQuery := `INSERT INTO orders (id, customer_id, total_amount, points_redeemed, points_earned)
				   VALUES ($1, $2, $3, $4, $5)
				   RETURNING created_at`

	err = tx.QueryRowContext(dbCtx, orderQuery, order.ID, order.CustomerID, order.TotalAmount, order.PointsRedeemed, order.PointsEarned).
		Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price)
				  VALUES ($1, $2, $3, $4, $5, $6)
				  RETURNING created_at`

	for i := range order.Items {
		item := &order.Items[i]

		err = tx.QueryRowContext(dbCtx, itemQuery, item.ID, item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice).
			Scan(&item.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	stockQuery := `UPDATE products SET stock_quantity = stock_quantity - $1, updated_at = NOW() WHERE id = $2`

	for _, line := range lines {
		if _, err := tx.ExecContext(dbCtx, stockQuery, line.Quantity, line.ProductID); err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
	}

	if _, err := tx.ExecContext(dbCtx, `DELETE FROM cart_items WHERE customer_id = $1`, order.CustomerID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	pointsQuery := `UPDATE customers SET loyalty_points = $1, updated_at = NOW() WHERE id = $2`

	if _, err := tx.ExecContext(dbCtx, pointsQuery, newLoyaltyPoints, order.CustomerID); err != nil {
		return fmt.Errorf("update loyalty points: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit checkout transaction: %w", err)
	}

	return nil
}

// lockAndVerifyStock takes row locks on every product in the cart and
// re-checks availability under those locks. Rows are locked in id order so
// two concurrent checkouts over overlapping carts cannot deadlock.
func lockAndVerifyStock(ctx context.Context, tx *sql.Tx, lines []models.CartLine) error {

	wanted := make(map[uuid.UUID]models.CartLine, len(lines))
	ids := make([]string, 0, len(lines))

	for _, line := range lines {
		wanted[line.ProductID] = line
		ids = append(ids, line.ProductID.String())
	}

	sort.Strings(ids)

	query := `SELECT id, name, stock_quantity
			  FROM products
			  WHERE id = ANY($1)
			  ORDER BY id
			  FOR UPDATE`

	rows, err := tx.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("lock product rows: %w", err)
	}

	defer rows.Close()

	seen := make(map[uuid.UUID]bool, len(lines))

	for rows.Next() {
		var (
			id        uuid.UUID
			name      string
			available int
		)

		if err := rows.Scan(&id, &name, &available); err != nil {
			return err
		}

		seen[id] = true

		line := wanted[id]
		if line.Quantity > available {
			return &models.InsufficientStockError{
				ProductID:   id,
				ProductName: name,
				Requested:   line.Quantity,
				Available:   available,
			}
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	// A product deleted since it was carted is a hard shortage: zero of it
	// remains to sell.
	for id, line := range wanted {
		if !seen[id] {
			return &models.InsufficientStockError{
				ProductID:   id,
				ProductName: line.ProductName,
				Requested:   line.Quantity,
				Available:   0,
			}
		}
	}

	return nil
}
