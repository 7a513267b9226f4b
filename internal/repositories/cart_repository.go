package repository

import (
	"context"
	"database/sql"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/utils"
	"github.com/google/uuid"
)

type CartRepository interface {
	AddLine(ctx context.Context, line *models.CartLine) error
	GetLine(ctx context.Context, customerID, productID uuid.UUID) (*models.CartLine, error)
	GetCartLines(ctx context.Context, customerID uuid.UUID) ([]models.CartLine, error)
	UpdateLineQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) error
	RemoveLine(ctx context.Context, customerID, productID uuid.UUID) error
	ClearCart(ctx context.Context, customerID uuid.UUID) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

// AddLine inserts a fresh line. A product already in the cart violates the
// (customer_id, product_id) primary key; the service reports that as a
// duplicate rather than silently merging quantities.
func (r *cartRepository) AddLine(ctx context.Context, line *models.CartLine) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO cart_items (customer_id, product_id, quantity, unit_price, product_name)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, line.CustomerID, line.ProductID, line.Quantity, line.UnitPrice, line.ProductName).
		Scan(&line.CreatedAt, &line.UpdatedAt)
}

func (r *cartRepository) GetLine(ctx context.Context, customerID, productID uuid.UUID) (*models.CartLine, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	line := &models.CartLine{}

	query := `SELECT customer_id, product_id, quantity, unit_price, product_name, created_at, updated_at
			  FROM cart_items
			  WHERE customer_id = $1 AND product_id = $2`

	err := r.DB.QueryRowContext(dbCtx, query, customerID, productID).
		Scan(&line.CustomerID, &line.ProductID, &line.Quantity, &line.UnitPrice, &line.ProductName, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return line, nil
}

func (r *cartRepository) GetCartLines(ctx context.Context, customerID uuid.UUID) ([]models.CartLine, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT customer_id, product_id, quantity, unit_price, product_name, created_at, updated_at
			  FROM cart_items
			  WHERE customer_id = $1
			  ORDER BY created_at`

	rows, err := r.DB.QueryContext(dbCtx, query, customerID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var lines []models.CartLine

	for rows.Next() {
		var line models.CartLine

		err := rows.Scan(&line.CustomerID, &line.ProductID, &line.Quantity, &line.UnitPrice, &line.ProductName, &line.CreatedAt, &line.UpdatedAt)
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

func (r *cartRepository) UpdateLineQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE cart_items SET quantity = $1, updated_at = NOW()
			  WHERE customer_id = $2 AND product_id = $3`

	result, err := r.DB.ExecContext(dbCtx, query, quantity, customerID, productID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *cartRepository) RemoveLine(ctx context.Context, customerID, productID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM cart_items WHERE customer_id = $1 AND product_id = $2`, customerID, productID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *cartRepository) ClearCart(ctx context.Context, customerID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	_, err := r.DB.ExecContext(dbCtx, `DELETE FROM cart_items WHERE customer_id = $1`, customerID)

	return err
}
