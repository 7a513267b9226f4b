package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	DeleteBySupplierID(ctx context.Context, supplierID uuid.UUID) (int, error)
	ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error)
	GetStockLevels(ctx context.Context, productIDs []uuid.UUID) ([]models.StockLevel, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO products (supplier_id, name, description, price, stock_quantity, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, product.SupplierID, product.Name, product.Description, product.Price, product.StockQuantity, product.Status).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	query := `
        SELECT p.id, p.supplier_id, p.name, p.description, p.price,
               p.stock_quantity, p.status, p.created_at, p.updated_at,
               s.id, s.name, s.email
        FROM products p
        LEFT JOIN suppliers s ON p.supplier_id = s.id
        WHERE p.id = $1`

	var supplier models.Supplier

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&product.ID, &product.SupplierID, &product.Name, &product.Description, &product.Price, &product.StockQuantity, &product.Status, &product.CreatedAt, &product.UpdatedAt, &supplier.ID, &supplier.Name, &supplier.Email)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}

	product.Supplier = &supplier

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products SET name = $1, description = $2, price = $3, stock_quantity = $4, status = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, product.Name, product.Description, product.Price, product.StockQuantity, product.Status, product.ID).
		Scan(&product.UpdatedAt)
}

func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
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

// DeleteBySupplierID removes every product of a supplier and reports how many
// rows went away. Used when a supplier is deleted.
func (r *productRepository) DeleteBySupplierID(ctx context.Context, supplierID uuid.UUID) (int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE supplier_id = $1`, supplierID)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}

func (r *productRepository) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM products`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT p.id, p.supplier_id, p.name, p.description, p.price,
		p.stock_quantity, p.status, p.created_at, p.updated_at,
		s.id, s.name, s.email
		FROM products p
		LEFT JOIN suppliers s ON p.supplier_id = s.id
		ORDER BY p.id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product := &models.Product{}
		supplier := &models.Supplier{}

		err := rows.Scan(&product.ID, &product.SupplierID, &product.Name, &product.Description, &product.Price, &product.StockQuantity, &product.Status, &product.CreatedAt, &product.UpdatedAt, &supplier.ID, &supplier.Name, &supplier.Email)
		if err != nil {
			return nil, 0, err
		}

		product.Supplier = supplier
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetStockLevels reads the available units for a batch of products in one
// round trip. Products missing from the result do not exist.
func (r *productRepository) GetStockLevels(ctx context.Context, productIDs []uuid.UUID) ([]models.StockLevel, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	ids := make([]string, len(productIDs))
	for i, id := range productIDs {
		ids[i] = id.String()
	}

	query := `SELECT id, stock_quantity FROM products WHERE id = ANY($1)`

	rows, err := r.DB.QueryContext(dbCtx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var levels []models.StockLevel

	for rows.Next() {
		var level models.StockLevel

		if err := rows.Scan(&level.ProductID, &level.Available); err != nil {
			return nil, err
		}

		levels = append(levels, level)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return levels, nil
}
