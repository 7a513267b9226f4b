package repository

import (
	"context"
	"database/sql"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/utils"
	"github.com/google/uuid"
)

type SupplierRepository interface {
	CreateSupplier(ctx context.Context, supplier *models.Supplier) error
	GetSupplierByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier *models.Supplier) error
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
	ListSuppliers(ctx context.Context, page, size int) ([]*models.Supplier, int, error)
}

type supplierRepository struct {
	DB *sql.DB
}

func NewSupplierRepo(db *sql.DB) SupplierRepository {
	return &supplierRepository{DB: db}
}

func (r *supplierRepository) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO suppliers (name, description, email, address)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, supplier.Name, supplier.Description, supplier.Email, supplier.Address).
		Scan(&supplier.ID, &supplier.CreatedAt, &supplier.UpdatedAt)
}

func (r *supplierRepository) GetSupplierByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	supplier := &models.Supplier{}

	query := `SELECT id, name, description, email, address, created_at, updated_at
			  FROM suppliers
			  WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&supplier.ID, &supplier.Name, &supplier.Description, &supplier.Email, &supplier.Address, &supplier.CreatedAt, &supplier.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return supplier, nil
}

func (r *supplierRepository) UpdateSupplier(ctx context.Context, supplier *models.Supplier) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE suppliers SET name = $1, description = $2, email = $3, address = $4, updated_at = NOW()
			  WHERE id = $5
			  RETURNING updated_at`

	return r.DB.QueryRowContext(dbCtx, query, supplier.Name, supplier.Description, supplier.Email, supplier.Address, supplier.ID).
		Scan(&supplier.UpdatedAt)
}

func (r *supplierRepository) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM suppliers WHERE id = $1`, id)
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

func (r *supplierRepository) ListSuppliers(ctx context.Context, page, size int) ([]*models.Supplier, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM suppliers`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `SELECT id, name, description, email, address, created_at, updated_at
			  FROM suppliers
			  ORDER BY name
			  LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var suppliers []*models.Supplier

	for rows.Next() {
		supplier := &models.Supplier{}

		err := rows.Scan(&supplier.ID, &supplier.Name, &supplier.Description, &supplier.Email, &supplier.Address, &supplier.CreatedAt, &supplier.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}

		suppliers = append(suppliers, supplier)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return suppliers, total, nil
}
