package repository

import (
	"context"
	"database/sql"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/utils"
	"github.com/google/uuid"
)

type CustomerRepository interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	ListCustomers(ctx context.Context, page, size int) ([]*models.Customer, int, error)
}

type customerRepository struct {
	DB *sql.DB
}

func NewCustomerRepo(db *sql.DB) CustomerRepository {
	return &customerRepository{DB: db}
}

func (r *customerRepository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO customers (first_name, last_name, email)
			  VALUES ($1, $2, $3)
			  RETURNING id, loyalty_points, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, customer.FirstName, customer.LastName, customer.Email).
		Scan(&customer.ID, &customer.LoyaltyPoints, &customer.CreatedAt, &customer.UpdatedAt)
}

func (r *customerRepository) GetCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	customer := &models.Customer{}

	query := `SELECT id, first_name, last_name, email, loyalty_points, created_at, updated_at
			  FROM customers
			  WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&customer.ID, &customer.FirstName, &customer.LastName, &customer.Email, &customer.LoyaltyPoints, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return customer, nil
}

func (r *customerRepository) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	customer := &models.Customer{}

	query := `SELECT id, first_name, last_name, email, loyalty_points, created_at, updated_at
			  FROM customers
			  WHERE email = $1`

	err := r.DB.QueryRowContext(dbCtx, query, email).
		Scan(&customer.ID, &customer.FirstName, &customer.LastName, &customer.Email, &customer.LoyaltyPoints, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return customer, nil
}

func (r *customerRepository) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE customers SET first_name = $1, last_name = $2, email = $3, updated_at = NOW()
			  WHERE id = $4
			  RETURNING updated_at`

	return r.DB.QueryRowContext(dbCtx, query, customer.FirstName, customer.LastName, customer.Email, customer.ID).
		Scan(&customer.UpdatedAt)
}

func (r *customerRepository) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM customers WHERE id = $1`, id)
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

func (r *customerRepository) ListCustomers(ctx context.Context, page, size int) ([]*models.Customer, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM customers`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `SELECT id, first_name, last_name, email, loyalty_points, created_at, updated_at
			  FROM customers
			  ORDER BY last_name, first_name
			  LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var customers []*models.Customer

	for rows.Next() {
		customer := &models.Customer{}

		err := rows.Scan(&customer.ID, &customer.FirstName, &customer.LastName, &customer.Email, &customer.LoyaltyPoints, &customer.CreatedAt, &customer.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}

		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}
