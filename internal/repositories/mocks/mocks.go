// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CustomerRepository struct {
	mock.Mock
}

func (m *CustomerRepository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)

	return args.Error(0)
}

func (m *CustomerRepository) GetCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *CustomerRepository) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	args := m.Called(ctx, email)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *CustomerRepository) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)

	return args.Error(0)
}

func (m *CustomerRepository) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *CustomerRepository) ListCustomers(ctx context.Context, page, size int) ([]*models.Customer, int, error) {
	args := m.Called(ctx, page, size)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]*models.Customer), args.Int(1), args.Error(2)
}

type SupplierRepository struct {
	mock.Mock
}

func (m *SupplierRepository) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	args := m.Called(ctx, supplier)

	return args.Error(0)
}

func (m *SupplierRepository) GetSupplierByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *SupplierRepository) UpdateSupplier(ctx context.Context, supplier *models.Supplier) error {
	args := m.Called(ctx, supplier)

	return args.Error(0)
}

func (m *SupplierRepository) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *SupplierRepository) ListSuppliers(ctx context.Context, page, size int) ([]*models.Supplier, int, error) {
	args := m.Called(ctx, page, size)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]*models.Supplier), args.Int(1), args.Error(2)
}

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *ProductRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *ProductRepository) DeleteBySupplierID(ctx context.Context, supplierID uuid.UUID) (int, error) {
	args := m.Called(ctx, supplierID)

	return args.Int(0), args.Error(1)
}

func (m *ProductRepository) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {
	args := m.Called(ctx, page, size)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]*models.Product), args.Int(1), args.Error(2)
}

func (m *ProductRepository) GetStockLevels(ctx context.Context, productIDs []uuid.UUID) ([]models.StockLevel, error) {
	args := m.Called(ctx, productIDs)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.StockLevel), args.Error(1)
}

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) AddLine(ctx context.Context, line *models.CartLine) error {
	args := m.Called(ctx, line)

	return args.Error(0)
}

func (m *CartRepository) GetLine(ctx context.Context, customerID, productID uuid.UUID) (*models.CartLine, error) {
	args := m.Called(ctx, customerID, productID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CartLine), args.Error(1)
}

func (m *CartRepository) GetCartLines(ctx context.Context, customerID uuid.UUID) ([]models.CartLine, error) {
	args := m.Called(ctx, customerID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.CartLine), args.Error(1)
}

func (m *CartRepository) UpdateLineQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) error {
	args := m.Called(ctx, customerID, productID, quantity)

	return args.Error(0)
}

func (m *CartRepository) RemoveLine(ctx context.Context, customerID, productID uuid.UUID) error {
	args := m.Called(ctx, customerID, productID)

	return args.Error(0)
}

func (m *CartRepository) ClearCart(ctx context.Context, customerID uuid.UUID) error {
	args := m.Called(ctx, customerID)

	return args.Error(0)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderRepository) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, size int) ([]*models.Order, int, error) {
	args := m.Called(ctx, customerID, page, size)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]*models.Order), args.Int(1), args.Error(2)
}

type CheckoutRepository struct {
	mock.Mock
}

func (m *CheckoutRepository) CommitCheckout(ctx context.Context, order *models.Order, lines []models.CartLine, newLoyaltyPoints int) error {
	args := m.Called(ctx, order, lines, newLoyaltyPoints)

	return args.Error(0)
}
