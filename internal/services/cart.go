package service

import (
	"context"
	"fmt"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/errors"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	repository "github.com/aaravmahajanofficial/retail-management-platform/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, customerID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, customerID, productID uuid.UUID, req *models.UpdateCartItemRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*models.Cart, error)
	ClearCart(ctx context.Context, customerID uuid.UUID) error
}

type cartService struct {
	repo         repository.CartRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
}

func NewCartService(repo repository.CartRepository, customerRepo repository.CustomerRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		repo:         repo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
	}
}

func (s *cartService) GetCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {

	if _, err := s.customerRepo.GetCustomerByID(ctx, customerID); err != nil {
		return nil, errors.NotFoundError("Customer not found").WithError(err)
	}

	lines, err := s.repo.GetCartLines(ctx, customerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return buildCart(customerID, lines), nil
}

// AddItem puts a product in the cart, snapshotting its current price and
// name. A product already carted is rejected rather than merged; the caller
// adjusts the quantity instead.
func (s *cartService) AddItem(ctx context.Context, customerID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, error) {

	if _, err := s.customerRepo.GetCustomerByID(ctx, customerID); err != nil {
		return nil, errors.NotFoundError("Customer not found").WithError(err)
	}

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if existing, _ := s.repo.GetLine(ctx, customerID, req.ProductID); existing != nil {
		return nil, errors.DuplicateEntryError("Product is already in the cart")
	}

	if req.Quantity > product.StockQuantity {
		return nil, errors.InsufficientStockError(
			fmt.Sprintf("Only %d units of '%s' are available", product.StockQuantity, product.Name))
	}

	line := &models.CartLine{
		CustomerID:  customerID,
		ProductID:   product.ID,
		Quantity:    req.Quantity,
		UnitPrice:   product.Price,
		ProductName: product.Name,
	}

	if err := s.repo.AddLine(ctx, line); err != nil {
		return nil, errors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	return s.GetCart(ctx, customerID)
}

// UpdateQuantity sets the carted amount of a product. Zero removes the line.
func (s *cartService) UpdateQuantity(ctx context.Context, customerID, productID uuid.UUID, req *models.UpdateCartItemRequest) (*models.Cart, error) {

	if _, err := s.repo.GetLine(ctx, customerID, productID); err != nil {
		return nil, errors.NotFoundError("Item not found in the cart").WithError(err)
	}

	if req.Quantity == 0 {
		if err := s.repo.RemoveLine(ctx, customerID, productID); err != nil {
			return nil, errors.DatabaseError("Failed to remove cart item").WithError(err)
		}

		return s.GetCart(ctx, customerID)
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if req.Quantity > product.StockQuantity {
		return nil, errors.InsufficientStockError(
			fmt.Sprintf("Only %d units of '%s' are available", product.StockQuantity, product.Name))
	}

	if err := s.repo.UpdateLineQuantity(ctx, customerID, productID, req.Quantity); err != nil {
		return nil, errors.DatabaseError("Failed to update cart item").WithError(err)
	}

	return s.GetCart(ctx, customerID)
}

func (s *cartService) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*models.Cart, error) {

	if err := s.repo.RemoveLine(ctx, customerID, productID); err != nil {
		return nil, errors.NotFoundError("Item not found in the cart").WithError(err)
	}

	return s.GetCart(ctx, customerID)
}

func (s *cartService) ClearCart(ctx context.Context, customerID uuid.UUID) error {

	if err := s.repo.ClearCart(ctx, customerID); err != nil {
		return errors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return nil
}

func buildCart(customerID uuid.UUID, lines []models.CartLine) *models.Cart {

	cart := &models.Cart{
		CustomerID: customerID,
		Lines:      lines,
	}

	for _, line := range lines {
		cart.Total += line.LineTotal()
	}

	return cart
}
