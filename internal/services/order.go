package service

import (
	"context"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/errors"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	repository "github.com/aaravmahajanofficial/retail-management-platform/internal/repositories"
	"github.com/google/uuid"
)

type OrderService interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, pageSize int) ([]*models.Order, int, error)
}

type orderService struct {
	repo         repository.OrderRepository
	customerRepo repository.CustomerRepository
}

func NewOrderService(repo repository.OrderRepository, customerRepo repository.CustomerRepository) OrderService {
	return &orderService{repo: repo, customerRepo: customerRepo}
}

func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Order not found").WithError(err)
	}

	return order, nil
}

func (s *orderService) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, pageSize int) ([]*models.Order, int, error) {

	if _, err := s.customerRepo.GetCustomerByID(ctx, customerID); err != nil {
		return nil, 0, errors.NotFoundError("Customer not found").WithError(err)
	}

	orders, total, err := s.repo.ListOrdersByCustomer(ctx, customerID, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}
