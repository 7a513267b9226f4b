package service

import (
	"context"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/errors"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	repository "github.com/aaravmahajanofficial/retail-management-platform/internal/repositories"
	"github.com/google/uuid"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error)
	GetCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req *models.UpdateCustomerRequest) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	ListCustomers(ctx context.Context, page, pageSize int) ([]*models.Customer, int, error)
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {

	existing, _ := s.repo.GetCustomerByEmail(ctx, req.Email)
	if existing != nil {
		return nil, errors.DuplicateEntryError("Email already registered")
	}

	customer := &models.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}

	err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		return nil, errors.DatabaseError("Failed to create customer").WithError(err)
	}

	return customer, nil
}

func (s *customerService) GetCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {

	customer, err := s.repo.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Customer not found").WithError(err)
	}

	return customer, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req *models.UpdateCustomerRequest) (*models.Customer, error) {

	customer, err := s.repo.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Customer not found").WithError(err)
	}

	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}

	err = s.repo.UpdateCustomer(ctx, customer)
	if err != nil {
		return nil, errors.DatabaseError("Failed to update customer").WithError(err)
	}

	return customer, nil
}

// DeleteCustomer removes the record. Past orders survive with their customer
// reference nulled out; the cart goes away with the customer.
func (s *customerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {

	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return errors.NotFoundError("Customer not found").WithError(err)
	}

	return nil
}

func (s *customerService) ListCustomers(ctx context.Context, page, pageSize int) ([]*models.Customer, int, error) {

	customers, total, err := s.repo.ListCustomers(ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch customers").WithError(err)
	}

	return customers, total, nil
}
