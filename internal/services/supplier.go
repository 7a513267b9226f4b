package service

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/errors"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	repository "github.com/aaravmahajanofficial/retail-management-platform/internal/repositories"
	"github.com/google/uuid"
)

type SupplierService interface {
	CreateSupplier(ctx context.Context, req *models.CreateSupplierRequest) (*models.Supplier, error)
	GetSupplierByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, req *models.UpdateSupplierRequest) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
	ListSuppliers(ctx context.Context, page, pageSize int) ([]*models.Supplier, int, error)
}

type supplierService struct {
	repo        repository.SupplierRepository
	productRepo repository.ProductRepository
}

func NewSupplierService(repo repository.SupplierRepository, productRepo repository.ProductRepository) SupplierService {
	return &supplierService{repo: repo, productRepo: productRepo}
}

func (s *supplierService) CreateSupplier(ctx context.Context, req *models.CreateSupplierRequest) (*models.Supplier, error) {

	supplier := &models.Supplier{
		Name:        req.Name,
		Description: req.Description,
		Email:       req.Email,
		Address:     req.Address,
	}

	err := s.repo.CreateSupplier(ctx, supplier)
	if err != nil {
		return nil, errors.DatabaseError("Failed to create supplier").WithError(err)
	}

	return supplier, nil
}

func (s *supplierService) GetSupplierByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {

	supplier, err := s.repo.GetSupplierByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Supplier not found").WithError(err)
	}

	return supplier, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id uuid.UUID, req *models.UpdateSupplierRequest) (*models.Supplier, error) {

	supplier, err := s.repo.GetSupplierByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Supplier not found").WithError(err)
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.Description != nil {
		supplier.Description = *req.Description
	}
	if req.Email != nil {
		supplier.Email = *req.Email
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}

	err = s.repo.UpdateSupplier(ctx, supplier)
	if err != nil {
		return nil, errors.DatabaseError("Failed to update supplier").WithError(err)
	}

	return supplier, nil
}

// DeleteSupplier drops the supplier's catalog first so no product is left
// pointing at a missing supplier.
func (s *supplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {

	if _, err := s.repo.GetSupplierByID(ctx, id); err != nil {
		return errors.NotFoundError("Supplier not found").WithError(err)
	}

	removed, err := s.productRepo.DeleteBySupplierID(ctx, id)
	if err != nil {
		return errors.DatabaseError("Failed to remove supplier products").WithError(err)
	}

	if removed > 0 {
		slog.Info("Removed products of deleted supplier",
			slog.String("supplierId", id.String()),
			slog.Int("products", removed))
	}

	if err := s.repo.DeleteSupplier(ctx, id); err != nil {
		return errors.DatabaseError("Failed to delete supplier").WithError(err)
	}

	return nil
}

func (s *supplierService) ListSuppliers(ctx context.Context, page, pageSize int) ([]*models.Supplier, int, error) {

	suppliers, total, err := s.repo.ListSuppliers(ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch suppliers").WithError(err)
	}

	return suppliers, total, nil
}
