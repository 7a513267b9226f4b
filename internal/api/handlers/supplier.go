package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/api/middleware"
	models "github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	service "github.com/aaravmahajanofficial/retail-management-platform/internal/services"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/utils"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type SupplierHandler struct {
	supplierService service.SupplierService
	validator       *validator.Validate
}

func NewSupplierHandler(supplierService service.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService, validator: validator.New()}
}

func (h *SupplierHandler) CreateSupplier() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateSupplierRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		supplier, err := h.supplierService.CreateSupplier(r.Context(), &req)

		if err != nil {
			logger.Error("Supplier creation failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Supplier created", slog.String("supplierId", supplier.ID.String()))
		response.Success(w, http.StatusCreated, supplier)

	}
}

func (h *SupplierHandler) GetSupplier() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		supplier, err := h.supplierService.GetSupplierByID(r.Context(), id)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, supplier)

	}
}

func (h *SupplierHandler) UpdateSupplier() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateSupplierRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		supplier, err := h.supplierService.UpdateSupplier(r.Context(), id, &req)

		if err != nil {
			logger.Error("Supplier update failed", slog.String("supplierId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Supplier updated", slog.String("supplierId", supplier.ID.String()))
		response.Success(w, http.StatusOK, supplier)

	}
}

func (h *SupplierHandler) DeleteSupplier() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.supplierService.DeleteSupplier(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		logger.Info("Supplier deleted", slog.String("supplierId", id.String()))
		response.Success(w, http.StatusOK, map[string]string{"status": "deleted"})

	}
}

func (h *SupplierHandler) ListSuppliers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, pageSize := utils.ParsePagination(r)

		suppliers, total, err := h.supplierService.ListSuppliers(r.Context(), page, pageSize)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     suppliers,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})

	}
}
