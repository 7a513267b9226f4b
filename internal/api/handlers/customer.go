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

type CustomerHandler struct {
	customerService service.CustomerService
	validator       *validator.Validate
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, validator: validator.New()}
}

func (h *CustomerHandler) CreateCustomer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateCustomerRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		customer, err := h.customerService.CreateCustomer(r.Context(), &req)

		if err != nil {
			logger.Error("Customer creation failed", slog.String("email", req.Email), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Customer created", slog.String("customerId", customer.ID.String()))
		response.Success(w, http.StatusCreated, customer)

	}
}

func (h *CustomerHandler) GetCustomer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		customer, err := h.customerService.GetCustomerByID(r.Context(), id)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, customer)

	}
}

func (h *CustomerHandler) UpdateCustomer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateCustomerRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		customer, err := h.customerService.UpdateCustomer(r.Context(), id, &req)

		if err != nil {
			logger.Error("Customer update failed", slog.String("customerId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Customer updated", slog.String("customerId", customer.ID.String()))
		response.Success(w, http.StatusOK, customer)

	}
}

func (h *CustomerHandler) DeleteCustomer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.customerService.DeleteCustomer(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		logger.Info("Customer deleted", slog.String("customerId", id.String()))
		response.Success(w, http.StatusOK, map[string]string{"status": "deleted"})

	}
}

// for eg: GET /customers?page=1&pageSize=10
func (h *CustomerHandler) ListCustomers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, pageSize := utils.ParsePagination(r)

		customers, total, err := h.customerService.ListCustomers(r.Context(), page, pageSize)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     customers,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})

	}
}
