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

type OrderHandler struct {
	orderService    service.OrderService
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewOrderHandler(orderService service.OrderService, checkoutService service.CheckoutService) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		checkoutService: checkoutService,
		validator:       validator.New(),
	}
}

// Checkout turns the customer's cart into an order. The response reports
// whether anything was committed, so a declined confirmation or an empty
// cart is a 200 with checked_out=false rather than an error.
func (h *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		customerID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.CheckoutRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		result, err := h.checkoutService.Checkout(r.Context(), customerID, &req)

		if err != nil {
			logger.Warn("Checkout failed",
				slog.String("customerId", customerID.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		status := http.StatusOK
		if result.CheckedOut {
			status = http.StatusCreated
		}

		response.Success(w, status, result)

	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		order, err := h.orderService.GetOrderByID(r.Context(), id)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)

	}
}

func (h *OrderHandler) ListCustomerOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		customerID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		page, pageSize := utils.ParsePagination(r)

		orders, total, err := h.orderService.ListOrdersByCustomer(r.Context(), customerID, page, pageSize)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     orders,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})

	}
}
