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

type NotificationHandler struct {
	notificationService service.NotificationService
	validator           *validator.Validate
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, validator: validator.New()}
}

func (h *NotificationHandler) SendEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.EmailNotificationRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		resp, err := h.notificationService.SendEmail(r.Context(), &req)

		if err != nil {
			logger.Error("Email send failed", slog.String("recipient", req.Recipient), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Email sent", slog.String("notificationId", resp.ID.String()))
		response.Success(w, http.StatusCreated, resp)

	}
}

func (h *NotificationHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, pageSize := utils.ParsePagination(r)

		notifications, total, err := h.notificationService.ListNotifications(r.Context(), page, pageSize)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     notifications,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})

	}
}
