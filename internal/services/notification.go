package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/errors"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	repository "github.com/aaravmahajanofficial/retail-management-platform/internal/repositories"
	"github.com/aaravmahajanofficial/retail-management-platform/pkg/sendgrid"
	"github.com/google/uuid"
)

type NotificationService interface {
	SendEmail(ctx context.Context, req *models.EmailNotificationRequest) (*models.NotificationResponse, error)
	SendOrderReceipt(ctx context.Context, customer *models.Customer, order *models.Order) error
	ListNotifications(ctx context.Context, page, pageSize int) ([]*models.Notification, int, error)
}

type notificationService struct {
	repo         repository.NotificationRepository
	emailService sendgrid.EmailService
}

func NewNotificationService(repo repository.NotificationRepository, emailService sendgrid.EmailService) NotificationService {
	return &notificationService{
		repo:         repo,
		emailService: emailService,
	}
}

// SendEmail persists the notification, attempts delivery and records the
// outcome. A delivery failure is reported to the caller but the notification
// row survives either way.
func (s *notificationService) SendEmail(ctx context.Context, req *models.EmailNotificationRequest) (*models.NotificationResponse, error) {
	return s.send(ctx, nil, req)
}

// SendOrderReceipt emails the customer a summary of the committed order.
func (s *notificationService) SendOrderReceipt(ctx context.Context, customer *models.Customer, order *models.Order) error {

	req := &models.EmailNotificationRequest{
		Recipient:   customer.Email,
		Subject:     fmt.Sprintf("Your order %s", order.ID),
		Content:     receiptText(customer, order),
		HTMLContent: receiptHTML(customer, order),
	}

	_, err := s.send(ctx, &customer.ID, req)

	return err
}

func (s *notificationService) ListNotifications(ctx context.Context, page, pageSize int) ([]*models.Notification, int, error) {

	notifications, total, err := s.repo.ListNotifications(ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch notifications").WithError(err)
	}

	return notifications, total, nil
}

func (s *notificationService) send(ctx context.Context, customerID *uuid.UUID, req *models.EmailNotificationRequest) (*models.NotificationResponse, error) {

	notification := &models.Notification{
		CustomerID: customerID,
		Type:       models.NotificationTypeEmail,
		Recipient:  req.Recipient,
		Subject:    req.Subject,
		Content:    req.Content,
		Status:     models.NotificationStatusPending,
	}

	if err := s.repo.CreateNotification(ctx, notification); err != nil {
		return nil, errors.DatabaseError("Failed to record notification").WithError(err)
	}

	if sendErr := s.emailService.Send(ctx, req); sendErr != nil {

		if err := s.repo.UpdateStatus(ctx, notification.ID, models.NotificationStatusFailed, sendErr.Error()); err != nil {
			slog.WarnContext(ctx, "Failed to record notification failure",
				slog.String("notificationId", notification.ID.String()),
				slog.String("error", err.Error()))
		}

		return nil, errors.ThirdPartyError("Failed to send email").WithError(sendErr)
	}

	if err := s.repo.UpdateStatus(ctx, notification.ID, models.NotificationStatusSent, ""); err != nil {
		slog.WarnContext(ctx, "Failed to record notification delivery",
			slog.String("notificationId", notification.ID.String()),
			slog.String("error", err.Error()))
	}

	return &models.NotificationResponse{
		ID:        notification.ID,
		Type:      notification.Type,
		Status:    models.NotificationStatusSent,
		CreatedAt: notification.CreatedAt,
	}, nil
}

func receiptText(customer *models.Customer, order *models.Order) string {

	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your purchase. Order %s:\n\n", customer.FirstName, order.ID)

	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %d x %s @ %.2f\n", item.Quantity, item.ProductName, item.UnitPrice)
	}

	fmt.Fprintf(&b, "\nTotal charged: %.2f\n", order.TotalAmount)

	if order.PointsRedeemed > 0 {
		fmt.Fprintf(&b, "Points redeemed: %d\n", order.PointsRedeemed)
	}

	fmt.Fprintf(&b, "Points earned: %d\n", order.PointsEarned)

	return b.String()
}

func receiptHTML(customer *models.Customer, order *models.Order) string {

	var b strings.Builder

	fmt.Fprintf(&b, "<p>Hi %s,</p><p>Thanks for your purchase. Order <strong>%s</strong>:</p><ul>", customer.FirstName, order.ID)

	for _, item := range order.Items {
		fmt.Fprintf(&b, "<li>%d x %s @ %.2f</li>", item.Quantity, item.ProductName, item.UnitPrice)
	}

	fmt.Fprintf(&b, "</ul><p>Total charged: <strong>%.2f</strong></p>", order.TotalAmount)

	if order.PointsRedeemed > 0 {
		fmt.Fprintf(&b, "<p>Points redeemed: %d</p>", order.PointsRedeemed)
	}

	fmt.Fprintf(&b, "<p>Points earned: %d</p>", order.PointsEarned)

	return b.String()
}
