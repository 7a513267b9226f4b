package repository

import (
	"context"
	"database/sql"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/utils"
	"github.com/google/uuid"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, sendError string) error
	ListNotifications(ctx context.Context, page, size int) ([]*models.Notification, int, error)
}

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepo(db *sql.DB) NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO notifications (customer_id, type, recipient, subject, content, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at
	`

	var customerID uuid.NullUUID
	if notification.CustomerID != nil {
		customerID = uuid.NullUUID{UUID: *notification.CustomerID, Valid: true}
	}

	return r.DB.QueryRowContext(dbCtx, query, customerID, notification.Type, notification.Recipient, notification.Subject, notification.Content, notification.Status).
		Scan(&notification.ID, &notification.CreatedAt, &notification.UpdatedAt)
}

// UpdateStatus records the delivery outcome. sent_at is stamped only on a
// successful send.
func (r *notificationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, sendError string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE notifications
			  SET status = $1, error = $2, updated_at = NOW(),
			      sent_at = CASE WHEN $1 = 'sent' THEN NOW() ELSE sent_at END
			  WHERE id = $3`

	result, err := r.DB.ExecContext(dbCtx, query, status, sendError, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *notificationRepository) ListNotifications(ctx context.Context, page, size int) ([]*models.Notification, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM notifications`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `SELECT id, customer_id, type, recipient, subject, content, status, error, created_at, updated_at, sent_at
			  FROM notifications
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var notifications []*models.Notification

	for rows.Next() {
		notification := &models.Notification{}

		var (
			customerID uuid.NullUUID
			sentAt     sql.NullTime
		)

		err := rows.Scan(&notification.ID, &customerID, &notification.Type, &notification.Recipient, &notification.Subject, &notification.Content, &notification.Status, &notification.Error, &notification.CreatedAt, &notification.UpdatedAt, &sentAt)
		if err != nil {
			return nil, 0, err
		}

		if customerID.Valid {
			notification.CustomerID = &customerID.UUID
		}

		if sentAt.Valid {
			notification.SentAt = &sentAt.Time
		}

		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}
