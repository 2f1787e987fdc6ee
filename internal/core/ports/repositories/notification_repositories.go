package repositories

import (
	"context"

	"github.com/edmart-systems/procurement_backend/internal/core/domain"
)

// NotificationRepository is the in-app notification sink. Recording is fire-and-forget
// from the workflow's point of view; callers log failures and move on.
type NotificationRepository interface {
	// SaveNotification records a single notification.
	SaveNotification(ctx context.Context, n domain.Notification) error

	// SaveNotificationsBatch records several notifications in one round trip.
	SaveNotificationsBatch(ctx context.Context, ns []domain.Notification) error

	// ListNotificationsForUser retrieves the user's notifications, newest first.
	ListNotificationsForUser(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error)

	// MarkNotificationRead stamps read_at on a notification owned by the user.
	MarkNotificationRead(ctx context.Context, recipientID, notificationID string) error
}
