package services

import (
	"context"
	"fmt"

	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	portsrepo "github.com/edmart-systems/procurement_backend/internal/core/ports/repositories"
	portssvc "github.com/edmart-systems/procurement_backend/internal/core/ports/services"
)

type notificationService struct {
	notifRepo portsrepo.NotificationRepository
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notifRepo portsrepo.NotificationRepository) portssvc.NotificationSvcFacade {
	return &notificationService{notifRepo: notifRepo}
}

// Ensure notificationService implements the facade interface
var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

// ListNotifications retrieves the caller's notifications, newest first.
func (s *notificationService) ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	ns, err := s.notifRepo.ListNotificationsForUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return ns, nil
}

// MarkRead stamps a notification of the caller as read.
func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.notifRepo.MarkNotificationRead(ctx, userID, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", notificationID, err)
	}
	return nil
}
