package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edmart-systems/procurement_backend/internal/apperrors"
	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	portsrepo "github.com/edmart-systems/procurement_backend/internal/core/ports/repositories"
	"github.com/edmart-systems/procurement_backend/internal/models"
	"github.com/edmart-systems/procurement_backend/internal/utils/mapping"
)

type PgxNotificationRepository struct {
	db *pgxpool.Pool
}

// newPgxNotificationRepository creates a new repository for in-app notifications.
func newPgxNotificationRepository(db *pgxpool.Pool) portsrepo.NotificationRepository {
	return &PgxNotificationRepository{db: db}
}

// Ensure PgxNotificationRepository implements portsrepo.NotificationRepository
var _ portsrepo.NotificationRepository = (*PgxNotificationRepository)(nil)

const notificationInsertQuery = `
	INSERT INTO notifications (notification_id, title, message, recipient_id, action_data, created_at)
	VALUES ($1, $2, $3, $4, $5, $6);
`

func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	m := mapping.ToModelNotification(n)
	_, err := r.db.Exec(ctx, notificationInsertQuery,
		m.NotificationID, m.Title, m.Message, m.RecipientID, m.ActionData, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (r *PgxNotificationRepository) SaveNotificationsBatch(ctx context.Context, ns []domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, n := range ns {
		m := mapping.ToModelNotification(n)
		batch.Queue(notificationInsertQuery,
			m.NotificationID, m.Title, m.Message, m.RecipientID, m.ActionData, m.CreatedAt)
	}
	br := r.db.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to save notification batch: %w", err)
	}
	return nil
}

func (r *PgxNotificationRepository) ListNotificationsForUser(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error) {
	query := `
		SELECT notification_id, title, message, recipient_id, action_data, created_at, read_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2;
	`
	rows, err := r.db.Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %s: %w", recipientID, err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var m models.Notification
		if err := rows.Scan(
			&m.NotificationID,
			&m.Title,
			&m.Message,
			&m.RecipientID,
			&m.ActionData,
			&m.CreatedAt,
			&m.ReadAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, mapping.ToDomainNotification(m))
	}
	return notifications, rows.Err()
}

func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, recipientID, notificationID string) error {
	query := `
		UPDATE notifications
		SET read_at = NOW()
		WHERE notification_id = $1 AND recipient_id = $2 AND read_at IS NULL;
	`
	tag, err := r.db.Exec(ctx, query, notificationID, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", notificationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
