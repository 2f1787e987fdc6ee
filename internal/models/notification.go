package models

import "time"

// Notification represents a row of the notifications table.
type Notification struct {
	NotificationID string     `db:"notification_id"`
	Title          string     `db:"title"`
	Message        string     `db:"message"`
	RecipientID    string     `db:"recipient_id"`
	ActionData     string     `db:"action_data"`
	CreatedAt      time.Time  `db:"created_at"`
	ReadAt         *time.Time `db:"read_at"`
}
