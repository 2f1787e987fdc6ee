package domain

import "time"

// Notification is a persisted in-app message. Delivery is fire-and-forget from the
// workflow's point of view: recording failures never fail the triggering operation.
type Notification struct {
	NotificationID string     `json:"notificationID"` // Primary key (UUID)
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	RecipientID    string     `json:"recipientID"`
	ActionData     string     `json:"actionData,omitempty"` // Reference the client navigates to, e.g. a PO id
	CreatedAt      time.Time  `json:"createdAt"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
}
