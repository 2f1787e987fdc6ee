package mapping

import (
	"github.com/edmart-systems/procurement_backend/internal/core/domain"
	"github.com/edmart-systems/procurement_backend/internal/models"
)

// ToDomainUser converts a model User to the domain. The password hash stays behind.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:      m.UserID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Email:       m.Email,
		RoleID:      m.RoleID,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
		DeletedAt:   m.DeletedAt,
	}
}

// ToModelNotification converts a domain Notification to its model representation.
func ToModelNotification(d domain.Notification) models.Notification {
	return models.Notification{
		NotificationID: d.NotificationID,
		Title:          d.Title,
		Message:        d.Message,
		RecipientID:    d.RecipientID,
		ActionData:     d.ActionData,
		CreatedAt:      d.CreatedAt,
		ReadAt:         d.ReadAt,
	}
}

// ToDomainNotification converts a model Notification to the domain.
func ToDomainNotification(m models.Notification) domain.Notification {
	return domain.Notification{
		NotificationID: m.NotificationID,
		Title:          m.Title,
		Message:        m.Message,
		RecipientID:    m.RecipientID,
		ActionData:     m.ActionData,
		CreatedAt:      m.CreatedAt,
		ReadAt:         m.ReadAt,
	}
}
