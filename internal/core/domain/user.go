package domain

import "time"

// User represents an application user. Role membership drives the approval chain:
// the hierarchy resolver picks the first active holder of each configured role.
type User struct {
	UserID    string `json:"userID"` // Primary key (UUID)
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	RoleID    int    `json:"roleID"`
	IsActive  bool   `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Soft delete
}

// FullName returns the display name used in notifications and emails.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
