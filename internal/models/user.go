package models

import "time"

// User represents a row of the users table. Includes the password hash for
// authentication; it never leaves the persistence layer.
type User struct {
	UserID       string `db:"user_id"`
	FirstName    string `db:"first_name"`
	LastName     string `db:"last_name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	RoleID       int    `db:"role_id"`
	IsActive     bool   `db:"is_active"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
