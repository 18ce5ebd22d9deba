package domain

import (
	"time"

	"nathanbeddoewebdev/flagadmin/internal/audit"
)

// User is an operator account that can log in and administer flags.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	DisplayName  string    `json:"display_name,omitempty"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u User) AuditType() string { return EntityUser }

func (u User) AuditFields() []audit.Field {
	return []audit.Field{
		{Name: "ID", Value: u.ID},
		{Name: "Username", Value: u.Username},
		{Name: "Email", Value: u.Email},
		{Name: "DisplayName", Value: u.DisplayName},
		{Name: "PasswordHash", Value: u.PasswordHash},
		{Name: "Active", Value: u.Active},
		{Name: "CreatedAt", Value: u.CreatedAt},
		{Name: "UpdatedAt", Value: u.UpdatedAt},
	}
}

// UserRole links a user to a role.
type UserRole struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
	RoleID int64 `json:"role_id"`
}

func (ur UserRole) AuditType() string { return EntityUserRole }

func (ur UserRole) AuditFields() []audit.Field {
	return []audit.Field{
		{Name: "ID", Value: ur.ID},
		{Name: "UserID", Value: ur.UserID},
		{Name: "RoleID", Value: ur.RoleID},
	}
}
