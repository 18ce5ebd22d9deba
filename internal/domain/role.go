package domain

import (
	"time"

	"nathanbeddoewebdev/flagadmin/internal/audit"
)

// Permission names seeded into the permissions table.
const (
	PermUsersManage = "users.manage"
	PermRolesManage = "roles.manage"
	PermFlagsManage = "flags.manage"
	PermAuditRead   = "audit.read"
	PermAuditPrune  = "audit.prune"
)

// AdminRole is the seeded role holding every permission.
const AdminRole = "admin"

// Role groups permissions that can be assigned to users.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r Role) AuditType() string { return EntityRole }

func (r Role) AuditFields() []audit.Field {
	return []audit.Field{
		{Name: "ID", Value: r.ID},
		{Name: "Name", Value: r.Name},
		{Name: "Description", Value: r.Description},
		{Name: "CreatedAt", Value: r.CreatedAt},
	}
}

// Permission is a named capability. Permissions are seeded and read-only.
type Permission struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// RolePermission links a permission to a role.
type RolePermission struct {
	ID           int64 `json:"id"`
	RoleID       int64 `json:"role_id"`
	PermissionID int64 `json:"permission_id"`
}

func (rp RolePermission) AuditType() string { return EntityRolePermission }

func (rp RolePermission) AuditFields() []audit.Field {
	return []audit.Field{
		{Name: "ID", Value: rp.ID},
		{Name: "RoleID", Value: rp.RoleID},
		{Name: "PermissionID", Value: rp.PermissionID},
	}
}
