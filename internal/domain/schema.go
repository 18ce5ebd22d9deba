package domain

import "nathanbeddoewebdev/flagadmin/internal/audit"

// Entity type names written to the audit log.
const (
	EntityUser           = "User"
	EntityUserRole       = "UserRole"
	EntityRole           = "Role"
	EntityRolePermission = "RolePermission"
	EntityFeatureFlag    = "FeatureFlag"
)

// AuditSchemas returns the audit metadata for every tracked entity.
func AuditSchemas() []audit.EntitySchema {
	return []audit.EntitySchema{
		{Type: EntityUser, Key: "ID", NoAudit: []string{"PasswordHash"}},
		{Type: EntityUserRole, Key: "ID"},
		{Type: EntityRole, Key: "ID"},
		{Type: EntityRolePermission, Key: "ID"},
		{Type: EntityFeatureFlag, Key: "ID"},
	}
}

// NewAuditRegistry returns a registry populated with AuditSchemas.
func NewAuditRegistry() *audit.Registry {
	r, err := audit.NewRegistry(AuditSchemas()...)
	if err != nil {
		panic(err)
	}
	return r
}
