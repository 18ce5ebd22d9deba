package store

import (
	"context"

	"nathanbeddoewebdev/flagadmin/internal/database"
	"nathanbeddoewebdev/flagadmin/internal/domain"
)

// InsertRole inserts r and assigns its ID.
func (q *Queries) InsertRole(ctx context.Context, r *domain.Role) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO roles (name, description, created_at) VALUES (?, ?, ?)`,
		r.Name, r.Description, database.FormatTime(r.CreatedAt),
	)
	if err != nil {
		return wrapErr("insert role", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrapErr("insert role", err)
	}
	r.ID = id
	return nil
}

// DeleteRole removes the role with the given ID.
func (q *Queries) DeleteRole(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete role", err)
	}
	return requireAffected("delete role", res)
}

// GetRoleByName returns the role with the given name.
func (q *Queries) GetRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	var r domain.Role
	var createdStr string
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM roles WHERE name = ?`, name,
	).Scan(&r.ID, &r.Name, &r.Description, &createdStr)
	if err != nil {
		return nil, wrapErr("get role "+name, err)
	}
	r.CreatedAt = database.ParseTime(createdStr)
	return &r, nil
}

// ListRoles returns all roles ordered by name.
func (q *Queries) ListRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, wrapErr("list roles", err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var r domain.Role
		var createdStr string
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &createdStr); err != nil {
			return nil, wrapErr("scan role", err)
		}
		r.CreatedAt = database.ParseTime(createdStr)
		roles = append(roles, r)
	}
	return roles, wrapErr("list roles", rows.Err())
}

// CountRoles returns the number of roles.
func (q *Queries) CountRoles(ctx context.Context) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles`).Scan(&n)
	return n, wrapErr("count roles", err)
}

// GetPermissionByName returns the permission with the given name.
func (q *Queries) GetPermissionByName(ctx context.Context, name string) (*domain.Permission, error) {
	var p domain.Permission
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM permissions WHERE name = ?`, name,
	).Scan(&p.ID, &p.Name, &p.Description)
	if err != nil {
		return nil, wrapErr("get permission "+name, err)
	}
	return &p, nil
}

// ListPermissions returns every permission, or only those granted to a
// role when roleID > 0.
func (q *Queries) ListPermissions(ctx context.Context, roleID int64) ([]domain.Permission, error) {
	query := `SELECT id, name, description FROM permissions ORDER BY name`
	args := []any{}
	if roleID > 0 {
		query = `
            SELECT p.id, p.name, p.description FROM permissions p
            JOIN role_permissions rp ON rp.permission_id = p.id
            WHERE rp.role_id = ? ORDER BY p.name`
		args = append(args, roleID)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list permissions", err)
	}
	defer rows.Close()

	var perms []domain.Permission
	for rows.Next() {
		var p domain.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, wrapErr("scan permission", err)
		}
		perms = append(perms, p)
	}
	return perms, wrapErr("list permissions", rows.Err())
}

// InsertRolePermission grants a permission to a role and assigns the link ID.
func (q *Queries) InsertRolePermission(ctx context.Context, rp *domain.RolePermission) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)`,
		rp.RoleID, rp.PermissionID,
	)
	if err != nil {
		return wrapErr("grant permission", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrapErr("grant permission", err)
	}
	rp.ID = id
	return nil
}

// DeleteRolePermission removes the grant with the given ID.
func (q *Queries) DeleteRolePermission(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM role_permissions WHERE id = ?`, id)
	if err != nil {
		return wrapErr("revoke permission", err)
	}
	return requireAffected("revoke permission", res)
}

// GetRolePermission returns the grant of a permission to a role.
func (q *Queries) GetRolePermission(ctx context.Context, roleID, permissionID int64) (*domain.RolePermission, error) {
	var rp domain.RolePermission
	err := q.db.QueryRowContext(ctx, `
        SELECT id, role_id, permission_id FROM role_permissions
        WHERE role_id = ? AND permission_id = ?`, roleID, permissionID,
	).Scan(&rp.ID, &rp.RoleID, &rp.PermissionID)
	if err != nil {
		return nil, wrapErr("get permission grant", err)
	}
	return &rp, nil
}

// ListRolePermissions returns the grants held by a role.
func (q *Queries) ListRolePermissions(ctx context.Context, roleID int64) ([]domain.RolePermission, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, role_id, permission_id FROM role_permissions WHERE role_id = ? ORDER BY id`, roleID)
	if err != nil {
		return nil, wrapErr("list permission grants", err)
	}
	defer rows.Close()

	var grants []domain.RolePermission
	for rows.Next() {
		var rp domain.RolePermission
		if err := rows.Scan(&rp.ID, &rp.RoleID, &rp.PermissionID); err != nil {
			return nil, wrapErr("scan permission grant", err)
		}
		grants = append(grants, rp)
	}
	return grants, wrapErr("list permission grants", rows.Err())
}
