package store

import (
	"context"

	"nathanbeddoewebdev/flagadmin/internal/database"
	"nathanbeddoewebdev/flagadmin/internal/domain"
)

const userColumns = `id, username, email, display_name, password_hash, active, created_at, updated_at`

// InsertUser inserts u and assigns its ID.
func (q *Queries) InsertUser(ctx context.Context, u *domain.User) error {
	res, err := q.db.ExecContext(ctx, `
        INSERT INTO users (username, email, display_name, password_hash, active, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.DisplayName, u.PasswordHash, boolToInt(u.Active),
		database.FormatTime(u.CreatedAt), database.FormatTime(u.UpdatedAt),
	)
	if err != nil {
		return wrapErr("insert user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrapErr("insert user", err)
	}
	u.ID = id
	return nil
}

// UpdateUser overwrites every mutable column of u.
func (q *Queries) UpdateUser(ctx context.Context, u *domain.User) error {
	res, err := q.db.ExecContext(ctx, `
        UPDATE users SET email = ?, display_name = ?, password_hash = ?, active = ?, updated_at = ?
        WHERE id = ?`,
		u.Email, u.DisplayName, u.PasswordHash, boolToInt(u.Active),
		database.FormatTime(u.UpdatedAt), u.ID,
	)
	if err != nil {
		return wrapErr("update user", err)
	}
	return requireAffected("update user", res)
}

// DeleteUser removes the user with the given ID.
func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete user", err)
	}
	return requireAffected("delete user", res)
}

// GetUser returns the user with the given ID.
func (q *Queries) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, wrapErr("get user", err)
	}
	return u, nil
}

// GetUserByUsername returns the user with the given username.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err != nil {
		return nil, wrapErr("get user "+username, err)
	}
	return u, nil
}

// ListUsers returns all users ordered by username.
func (q *Queries) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, wrapErr("list users", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrapErr("scan user", err)
		}
		users = append(users, *u)
	}
	return users, wrapErr("list users", rows.Err())
}

// CountUsers returns the number of users.
func (q *Queries) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, wrapErr("count users", err)
}

func scanUser(s scanner) (*domain.User, error) {
	var u domain.User
	var active int
	var createdStr, updatedStr string
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.PasswordHash,
		&active, &createdStr, &updatedStr)
	if err != nil {
		return nil, err
	}
	u.Active = active != 0
	u.CreatedAt = database.ParseTime(createdStr)
	u.UpdatedAt = database.ParseTime(updatedStr)
	return &u, nil
}

// InsertUserRole links a user to a role and assigns the link ID.
func (q *Queries) InsertUserRole(ctx context.Context, ur *domain.UserRole) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)`, ur.UserID, ur.RoleID)
	if err != nil {
		return wrapErr("assign role", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrapErr("assign role", err)
	}
	ur.ID = id
	return nil
}

// DeleteUserRole removes the link with the given ID.
func (q *Queries) DeleteUserRole(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM user_roles WHERE id = ?`, id)
	if err != nil {
		return wrapErr("unassign role", err)
	}
	return requireAffected("unassign role", res)
}

// GetUserRole returns the link between a user and a role.
func (q *Queries) GetUserRole(ctx context.Context, userID, roleID int64) (*domain.UserRole, error) {
	var ur domain.UserRole
	err := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, role_id FROM user_roles WHERE user_id = ? AND role_id = ?`,
		userID, roleID,
	).Scan(&ur.ID, &ur.UserID, &ur.RoleID)
	if err != nil {
		return nil, wrapErr("get role assignment", err)
	}
	return &ur, nil
}

// ListUserRoles returns role links for a user (userID > 0) or for a role
// (roleID > 0).
func (q *Queries) ListUserRoles(ctx context.Context, userID, roleID int64) ([]domain.UserRole, error) {
	rows, err := q.db.QueryContext(ctx, `
        SELECT id, user_id, role_id FROM user_roles
        WHERE (? = 0 OR user_id = ?) AND (? = 0 OR role_id = ?)
        ORDER BY id`, userID, userID, roleID, roleID)
	if err != nil {
		return nil, wrapErr("list role assignments", err)
	}
	defer rows.Close()

	var links []domain.UserRole
	for rows.Next() {
		var ur domain.UserRole
		if err := rows.Scan(&ur.ID, &ur.UserID, &ur.RoleID); err != nil {
			return nil, wrapErr("scan role assignment", err)
		}
		links = append(links, ur)
	}
	return links, wrapErr("list role assignments", rows.Err())
}

// RoleNamesForUser returns the names of the roles assigned to a user.
func (q *Queries) RoleNamesForUser(ctx context.Context, userID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `
        SELECT r.name FROM user_roles ur JOIN roles r ON r.id = ur.role_id
        WHERE ur.user_id = ? ORDER BY r.name`, userID)
	if err != nil {
		return nil, wrapErr("list user roles", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, wrapErr("scan user role", err)
		}
		names = append(names, name)
	}
	return names, wrapErr("list user roles", rows.Err())
}

// UserHasPermission reports whether an active user holds a permission
// through any of their roles.
func (q *Queries) UserHasPermission(ctx context.Context, username, permission string) (bool, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `
        SELECT COUNT(*) FROM users u
        JOIN user_roles ur ON ur.user_id = u.id
        JOIN role_permissions rp ON rp.role_id = ur.role_id
        JOIN permissions p ON p.id = rp.permission_id
        WHERE u.username = ? AND u.active = 1 AND p.name = ?`,
		username, permission,
	).Scan(&n)
	if err != nil {
		return false, wrapErr("check permission", err)
	}
	return n > 0, nil
}
