package admin

import (
	"context"
	"fmt"
	"strings"

	"nathanbeddoewebdev/flagadmin/internal/audit"
	"nathanbeddoewebdev/flagadmin/internal/domain"
	"nathanbeddoewebdev/flagadmin/internal/util"
)

// RoleDetail is a role together with the names of its permissions.
type RoleDetail struct {
	domain.Role
	Permissions []string `json:"permissions"`
}

// CreateRole creates an empty role.
func (s *Service) CreateRole(ctx context.Context, name, description string) (*domain.Role, error) {
	name = util.NormalizeKey(name)
	if err := util.ValidateRoleName(name); err != nil {
		return nil, err
	}

	r := &domain.Role{Name: name, Description: strings.TrimSpace(description), CreatedAt: s.timestamp()}
	err := s.mutate(ctx, domain.PermRolesManage, func(t *txScope) error {
		if err := t.q.InsertRole(t.ctx, r); err != nil {
			return err
		}
		return t.record(audit.Insert, nil, *r)
	})
	if err != nil {
		return nil, fmt.Errorf("create role %s: %w", name, err)
	}
	return r, nil
}

// DeleteRole removes a role, its permission grants and its user
// assignments. The admin role cannot be deleted.
func (s *Service) DeleteRole(ctx context.Context, name string) error {
	name = util.NormalizeKey(name)
	if name == domain.AdminRole {
		return fmt.Errorf("delete role %s: the admin role cannot be deleted: %w", name, domain.ErrInvalid)
	}

	err := s.mutate(ctx, domain.PermRolesManage, func(t *txScope) error {
		r, err := t.q.GetRoleByName(t.ctx, name)
		if err != nil {
			return err
		}

		grants, err := t.q.ListRolePermissions(t.ctx, r.ID)
		if err != nil {
			return err
		}
		for _, g := range grants {
			if err := t.q.DeleteRolePermission(t.ctx, g.ID); err != nil {
				return err
			}
			if err := t.record(audit.Delete, g, nil); err != nil {
				return err
			}
		}

		links, err := t.q.ListUserRoles(t.ctx, 0, r.ID)
		if err != nil {
			return err
		}
		for _, link := range links {
			if err := t.q.DeleteUserRole(t.ctx, link.ID); err != nil {
				return err
			}
			if err := t.record(audit.Delete, link, nil); err != nil {
				return err
			}
		}

		if err := t.q.DeleteRole(t.ctx, r.ID); err != nil {
			return err
		}
		return t.record(audit.Delete, *r, nil)
	})
	if err != nil {
		return fmt.Errorf("delete role %s: %w", name, err)
	}
	return nil
}

// GrantPermission adds a permission to a role.
func (s *Service) GrantPermission(ctx context.Context, role, permission string) error {
	role = util.NormalizeKey(role)
	permission = util.NormalizeKey(permission)

	err := s.mutate(ctx, domain.PermRolesManage, func(t *txScope) error {
		r, err := t.q.GetRoleByName(t.ctx, role)
		if err != nil {
			return err
		}
		p, err := t.q.GetPermissionByName(t.ctx, permission)
		if err != nil {
			return err
		}
		grant := &domain.RolePermission{RoleID: r.ID, PermissionID: p.ID}
		if err := t.q.InsertRolePermission(t.ctx, grant); err != nil {
			return err
		}
		return t.record(audit.Insert, nil, *grant)
	})
	if err != nil {
		return fmt.Errorf("grant %s to %s: %w", permission, role, err)
	}
	return nil
}

// RevokePermission removes a permission from a role. Permissions of the
// admin role cannot be revoked.
func (s *Service) RevokePermission(ctx context.Context, role, permission string) error {
	role = util.NormalizeKey(role)
	permission = util.NormalizeKey(permission)
	if role == domain.AdminRole {
		return fmt.Errorf("revoke %s from %s: admin permissions are fixed: %w", permission, role, domain.ErrInvalid)
	}

	err := s.mutate(ctx, domain.PermRolesManage, func(t *txScope) error {
		r, err := t.q.GetRoleByName(t.ctx, role)
		if err != nil {
			return err
		}
		p, err := t.q.GetPermissionByName(t.ctx, permission)
		if err != nil {
			return err
		}
		grant, err := t.q.GetRolePermission(t.ctx, r.ID, p.ID)
		if err != nil {
			return err
		}
		if err := t.q.DeleteRolePermission(t.ctx, grant.ID); err != nil {
			return err
		}
		return t.record(audit.Delete, *grant, nil)
	})
	if err != nil {
		return fmt.Errorf("revoke %s from %s: %w", permission, role, err)
	}
	return nil
}

// ListRoles returns every role with its permission names.
func (s *Service) ListRoles(ctx context.Context) ([]RoleDetail, error) {
	q := s.queries()
	roles, err := q.ListRoles(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]RoleDetail, 0, len(roles))
	for _, r := range roles {
		perms, err := q.ListPermissions(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(perms))
		for _, p := range perms {
			names = append(names, p.Name)
		}
		details = append(details, RoleDetail{Role: r, Permissions: names})
	}
	return details, nil
}

// ListPermissions returns every known permission.
func (s *Service) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	return s.queries().ListPermissions(ctx, 0)
}
