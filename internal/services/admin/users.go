package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/flagadmin/internal/audit"
	"nathanbeddoewebdev/flagadmin/internal/domain"
	"nathanbeddoewebdev/flagadmin/internal/services/auth"
	"nathanbeddoewebdev/flagadmin/internal/tracking"
	"nathanbeddoewebdev/flagadmin/internal/util"
)

// NewUser holds the fields needed to create a user.
type NewUser struct {
	Username    string
	Email       string
	DisplayName string
	Password    string
}

// UserUpdate lists the user fields to change. Nil fields are left as is.
type UserUpdate struct {
	Email       *string
	DisplayName *string
	Active      *bool
}

// UserDetail is a user together with the names of its roles.
type UserDetail struct {
	domain.User
	Roles []string `json:"roles"`
}

// CreateUser creates a user. The very first user may be created without an
// operator; it is made an admin and recorded as its own creator.
func (s *Service) CreateUser(ctx context.Context, in NewUser) (*domain.User, error) {
	in.Username = util.NormalizeKey(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := util.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := util.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	count, err := s.queries().CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	bootstrap := count == 0

	permission := domain.PermUsersManage
	if bootstrap {
		permission = ""
		if tracking.OperatorFromContext(ctx) == "" {
			ctx = tracking.WithOperator(ctx, in.Username)
		}
	}

	now := s.timestamp()
	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.mutate(ctx, permission, func(t *txScope) error {
		if bootstrap {
			// Re-check inside the transaction so two concurrent bootstraps
			// cannot both skip authorization.
			n, err := t.q.CountUsers(t.ctx)
			if err != nil {
				return err
			}
			if n != 0 {
				return fmt.Errorf("another user was created concurrently: %w", domain.ErrConflict)
			}
		}
		if err := t.q.InsertUser(t.ctx, u); err != nil {
			return err
		}
		if err := t.record(audit.Insert, nil, *u); err != nil {
			return err
		}
		if bootstrap {
			return assignRole(t, u, domain.AdminRole)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", in.Username, err)
	}
	return u, nil
}

// UpdateUser applies upd to the named user.
func (s *Service) UpdateUser(ctx context.Context, username string, upd UserUpdate) (*domain.User, error) {
	var updated domain.User
	err := s.mutate(ctx, domain.PermUsersManage, func(t *txScope) error {
		before, err := t.q.GetUserByUsername(t.ctx, util.NormalizeKey(username))
		if err != nil {
			return err
		}
		after := *before
		if upd.Email != nil {
			after.Email = strings.TrimSpace(*upd.Email)
			if err := util.ValidateEmail(after.Email); err != nil {
				return err
			}
		}
		if upd.DisplayName != nil {
			after.DisplayName = strings.TrimSpace(*upd.DisplayName)
		}
		if upd.Active != nil {
			if !*upd.Active && before.Username == tracking.OperatorFromContext(t.ctx) {
				return fmt.Errorf("cannot deactivate yourself: %w", domain.ErrInvalid)
			}
			after.Active = *upd.Active
		}
		if after == *before {
			updated = after
			return nil
		}
		after.UpdatedAt = s.timestamp()

		if err := t.q.UpdateUser(t.ctx, &after); err != nil {
			return err
		}
		updated = after
		return t.record(audit.Update, *before, after)
	})
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", username, err)
	}
	return &updated, nil
}

// SetPassword changes a user's password. Active operators may change their
// own password; changing anyone else's requires users.manage.
func (s *Service) SetPassword(ctx context.Context, username, password string) error {
	username = util.NormalizeKey(username)
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	operator := tracking.OperatorFromContext(ctx)
	if operator == "" {
		return fmt.Errorf("set password: no operator logged in: %w", domain.ErrUnauthorized)
	}
	permission := domain.PermUsersManage
	if operator == username {
		permission = ""
	}

	err = s.mutate(ctx, permission, func(t *txScope) error {
		before, err := t.q.GetUserByUsername(t.ctx, username)
		if err != nil {
			return err
		}
		if permission == "" && !before.Active {
			return fmt.Errorf("user %s is deactivated: %w", username, domain.ErrUnauthorized)
		}
		after := *before
		after.PasswordHash = hash
		after.UpdatedAt = s.timestamp()
		if err := t.q.UpdateUser(t.ctx, &after); err != nil {
			return err
		}
		return t.record(audit.Update, *before, after)
	})
	if err != nil {
		return fmt.Errorf("set password for %s: %w", username, err)
	}
	return nil
}

// DeleteUser removes a user and its role assignments.
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	username = util.NormalizeKey(username)
	if username == tracking.OperatorFromContext(ctx) {
		return fmt.Errorf("delete user %s: cannot delete yourself: %w", username, domain.ErrInvalid)
	}

	err := s.mutate(ctx, domain.PermUsersManage, func(t *txScope) error {
		u, err := t.q.GetUserByUsername(t.ctx, username)
		if err != nil {
			return err
		}
		links, err := t.q.ListUserRoles(t.ctx, u.ID, 0)
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
		if err := t.q.DeleteUser(t.ctx, u.ID); err != nil {
			return err
		}
		return t.record(audit.Delete, *u, nil)
	})
	if err != nil {
		return fmt.Errorf("delete user %s: %w", username, err)
	}
	return nil
}

// GetUser returns the named user and its roles.
func (s *Service) GetUser(ctx context.Context, username string) (*UserDetail, error) {
	q := s.queries()
	u, err := q.GetUserByUsername(ctx, util.NormalizeKey(username))
	if err != nil {
		return nil, err
	}
	roles, err := q.RoleNamesForUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &UserDetail{User: *u, Roles: roles}, nil
}

// ListUsers returns all users ordered by username.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.queries().ListUsers(ctx)
}

// AssignRole gives the named user a role.
func (s *Service) AssignRole(ctx context.Context, username, role string) error {
	err := s.mutate(ctx, domain.PermUsersManage, func(t *txScope) error {
		u, err := t.q.GetUserByUsername(t.ctx, util.NormalizeKey(username))
		if err != nil {
			return err
		}
		return assignRole(t, u, util.NormalizeKey(role))
	})
	if err != nil {
		return fmt.Errorf("assign role %s to %s: %w", role, username, err)
	}
	return nil
}

func assignRole(t *txScope, u *domain.User, roleName string) error {
	r, err := t.q.GetRoleByName(t.ctx, roleName)
	if err != nil {
		return err
	}
	link := &domain.UserRole{UserID: u.ID, RoleID: r.ID}
	if err := t.q.InsertUserRole(t.ctx, link); err != nil {
		return err
	}
	return t.record(audit.Insert, nil, *link)
}

// UnassignRole removes a role from the named user.
func (s *Service) UnassignRole(ctx context.Context, username, role string) error {
	username = util.NormalizeKey(username)
	role = util.NormalizeKey(role)

	err := s.mutate(ctx, domain.PermUsersManage, func(t *txScope) error {
		u, err := t.q.GetUserByUsername(t.ctx, username)
		if err != nil {
			return err
		}
		r, err := t.q.GetRoleByName(t.ctx, role)
		if err != nil {
			return err
		}
		link, err := t.q.GetUserRole(t.ctx, u.ID, r.ID)
		if err != nil {
			return err
		}
		if r.Name == domain.AdminRole && u.Username == tracking.OperatorFromContext(t.ctx) {
			return fmt.Errorf("cannot remove your own admin role: %w", domain.ErrInvalid)
		}
		if err := t.q.DeleteUserRole(t.ctx, link.ID); err != nil {
			return err
		}
		return t.record(audit.Delete, *link, nil)
	})
	if err != nil {
		return fmt.Errorf("unassign role %s from %s: %w", role, username, err)
	}
	return nil
}

// Authenticate verifies a username and password and returns the user.
// Unknown users, inactive users and wrong passwords all yield
// domain.ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.queries().GetUserByUsername(ctx, util.NormalizeKey(username))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("invalid username or password: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, fmt.Errorf("user %s is deactivated: %w", u.Username, domain.ErrUnauthorized)
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, err
	}
	return u, nil
}
