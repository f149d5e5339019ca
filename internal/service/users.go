package service

import (
	"context"
	"strings"

	"scicomp-hub/internal/core/auth"
	"scicomp-hub/internal/domain"
	"scicomp-hub/pkg/utils"
)

// UserAdminService covers the admin plane: provisioning, role changes,
// activation toggles and deletion. Every method checks the actor role
// before touching any record.
type UserAdminService struct {
	users        domain.UserRepository
	competitions domain.CompetitionRepository
}

func NewUserAdminService(users domain.UserRepository, competitions domain.CompetitionRepository) *UserAdminService {
	return &UserAdminService{users: users, competitions: competitions}
}

type ProvisionInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
}

func (s *UserAdminService) Provision(ctx context.Context, actor *domain.User, in ProvisionInput) (*domain.User, error) {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, domain.Validation("email", "email is required")
	}
	if len(in.Password) < 8 {
		return nil, domain.Validation("password", "must be at least 8 characters")
	}
	if !in.Role.Valid() {
		return nil, domain.Validation("role", "must be creator or admin")
	}
	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.Conflict("email already registered")
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: auth.HashPassword(in.Password),
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if isDupKey(err) {
			return nil, domain.Conflict("email already registered")
		}
		return nil, err
	}
	return u, nil
}

func (s *UserAdminService) ChangeRole(ctx context.Context, actor *domain.User, id string, role domain.Role) (*domain.User, error) {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, domain.Validation("role", "must be creator or admin")
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	u.Role = role
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetActive deactivates or reactivates an account. Deactivation invalidates
// outstanding tokens on their next use, since the guard re-reads the row.
func (s *UserAdminService) SetActive(ctx context.Context, actor *domain.User, id string, active bool) (*domain.User, error) {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	u.IsActive = active
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes an account. Blocked while the user still owns
// competitions; the admin must delete or reassign those first. Deactivation
// is the soft path and is always available.
func (s *UserAdminService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return err
	}
	owned, err := s.competitions.CountByOwner(ctx, id)
	if err != nil {
		return err
	}
	if owned > 0 {
		return domain.Conflict("user still owns competitions")
	}
	ok, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("user not found")
	}
	return nil
}

func (s *UserAdminService) List(ctx context.Context, actor *domain.User, q string, page domain.Page) ([]domain.User, int64, error) {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, 0, err
	}
	return s.users.List(ctx, strings.TrimSpace(q), page)
}
