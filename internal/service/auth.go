package service

import (
	"context"
	"strings"

	"scicomp-hub/internal/core/auth"
	"scicomp-hub/internal/domain"
	"scicomp-hub/pkg/utils"
)

type AuthService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
}

func NewAuthService(users domain.UserRepository, jwt *auth.JWTer) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

type SignupInput struct {
	Email        string
	Password     string
	Name         string
	Organization string
	Phone        string
}

// Signup registers a creator account. The role is forced; admin accounts
// come only from admin provisioning.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, "", domain.Validation("email", "email is required")
	}
	if len(in.Password) < 8 {
		return nil, "", domain.Validation("password", "must be at least 8 characters")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		}
	}

	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, "", err
	} else if existing != nil {
		return nil, "", domain.Conflict("email already registered")
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: auth.HashPassword(in.Password),
		Name:         name,
		Organization: strings.TrimSpace(in.Organization),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         domain.RoleCreator,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// Concurrent signup racing past the pre-check lands on the
		// unique index.
		if isDupKey(err) {
			return nil, "", domain.Conflict("email already registered")
		}
		return nil, "", err
	}

	tok, err := s.jwt.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Login verifies credentials. Unknown email, wrong password and deactivated
// account are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil || !u.IsActive || !auth.CheckPassword(password, u.PasswordHash) {
		return nil, "", domain.Unauthenticated("invalid credentials")
	}
	tok, err := s.jwt.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

type ProfilePatch struct {
	Name         *string
	Organization *string
	Phone        *string
}

func (s *AuthService) UpdateProfile(ctx context.Context, actor *domain.User, patch ProfilePatch) (*domain.User, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.Validation("name", "must not be empty")
		}
		actor.Name = name
	}
	if patch.Organization != nil {
		actor.Organization = strings.TrimSpace(*patch.Organization)
	}
	if patch.Phone != nil {
		actor.Phone = strings.TrimSpace(*patch.Phone)
	}
	if err := s.users.Update(ctx, actor); err != nil {
		return nil, err
	}
	return actor, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, actor *domain.User, oldPw, newPw string) error {
	if !auth.CheckPassword(oldPw, actor.PasswordHash) {
		return domain.Unauthenticated("invalid credentials")
	}
	if len(newPw) < 8 {
		return domain.Validation("new_password", "must be at least 8 characters")
	}
	actor.PasswordHash = auth.HashPassword(newPw)
	return s.users.Update(ctx, actor)
}

func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
