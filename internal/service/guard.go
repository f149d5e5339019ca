package service

import (
	"context"

	"scicomp-hub/internal/core/auth"
	"scicomp-hub/internal/domain"
)

// Guard resolves bearer tokens to live user records. The user row is
// re-read on every request rather than trusted from the token, so role
// changes and deactivations take effect on the next request even while an
// already-issued token is unexpired.
type Guard struct {
	jwt   *auth.JWTer
	users domain.UserRepository
}

func NewGuard(jwt *auth.JWTer, users domain.UserRepository) *Guard {
	return &Guard{jwt: jwt, users: users}
}

// Authenticate validates the token and returns the current user record.
// Every failure mode collapses into a single unauthenticated outcome.
func (g *Guard) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := g.jwt.Parse(token)
	if err != nil {
		return nil, domain.Unauthenticated("invalid token")
	}
	u, err := g.users.FindByID(ctx, claims.UID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, domain.Unauthenticated("invalid token")
	}
	return u, nil
}

func RequireRole(u *domain.User, allowed ...domain.Role) error {
	for _, r := range allowed {
		if u.Role == r {
			return nil
		}
	}
	return domain.Forbidden("insufficient role")
}

func RequireOwnerOrAdmin(u *domain.User, ownerID string) error {
	if u.Role == domain.RoleAdmin || u.ID == ownerID {
		return nil
	}
	return domain.Forbidden("not the owner")
}
