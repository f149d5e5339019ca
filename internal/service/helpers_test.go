package service

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"scicomp-hub/internal/core/auth"
	"scicomp-hub/internal/domain"
	"scicomp-hub/pkg/utils"
)

func testJWTer() *auth.JWTer {
	return &auth.JWTer{Secret: []byte("test-secret"), Issuer: "scicomp-test", TTL: time.Hour}
}

func newCreator(t *testing.T, users *fakeUserRepo) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        utils.NewID() + "@example.org",
		PasswordHash: auth.HashPassword("s3cret-pass"),
		Name:         "Creator",
		Role:         domain.RoleCreator,
		IsActive:     true,
	}
	if err := users.Create(t.Context(), u); err != nil {
		t.Fatalf("seed creator: %v", err)
	}
	return u
}

func newAdmin(t *testing.T, users *fakeUserRepo) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        utils.NewID() + "@example.org",
		PasswordHash: auth.HashPassword("s3cret-pass"),
		Name:         "Admin",
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := users.Create(t.Context(), u); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return u
}

func validInput() CompetitionInput {
	return CompetitionInput{
		Title:    "Regional Math Olympiad",
		Format:   domain.FormatOnline,
		Scale:    domain.ScaleRegional,
		Deadline: time.Now().Add(30 * 24 * time.Hour),
	}
}

func newCompetitionService(comps *fakeCompetitionRepo) *CompetitionService {
	return NewCompetitionService(comps, nil, nil, zap.NewNop())
}

func newModerationService(comps *fakeCompetitionRepo) *ModerationService {
	return NewModerationService(comps, nil, nil, zap.NewNop())
}
