package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"scicomp-hub/internal/domain"
)

func seedCompetition(t *testing.T, users *fakeUserRepo, comps *fakeCompetitionRepo) (*domain.User, *domain.User, *domain.Competition) {
	t.Helper()
	owner := newCreator(t, users)
	admin := newAdmin(t, users)
	c, err := newCompetitionService(comps).Create(t.Context(), owner, validInput())
	require.NoError(t, err)
	return owner, admin, c
}

func TestApprove_ClearsRejectionReason(t *testing.T) {
	t.Parallel()
	users, comps := newFakeUserRepo(), newFakeCompetitionRepo()
	_, admin, c := seedCompetition(t, users, comps)
	mod := newModerationService(comps)

	_, err := mod.Reject(t.Context(), admin, c.ID, "incomplete")
	require.NoError(t, err)

	got, err := mod.Approve(t.Context(), admin, c.ID)
	require.NoError(t, err)
	require.True(t, got.IsApproved)
	require.Empty(t, got.RejectionReason)

	stored, _ := comps.FindByID(t.Context(), c.ID)
	require.True(t, stored.IsApproved)
	require.Empty(t, stored.RejectionReason)
}

func TestReject_RequiresReason(t *testing.T) {
	t.Parallel()
	users, comps := newFakeUserRepo(), newFakeCompetitionRepo()
	_, admin, c := seedCompetition(t, users, comps)
	mod := newModerationService(comps)

	_, err := mod.Reject(t.Context(), admin, c.ID, "   ")
	require.Equal(t, domain.KindValidation, domain.KindOf(err))

	// State unchanged by the failed call.
	stored, _ := comps.FindByID(t.Context(), c.ID)
	require.False(t, stored.IsApproved)
	require.Empty(t, stored.RejectionReason)
}

func TestReject_ClearsFeatured(t *testing.T) {
	t.Parallel()
	users, comps := newFakeUserRepo(), newFakeCompetitionRepo()
	_, admin, c := seedCompetition(t, users, comps)
	mod := newModerationService(comps)

	_, err := mod.Approve(t.Context(), admin, c.ID)
	require.NoError(t, err)
	_, err = mod.Feature(t.Context(), admin, c.ID)
	require.NoError(t, err)

	got, err := mod.Reject(t.Context(), admin, c.ID, "quality issues")
	require.NoError(t, err)
	require.False(t, got.IsFeatured, "reject forces the featured flag off")
	require.False(t, got.IsApproved)
	require.Equal(t, "quality issues", got.RejectionReason)
}

func TestFeature_RequiresApproved(t *testing.T) {
	t.Parallel()
	users, comps := newFakeUserRepo(), newFakeCompetitionRepo()
	_, admin, c := seedCompetition(t, users, comps)
	mod := newModerationService(comps)

	_, err := mod.Feature(t.Context(), admin, c.ID)
	require.Equal(t, domain.KindInvalidTransition, domain.KindOf(err))

	_, err = mod.Approve(t.Context(), admin, c.ID)
	require.NoError(t, err)
	got, err := mod.Feature(t.Context(), admin, c.ID)
	require.NoError(t, err)
	require.True(t, got.IsFeatured)
}

// The featured => approved invariant holds after every transition.
func TestFeaturedImpliesApprovedInvariant(t *testing.T) {
	t.Parallel()
	users, comps := newFakeUserRepo(), newFakeCompetitionRepo()
	_, admin, c := seedCompetition(t, users, comps)
	mod := newModerationService(comps)

	steps := []func() error{
		func() error { _, err := mod.Approve(t.Context(), admin, c.ID); return err },
		func() error { _, err := mod.Feature(t.Context(), admin, c.ID); return err },
		func() error { _, err := mod.Deactivate(t.Context(), admin, c.ID); return err },
		func() error { _, err := mod.Activate(t.Context(), admin, c.ID); return err },
		func() error { _, err := mod.Reject(t.Context(), admin, c.ID, "takedown"); return err },
		func() error { _, err := mod.Unfeature(t.Context(), admin, c.ID); return err },
		func() error { _, err := mod.Approve(t.Context(), admin, c.ID); return err },
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		stored, _ := comps.FindByID(t.Context(), c.ID)
		if stored.IsFeatured {
			require.True(t, stored.IsApproved, "invariant broken after step %d", i)
		}
	}
}

func TestCreatorForbiddenFromAllTransitions(t *testing.T) {
	t.Parallel()
	users, comps := newFakeUserRepo(), newFakeCompetitionRepo()
	owner, _, c := seedCompetition(t, users, comps)
	mod := newModerationService(comps)

	calls := map[string]func() error{
		"approve":    func() error { _, err := mod.Approve(t.Context(), owner, c.ID); return err },
		"reject":     func() error { _, err := mod.Reject(t.Context(), owner, c.ID, "why not"); return err },
		"feature":    func() error { _, err := mod.Feature(t.Context(), owner, c.ID); return err },
		"unfeature":  func() error { _, err := mod.Unfeature(t.Context(), owner, c.ID); return err },
		"activate":   func() error { _, err := mod.Activate(t.Context(), owner, c.ID); return err },
		"deactivate": func() error { _, err := mod.Deactivate(t.Context(), owner, c.ID); return err },
	}
	for name, call := range calls {
		require.Equal(t, domain.KindForbidden, domain.KindOf(call()), "transition %s", name)
	}
}

// Role is checked before the entity is loaded, so a creator probing a random
// id cannot learn whether it exists.
func TestTransition_ForbiddenBeforeNotFound(t *testing.T) {
	t.Parallel()
	users, comps := newFakeUserRepo(), newFakeCompetitionRepo()
	owner, admin, _ := seedCompetition(t, users, comps)
	mod := newModerationService(comps)

	err := func() error { _, err := mod.Approve(t.Context(), owner, "no-such-id"); return err }()
	require.Equal(t, domain.KindForbidden, domain.KindOf(err))

	err = func() error { _, err := mod.Approve(t.Context(), admin, "no-such-id"); return err }()
	require.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestActivateDeactivate_IndependentOfApproval(t *testing.T) {
	t.Parallel()
	users, comps := newFakeUserRepo(), newFakeCompetitionRepo()
	_, admin, c := seedCompetition(t, users, comps)
	mod := newModerationService(comps)

	// Legal while still pending.
	got, err := mod.Deactivate(t.Context(), admin, c.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)
	require.False(t, got.IsApproved)

	got, err = mod.Activate(t.Context(), admin, c.ID)
	require.NoError(t, err)
	require.True(t, got.IsActive)
}
