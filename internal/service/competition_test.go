package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scicomp-hub/internal/domain"
)

func TestCreate_ForcesModerationFlags(t *testing.T) {
	t.Parallel()
	users := newFakeUserRepo()
	comps := newFakeCompetitionRepo()
	svc := newCompetitionService(comps)
	owner := newCreator(t, users)

	c, err := svc.Create(t.Context(), owner, validInput())
	require.NoError(t, err)
	require.False(t, c.IsApproved)
	require.True(t, c.IsActive)
	require.False(t, c.IsFeatured)
	require.Empty(t, c.RejectionReason)
	require.Equal(t, owner.ID, c.OwnerID)
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()
	users := newFakeUserRepo()
	svc := newCompetitionService(newFakeCompetitionRepo())
	owner := newCreator(t, users)

	cases := []struct {
		name  string
		setup func(*CompetitionInput)
		field string
	}{
		{"empty title", func(in *CompetitionInput) { in.Title = "   " }, "title"},
		{"bad format", func(in *CompetitionInput) { in.Format = "in-person" }, "format"},
		{"bad scale", func(in *CompetitionInput) { in.Scale = "galactic" }, "scale"},
		{"zero deadline", func(in *CompetitionInput) { in.Deadline = time.Time{} }, "deadline"},
		{"inverted ages", func(in *CompetitionInput) {
			lo, hi := 18, 12
			in.AgeMin, in.AgeMax = &lo, &hi
		}, "age_min"},
		{"zero capacity", func(in *CompetitionInput) { z := 0; in.Capacity = &z }, "capacity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.setup(&in)
			_, err := svc.Create(t.Context(), owner, in)
			require.Equal(t, domain.KindValidation, domain.KindOf(err))
			var de *domain.Error
			require.ErrorAs(t, err, &de)
			require.Equal(t, tc.field, de.Field)
		})
	}
}

func TestUpdate_RejectsModerationFlags(t *testing.T) {
	t.Parallel()
	users := newFakeUserRepo()
	comps := newFakeCompetitionRepo()
	svc := newCompetitionService(comps)
	owner := newCreator(t, users)
	c, err := svc.Create(t.Context(), owner, validInput())
	require.NoError(t, err)

	approved := true
	_, err = svc.Update(t.Context(), owner, c.ID, CompetitionPatch{IsApproved: &approved})
	require.Equal(t, domain.KindInvalidOperation, domain.KindOf(err))

	// Record untouched.
	got, _ := comps.FindByID(t.Context(), c.ID)
	require.False(t, got.IsApproved)
}

func TestUpdate_OwnershipEnforced(t *testing.T) {
	t.Parallel()
	users := newFakeUserRepo()
	comps := newFakeCompetitionRepo()
	svc := newCompetitionService(comps)
	owner := newCreator(t, users)
	other := newCreator(t, users)
	admin := newAdmin(t, users)

	c, err := svc.Create(t.Context(), owner, validInput())
	require.NoError(t, err)

	title := "New title"
	_, err = svc.Update(t.Context(), other, c.ID, CompetitionPatch{Title: &title})
	require.Equal(t, domain.KindForbidden, domain.KindOf(err))

	got, err := svc.Update(t.Context(), admin, c.ID, CompetitionPatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "New title", got.Title)
}

// Editing a rejected competition keeps it rejected; approval state is not
// touched by content edits under the default policy.
func TestUpdate_KeepsModerationState(t *testing.T) {
	t.Parallel()
	users := newFakeUserRepo()
	comps := newFakeCompetitionRepo()
	svc := newCompetitionService(comps)
	mod := newModerationService(comps)
	owner := newCreator(t, users)
	admin := newAdmin(t, users)

	c, err := svc.Create(t.Context(), owner, validInput())
	require.NoError(t, err)
	_, err = mod.Reject(t.Context(), admin, c.ID, "Missing eligibility details")
	require.NoError(t, err)

	intro := "We added the eligibility details."
	got, err := svc.Update(t.Context(), owner, c.ID, CompetitionPatch{Introduction: &intro})
	require.NoError(t, err)
	require.False(t, got.IsApproved)
	require.Equal(t, "Missing eligibility details", got.RejectionReason)
}

func TestUpdate_RevertOnEditPolicy(t *testing.T) {
	t.Parallel()
	users := newFakeUserRepo()
	comps := newFakeCompetitionRepo()
	svc := newCompetitionService(comps)
	svc.RevertOnEdit = true
	mod := newModerationService(comps)
	owner := newCreator(t, users)
	admin := newAdmin(t, users)

	c, err := svc.Create(t.Context(), owner, validInput())
	require.NoError(t, err)
	_, err = mod.Approve(t.Context(), admin, c.ID)
	require.NoError(t, err)
	_, err = mod.Feature(t.Context(), admin, c.ID)
	require.NoError(t, err)

	title := "Edited after approval"
	got, err := svc.Update(t.Context(), owner, c.ID, CompetitionPatch{Title: &title})
	require.NoError(t, err)
	require.False(t, got.IsApproved, "owner edit sends it back to pending")
	require.False(t, got.IsFeatured)

	// Admin edits never revert.
	_, err = mod.Approve(t.Context(), admin, c.ID)
	require.NoError(t, err)
	title2 := "Admin touch-up"
	got, err = svc.Update(t.Context(), admin, c.ID, CompetitionPatch{Title: &title2})
	require.NoError(t, err)
	require.True(t, got.IsApproved)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	users := newFakeUserRepo()
	comps := newFakeCompetitionRepo()
	svc := newCompetitionService(comps)
	owner := newCreator(t, users)
	other := newCreator(t, users)

	c, err := svc.Create(t.Context(), owner, validInput())
	require.NoError(t, err)

	err = svc.Delete(t.Context(), other, c.ID)
	require.Equal(t, domain.KindForbidden, domain.KindOf(err))

	require.NoError(t, svc.Delete(t.Context(), owner, c.ID))
	err = svc.Delete(t.Context(), owner, c.ID)
	require.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestGet_VisibilityRules(t *testing.T) {
	t.Parallel()
	users := newFakeUserRepo()
	comps := newFakeCompetitionRepo()
	svc := newCompetitionService(comps)
	mod := newModerationService(comps)
	owner := newCreator(t, users)
	other := newCreator(t, users)
	admin := newAdmin(t, users)

	c, err := svc.Create(t.Context(), owner, validInput())
	require.NoError(t, err)

	// Pending: hidden from the public and other creators, visible to
	// owner and admin. Hidden is indistinguishable from absent.
	_, err = svc.Get(t.Context(), nil, c.ID)
	require.Equal(t, domain.KindNotFound, domain.KindOf(err))
	_, err = svc.Get(t.Context(), other, c.ID)
	require.Equal(t, domain.KindNotFound, domain.KindOf(err))
	_, err = svc.Get(t.Context(), owner, c.ID)
	require.NoError(t, err)
	_, err = svc.Get(t.Context(), admin, c.ID)
	require.NoError(t, err)

	_, err = mod.Approve(t.Context(), admin, c.ID)
	require.NoError(t, err)
	_, err = svc.Get(t.Context(), nil, c.ID)
	require.NoError(t, err)

	// Deactivation hides it again without losing approval.
	_, err = mod.Deactivate(t.Context(), admin, c.ID)
	require.NoError(t, err)
	_, err = svc.Get(t.Context(), nil, c.ID)
	require.Equal(t, domain.KindNotFound, domain.KindOf(err))
	got, err := svc.Get(t.Context(), owner, c.ID)
	require.NoError(t, err)
	require.True(t, got.IsApproved)
}
