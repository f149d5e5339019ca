package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"scicomp-hub/internal/domain"
)

func TestSignup_ForcesCreatorRole(t *testing.T) {
	t.Parallel()
	users := newFakeUserRepo()
	svc := NewAuthService(users, testJWTer())

	u, tok, err := svc.Signup(t.Context(), SignupInput{
		Email:    "Alice@Example.ORG",
		Password: "hunter2hunter2",
		Name:     "Alice",
	})
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.Equal(t, domain.RoleCreator, u.Role)
	require.Equal(t, "alice@example.org", u.Email, "email stored lowercase")
	require.True(t, u.IsActive)
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	t.Parallel()
	users := newFakeUserRepo()
	svc := NewAuthService(users, testJWTer())

	_, _, err := svc.Signup(t.Context(), SignupInput{Email: "a@b.org", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, _, err = svc.Signup(t.Context(), SignupInput{Email: "A@B.org", Password: "hunter2hunter2"})
	require.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestSignup_ShortPassword(t *testing.T) {
	t.Parallel()
	svc := NewAuthService(newFakeUserRepo(), testJWTer())
	_, _, err := svc.Signup(t.Context(), SignupInput{Email: "a@b.org", Password: "short"})
	require.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestLogin_WrongPasswordAndUnknownEmailIndistinguishable(t *testing.T) {
	t.Parallel()
	users := newFakeUserRepo()
	svc := NewAuthService(users, testJWTer())
	u := newCreator(t, users)

	_, _, errWrongPw := svc.Login(t.Context(), u.Email, "not-the-password")
	_, _, errNoUser := svc.Login(t.Context(), "ghost@example.org", "whatever")

	require.Equal(t, domain.KindUnauthenticated, domain.KindOf(errWrongPw))
	require.Equal(t, domain.KindUnauthenticated, domain.KindOf(errNoUser))
	require.Equal(t, errWrongPw.Error(), errNoUser.Error())
}

func TestLogin_DeactivatedUserRejected(t *testing.T) {
	t.Parallel()
	users := newFakeUserRepo()
	svc := NewAuthService(users, testJWTer())
	u := newCreator(t, users)
	u.IsActive = false
	require.NoError(t, users.Update(t.Context(), u))

	_, _, err := svc.Login(t.Context(), u.Email, "s3cret-pass")
	require.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestChangePassword_RequiresOldPassword(t *testing.T) {
	t.Parallel()
	users := newFakeUserRepo()
	svc := NewAuthService(users, testJWTer())
	u := newCreator(t, users)

	err := svc.ChangePassword(t.Context(), u, "wrong-old", "new-password-123")
	require.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))

	require.NoError(t, svc.ChangePassword(t.Context(), u, "s3cret-pass", "new-password-123"))
	_, _, err = svc.Login(t.Context(), u.Email, "new-password-123")
	require.NoError(t, err)
}
