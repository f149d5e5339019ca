package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{Unauthenticated("no token"), KindUnauthenticated},
		{Forbidden("admin only"), KindForbidden},
		{NotFound("gone"), KindNotFound},
		{Conflict("duplicate"), KindConflict},
		{Validation("title", "required"), KindValidation},
		{InvalidTransition("not approved"), KindInvalidTransition},
		{InvalidOperation("flags not editable here"), KindInvalidOperation},
		{errors.New("driver: bad connection"), KindInternal},
		{nil, KindInternal},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Fatalf("KindOf(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

// Classification survives fmt.Errorf wrapping in callers.
func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("moderation: %w", NotFound("competition not found"))
	if got := KindOf(err); got != KindNotFound {
		t.Fatalf("KindOf = %v, want KindNotFound", got)
	}
}

func TestErrorMessages(t *testing.T) {
	if got := Validation("deadline", "required").Error(); got != "deadline: required" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := NotFound("competition not found").Error(); got != "competition not found" {
		t.Fatalf("unexpected message %q", got)
	}
}
