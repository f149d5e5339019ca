package domain

import (
	"errors"
	"fmt"
)

// Kind classifies every caller-visible failure of the core. Anything not
// wrapped in *Error is treated as an internal storage failure and propagated
// unchanged.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindValidation
	KindInvalidTransition
	KindInvalidOperation
	KindNotFound
	KindConflict
)

type Error struct {
	Kind  Kind
	Msg   string
	Field string // set for validation errors only
	Err   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "error"
}

func (e *Error) Unwrap() error { return e.Err }

func Unauthenticated(msg string) error { return &Error{Kind: KindUnauthenticated, Msg: msg} }
func Forbidden(msg string) error       { return &Error{Kind: KindForbidden, Msg: msg} }
func NotFound(msg string) error        { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) error        { return &Error{Kind: KindConflict, Msg: msg} }

func Validation(field, msg string) error {
	return &Error{Kind: KindValidation, Field: field, Msg: msg}
}

func InvalidTransition(msg string) error { return &Error{Kind: KindInvalidTransition, Msg: msg} }
func InvalidOperation(msg string) error  { return &Error{Kind: KindInvalidOperation, Msg: msg} }

// KindOf returns the classification of err, KindInternal for anything the
// core did not produce itself.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
