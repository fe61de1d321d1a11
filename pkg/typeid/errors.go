package typeid

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for type checking
var (
	ErrSeparatorMissing = errors.New("separator missing")
	ErrPrefixMismatch   = errors.New("prefix mismatch")
	ErrUnknownPrefix    = errors.New("unknown prefix")

	ErrInvalidKind     = errors.New("invalid kind")
	ErrDuplicatePrefix = errors.New("prefix already registered by another kind")
	ErrConflictingKind = errors.New("prefix already registered with a different width")
)

// maxQuoted bounds how much of an untrusted input is echoed in messages.
const maxQuoted = 96

// ParseError reports a rejected identifier string. Err is one of the
// prefix, codec or typeid errors and can be matched with errors.Is.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	in := e.Input
	if len(in) > maxQuoted {
		in = in[:maxQuoted] + "..."
	}
	return fmt.Sprintf("typeid: parse %q: %v", in, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MismatchError indicates a well-formed prefix that belongs to another kind.
type MismatchError struct {
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("prefix mismatch: expected %q, got %q", e.Expected, e.Actual)
}

func (e *MismatchError) Unwrap() error {
	return ErrPrefixMismatch
}
