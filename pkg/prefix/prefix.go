package prefix

import (
	"errors"
	"fmt"
)

// MaxLen is the maximum length of a prefix in bytes.
const MaxLen = 63

var (
	// ErrInvalid is wrapped by every prefix validation error.
	ErrInvalid = errors.New("invalid prefix")

	ErrEmpty       = fmt.Errorf("%w: empty", ErrInvalid)
	ErrTooLong     = fmt.Errorf("%w: longer than %d characters", ErrInvalid, MaxLen)
	ErrInvalidChar = fmt.Errorf("%w: only lowercase ascii letters are allowed", ErrInvalid)
)

// Error describes why a candidate prefix was rejected.
type Error struct {
	Input string
	Pos   int // offending byte position, -1 when not applicable
	Err   error
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("prefix %q: %v (byte %q at %d)", e.Input, e.Err, e.Input[e.Pos], e.Pos)
	}
	return fmt.Sprintf("prefix %q: %v", e.Input, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Prefix is a validated identifier prefix. The zero value is not valid;
// obtain one through Parse or MustParse.
type Prefix struct {
	s string
}

// Parse validates s and returns it as a Prefix.
func Parse(s string) (Prefix, error) {
	if s == "" {
		return Prefix{}, &Error{Input: s, Pos: -1, Err: ErrEmpty}
	}
	if len(s) > MaxLen {
		return Prefix{}, &Error{Input: s, Pos: -1, Err: ErrTooLong}
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 'a' || c > 'z' {
			return Prefix{}, &Error{Input: s, Pos: i, Err: ErrInvalidChar}
		}
	}
	return Prefix{s: s}, nil
}

// MustParse is like Parse but panics on an invalid prefix.
func MustParse(s string) Prefix {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Valid reports whether s is a valid prefix.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func (p Prefix) String() string {
	return p.s
}

// IsZero reports whether p was not produced by Parse.
func (p Prefix) IsZero() bool {
	return p.s == ""
}
