// Package prefix validates the kind label that leads every identifier.
//
// A prefix is 1 to MaxLen lowercase ASCII letters. Digits, underscores,
// uppercase and non-ASCII bytes are rejected, each with its own error so
// callers can tell an empty prefix from an over-long one or a bad byte:
//
//	p, err := prefix.Parse("user")
//	if errors.Is(err, prefix.ErrInvalid) {
//		// any of ErrEmpty, ErrTooLong, ErrInvalidChar
//	}
package prefix
