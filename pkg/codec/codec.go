// Package codec renders fixed-width payloads as fixed-length base32 text.
//
// The alphabet is lowercase Crockford base32 (no i, l, o or u), kept in
// ascending ASCII order so that for equal widths the text order of two
// encodings matches the byte order of their payloads. A payload is read as
// a big-endian number and left-padded with zero bits up to a multiple of
// five, so a width of w bytes always encodes to EncodedLen(w) characters.
package codec

import (
	"errors"
	"fmt"
)

// Alphabet lists the symbols in value order.
const Alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

const invalid = 0xFF

var decodeMap [256]byte

func init() {
	for i := range decodeMap {
		decodeMap[i] = invalid
	}
	for i := 0; i < len(Alphabet); i++ {
		decodeMap[Alphabet[i]] = byte(i)
	}
}

var (
	// ErrInvalidPayload is wrapped by every decode error.
	ErrInvalidPayload = errors.New("invalid payload")

	ErrInvalidCharacter = fmt.Errorf("%w: character outside alphabet", ErrInvalidPayload)
	ErrWrongLength      = fmt.Errorf("%w: wrong length", ErrInvalidPayload)
	ErrOverflow         = fmt.Errorf("%w: value exceeds payload width", ErrInvalidPayload)
)

// Error describes a rejected payload string.
type Error struct {
	Pos  int // offending position for ErrInvalidCharacter, otherwise -1
	Want int // expected length for ErrWrongLength
	Got  int
	Err  error
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, ErrWrongLength):
		return fmt.Sprintf("%v: want %d, got %d", e.Err, e.Want, e.Got)
	case e.Pos >= 0:
		return fmt.Sprintf("%v at position %d", e.Err, e.Pos)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// EncodedLen returns the number of characters produced for a payload of
// width bytes.
func EncodedLen(width int) int {
	return (width*8 + 4) / 5
}

// Encode returns the canonical text form of b.
func Encode(b []byte) string {
	dst := make([]byte, EncodedLen(len(b)))
	encode(dst, b)
	return string(dst)
}

// AppendEncode appends the canonical text form of b to dst.
func AppendEncode(dst, b []byte) []byte {
	n := len(dst)
	dst = append(dst, make([]byte, EncodedLen(len(b)))...)
	encode(dst[n:], b)
	return dst
}

// encode fills dst from the least significant end of src.
func encode(dst, src []byte) {
	var acc uint32
	bits := 0
	j := len(dst) - 1
	for i := len(src) - 1; i >= 0; i-- {
		acc |= uint32(src[i]) << bits
		bits += 8
		for bits >= 5 {
			dst[j] = Alphabet[acc&31]
			j--
			acc >>= 5
			bits -= 5
		}
	}
	if j >= 0 {
		dst[j] = Alphabet[acc&31]
	}
}

// Decode parses s as the canonical encoding of a width-byte payload.
func Decode(s string, width int) ([]byte, error) {
	if want := EncodedLen(width); len(s) != want {
		return nil, &Error{Pos: -1, Want: want, Got: len(s), Err: ErrWrongLength}
	}
	for i := 0; i < len(s); i++ {
		if decodeMap[s[i]] == invalid {
			return nil, &Error{Pos: i, Err: ErrInvalidCharacter}
		}
	}

	dst := make([]byte, width)
	var acc uint32
	bits := 0
	k := width - 1
	for i := len(s) - 1; i >= 0; i-- {
		acc |= uint32(decodeMap[s[i]]) << bits
		bits += 5
		if bits >= 8 {
			dst[k] = byte(acc)
			k--
			acc >>= 8
			bits -= 8
		}
	}
	// Whatever is left came from the padding bits of the first character.
	if acc != 0 {
		return nil, &Error{Pos: 0, Err: ErrOverflow}
	}
	return dst, nil
}

// Valid reports whether s is a canonical encoding of a width-byte payload.
func Valid(s string, width int) bool {
	_, err := Decode(s, width)
	return err == nil
}
