package typeid

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/weiawesome/prefixid/pkg/codec"
	"github.com/weiawesome/prefixid/pkg/payload"
	"github.com/weiawesome/prefixid/pkg/prefix"
)

// Separator joins the prefix and the encoded payload.
const Separator = '_'

// ID is an identifier of kind K. IDs of different kinds are different Go
// types and cannot be mixed up. The zero value has no payload and formats
// as the empty string.
//
// IDs are immutable values; == and map keys compare prefix and payload.
type ID[K Kind] struct {
	payload string
}

// New returns an ID of kind K with a fresh random payload.
func New[K Kind]() (ID[K], error) {
	return NewFrom[K](payload.Random)
}

// Must is like New but panics if the kind is invalid or the secure random
// source fails.
func Must[K Kind]() ID[K] {
	id, err := New[K]()
	if err != nil {
		panic(err)
	}
	return id
}

// NewFrom returns an ID of kind K with a payload drawn from src.
func NewFrom[K Kind](src payload.Source) (ID[K], error) {
	spec, err := SpecOf[K]()
	if err != nil {
		return ID[K]{}, err
	}
	b, err := src.Read(spec.Width)
	if err != nil {
		return ID[K]{}, err
	}
	if len(b) != spec.Width {
		return ID[K]{}, fmt.Errorf("source %s returned %d bytes, want %d", src.Name(), len(b), spec.Width)
	}
	return ID[K]{payload: string(b)}, nil
}

// FromParts builds an ID from components the caller has already validated,
// such as a prefix and payload read back from storage. A prefix or width
// that does not match K is a programming error and panics.
func FromParts[K Kind](p prefix.Prefix, b []byte) ID[K] {
	spec := mustSpec[K]()
	if p != spec.Prefix {
		panic(fmt.Sprintf("typeid: FromParts: prefix %q does not belong to kind %q", p, spec.Prefix))
	}
	if len(b) != spec.Width {
		panic(fmt.Sprintf("typeid: FromParts: %d payload bytes for kind %s", len(b), spec))
	}
	return ID[K]{payload: string(b)}
}

// FromBytes builds an ID of kind K from its raw payload.
func FromBytes[K Kind](b []byte) (ID[K], error) {
	spec, err := SpecOf[K]()
	if err != nil {
		return ID[K]{}, err
	}
	if len(b) != spec.Width {
		return ID[K]{}, &codec.Error{Pos: -1, Want: spec.Width, Got: len(b), Err: codec.ErrWrongLength}
	}
	return ID[K]{payload: string(b)}, nil
}

// FromUint64 builds an ID of an 8-byte kind from a big-endian integer.
func FromUint64[K Kind](n uint64) (ID[K], error) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	return FromBytes[K](b[:])
}

// FromInt64 builds an ID of an 8-byte kind from a big-endian integer.
func FromInt64[K Kind](n int64) (ID[K], error) {
	return FromUint64[K](uint64(n))
}

// Parse parses the canonical text form of an ID of kind K. It accepts
// nothing but the exact output of String: no surrounding whitespace, no
// case folding, no other separator.
func Parse[K Kind](s string) (ID[K], error) {
	spec, err := SpecOf[K]()
	if err != nil {
		return ID[K]{}, &ParseError{Input: s, Err: err}
	}
	b, err := parseSpec(spec, s)
	if err != nil {
		return ID[K]{}, err
	}
	return ID[K]{payload: string(b)}, nil
}

// MustParse is like Parse but panics on error. Use it for constants only.
func MustParse[K Kind](s string) ID[K] {
	id, err := Parse[K](s)
	if err != nil {
		panic(err)
	}
	return id
}

// Valid reports whether s is a canonical ID of kind K.
func Valid[K Kind](s string) bool {
	_, err := Parse[K](s)
	return err == nil
}

// split cuts s at the first separator and validates the prefix.
func split(s string) (prefix.Prefix, string, error) {
	i := strings.IndexByte(s, Separator)
	if i < 0 {
		return prefix.Prefix{}, "", ErrSeparatorMissing
	}
	p, err := prefix.Parse(s[:i])
	if err != nil {
		return prefix.Prefix{}, "", err
	}
	return p, s[i+1:], nil
}

func parseSpec(spec Spec, s string) ([]byte, error) {
	p, rest, err := split(s)
	if err != nil {
		return nil, &ParseError{Input: s, Err: err}
	}
	if p != spec.Prefix {
		return nil, &ParseError{Input: s, Err: &MismatchError{Expected: spec.Prefix.String(), Actual: p.String()}}
	}
	b, err := codec.Decode(rest, spec.Width)
	if err != nil {
		return nil, &ParseError{Input: s, Err: err}
	}
	return b, nil
}

func format(p prefix.Prefix, b string) string {
	if b == "" {
		return ""
	}
	buf := make([]byte, 0, len(p.String())+1+codec.EncodedLen(len(b)))
	buf = append(buf, p.String()...)
	buf = append(buf, Separator)
	buf = codec.AppendEncode(buf, []byte(b))
	return string(buf)
}

// Prefix returns the prefix of kind K.
func (id ID[K]) Prefix() string {
	return mustSpec[K]().Prefix.String()
}

// String returns the canonical text form, or "" for the zero ID.
func (id ID[K]) String() string {
	if id.payload == "" {
		return ""
	}
	return format(mustSpec[K]().Prefix, id.payload)
}

// Bytes returns a copy of the payload. It is nil for the zero ID.
func (id ID[K]) Bytes() []byte {
	if id.payload == "" {
		return nil
	}
	return []byte(id.payload)
}

// IsZero reports whether id is the zero ID.
func (id ID[K]) IsZero() bool {
	return id.payload == ""
}

// Compare orders IDs by their canonical text, returning -1, 0 or +1. For
// IDs of one kind this is the same as comparing payload bytes.
func (id ID[K]) Compare(other ID[K]) int {
	return strings.Compare(id.payload, other.payload)
}

// Uint64 returns the payload of an 8-byte kind as a big-endian integer.
func (id ID[K]) Uint64() (uint64, error) {
	if len(id.payload) != 8 {
		return 0, fmt.Errorf("typeid: %d-byte payload does not fit a 64-bit integer", len(id.payload))
	}
	return binary.BigEndian.Uint64([]byte(id.payload)), nil
}

// Int64 is like Uint64 but reinterprets the payload as a signed integer.
func (id ID[K]) Int64() (int64, error) {
	n, err := id.Uint64()
	return int64(n), err
}

// Any returns id without its static kind.
func (id ID[K]) Any() Any {
	if id.payload == "" {
		return Any{}
	}
	return Any{prefix: mustSpec[K]().Prefix, payload: id.payload}
}

// MarshalText implements encoding.TextMarshaler. The zero ID marshals to
// empty text.
func (id ID[K]) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text yields the
// zero ID; anything else must be a canonical ID of kind K.
func (id *ID[K]) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = ID[K]{}
		return nil
	}
	parsed, err := Parse[K](string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler. Only the payload is
// written; the prefix is implied by K.
func (id ID[K]) MarshalBinary() ([]byte, error) {
	return id.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (id *ID[K]) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		*id = ID[K]{}
		return nil
	}
	parsed, err := FromBytes[K](data)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
