package typeid

import (
	"strings"

	"github.com/weiawesome/prefixid/pkg/codec"
	"github.com/weiawesome/prefixid/pkg/prefix"
)

// Any is an identifier whose kind is only known at runtime, as produced by
// Registry.Parse. Narrow it to a typed ID with As.
type Any struct {
	prefix  prefix.Prefix
	payload string
}

// Prefix returns the identifier's prefix, or "" for the zero value.
func (a Any) Prefix() string {
	return a.prefix.String()
}

// Width returns the payload width in bytes.
func (a Any) Width() int {
	return len(a.payload)
}

// Spec returns the kind description carried by a.
func (a Any) Spec() Spec {
	return Spec{Prefix: a.prefix, Width: len(a.payload)}
}

// Bytes returns a copy of the payload.
func (a Any) Bytes() []byte {
	if a.payload == "" {
		return nil
	}
	return []byte(a.payload)
}

// String returns the canonical text form, or "" for the zero value.
func (a Any) String() string {
	return format(a.prefix, a.payload)
}

// IsZero reports whether a is the zero value.
func (a Any) IsZero() bool {
	return a.payload == ""
}

// Compare orders identifiers by canonical text.
func (a Any) Compare(b Any) int {
	return strings.Compare(a.String(), b.String())
}

// MarshalText implements encoding.TextMarshaler.
func (a Any) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, resolving the kind
// through the default registry.
func (a *Any) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*a = Any{}
		return nil
	}
	parsed, err := defaultRegistry.Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// As narrows a to an ID of kind K. The zero Any narrows to the zero ID of
// any kind, matching UnmarshalText of empty text.
func As[K Kind](a Any) (ID[K], error) {
	spec, err := SpecOf[K]()
	if err != nil {
		return ID[K]{}, err
	}
	if a.IsZero() {
		return ID[K]{}, nil
	}
	if a.prefix != spec.Prefix {
		return ID[K]{}, &MismatchError{Expected: spec.Prefix.String(), Actual: a.prefix.String()}
	}
	if len(a.payload) != spec.Width {
		return ID[K]{}, &codec.Error{Pos: -1, Want: spec.Width, Got: len(a.payload), Err: codec.ErrWrongLength}
	}
	return ID[K]{payload: a.payload}, nil
}
