package typeid

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/weiawesome/prefixid/pkg/codec"
	"github.com/weiawesome/prefixid/pkg/payload"
	"github.com/weiawesome/prefixid/pkg/prefix"
)

// Kind binds a prefix and a payload width to a Go type. Implementations
// are usually empty structs whose methods return constants:
//
//	type user struct{ typeid.Width16 }
//
//	func (user) Prefix() string { return "user" }
//
// A kind must be a non-pointer, non-interface type, and no two kind types
// may share a prefix within one process.
type Kind interface {
	Prefix() string
	Width() int
}

// DefaultWidth is the payload width of Width16 kinds, matching UUID entropy.
const DefaultWidth = 16

// Width8 can be embedded in a kind for 8-byte payloads.
type Width8 struct{}

func (Width8) Width() int { return 8 }

// Width16 can be embedded in a kind for 16-byte payloads.
type Width16 struct{}

func (Width16) Width() int { return DefaultWidth }

// Width20 can be embedded in a kind for 20-byte payloads.
type Width20 struct{}

func (Width20) Width() int { return 20 }

// Spec is the runtime description of a kind.
type Spec struct {
	Prefix prefix.Prefix
	Width  int
}

// NewSpec validates p and width and returns them as a Spec.
func NewSpec(p string, width int) (Spec, error) {
	pp, err := prefix.Parse(p)
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %w", ErrInvalidKind, err)
	}
	if err := payload.CheckWidth(width); err != nil {
		return Spec{}, fmt.Errorf("%w: %s: %w", ErrInvalidKind, p, err)
	}
	return Spec{Prefix: pp, Width: width}, nil
}

func (s Spec) validate() error {
	if s.Prefix.IsZero() {
		return fmt.Errorf("%w: missing prefix", ErrInvalidKind)
	}
	if err := payload.CheckWidth(s.Width); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidKind, s.Prefix, err)
	}
	return nil
}

// EncodedLen is the length of the full text form, separator included.
func (s Spec) EncodedLen() int {
	return len(s.Prefix.String()) + 1 + codec.EncodedLen(s.Width)
}

func (s Spec) String() string {
	return fmt.Sprintf("%s/%d", s.Prefix, s.Width)
}

type kindResult struct {
	spec Spec
	err  error
}

// kinds caches the resolved Spec of every kind type seen so far.
var kinds sync.Map // map[reflect.Type]kindResult

// SpecOf resolves K, validating it and registering its prefix with the
// default registry on first use.
func SpecOf[K Kind]() (Spec, error) {
	t := reflect.TypeOf((*K)(nil)).Elem()
	if v, ok := kinds.Load(t); ok {
		r := v.(kindResult)
		return r.spec, r.err
	}

	r := resolve[K](t)
	v, _ := kinds.LoadOrStore(t, r)
	r = v.(kindResult)
	return r.spec, r.err
}

func resolve[K Kind](t reflect.Type) kindResult {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		return kindResult{err: fmt.Errorf("%w: %s must not be a %s type", ErrInvalidKind, t, t.Kind())}
	}

	var k K
	spec, err := NewSpec(k.Prefix(), k.Width())
	if err != nil {
		return kindResult{err: fmt.Errorf("%s: %w", t, err)}
	}
	if err := defaultRegistry.claim(spec, t); err != nil {
		return kindResult{err: err}
	}
	return kindResult{spec: spec}
}

// Register resolves K and claims its prefix in the default registry. Calling
// it from package initialisation surfaces misconfigured kinds early; kinds
// are otherwise registered on first use.
func Register[K Kind]() error {
	_, err := SpecOf[K]()
	return err
}

// MustRegister is like Register but panics on error.
func MustRegister[K Kind]() Spec {
	spec, err := SpecOf[K]()
	if err != nil {
		panic(err)
	}
	return spec
}

func mustSpec[K Kind]() Spec {
	return MustRegister[K]()
}
