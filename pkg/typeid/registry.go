package typeid

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/weiawesome/prefixid/pkg/codec"
	"github.com/weiawesome/prefixid/pkg/payload"
)

// Registry maps prefixes to kinds. It guarantees that a prefix always
// denotes one payload width and at most one Go kind type, so text that only
// carries the prefix cannot be confused between kinds.
//
// Kinds declared as Go types land in the default registry on first use.
// Kinds known only at runtime (for example from configuration) are added
// with Register. A Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]registration
}

type registration struct {
	spec  Spec
	owner reflect.Type // nil for kinds registered at runtime
}

var defaultRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]registration)}
}

// Default returns the process-wide registry that Go kind types register with.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a runtime kind. Registering the same spec again is a no-op;
// registering its prefix with a different width fails with ErrConflictingKind.
func (r *Registry) Register(spec Spec) error {
	return r.claim(spec, nil)
}

// claim registers spec, optionally on behalf of a Go kind type.
func (r *Registry) claim(spec Spec, owner reflect.Type) error {
	if err := spec.validate(); err != nil {
		return err
	}
	key := spec.Prefix.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.kinds[key]
	if !ok {
		r.kinds[key] = registration{spec: spec, owner: owner}
		return nil
	}
	if cur.spec.Width != spec.Width {
		return fmt.Errorf("%w: %q is %d bytes, not %d", ErrConflictingKind, key, cur.spec.Width, spec.Width)
	}
	switch {
	case owner == nil || cur.owner == owner:
		return nil
	case cur.owner == nil:
		cur.owner = owner
		r.kinds[key] = cur
		return nil
	default:
		return fmt.Errorf("%w: %q is owned by %s, cannot register %s", ErrDuplicatePrefix, key, cur.owner, owner)
	}
}

// Lookup returns the spec registered for prefix p.
func (r *Registry) Lookup(p string) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.kinds[p]
	return reg.spec, ok
}

// Specs returns a snapshot of all registered kinds ordered by prefix.
func (r *Registry) Specs() []Spec {
	r.mu.RLock()
	specs := make([]Spec, 0, len(r.kinds))
	for _, reg := range r.kinds {
		specs = append(specs, reg.spec)
	}
	r.mu.RUnlock()

	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Prefix.String() < specs[j].Prefix.String()
	})
	return specs
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.kinds)
}

// Parse parses s as an identifier of any registered kind.
func (r *Registry) Parse(s string) (Any, error) {
	p, rest, err := split(s)
	if err != nil {
		return Any{}, &ParseError{Input: s, Err: err}
	}
	spec, ok := r.Lookup(p.String())
	if !ok {
		return Any{}, &ParseError{Input: s, Err: fmt.Errorf("%w: %q", ErrUnknownPrefix, p)}
	}
	b, err := codec.Decode(rest, spec.Width)
	if err != nil {
		return Any{}, &ParseError{Input: s, Err: err}
	}
	return Any{prefix: spec.Prefix, payload: string(b)}, nil
}

// ParseKind parses s as an identifier of the kind registered under p. It
// checks the same things in the same order as Parse does for a Go kind.
func (r *Registry) ParseKind(p, s string) (Any, error) {
	spec, ok := r.Lookup(p)
	if !ok {
		return Any{}, &ParseError{Input: s, Err: fmt.Errorf("%w: %q", ErrUnknownPrefix, p)}
	}
	b, err := parseSpec(spec, s)
	if err != nil {
		return Any{}, err
	}
	return Any{prefix: spec.Prefix, payload: string(b)}, nil
}

// New generates a random identifier of the kind registered under p.
func (r *Registry) New(p string) (Any, error) {
	return r.NewFrom(p, payload.Random)
}

// NewFrom generates an identifier of the kind registered under p with
// a payload drawn from src.
func (r *Registry) NewFrom(p string, src payload.Source) (Any, error) {
	spec, ok := r.Lookup(p)
	if !ok {
		return Any{}, fmt.Errorf("%w: %q", ErrUnknownPrefix, p)
	}
	b, err := src.Read(spec.Width)
	if err != nil {
		return Any{}, err
	}
	if len(b) != spec.Width {
		return Any{}, fmt.Errorf("source %s returned %d bytes, want %d", src.Name(), len(b), spec.Width)
	}
	return Any{prefix: spec.Prefix, payload: string(b)}, nil
}
