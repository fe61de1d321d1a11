package generator

import (
	"fmt"
	"sort"

	"github.com/weiawesome/prefixid/pkg/payload"
	"github.com/weiawesome/prefixid/pkg/typeid"
)

// Generator issues identifiers of one kind from one payload source.
type Generator interface {
	Spec() typeid.Spec
	Source() string
	Generate() (typeid.Any, error)
	GenerateBatch(count int) ([]typeid.Any, error)
	// Describe returns the fields embedded in id's payload, or nil when the
	// source produces unstructured payloads.
	Describe(id typeid.Any) *payload.Details
}

// Kind declares a kind to serve and the source its payloads come from.
type Kind struct {
	Prefix string
	Width  int
	Source string
}

type kindGenerator struct {
	registry *typeid.Registry
	spec     typeid.Spec
	src      payload.Source
}

func (g *kindGenerator) Spec() typeid.Spec {
	return g.spec
}

func (g *kindGenerator) Source() string {
	return g.src.Name()
}

func (g *kindGenerator) Generate() (typeid.Any, error) {
	id, err := g.registry.NewFrom(g.spec.Prefix.String(), g.src)
	if err != nil {
		return typeid.Any{}, fmt.Errorf("failed to generate %s id: %w", g.spec.Prefix, err)
	}
	return id, nil
}

func (g *kindGenerator) GenerateBatch(count int) ([]typeid.Any, error) {
	ids := make([]typeid.Any, 0, count)
	for i := 0; i < count; i++ {
		id, err := g.Generate()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (g *kindGenerator) Describe(id typeid.Any) *payload.Details {
	return Describe(g.src, id)
}

// Describe asks src for the fields embedded in id's payload.
func Describe(src payload.Source, id typeid.Any) *payload.Details {
	d, ok := src.(payload.Describer)
	if !ok {
		return nil
	}
	details, err := d.Describe(id.Bytes())
	if err != nil {
		return nil
	}
	return &details
}

// Set holds the generators of every served kind.
type Set struct {
	registry   *typeid.Registry
	generators map[string]Generator
}

// NewSet registers each kind in registry and binds it to its source.
func NewSet(registry *typeid.Registry, sources Sources, kinds []Kind) (*Set, error) {
	s := &Set{
		registry:   registry,
		generators: make(map[string]Generator, len(kinds)),
	}
	for _, k := range kinds {
		spec, err := typeid.NewSpec(k.Prefix, k.Width)
		if err != nil {
			return nil, err
		}
		src, err := sources.Get(k.Source)
		if err != nil {
			return nil, fmt.Errorf("kind %s: %w", spec, err)
		}
		if !payload.Supports(src, spec.Width) {
			return nil, fmt.Errorf("kind %s: %w: %s", spec, payload.ErrWidthUnsupported, src.Name())
		}
		if err := registry.Register(spec); err != nil {
			return nil, err
		}
		s.generators[k.Prefix] = &kindGenerator{registry: registry, spec: spec, src: src}
	}
	return s, nil
}

// Registry returns the registry the set's kinds live in.
func (s *Set) Registry() *typeid.Registry {
	return s.registry
}

// Get returns the generator for prefix p.
func (s *Set) Get(p string) (Generator, bool) {
	g, ok := s.generators[p]
	return g, ok
}

// List returns all generators ordered by prefix.
func (s *Set) List() []Generator {
	list := make([]Generator, 0, len(s.generators))
	for _, g := range s.generators {
		list = append(list, g)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Spec().Prefix.String() < list[j].Spec().Prefix.String()
	})
	return list
}
