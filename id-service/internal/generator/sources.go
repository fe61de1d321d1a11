package generator

import (
	"errors"
	"fmt"

	"github.com/weiawesome/prefixid/pkg/payload"
)

// ErrUnknownSource is returned for a source name that is not configured.
var ErrUnknownSource = errors.New("unknown payload source")

// Sources maps configuration names to payload sources.
type Sources map[string]payload.Source

// NewSources returns every built-in source. snowflake may be nil, in which
// case kinds cannot use it.
func NewSources(snowflake *payload.Snowflake) Sources {
	s := Sources{}
	for _, src := range []payload.Source{
		payload.Random,
		payload.UUIDv4,
		payload.UUIDv7,
		payload.ULID,
		payload.KSUID,
	} {
		s[src.Name()] = src
	}
	if snowflake != nil {
		s[snowflake.Name()] = snowflake
	}
	return s
}

// Get returns the source registered under name. An empty name selects
// the random source.
func (s Sources) Get(name string) (payload.Source, error) {
	if name == "" {
		name = payload.Random.Name()
	}
	src, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	return src, nil
}
