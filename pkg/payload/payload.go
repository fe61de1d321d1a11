// Package payload produces the raw bytes carried by identifiers.
//
// Generate draws from the process-wide cryptographic source (crypto/rand),
// which is safe for concurrent use and has no reseeding API. When that
// source fails, Generate reports ErrSourceUnavailable; it never falls back
// to a weaker generator.
//
// The Source implementations in this package let a kind opt into payloads
// with more structure than pure randomness (UUIDs, ULIDs, KSUIDs,
// snowflakes), for callers who want time-sortable identifiers.
package payload

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// MaxWidth is the largest payload width in bytes.
const MaxWidth = 64

var (
	ErrSourceUnavailable = errors.New("secure random source unavailable")
	ErrInvalidWidth      = fmt.Errorf("payload width must be between 1 and %d", MaxWidth)
	ErrWidthUnsupported  = errors.New("payload width not supported by source")
)

// Source produces payloads of a requested width.
type Source interface {
	// Read returns a fresh payload of exactly width bytes.
	Read(width int) ([]byte, error)
	// Name identifies the source in configuration and logs.
	Name() string
}

// Fixed is implemented by sources that produce a single payload width.
type Fixed interface {
	FixedWidth() int
}

// Supports reports whether src can produce payloads of the given width.
func Supports(src Source, width int) bool {
	if f, ok := src.(Fixed); ok {
		return f.FixedWidth() == width
	}
	return CheckWidth(width) == nil
}

// secure backs Generate and is never replaced.
var secure = randomSource{r: rand.Reader}

// Random is the default Source: uniform bytes from crypto/rand.
var Random Source = secure

type randomSource struct {
	r io.Reader
}

func (s randomSource) Read(width int) ([]byte, error) {
	if err := CheckWidth(width); err != nil {
		return nil, err
	}
	b := make([]byte, width)
	if _, err := io.ReadFull(s.r, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return b, nil
}

func (randomSource) Name() string {
	return "random"
}

// Generate returns width bytes from the secure random source.
func Generate(width int) ([]byte, error) {
	return secure.Read(width)
}

// MustGenerate is like Generate but panics if the random source fails.
func MustGenerate(width int) []byte {
	b, err := Generate(width)
	if err != nil {
		panic(err)
	}
	return b
}

// CheckWidth reports whether width is a usable payload width.
func CheckWidth(width int) error {
	if width < 1 || width > MaxWidth {
		return fmt.Errorf("%w, got %d", ErrInvalidWidth, width)
	}
	return nil
}

func checkFixed(name string, want, width int) error {
	if width != want {
		return fmt.Errorf("%w: %s produces %d bytes, got %d", ErrWidthUnsupported, name, want, width)
	}
	return nil
}
