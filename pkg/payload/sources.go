package payload

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/segmentio/ksuid"
)

var (
	// UUIDv4 produces random RFC 4122 version 4 UUIDs (16 bytes).
	UUIDv4 Source = uuidSource{version: 4}
	// UUIDv7 produces time-ordered version 7 UUIDs (16 bytes).
	UUIDv7 Source = uuidSource{version: 7}
	// ULID produces millisecond-sortable ULIDs (16 bytes).
	ULID Source = ulidSource{}
	// KSUID produces second-sortable KSUIDs (20 bytes).
	KSUID Source = ksuidSource{}
)

type uuidSource struct {
	version int
}

func (s uuidSource) Read(width int) ([]byte, error) {
	if err := checkFixed(s.Name(), s.FixedWidth(), width); err != nil {
		return nil, err
	}
	var (
		id  uuid.UUID
		err error
	)
	if s.version == 7 {
		id, err = uuid.NewV7()
	} else {
		id, err = uuid.NewRandom()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return id[:], nil
}

func (uuidSource) FixedWidth() int { return 16 }

func (s uuidSource) Name() string {
	return fmt.Sprintf("uuidv%d", s.version)
}

type ulidSource struct{}

func (s ulidSource) Read(width int) ([]byte, error) {
	if err := checkFixed(s.Name(), s.FixedWidth(), width); err != nil {
		return nil, err
	}
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return id[:], nil
}

func (ulidSource) FixedWidth() int { return 16 }

func (ulidSource) Name() string {
	return "ulid"
}

type ksuidSource struct{}

func (s ksuidSource) Read(width int) ([]byte, error) {
	if err := checkFixed(s.Name(), s.FixedWidth(), width); err != nil {
		return nil, err
	}
	id, err := ksuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return id.Bytes(), nil
}

func (ksuidSource) FixedWidth() int { return 20 }

func (ksuidSource) Name() string {
	return "ksuid"
}
