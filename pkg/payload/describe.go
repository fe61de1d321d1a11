package payload

import (
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/segmentio/ksuid"
)

// Details holds the fields a structured source embeds in its payloads.
type Details struct {
	TimestampMs int64  `json:"timestamp_ms,omitempty"` // UUIDv7/ULID/KSUID/Snowflake: absolute unix ms
	MachineID   int64  `json:"machine_id,omitempty"`   // Snowflake only
	Sequence    int64  `json:"sequence,omitempty"`     // Snowflake only
	UUIDVersion int    `json:"uuid_version,omitempty"` // UUID only
	UUIDVariant string `json:"uuid_variant,omitempty"` // UUID only
}

// Describer is implemented by sources whose payloads carry structure.
type Describer interface {
	Describe(b []byte) (Details, error)
}

func (s uuidSource) Describe(b []byte) (Details, error) {
	if err := checkFixed(s.Name(), 16, len(b)); err != nil {
		return Details{}, err
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		return Details{}, err
	}

	d := Details{
		UUIDVersion: int(id.Version()),
		UUIDVariant: variantName(id.Variant()),
	}
	if id.Version() == 7 {
		// The leading 48 bits of a version 7 UUID are unix milliseconds.
		d.TimestampMs = int64(binary.BigEndian.Uint64(b[:8]) >> 16)
	}
	return d, nil
}

func variantName(v uuid.Variant) string {
	switch v {
	case uuid.RFC4122:
		return "RFC4122"
	case uuid.Reserved:
		return "Reserved"
	case uuid.Microsoft:
		return "Microsoft"
	case uuid.Future:
		return "Future"
	default:
		return "Unknown"
	}
}

func (s ulidSource) Describe(b []byte) (Details, error) {
	if err := checkFixed(s.Name(), 16, len(b)); err != nil {
		return Details{}, err
	}
	var id ulid.ULID
	copy(id[:], b)
	return Details{TimestampMs: int64(id.Time())}, nil
}

func (s ksuidSource) Describe(b []byte) (Details, error) {
	id, err := ksuid.FromBytes(b)
	if err != nil {
		return Details{}, err
	}
	return Details{TimestampMs: id.Time().UnixMilli()}, nil
}
