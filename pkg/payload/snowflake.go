package payload

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	timestampBits = 41
	machineIDBits = 10
	sequenceBits  = 12

	MaxMachineID = (1 << machineIDBits) - 1 // 1023
	maxSequence  = (1 << sequenceBits) - 1   // 4095

	machineIDShift = sequenceBits
	timestampShift = sequenceBits + machineIDBits
)

var (
	ErrClockMovedBackwards = errors.New("clock moved backwards")
	// ErrClockSkew reports a clock outside the range the timestamp field
	// can hold for the configured epoch.
	ErrClockSkew = errors.New("clock outside snowflake range")
)

// Snowflake produces 8-byte, roughly time-ordered payloads made of a 41-bit
// millisecond timestamp, a 10-bit machine id and a 12-bit sequence.
type Snowflake struct {
	mu        sync.Mutex
	epoch     int64 // custom epoch in ms
	machineID int64
	sequence  int64
	lastTime  int64 // last generation timestamp in ms
	now       func() int64
}

// NewSnowflake creates a Snowflake source.
// machineID must be in range [0, MaxMachineID].
// epoch is the custom epoch in unix milliseconds.
func NewSnowflake(machineID int64, epoch int64) (*Snowflake, error) {
	if machineID < 0 || machineID > MaxMachineID {
		return nil, fmt.Errorf("machine_id must be between 0 and %d, got %d", MaxMachineID, machineID)
	}
	return &Snowflake{
		epoch:     epoch,
		machineID: machineID,
		now:       func() int64 { return time.Now().UnixMilli() },
	}, nil
}

func (g *Snowflake) Name() string {
	return "snowflake"
}

// FixedWidth reports the only payload width a Snowflake produces.
func (g *Snowflake) FixedWidth() int { return 8 }

func (g *Snowflake) Read(width int) ([]byte, error) {
	if err := checkFixed(g.Name(), g.FixedWidth(), width); err != nil {
		return nil, err
	}

	g.mu.Lock()
	n, err := g.nextLocked()
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}

	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(n))
	return b, nil
}

// nextLocked must be called with g.mu held.
func (g *Snowflake) nextLocked() (int64, error) {
	now := g.now()
	ts := now - g.epoch

	if ts < 0 {
		return 0, fmt.Errorf("%w: current time %d is before custom epoch %d", ErrClockSkew, now, g.epoch)
	}
	if ts >= 1<<timestampBits {
		return 0, fmt.Errorf("%w: timestamp exceeds %d bits", ErrClockSkew, timestampBits)
	}

	if now < g.lastTime {
		return 0, fmt.Errorf("%w: current=%d, last=%d", ErrClockMovedBackwards, now, g.lastTime)
	}

	if now == g.lastTime {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			// Sequence exhausted, wait for next millisecond
			for now <= g.lastTime {
				now = g.now()
			}
			ts = now - g.epoch
		}
	} else {
		g.sequence = 0
	}

	g.lastTime = now

	return (ts << timestampShift) | (g.machineID << machineIDShift) | g.sequence, nil
}

// Describe splits a snowflake payload into its fields.
func (g *Snowflake) Describe(b []byte) (Details, error) {
	if err := checkFixed(g.Name(), 8, len(b)); err != nil {
		return Details{}, err
	}
	n := int64(binary.BigEndian.Uint64(b))
	if n < 0 {
		return Details{}, fmt.Errorf("snowflake must be a positive integer")
	}

	ts := (n >> timestampShift) & ((1 << timestampBits) - 1)
	return Details{
		TimestampMs: ts + g.epoch,
		MachineID:   (n >> machineIDShift) & MaxMachineID,
		Sequence:    n & maxSequence,
	}, nil
}
