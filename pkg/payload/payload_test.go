package payload

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sync"
	"testing"
	"time"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy pool closed")
}

func TestGenerateWidths(t *testing.T) {
	for _, width := range []int{1, 8, 16, 20, MaxWidth} {
		b, err := Generate(width)
		if err != nil {
			t.Fatalf("Generate(%d): %v", width, err)
		}
		if len(b) != width {
			t.Errorf("Generate(%d) returned %d bytes", width, len(b))
		}
	}
}

func TestGenerateRejectsBadWidth(t *testing.T) {
	for _, width := range []int{-1, 0, MaxWidth + 1} {
		if _, err := Generate(width); !errors.Is(err, ErrInvalidWidth) {
			t.Errorf("Generate(%d) error = %v, want ErrInvalidWidth", width, err)
		}
	}
}

func TestGenerateFailsWithoutEntropy(t *testing.T) {
	src := randomSource{r: failingReader{}}
	b, err := src.Read(16)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("error = %v, want ErrSourceUnavailable", err)
	}
	if b != nil {
		t.Error("expected no bytes on failure")
	}
}

func TestGenerateNoDuplicates(t *testing.T) {
	const n = 100000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		b := MustGenerate(16)
		if _, dup := seen[string(b)]; dup {
			t.Fatalf("duplicate payload after %d draws", i)
		}
		seen[string(b)] = struct{}{}
	}
}

func TestGenerateConcurrent(t *testing.T) {
	const workers, per = 8, 2000
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, workers*per)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, per)
			for i := 0; i < per; i++ {
				local = append(local, string(MustGenerate(16)))
			}
			mu.Lock()
			defer mu.Unlock()
			for _, s := range local {
				seen[s] = struct{}{}
			}
		}()
	}
	wg.Wait()
	if len(seen) != workers*per {
		t.Errorf("got %d distinct payloads, want %d", len(seen), workers*per)
	}
}

func TestFixedWidthSources(t *testing.T) {
	sf, err := NewSnowflake(7, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		src   Source
		width int
		name  string
	}{
		{UUIDv4, 16, "uuidv4"},
		{UUIDv7, 16, "uuidv7"},
		{ULID, 16, "ulid"},
		{KSUID, 20, "ksuid"},
		{sf, 8, "snowflake"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.src.Name() != tt.name {
				t.Errorf("Name() = %q", tt.src.Name())
			}
			b, err := tt.src.Read(tt.width)
			if err != nil {
				t.Fatalf("Read(%d): %v", tt.width, err)
			}
			if len(b) != tt.width {
				t.Errorf("Read(%d) returned %d bytes", tt.width, len(b))
			}
			if _, err := tt.src.Read(tt.width + 1); !errors.Is(err, ErrWidthUnsupported) {
				t.Errorf("Read(%d) error = %v, want ErrWidthUnsupported", tt.width+1, err)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	start := time.Now().Add(-time.Second).UnixMilli()

	b, err := UUIDv4.Read(16)
	if err != nil {
		t.Fatal(err)
	}
	d, err := UUIDv4.(Describer).Describe(b)
	if err != nil {
		t.Fatal(err)
	}
	if d.UUIDVersion != 4 || d.UUIDVariant != "RFC4122" {
		t.Errorf("uuidv4 details = %+v", d)
	}

	for _, src := range []Source{UUIDv7, ULID, KSUID} {
		width := 16
		if src == KSUID {
			width = 20
		}
		b, err := src.Read(width)
		if err != nil {
			t.Fatal(err)
		}
		d, err := src.(Describer).Describe(b)
		if err != nil {
			t.Fatalf("%s: %v", src.Name(), err)
		}
		// KSUID timestamps have one second resolution.
		if d.TimestampMs < start-1000 || d.TimestampMs > time.Now().UnixMilli()+1000 {
			t.Errorf("%s: timestamp %d out of range", src.Name(), d.TimestampMs)
		}
	}
}

func TestSnowflakeOrderedAndDescribed(t *testing.T) {
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	sf, err := NewSnowflake(42, epoch)
	if err != nil {
		t.Fatal(err)
	}

	var prev []byte
	for i := 0; i < 5000; i++ {
		b, err := sf.Read(8)
		if err != nil {
			t.Fatal(err)
		}
		if prev != nil && bytes.Compare(prev, b) >= 0 {
			t.Fatalf("snowflake payloads not increasing: %x then %x", prev, b)
		}
		prev = b
	}

	d, err := sf.Describe(prev)
	if err != nil {
		t.Fatal(err)
	}
	if d.MachineID != 42 {
		t.Errorf("machine id = %d, want 42", d.MachineID)
	}
	if d.TimestampMs < epoch || d.TimestampMs > time.Now().UnixMilli() {
		t.Errorf("timestamp %d out of range", d.TimestampMs)
	}
}

func TestSnowflakeClockSkew(t *testing.T) {
	sf, err := NewSnowflake(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	clock := int64(10_000)
	sf.now = func() int64 { return clock }

	b, err := sf.Read(8)
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.BigEndian.Uint64(b) >> timestampShift; got != 10_000 {
		t.Errorf("timestamp field = %d", got)
	}

	clock = 9_000
	if _, err := sf.Read(8); !errors.Is(err, ErrClockMovedBackwards) {
		t.Errorf("error = %v, want ErrClockMovedBackwards", err)
	}
}

func TestSnowflakeOutsideEpochRange(t *testing.T) {
	sf, err := NewSnowflake(1, 5_000)
	if err != nil {
		t.Fatal(err)
	}
	for _, clock := range []int64{4_999, 5_000 + 1<<timestampBits} {
		sf.now = func() int64 { return clock }
		if _, err := sf.Read(8); !errors.Is(err, ErrClockSkew) {
			t.Errorf("clock %d: error = %v, want ErrClockSkew", clock, err)
		}
	}
}

func TestNewSnowflakeMachineIDRange(t *testing.T) {
	for _, id := range []int64{-1, MaxMachineID + 1} {
		if _, err := NewSnowflake(id, 0); err == nil {
			t.Errorf("NewSnowflake(%d) succeeded", id)
		}
	}
}

func TestSupports(t *testing.T) {
	sf, err := NewSnowflake(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		src   Source
		width int
		want  bool
	}{
		{Random, 1, true},
		{Random, MaxWidth, true},
		{Random, 0, false},
		{Random, MaxWidth + 1, false},
		{UUIDv4, 16, true},
		{UUIDv7, 8, false},
		{ULID, 16, true},
		{KSUID, 20, true},
		{KSUID, 16, false},
		{sf, 8, true},
		{sf, 16, false},
	}
	for _, tt := range tests {
		if got := Supports(tt.src, tt.width); got != tt.want {
			t.Errorf("Supports(%s, %d) = %v, want %v", tt.src.Name(), tt.width, got, tt.want)
		}
	}
}
