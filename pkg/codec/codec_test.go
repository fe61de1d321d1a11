package codec

import (
	"bytes"
	"crypto/rand"
	"errors"
	"sort"
	"strings"
	"testing"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

func TestAlphabet(t *testing.T) {
	if len(Alphabet) != 32 {
		t.Fatalf("alphabet has %d symbols, want 32", len(Alphabet))
	}
	for i := 1; i < len(Alphabet); i++ {
		if Alphabet[i-1] >= Alphabet[i] {
			t.Fatalf("alphabet not strictly ascending at %d", i)
		}
	}
	for _, c := range "ilou" {
		if strings.ContainsRune(Alphabet, c) {
			t.Errorf("alphabet contains confusable %q", c)
		}
	}
}

func TestEncodedLen(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{1, 2},
		{5, 8},
		{8, 13},
		{16, 26},
		{20, 32},
		{32, 52},
	}
	for _, tt := range tests {
		if got := EncodedLen(tt.width); got != tt.want {
			t.Errorf("EncodedLen(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestEncodeVectors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"one zero byte", []byte{0x00}, "00"},
		{"one full byte", []byte{0xff}, "7z"},
		{"bit five", []byte{0x20}, "10"},
		{"five full bytes", bytes.Repeat([]byte{0xff}, 5), "zzzzzzzz"},
		{"eight full bytes", bytes.Repeat([]byte{0xff}, 8), "f" + strings.Repeat("z", 12)},
		{"sixteen zero bytes", make([]byte, 16), strings.Repeat("0", 26)},
		{"sixteen full bytes", bytes.Repeat([]byte{0xff}, 16), "7" + strings.Repeat("z", 25)},
		{"low bit", append(make([]byte, 15), 0x01), strings.Repeat("0", 25) + "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.in)
			if got != tt.want {
				t.Fatalf("Encode(%x) = %q, want %q", tt.in, got, tt.want)
			}
			back, err := Decode(got, len(tt.in))
			if err != nil {
				t.Fatalf("Decode(%q): %v", got, err)
			}
			if !bytes.Equal(back, tt.in) {
				t.Errorf("Decode(%q) = %x, want %x", got, back, tt.in)
			}
		})
	}
}

func TestAppendEncode(t *testing.T) {
	got := AppendEncode([]byte("user_"), []byte{0xff})
	if string(got) != "user_7z" {
		t.Errorf("AppendEncode = %q", got)
	}
}

func TestRoundTripRandom(t *testing.T) {
	for _, width := range []int{1, 2, 3, 4, 5, 7, 8, 16, 20, 33, 64} {
		for i := 0; i < 200; i++ {
			b := make([]byte, width)
			if _, err := rand.Read(b); err != nil {
				t.Fatal(err)
			}
			s := Encode(b)
			if len(s) != EncodedLen(width) {
				t.Fatalf("width %d: len(%q) = %d", width, s, len(s))
			}
			back, err := Decode(s, width)
			if err != nil {
				t.Fatalf("width %d: Decode(%q): %v", width, s, err)
			}
			if !bytes.Equal(back, b) {
				t.Fatalf("width %d: round trip %x -> %q -> %x", width, b, s, back)
			}
		}
	}
}

// Every accepted string must be the canonical encoding of what it decodes to.
func TestCanonicalRandomStrings(t *testing.T) {
	accepted, overflowed := 0, 0
	for i := 0; i < 2000; i++ {
		s, err := gonanoid.Generate(Alphabet, EncodedLen(16))
		if err != nil {
			t.Fatal(err)
		}
		b, err := Decode(s, 16)
		if err != nil {
			if !errors.Is(err, ErrOverflow) {
				t.Fatalf("Decode(%q): unexpected error %v", s, err)
			}
			if s[0] <= '7' {
				t.Fatalf("Decode(%q) overflowed with a leading %q", s, s[0])
			}
			overflowed++
			continue
		}
		if got := Encode(b); got != s {
			t.Fatalf("Encode(Decode(%q)) = %q", s, got)
		}
		accepted++
	}
	if accepted == 0 || overflowed == 0 {
		t.Errorf("expected both outcomes, accepted=%d overflowed=%d", accepted, overflowed)
	}
}

func TestDecodeRejects(t *testing.T) {
	valid := Encode(bytes.Repeat([]byte{0xab}, 16))

	tests := []struct {
		name    string
		input   string
		want    error
		wantPos int
	}{
		{"empty", "", ErrWrongLength, -1},
		{"short", valid[:25], ErrWrongLength, -1},
		{"long", valid + "0", ErrWrongLength, -1},
		{"uppercase", strings.ToUpper(valid[:1]) + "A" + valid[2:], ErrInvalidCharacter, 1},
		{"letter i", valid[:10] + "i" + valid[11:], ErrInvalidCharacter, 10},
		{"letter l", valid[:3] + "l" + valid[4:], ErrInvalidCharacter, 3},
		{"letter o", "o" + valid[1:], ErrInvalidCharacter, 0},
		{"letter u", valid[:25] + "u", ErrInvalidCharacter, 25},
		{"underscore", valid[:5] + "_" + valid[6:], ErrInvalidCharacter, 5},
		{"space", valid[:25] + " ", ErrInvalidCharacter, 25},
		{"multibyte", valid[:24] + "é", ErrInvalidCharacter, 24},
		{"overflow by one", "8" + strings.Repeat("0", 25), ErrOverflow, 0},
		{"overflow max", strings.Repeat("z", 26), ErrOverflow, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Decode(tt.input, 16)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Decode(%q) error = %v, want %v", tt.input, err, tt.want)
			}
			if !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("error does not wrap ErrInvalidPayload")
			}
			if b != nil {
				t.Errorf("Decode(%q) returned bytes alongside an error", tt.input)
			}
			var cerr *Error
			if !errors.As(err, &cerr) {
				t.Fatalf("error is %T, want *Error", err)
			}
			if cerr.Pos != tt.wantPos {
				t.Errorf("pos = %d, want %d", cerr.Pos, tt.wantPos)
			}
		})
	}
}

func TestLargestAccepted(t *testing.T) {
	if !Valid("7"+strings.Repeat("z", 25), 16) {
		t.Error("largest 16-byte encoding rejected")
	}
	if Valid("8"+strings.Repeat("0", 25), 16) {
		t.Error("first value above 128 bits accepted")
	}
}

func TestTextOrderMatchesByteOrder(t *testing.T) {
	payloads := make([][]byte, 300)
	for i := range payloads {
		payloads[i] = make([]byte, 16)
		if _, err := rand.Read(payloads[i]); err != nil {
			t.Fatal(err)
		}
	}
	// Force shared leading bytes so ordering hinges on later positions.
	payloads[1][0], payloads[2][0] = payloads[0][0], payloads[0][0]

	sort.Slice(payloads, func(i, j int) bool { return bytes.Compare(payloads[i], payloads[j]) < 0 })
	for i := 1; i < len(payloads); i++ {
		a, b := Encode(payloads[i-1]), Encode(payloads[i])
		if bytes.Equal(payloads[i-1], payloads[i]) {
			continue
		}
		if a >= b {
			t.Fatalf("text order %q >= %q for ascending payloads", a, b)
		}
	}
}
