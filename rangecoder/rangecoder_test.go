package rangecoder

import (
	"bytes"
	"testing"

	"github.com/fpcodec/fpc/internal/byteio"
)

func TestBitRoundTrip(t *testing.T) {
	bits := make([]int, 0, 2000)
	for i := 0; i < 2000; i++ {
		bits = append(bits, i%7%2)
	}

	buf := new(bytes.Buffer)
	enc := NewEncoder(byteio.NewWriter(buf))
	for _, b := range bits {
		enc.EncodeBit(b)
	}
	if err := enc.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	dec := NewDecoder(byteio.NewReader(bytes.NewReader(buf.Bytes())))
	for i, want := range bits {
		got := dec.DecodeBit()
		if got != want {
			t.Fatalf("bit %d: got %d, want %d", i, got, want)
		}
	}
}

func TestSymRoundTrip(t *testing.T) {
	// Skewed 4-symbol alphabet: freqs 50,30,15,5 out of 100.
	cum := []uint32{0, 50, 80, 95, 100}
	freq := []uint32{50, 30, 15, 5}
	const total = 100

	syms := make([]int, 0, 5000)
	for i := 0; i < 5000; i++ {
		syms = append(syms, (i*37+i*i)%4)
	}

	buf := new(bytes.Buffer)
	enc := NewEncoder(byteio.NewWriter(buf))
	for _, s := range syms {
		enc.EncodeSym(cum[s], freq[s], total)
	}
	if err := enc.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	dec := NewDecoder(byteio.NewReader(bytes.NewReader(buf.Bytes())))
	for i, want := range syms {
		f := dec.DecodeFreq(total)
		got := -1
		for s := 0; s < 4; s++ {
			if f >= cum[s] && f < cum[s+1] {
				got = s
				break
			}
		}
		if got == -1 {
			t.Fatalf("sym %d: no symbol found for freq %d", i, f)
		}
		dec.DecodeUpdate(cum[got], freq[got])
		if got != want {
			t.Fatalf("sym %d: got %d, want %d", i, got, want)
		}
	}
}

func TestRawRoundTrip(t *testing.T) {
	type entry struct {
		v uint64
		n uint
	}
	entries := []entry{
		{0, 1}, {1, 1}, {0, 0}, {5, 3}, {0xFFFF, 16}, {0x1FFFF, 17},
		{0xDEADBEEF, 32}, {0x0123456789ABCDEF, 60}, {0xFFFFFFFFFFFFFFFF, 64},
	}

	buf := new(bytes.Buffer)
	enc := NewEncoder(byteio.NewWriter(buf))
	for _, e := range entries {
		enc.EncodeRaw(e.v, e.n)
	}
	if err := enc.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	dec := NewDecoder(byteio.NewReader(bytes.NewReader(buf.Bytes())))
	for i, e := range entries {
		mask := uint64(0)
		if e.n > 0 {
			if e.n == 64 {
				mask = ^uint64(0)
			} else {
				mask = (uint64(1) << e.n) - 1
			}
		}
		got := dec.DecodeRaw(e.n)
		want := e.v & mask
		if got != want {
			t.Fatalf("entry %d: got %#x, want %#x", i, got, want)
		}
	}
}

func TestMixedRoundTrip(t *testing.T) {
	buf := new(bytes.Buffer)
	enc := NewEncoder(byteio.NewWriter(buf))
	enc.EncodeBit(1)
	enc.EncodeSym(0, 3, 4)
	enc.EncodeRaw(42, 10)
	enc.EncodeBit(0)
	enc.EncodeSym(3, 1, 4)
	if err := enc.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	dec := NewDecoder(byteio.NewReader(bytes.NewReader(buf.Bytes())))
	if got := dec.DecodeBit(); got != 1 {
		t.Fatalf("bit1: got %d", got)
	}
	f := dec.DecodeFreq(4)
	if f >= 3 {
		t.Fatalf("sym1 freq out of range: %d", f)
	}
	dec.DecodeUpdate(0, 3)
	if got := dec.DecodeRaw(10); got != 42 {
		t.Fatalf("raw: got %d, want 42", got)
	}
	if got := dec.DecodeBit(); got != 0 {
		t.Fatalf("bit2: got %d", got)
	}
	f = dec.DecodeFreq(4)
	if f < 3 {
		t.Fatalf("sym2 freq out of range: %d", f)
	}
	dec.DecodeUpdate(3, 1)
}

func TestTruncatedStreamIsSticky(t *testing.T) {
	dec := NewDecoder(byteio.NewReader(bytes.NewReader(nil)))
	if !dec.Eof() {
		t.Fatalf("expected Eof after reading from empty stream")
	}
	// Further operations must not panic.
	_ = dec.DecodeBit()
	_ = dec.DecodeRaw(30)
}
