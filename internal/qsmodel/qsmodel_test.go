package qsmodel

import (
	"bytes"
	"testing"

	"github.com/fpcodec/fpc/internal/byteio"
	"github.com/fpcodec/fpc/rangecoder"
)

func checkInvariants(t *testing.T, m *Model) {
	t.Helper()
	if m.cumf[0] != 0 {
		t.Fatalf("cumf[0] = %d, want 0", m.cumf[0])
	}
	for i := 0; i < m.nsym; i++ {
		if m.symf[i] < 1 {
			t.Fatalf("symf[%d] = %d, want >= 1", i, m.symf[i])
		}
		if m.cumf[i+1] < m.cumf[i] {
			t.Fatalf("cumf not nondecreasing at %d: %d then %d", i, m.cumf[i], m.cumf[i+1])
		}
	}
}

func TestInvariantsHoldAtRescaleBoundaries(t *testing.T) {
	const nsym = 65
	m := New(nsym, 16, 64, false)
	checkInvariants(t, m)

	left := m.left
	for i := 0; i < 20000; i++ {
		sym := (i * 7) % nsym
		m.bump(sym)
		left--
		if left == 0 {
			if m.Total() != m.total {
				t.Fatalf("iteration %d: total=%d at rescale boundary, want %d", i, m.Total(), m.total)
			}
			left = m.left
		}
		checkInvariants(t, m)
	}
}

func TestEncodeDecodeSymbolRoundTrip(t *testing.T) {
	const nsym = 65
	syms := make([]int, 0, 4000)
	for i := 0; i < 4000; i++ {
		// Skewed distribution: symbol 32 (the "exact prediction" slot in the
		// residual coder) dominates, like real smooth-field residuals.
		switch {
		case i%3 == 0:
			syms = append(syms, 32)
		case i%5 == 0:
			syms = append(syms, 31)
		default:
			syms = append(syms, i%nsym)
		}
	}

	buf := new(bytes.Buffer)
	enc := rangecoder.NewEncoder(byteio.NewWriter(buf))
	encModel := New(nsym, 16, 1024, false)
	for _, s := range syms {
		encModel.EncodeSymbol(enc, s)
	}
	if err := enc.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	dec := rangecoder.NewDecoder(byteio.NewReader(bytes.NewReader(buf.Bytes())))
	decModel := New(nsym, 16, 1024, true)
	for i, want := range syms {
		got := decModel.DecodeSymbol(dec)
		if got != want {
			t.Fatalf("symbol %d: got %d, want %d", i, got, want)
		}
	}
}
