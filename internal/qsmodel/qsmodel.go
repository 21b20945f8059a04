// Package qsmodel implements the quasi-static adaptive probability model
// that sits under the residual coder. Frequencies adapt on every symbol,
// but the cumulative-frequency table and the decoder's coarse search table
// are only rebuilt at rescale epoch boundaries, amortizing the cost of a
// full table rebuild across many symbol codings.
package qsmodel

import "github.com/fpcodec/fpc/rangecoder"

// searchBits is the width of the coarse lookup table's index: the top
// searchBits of a cumulative-frequency query select a lower-bound symbol,
// which DecodeSymbol then refines with a short linear scan.
const searchBits = 7

// Model is an adaptive frequency table for an alphabet of nsym symbols.
// A Model is owned exclusively by one Encoder/Decoder pair; it holds no
// global state and two independent streams use two independent Models.
type Model struct {
	nsym  int
	bits  uint
	total uint32 // target total frequency, 1<<bits
	cumf  []uint32
	symf  []uint32

	incr    uint32
	more    uint32
	rescale uint32
	period  uint32
	left    uint32

	search []uint32 // decoder-only coarse index, len 1<<searchBits + 1
}

// New returns a freshly reset Model for an alphabet of nsym symbols. bits is
// the log2 of the target total frequency (<=16); period is the target
// number of symbols between rescales once the model has warmed up.
// withSearch enables the decoder-side coarse lookup table.
func New(nsym int, bits uint, period uint32, withSearch bool) *Model {
	m := &Model{
		nsym:   nsym,
		bits:   bits,
		total:  uint32(1) << bits,
		period: period,
		cumf:   make([]uint32, nsym+1),
		symf:   make([]uint32, nsym),
	}
	if withSearch && bits >= searchBits {
		m.search = make([]uint32, (1<<searchBits)+1)
	}
	m.Reset()
	return m
}

// Reset restores the model to a uniform distribution, as happens at
// construction. Fields are not reset between coded fields in the codec's
// multi-field pipeline; Reset exists for tests and for callers that need a
// fresh model explicitly.
func (m *Model) Reset() {
	base := m.total / uint32(m.nsym)
	rem := m.total % uint32(m.nsym)
	for i := range m.symf {
		m.symf[i] = base
		if uint32(i) < rem {
			m.symf[i]++
		}
	}
	m.rebuildCumf()
	// Sum already equals the target total, so the first epoch starts with
	// no deficit to distribute; only the rescale cadence needs priming.
	m.incr = 0
	m.more = 0
	m.rescale = initialRescale(m.nsym)
	m.left = m.rescale
	m.rebuildSearch()
}

func initialRescale(nsym int) uint32 {
	r := uint32(nsym >> 4)
	if r < 2 {
		r = 2
	}
	return r
}

func (m *Model) rebuildCumf() {
	var cum uint32
	for i := 0; i < m.nsym; i++ {
		m.cumf[i] = cum
		cum += m.symf[i]
	}
	m.cumf[m.nsym] = cum
}

func (m *Model) rebuildSearch() {
	if m.search == nil {
		return
	}
	step := m.total >> searchBits
	sym := 0
	for i := 0; i <= 1<<searchBits; i++ {
		target := uint32(i) * step
		for sym < m.nsym-1 && m.cumf[sym+1] <= target {
			sym++
		}
		m.search[i] = uint32(sym)
	}
}

// Total returns the model's total frequency (cumf[nsym]). cumf is only
// rebuilt at rescale boundaries, from frequencies whose increments exactly
// pay back the previous rescale's deficit, so it always equals 1<<bits.
func (m *Model) Total() uint32 {
	return m.cumf[m.nsym]
}

// bump applies the current per-occurrence increment to symbol sym's pending
// frequency. cumf is left unchanged until the next rescale.
func (m *Model) bump(sym int) {
	inc := m.incr
	if m.more > 0 {
		inc++
		m.more--
	}
	m.symf[sym] += inc
	m.left--
	if m.left == 0 {
		m.rescaleNow()
	}
}

// rescaleNow rebuilds cumf from the frequencies accumulated over the epoch
// that just ended, then halves every frequency (setting its low bit to keep
// it at least 1) and schedules the increments that will pay back the
// resulting deficit over the next epoch.
func (m *Model) rescaleNow() {
	m.rebuildCumf()
	var sum uint32
	for i := 0; i < m.nsym; i++ {
		m.symf[i] = (m.symf[i] >> 1) | 1
		sum += m.symf[i]
	}

	deficit := m.total - sum
	if m.rescale < m.period {
		m.rescale <<= 1
		if m.rescale > m.period {
			m.rescale = m.period
		}
	}
	m.incr = deficit / m.rescale
	m.more = deficit % m.rescale
	m.left = m.rescale

	m.rebuildSearch()
}

// EncodeSymbol encodes sym through enc and updates the model.
func (m *Model) EncodeSymbol(enc *rangecoder.Encoder, sym int) {
	enc.EncodeSym(m.cumf[sym], m.cumf[sym+1]-m.cumf[sym], m.Total())
	m.bump(sym)
}

// DecodeSymbol decodes one symbol from dec and updates the model.
func (m *Model) DecodeSymbol(dec *rangecoder.Decoder) int {
	total := m.Total()
	f := dec.DecodeFreq(total)

	sym := 0
	if m.search != nil {
		idx := f >> (m.bits - searchBits)
		if int(idx) < len(m.search) {
			sym = int(m.search[idx])
		}
	}
	for sym < m.nsym-1 && m.cumf[sym+1] <= f {
		sym++
	}

	dec.DecodeUpdate(m.cumf[sym], m.cumf[sym+1]-m.cumf[sym])
	m.bump(sym)
	return sym
}
