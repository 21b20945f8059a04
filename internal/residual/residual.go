// Package residual implements the signed-residual coder: it turns
// actual-minus-predicted into a class symbol (sign plus order of
// magnitude) coded through the adaptive model, followed by the class's raw
// mantissa bits coded uniformly by the range coder. Concentrating the
// model's statistical mass on the class symbol, and only the class symbol,
// is what lets a handful of adaptive frequencies describe an exponential
// residual distribution cheaply.
package residual

import (
	"math/bits"

	"github.com/fpcodec/fpc/internal/qsmodel"
	"github.com/fpcodec/fpc/rangecoder"
)

// Width32 and Width64 select the sample bit-width a Coder operates over.
const (
	Width32 = 32
	Width64 = 64
)

// symbolCount returns the alphabet size S = 2W+1 for a given width.
func symbolCount(width int) int {
	return 2*width + 1
}

// Coder encodes and decodes residuals for one sample width, backed by its
// own adaptive Model. A Coder is exclusively owned by one Encoder or
// Decoder instance.
type Coder struct {
	model *qsmodel.Model
	bias  uint64
	width uint
}

// NewEncoder returns a residual Coder configured for encoding, with the
// given sample width (Width32 or Width64), model precision bits, and
// rescale period. See §4.3 of the codec specification for bits/period.
func NewEncoder(width int, bits uint, period uint32) *Coder {
	return &Coder{
		model: qsmodel.New(symbolCount(width), bits, period, false),
		bias:  uint64(width),
		width: uint(width),
	}
}

// NewDecoder returns a residual Coder configured for decoding.
func NewDecoder(width int, bits uint, period uint32) *Coder {
	return &Coder{
		model: qsmodel.New(symbolCount(width), bits, period, true),
		bias:  uint64(width),
		width: uint(width),
	}
}

// Encode writes the residual between predicted and actual (both mapped,
// order-preserving W-bit unsigned samples) to enc.
func (c *Coder) Encode(enc *rangecoder.Encoder, predicted, actual uint64) {
	switch {
	case predicted == actual:
		c.model.EncodeSymbol(enc, int(c.bias))
	case predicted < actual:
		d := actual - predicted
		k := bits.Len64(d) - 1
		c.model.EncodeSymbol(enc, int(c.bias)+1+k)
		enc.EncodeRaw(d-(uint64(1)<<uint(k)), uint(k))
	default:
		d := predicted - actual
		k := bits.Len64(d) - 1
		c.model.EncodeSymbol(enc, int(c.bias)-1-k)
		enc.EncodeRaw(d-(uint64(1)<<uint(k)), uint(k))
	}
}

// Decode reads one residual from dec and returns the reconstructed actual
// sample, given predicted.
func (c *Coder) Decode(dec *rangecoder.Decoder, predicted uint64) uint64 {
	sym := uint64(c.model.DecodeSymbol(dec))
	switch {
	case sym == c.bias:
		return predicted
	case sym > c.bias:
		k := sym - c.bias - 1
		m := dec.DecodeRaw(uint(k))
		d := (uint64(1) << k) + m
		return predicted + d
	default:
		k := c.bias - sym - 1
		m := dec.DecodeRaw(uint(k))
		d := (uint64(1) << k) + m
		return predicted - d
	}
}
