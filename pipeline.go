package fpc

import (
	"github.com/fpcodec/fpc/internal/bitmap"
	"github.com/fpcodec/fpc/internal/front"
	"github.com/fpcodec/fpc/internal/residual"
	"github.com/fpcodec/fpc/rangecoder"
)

// modelBits and modelPeriod are the quasi-static model's default precision
// and rescale cadence (§4.3).
const (
	modelBits   = 16
	modelPeriod = 1024
)

// predict32 evaluates the order-3 Lorenzo predictor over the front buffer's
// seven causal neighbors, in unsigned wraparound arithmetic.
func predict32(r *front.Ring[uint32]) uint32 {
	return r.At(1, 0, 0) - r.At(0, 1, 1) +
		r.At(0, 1, 0) - r.At(1, 0, 1) +
		r.At(0, 0, 1) - r.At(1, 1, 0) +
		r.At(1, 1, 1)
}

func predict64(r *front.Ring[uint64]) uint64 {
	return r.At(1, 0, 0) - r.At(0, 1, 1) +
		r.At(0, 1, 0) - r.At(1, 0, 1) +
		r.At(0, 0, 1) - r.At(1, 1, 0) +
		r.At(1, 1, 1)
}

// encodeField32 codes one field of nx*ny*nz float32 samples.
func encodeField32(enc *rangecoder.Encoder, coder *residual.Coder, nx, ny, nz uint32, samples []float32) {
	ring := front.New[uint32](nx, ny, bitmap.ZeroMapping32)
	ring.Advance(0, 0, 1)

	idx := 0
	for z := uint32(0); z < nz; z++ {
		ring.Advance(0, 1, 0)
		for y := uint32(0); y < ny; y++ {
			ring.Advance(1, 0, 0)
			for x := uint32(0); x < nx; x++ {
				p := predict32(ring)
				a := bitmap.Forward32(samples[idx])
				coder.Encode(enc, uint64(p), uint64(a))
				ring.Push(a)
				idx++
			}
		}
	}
}

// decodeField32 is the mirror of encodeField32.
func decodeField32(dec *rangecoder.Decoder, coder *residual.Coder, nx, ny, nz uint32, out []float32) {
	ring := front.New[uint32](nx, ny, bitmap.ZeroMapping32)
	ring.Advance(0, 0, 1)

	idx := 0
	for z := uint32(0); z < nz; z++ {
		ring.Advance(0, 1, 0)
		for y := uint32(0); y < ny; y++ {
			ring.Advance(1, 0, 0)
			for x := uint32(0); x < nx; x++ {
				p := predict32(ring)
				a := uint32(coder.Decode(dec, uint64(p)))
				out[idx] = bitmap.Inverse32(a)
				ring.Push(a)
				idx++
			}
		}
	}
}

func encodeField64(enc *rangecoder.Encoder, coder *residual.Coder, nx, ny, nz uint32, samples []float64) {
	ring := front.New[uint64](nx, ny, bitmap.ZeroMapping64)
	ring.Advance(0, 0, 1)

	idx := 0
	for z := uint32(0); z < nz; z++ {
		ring.Advance(0, 1, 0)
		for y := uint32(0); y < ny; y++ {
			ring.Advance(1, 0, 0)
			for x := uint32(0); x < nx; x++ {
				p := predict64(ring)
				a := bitmap.Forward64(samples[idx])
				coder.Encode(enc, p, a)
				ring.Push(a)
				idx++
			}
		}
	}
}

func decodeField64(dec *rangecoder.Decoder, coder *residual.Coder, nx, ny, nz uint32, out []float64) {
	ring := front.New[uint64](nx, ny, bitmap.ZeroMapping64)
	ring.Advance(0, 0, 1)

	idx := 0
	for z := uint32(0); z < nz; z++ {
		ring.Advance(0, 1, 0)
		for y := uint32(0); y < ny; y++ {
			ring.Advance(1, 0, 0)
			for x := uint32(0); x < nx; x++ {
				p := predict64(ring)
				a := coder.Decode(dec, p)
				out[idx] = bitmap.Inverse64(a)
				ring.Push(a)
				idx++
			}
		}
	}
}
