// Package refgen generates the reference test fields used by the trilinear,
// truncation and cross-field scenarios: a linear-congruential noise field reshaped
// by a ninth-power curve, then integrated along each axis in turn so the
// result is smooth enough for the Lorenzo predictor to model well while
// still being fully reproducible from a seed.
package refgen

import "math"

const (
	lcgMul = 1103515245
	lcgAdd = 12345
	lcgMod = 0x7FFFFFFF
)

// Generate returns an nx*ny*nz field (x fastest, then y, then z) seeded from
// a starting LCG state of 1. The first element is offset; every other
// element starts from a PRNG draw before the three axis integrations are
// applied.
func Generate(nx, ny, nz int, offset float64) []float64 {
	n := nx * ny * nz
	field := make([]float64, n)

	seed := uint32(1)
	for i := 1; i < n; i++ {
		seed = (seed*lcgMul + lcgAdd) & lcgMod
		u := float64(seed) * math.Exp2(-31)
		v := 2*u - 1
		field[i] = math.Pow(v, 9)
	}
	field[0] = offset

	idx := func(x, y, z int) int { return x + nx*(y+ny*z) }

	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 1; x < nx; x++ {
				field[idx(x, y, z)] += field[idx(x-1, y, z)]
			}
		}
	}
	for z := 0; z < nz; z++ {
		for x := 0; x < nx; x++ {
			for y := 1; y < ny; y++ {
				field[idx(x, y, z)] += field[idx(x, y-1, z)]
			}
		}
	}
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			for z := 1; z < nz; z++ {
				field[idx(x, y, z)] += field[idx(x, y, z-1)]
			}
		}
	}

	return field
}

// GenerateFloat32 is Generate with the result narrowed to float32, for
// callers exercising the f32 codec path.
func GenerateFloat32(nx, ny, nz int, offset float32) []float32 {
	f64 := Generate(nx, ny, nz, float64(offset))
	out := make([]float32, len(f64))
	for i, v := range f64 {
		out[i] = float32(v)
	}
	return out
}
