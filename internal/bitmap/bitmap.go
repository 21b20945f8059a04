// Package bitmap implements the order-preserving bijection between IEEE 754
// bit patterns and unsigned integers used by the predictor. Forward and
// Inverse are provided as two concrete instantiations (32- and 64-bit)
// rather than a single generic function, so that the hot predictor path
// monomorphizes per sample width.
package bitmap

import "math"

// Forward32 maps a float32's IEEE bits to an order-preserving uint32. It is a
// total bijection: every bit pattern, including NaN payloads, has a distinct
// image, and a < b under IEEE total order implies Forward32(a) < Forward32(b).
func Forward32(f float32) uint32 {
	r := ^math.Float32bits(f)
	sign := r >> 31
	mask := (-sign) >> 1
	return r ^ mask
}

// Inverse32 is the inverse of Forward32.
func Inverse32(u uint32) float32 {
	sign := u >> 31
	mask := (-sign) >> 1
	r := u ^ mask
	return math.Float32frombits(^r)
}

// Forward64 maps a float64's IEEE bits to an order-preserving uint64.
func Forward64(f float64) uint64 {
	r := ^math.Float64bits(f)
	sign := r >> 63
	mask := (-sign) >> 1
	return r ^ mask
}

// Inverse64 is the inverse of Forward64.
func Inverse64(u uint64) float64 {
	sign := u >> 63
	mask := (-sign) >> 1
	r := u ^ mask
	return math.Float64frombits(^r)
}

// ZeroMapping32 is Forward32(+0), the value unfilled front-buffer neighbor
// slots read as.
var ZeroMapping32 = Forward32(0)

// ZeroMapping64 is Forward64(+0).
var ZeroMapping64 = Forward64(0)
