// Package fpc implements a lossless predictive codec for multi-field 3D
// arrays of IEEE-754 float32 or float64 samples. Each sample is mapped to an
// order-preserving unsigned integer, predicted from its causal neighbors by
// an order-3 Lorenzo predictor, and the residual between prediction and
// actual is entropy-coded by a carryless range coder under a quasi-static
// adaptive model. See container.go for the wire format and the rangecoder,
// qsmodel, residual, bitmap, and front packages for the coding stages
// themselves.
package fpc

import (
	"bytes"
	"fmt"

	"github.com/fpcodec/fpc/internal/byteio"
	"github.com/fpcodec/fpc/internal/residual"
	"github.com/fpcodec/fpc/rangecoder"
	"github.com/mewkiz/pkg/errutil"
)

// CompressF32 encodes a multi-field float32 array of shape nx*ny*nz*nf
// (x fastest, then y, then z, then field) into a self-contained FPC stream.
func CompressF32(samples []float32, nx, ny, nz, nf int) ([]byte, error) {
	if err := checkDims(nx, ny, nz, nf); err != nil {
		return nil, err
	}
	fieldLen := nx * ny * nz
	if len(samples) != fieldLen*nf {
		return nil, fmt.Errorf("%w: got %d samples, want %d (%d*%d*%d*%d)",
			ErrInvalidArgument, len(samples), fieldLen*nf, nx, ny, nz, nf)
	}

	h := Header{Version: CurrentVersion, Type: TypeFloat32, NX: uint32(nx), NY: uint32(ny), NZ: uint32(nz), NF: uint32(nf)}

	var buf bytes.Buffer
	buf.Write(h.encode())

	w := byteio.NewWriter(&buf)
	enc := rangecoder.NewEncoder(w)
	coder := residual.NewEncoder(residual.Width32, modelBits, modelPeriod)
	for f := 0; f < nf; f++ {
		field := samples[f*fieldLen : (f+1)*fieldLen]
		encodeField32(enc, coder, uint32(nx), uint32(ny), uint32(nz), field)
	}
	if err := enc.Finish(); err != nil {
		return nil, errutil.Err(err)
	}
	return buf.Bytes(), nil
}

// CompressF64 is CompressF32 for float64 samples.
func CompressF64(samples []float64, nx, ny, nz, nf int) ([]byte, error) {
	if err := checkDims(nx, ny, nz, nf); err != nil {
		return nil, err
	}
	fieldLen := nx * ny * nz
	if len(samples) != fieldLen*nf {
		return nil, fmt.Errorf("%w: got %d samples, want %d (%d*%d*%d*%d)",
			ErrInvalidArgument, len(samples), fieldLen*nf, nx, ny, nz, nf)
	}

	h := Header{Version: CurrentVersion, Type: TypeFloat64, NX: uint32(nx), NY: uint32(ny), NZ: uint32(nz), NF: uint32(nf)}

	var buf bytes.Buffer
	buf.Write(h.encode())

	w := byteio.NewWriter(&buf)
	enc := rangecoder.NewEncoder(w)
	coder := residual.NewEncoder(residual.Width64, modelBits, modelPeriod)
	for f := 0; f < nf; f++ {
		field := samples[f*fieldLen : (f+1)*fieldLen]
		encodeField64(enc, coder, uint32(nx), uint32(ny), uint32(nz), field)
	}
	if err := enc.Finish(); err != nil {
		return nil, errutil.Err(err)
	}
	return buf.Bytes(), nil
}

// DecompressF32 parses data's header and decodes it as a float32 stream.
// The header's declared type must be TypeFloat32.
func DecompressF32(data []byte) ([]float32, Header, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, Header{}, err
	}
	if h.Type != TypeFloat32 {
		return nil, Header{}, fmt.Errorf("%w: stream is %s", ErrTypeMismatch, h.Type)
	}

	fieldLen := int(h.NX) * int(h.NY) * int(h.NZ)
	out := make([]float32, fieldLen*int(h.NF))

	r := byteio.NewReader(bytes.NewReader(data[HeaderSize:]))
	dec := rangecoder.NewDecoder(r)
	coder := residual.NewDecoder(residual.Width32, modelBits, modelPeriod)
	for f := 0; f < int(h.NF); f++ {
		field := out[f*fieldLen : (f+1)*fieldLen]
		decodeField32(dec, coder, h.NX, h.NY, h.NZ, field)
	}
	if r.Eof() {
		return nil, Header{}, fmt.Errorf("%w: stream ended before %d samples were decoded", ErrUnexpectedEOF, len(out))
	}
	return out, h, nil
}

// DecompressF64 is DecompressF32 for float64 streams.
func DecompressF64(data []byte) ([]float64, Header, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, Header{}, err
	}
	if h.Type != TypeFloat64 {
		return nil, Header{}, fmt.Errorf("%w: stream is %s", ErrTypeMismatch, h.Type)
	}

	fieldLen := int(h.NX) * int(h.NY) * int(h.NZ)
	out := make([]float64, fieldLen*int(h.NF))

	r := byteio.NewReader(bytes.NewReader(data[HeaderSize:]))
	dec := rangecoder.NewDecoder(r)
	coder := residual.NewDecoder(residual.Width64, modelBits, modelPeriod)
	for f := 0; f < int(h.NF); f++ {
		field := out[f*fieldLen : (f+1)*fieldLen]
		decodeField64(dec, coder, h.NX, h.NY, h.NZ, field)
	}
	if r.Eof() {
		return nil, Header{}, fmt.Errorf("%w: stream ended before %d samples were decoded", ErrUnexpectedEOF, len(out))
	}
	return out, h, nil
}

func checkDims(nx, ny, nz, nf int) error {
	if nx <= 0 || ny <= 0 || nz <= 0 || nf <= 0 {
		return fmt.Errorf("%w: non-positive dimension (%d,%d,%d,%d)", ErrInvalidArgument, nx, ny, nz, nf)
	}
	return nil
}
