package fpc

import "errors"

// Sentinel errors for the four-member failure taxonomy. Callers should use
// errors.Is against these; wrapped occurrences (via fmt.Errorf("...: %w"))
// still match.
var (
	// ErrInvalidArgument indicates a programmer error detected before any
	// coding begins: non-positive dimensions, or a sample-count mismatch
	// between the provided buffer and nx*ny*nz*nf.
	ErrInvalidArgument = errors.New("fpc: invalid argument")

	// ErrCorruptInput indicates the container header failed validation:
	// bad magic, an unsupported version, or an invalid type byte.
	ErrCorruptInput = errors.New("fpc: corrupt input")

	// ErrUnexpectedEOF indicates the byte source was exhausted before the
	// expected sample count was produced.
	ErrUnexpectedEOF = errors.New("fpc: unexpected end of stream")

	// ErrTypeMismatch indicates a decode call for one sample width was
	// given a stream whose header declares the other width.
	ErrTypeMismatch = errors.New("fpc: sample type mismatch")
)
