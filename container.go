package fpc

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed size, in bytes, of the container header.
const HeaderSize = 24

// Magic is the 4-byte signature ("fpz\0", little-endian uint32) every FPC
// stream begins with.
const Magic uint32 = 0x007A7066

// CurrentVersion is the only container version this package writes, and the
// highest version it accepts on read. A reader sees an unfamiliar
// (newer-than-this) version as corrupt input rather than silently treating
// it as equivalent to the current one: §9's design notes call out the
// teacher format's "version <= current" check as a latent compatibility
// hazard and this implementation resolves it by rejecting the unknown
// version.
const CurrentVersion uint16 = 1

// SampleType identifies the IEEE width of a stream's samples.
type SampleType uint8

// Supported sample types.
const (
	TypeFloat32 SampleType = 0
	TypeFloat64 SampleType = 1
)

func (t SampleType) String() string {
	switch t {
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	default:
		return fmt.Sprintf("SampleType(%d)", uint8(t))
	}
}

// Header is the fixed 24-byte prefix of an FPC stream.
type Header struct {
	Version        uint16
	Type           SampleType
	NX, NY, NZ, NF uint32
}

// SampleCount returns NX*NY*NZ*NF.
func (h Header) SampleCount() uint64 {
	return uint64(h.NX) * uint64(h.NY) * uint64(h.NZ) * uint64(h.NF)
}

// encode writes the header's 24 bytes in the container's wire format.
func (h Header) encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	buf[6] = byte(h.Type)
	buf[7] = 0 // reserved
	binary.LittleEndian.PutUint32(buf[8:12], h.NX)
	binary.LittleEndian.PutUint32(buf[12:16], h.NY)
	binary.LittleEndian.PutUint32(buf[16:20], h.NZ)
	binary.LittleEndian.PutUint32(buf[20:24], h.NF)
	return buf
}

// ReadHeader parses and validates the 24-byte container header prefix of
// data. It does not touch the coded stream that follows.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: stream shorter than header (%d bytes)", ErrCorruptInput, len(data))
	}

	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != Magic {
		return Header{}, fmt.Errorf("%w: bad magic %#08x", ErrCorruptInput, magic)
	}

	h := Header{
		Version: binary.LittleEndian.Uint16(data[4:6]),
		Type:    SampleType(data[6]),
		NX:      binary.LittleEndian.Uint32(data[8:12]),
		NY:      binary.LittleEndian.Uint32(data[12:16]),
		NZ:      binary.LittleEndian.Uint32(data[16:20]),
		NF:      binary.LittleEndian.Uint32(data[20:24]),
	}

	if h.Version > CurrentVersion || h.Version == 0 {
		return Header{}, fmt.Errorf("%w: unsupported version %d", ErrCorruptInput, h.Version)
	}
	if h.Type != TypeFloat32 && h.Type != TypeFloat64 {
		return Header{}, fmt.Errorf("%w: invalid type byte %d", ErrCorruptInput, h.Type)
	}
	if h.NX == 0 || h.NY == 0 || h.NZ == 0 || h.NF == 0 {
		return Header{}, fmt.Errorf("%w: non-positive dimension (%d,%d,%d,%d)", ErrCorruptInput, h.NX, h.NY, h.NZ, h.NF)
	}

	return h, nil
}
