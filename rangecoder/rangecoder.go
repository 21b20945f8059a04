// Package rangecoder implements the carryless range coder underlying the
// codec: a byte-oriented arithmetic coder whose renormalization step avoids
// explicit carry propagation by "fudging" the range when it shrinks below
// the bottom threshold. The encoder and decoder are exact mirrors of one
// another; their state (low, range, and the decoder's code) is unexported
// and owned exclusively by the instance, per the no-shared-mutable-state
// design of the codec (two streams may be coded concurrently by
// constructing two independent Encoders/Decoders).
package rangecoder

import "github.com/fpcodec/fpc/internal/byteio"

const (
	top = 1 << 24 // 0x0100_0000: once low and low+range agree above this bit, the top byte is fixed and can be emitted.
	bot = 1 << 16 // 0x0001_0000: range must never be renormalized below this; see the "fudge" step.
)

// Encoder is a range encoder writing to a buffered byte sink.
type Encoder struct {
	w     *byteio.Writer
	low   uint32
	rng   uint32
	err   error
}

// NewEncoder returns an Encoder that writes coded bytes to w.
func NewEncoder(w *byteio.Writer) *Encoder {
	return &Encoder{w: w, rng: 0xFFFFFFFF}
}

// normalize shifts out any leading bytes of low that are already fixed,
// either because low and low+range agree on their top byte, or because
// range has shrunk below bot and must be "fudged" back up without emitting
// a carry bit.
func (e *Encoder) normalize() {
	for {
		if (e.low ^ (e.low + e.rng)) < top {
			// Top byte settled; nothing more to decide about it.
		} else if e.rng < bot {
			// Range too small to make further progress; force it open.
			// range = -low & (bot-1) maximally extends [low, low+range)
			// while keeping it inside the previous interval.
			e.rng = (-e.low) & (bot - 1)
		} else {
			break
		}
		if e.err == nil {
			e.err = e.w.WriteByte(byte(e.low >> 24))
		}
		e.low <<= 8
		e.rng <<= 8
	}
}

// EncodeBit encodes a single bit with probability 1/2.
func (e *Encoder) EncodeBit(b int) {
	e.rng >>= 1
	if b != 0 {
		e.low += e.rng
	}
	e.normalize()
}

// EncodeSym encodes a symbol given its cumulative frequency range
// [cumLow, cumLow+freq) out of a total of total. total need not be a power
// of two.
func (e *Encoder) EncodeSym(cumLow, freq, total uint32) {
	e.rng /= total
	e.low += cumLow * e.rng
	e.rng *= freq
	e.normalize()
}

// EncodeRaw encodes the low n bits of v (n <= 64) as a uniformly
// distributed raw integer. Chunks wider than 16 bits are split into 16-bit
// pieces, least-significant first, since the range coder's internal state
// is only guaranteed to hold 16 bits of headroom per step.
func (e *Encoder) EncodeRaw(v uint64, n uint) {
	for n > 16 {
		e.encodeRawChunk(uint32(v&0xFFFF), 16)
		v >>= 16
		n -= 16
	}
	e.encodeRawChunk(uint32(v), n)
}

func (e *Encoder) encodeRawChunk(v uint32, n uint) {
	if n == 0 {
		return
	}
	e.rng >>= n
	e.low += e.rng * v
	e.normalize()
}

// Finish flushes the final 4 bytes needed to uniquely identify the coded
// interval and returns any I/O error encountered during coding.
func (e *Encoder) Finish() error {
	for i := 0; i < 4; i++ {
		if e.err == nil {
			e.err = e.w.WriteByte(byte(e.low >> 24))
		}
		e.low <<= 8
	}
	if e.err == nil {
		e.err = e.w.Flush()
	}
	return e.err
}

// Err returns the first I/O error encountered while writing coded bytes.
func (e *Encoder) Err() error {
	return e.err
}

// Decoder is the mirror of Encoder, reading from a buffered byte source.
type Decoder struct {
	r    *byteio.Reader
	low  uint32
	rng  uint32
	code uint32
}

// NewDecoder returns a Decoder reading coded bytes from r. It consumes the
// first 4 bytes of the stream to prime code.
func NewDecoder(r *byteio.Reader) *Decoder {
	d := &Decoder{r: r, rng: 0xFFFFFFFF}
	for i := 0; i < 4; i++ {
		d.code = d.code<<8 | uint32(r.ReadByte())
	}
	return d
}

func (d *Decoder) normalize() {
	for {
		if (d.low ^ (d.low + d.rng)) < top {
		} else if d.rng < bot {
			d.rng = (-d.low) & (bot - 1)
		} else {
			break
		}
		d.code = d.code<<8 | uint32(d.r.ReadByte())
		d.low <<= 8
		d.rng <<= 8
	}
}

// DecodeBit decodes a single bit with probability 1/2.
func (d *Decoder) DecodeBit() int {
	d.rng >>= 1
	b := 0
	if d.code-d.low >= d.rng {
		b = 1
		d.low += d.rng
	}
	d.normalize()
	return b
}

// DecodeFreq divides the current range by total and returns the
// cumulative-frequency value the caller should look up in its model to
// find which symbol interval it falls in. It must be followed by exactly
// one call to DecodeUpdate with the interval the lookup resolved to.
func (d *Decoder) DecodeFreq(total uint32) uint32 {
	d.rng /= total
	f := (d.code - d.low) / d.rng
	if f >= total {
		f = total - 1
	}
	return f
}

// DecodeUpdate consumes the symbol interval [cumLow, cumLow+freq) that a
// prior DecodeFreq call resolved to.
func (d *Decoder) DecodeUpdate(cumLow, freq uint32) {
	d.low += cumLow * d.rng
	d.rng *= freq
	d.normalize()
}

// DecodeRaw decodes n raw bits (n <= 64) previously written by EncodeRaw.
func (d *Decoder) DecodeRaw(n uint) uint64 {
	var v uint64
	var shift uint
	for n > 16 {
		v |= uint64(d.decodeRawChunk(16)) << shift
		shift += 16
		n -= 16
	}
	v |= uint64(d.decodeRawChunk(n)) << shift
	return v
}

func (d *Decoder) decodeRawChunk(n uint) uint32 {
	if n == 0 {
		return 0
	}
	d.rng >>= n
	v := (d.code - d.low) / d.rng
	max := uint32(1) << n
	if v >= max {
		v = max - 1
	}
	d.low += d.rng * v
	d.normalize()
	return v
}

// Eof reports whether the underlying byte source has been exhausted.
func (d *Decoder) Eof() bool {
	return d.r.Eof()
}
