package comm

import (
	"github.com/golang/glog"
)

// ChunkSource provides raw chunks read from the transport.
// NextChunk must not block, ok is false when nothing is available.
type ChunkSource interface {
	NextChunk() (chunk []byte, ok bool)
}

// Chunks is a ChunkSource over a fixed list of chunks.
type Chunks [][]byte

// NextChunk implements ChunkSource.
func (c *Chunks) NextChunk() ([]byte, bool) {
	if len(*c) == 0 {
		return nil, false
	}
	chunk := (*c)[0]
	*c = (*c)[1:]
	return chunk, true
}

// DecodeResult is the outcome of a single decode attempt.
// With Decoded false and Err nil there was no data to decode.
type DecodeResult struct {
	Command Command
	Decoded bool
	Err     error
	// Offset is the buffer position of the message the result refers to.
	Offset int
}

// Stats counts decode outcomes.
type Stats struct {
	Chunks            uint64
	Decoded           uint64
	TooShort          uint64
	Truncated         uint64
	NoPreamble        uint64
	AddressMismatch   uint64
	InvalidType       uint64
	ZeroLength        uint64
	Checksum          uint64
	MalformedByte     uint64
	MalformedArgument uint64
	Incomplete        uint64
}

// Rejected is the number of messages skipped for a message level reason.
func (s Stats) Rejected() uint64 {
	return s.AddressMismatch + s.InvalidType + s.ZeroLength + s.Checksum +
		s.MalformedByte + s.MalformedArgument + s.Incomplete
}

// Discarded is the number of buffers cleared for a buffer level reason.
func (s Stats) Discarded() uint64 {
	return s.TooShort + s.Truncated + s.NoPreamble
}

func (s *Stats) record(err error) {
	switch err {
	case nil:
		s.Decoded++
	case ErrTooShort:
		s.TooShort++
	case ErrTruncated:
		s.Truncated++
	case ErrNoPreamble:
		s.NoPreamble++
	case ErrAddressMismatch:
		s.AddressMismatch++
	case ErrInvalidType:
		s.InvalidType++
	case ErrZeroLength:
		s.ZeroLength++
	case ErrChecksum:
		s.Checksum++
	case ErrMalformedByte:
		s.MalformedByte++
	case ErrMalformedArgument:
		s.MalformedArgument++
	case ErrIncomplete:
		s.Incomplete++
	}
}

// Decoder extracts commands addressed to one robot from the radio stream.
// It owns the receive buffer and is not safe for concurrent use.
type Decoder struct {
	ID    byte
	Delim byte

	buf     *Buffer
	scratch [MaxArgs]int16
	stats   Stats
}

// NewDecoder creates a Decoder with a buffer of the default size.
func NewDecoder(id byte) *Decoder {
	return NewDecoderSize(id, DefaultBufferSize)
}

// NewDecoderSize creates a Decoder with specified buffer capacity.
func NewDecoderSize(id byte, capacity int) *Decoder {
	return &Decoder{ID: id, Delim: ArgDelim, buf: NewBuffer(capacity)}
}

// Buffer exposes the receive buffer.
func (d *Decoder) Buffer() *Buffer {
	return d.buf
}

// Stats returns a snapshot of the counters.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// Decode attempts to decode one message. The buffer is refilled from src
// only when everything already received has been scanned, so one chunk
// carrying several messages yields them over consecutive calls.
func (d *Decoder) Decode(src ChunkSource) DecodeResult {
	if !d.buf.Pending() {
		chunk, ok := src.NextChunk()
		if !ok {
			return DecodeResult{}
		}
		d.buf.Fill(chunk)
		d.stats.Chunks++
	}
	r := d.next()
	d.stats.record(r.Err)
	switch {
	case r.Decoded:
		glog.V(2).Infof("decoded %s at %d", r.Command, r.Offset)
	case r.Err == ErrAddressMismatch:
		glog.V(3).Infof("skip message at %d: %v", r.Offset, r.Err)
	default:
		glog.V(2).Infof("reject at %d: %v", r.Offset, r.Err)
	}
	return r
}

// DecodeBytes fills the buffer with data and decodes the first message.
// Messages left in the buffer are decoded by following Decode calls.
func (d *Decoder) DecodeBytes(data []byte) DecodeResult {
	d.buf.Clear()
	src := Chunks{data}
	return d.Decode(&src)
}

func (d *Decoder) next() (r DecodeResult) {
	r.Offset = d.buf.Cursor()
	if r.Err = d.buf.CheckLength(); r.Err != nil {
		d.buf.Clear()
		return
	}
	if r.Err = d.buf.SeekPreamble(); r.Err != nil {
		d.buf.Clear()
		return
	}
	r.Offset = d.buf.Cursor()
	f, err := validateFrame(d.buf.Remaining(), d.ID)
	if err != nil {
		r.Err = err
		d.buf.Advance(HeaderStride)
		return
	}
	n, err := ParseArgs(f.data, d.Delim, d.scratch[:])
	if err != nil {
		r.Err = err
		d.buf.Advance(HeaderStride)
		return
	}
	r.Command = NewCommand(f.typ, d.scratch[:n]...)
	r.Decoded = true
	d.buf.Advance(f.size)
	return
}
