package comm

import "bytes"

var preamble = []byte(Preamble)

// Buffer is the fixed-capacity receive buffer scanned message by message.
// The cursor never moves past the fill length.
type Buffer struct {
	data   []byte
	fill   int
	cursor int
}

// NewBuffer creates a Buffer, capacity defaults to DefaultBufferSize.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Cap is the capacity.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Len is the fill length.
func (b *Buffer) Len() int {
	return b.fill
}

// Cursor is the scan position.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// Pending tells if unscanned bytes remain.
func (b *Buffer) Pending() bool {
	return b.cursor < b.fill
}

// Remaining returns the unscanned bytes. It is only valid until the next
// Fill.
func (b *Buffer) Remaining() []byte {
	return b.data[b.cursor:b.fill]
}

// Fill replaces the content with chunk and rewinds the cursor. Bytes beyond
// capacity are dropped, which CheckLength reports as ErrTruncated.
func (b *Buffer) Fill(chunk []byte) int {
	b.fill = copy(b.data, chunk)
	b.cursor = 0
	return b.fill
}

// Clear discards everything.
func (b *Buffer) Clear() {
	b.fill, b.cursor = 0, 0
}

// Advance moves the cursor forward by n bytes, stopping at fill length.
func (b *Buffer) Advance(n int) {
	if n < 0 {
		return
	}
	if b.cursor += n; b.cursor > b.fill {
		b.cursor = b.fill
	}
}

// CheckLength validates the buffer before scanning.
func (b *Buffer) CheckLength() error {
	if b.fill >= len(b.data) {
		return ErrTruncated
	}
	if b.fill-b.cursor < MinMessageLen {
		return ErrTooShort
	}
	return nil
}

// SeekPreamble moves the cursor to the next preamble at or after it.
func (b *Buffer) SeekPreamble() error {
	idx := bytes.Index(b.Remaining(), preamble)
	if idx < 0 {
		return ErrNoPreamble
	}
	b.cursor += idx
	return nil
}
