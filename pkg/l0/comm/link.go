package comm

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/pisibot/pkg/framework"
)

// DefaultTerminators split the received stream into chunks.
var DefaultTerminators = []byte{Terminator, '\n', '\r'}

// Link exchanges text with the radio over a byte stream.
// Received data is split on terminators into chunks which are queued
// for the decoder.
type Link struct {
	ReadWriter  io.ReadWriter
	Terminators []byte
	// MaxChunk caps a chunk, longer runs are split.
	MaxChunk int

	name    string
	chunkCh chan []byte
	lock    sync.Mutex
}

// NewLink creates a Link.
func NewLink(name string, rw io.ReadWriter) *Link {
	return &Link{
		ReadWriter:  rw,
		Terminators: DefaultTerminators,
		MaxChunk:    DefaultBufferSize,
		name:        name,
		chunkCh:     make(chan []byte, 16),
	}
}

// Name implements framework.Named.
func (l *Link) Name() string {
	return l.name
}

// Run implements framework.Runnable.
func (l *Link) Run(ctx context.Context) error {
	if closer, ok := l.ReadWriter.(io.Closer); ok {
		return framework.RunWithContextCloser(ctx, closer, func() error {
			return l.readLoop(ctx)
		})
	}
	// without a way to unblock Read the reader is abandoned on cancel.
	errCh := make(chan error, 1)
	go func() {
		errCh <- l.readLoop(ctx)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NextChunk implements ChunkSource, it doesn't block.
func (l *Link) NextChunk() ([]byte, bool) {
	select {
	case chunk := <-l.chunkCh:
		return chunk, true
	default:
		return nil, false
	}
}

// Chunks exposes received chunks as a channel.
func (l *Link) Chunks() <-chan []byte {
	return l.chunkCh
}

// WriteLine writes s followed by a line break.
func (l *Link) WriteLine(s string) error {
	return l.Write([]byte(s + "\n\r"))
}

// Write writes raw data.
func (l *Link) Write(p []byte) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	_, err := l.ReadWriter.Write(p)
	return err
}

func (l *Link) readLoop(ctx context.Context) error {
	scanner := bufio.NewScanner(l.ReadWriter)
	max := l.MaxChunk
	if max <= 0 {
		max = DefaultBufferSize
	}
	scanner.Buffer(make([]byte, 0, max), max)
	scanner.Split(l.split(max))
	for scanner.Scan() {
		chunk := append([]byte(nil), scanner.Bytes()...)
		select {
		case l.chunkCh <- chunk:
		case <-ctx.Done():
			return ctx.Err()
		default:
			glog.Warningf("Link[%s] queue full, chunk dropped", l.name)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}

// split returns a bufio.SplitFunc which cuts at any terminator, skips empty
// chunks and never returns a chunk longer than max.
func (l *Link) split(max int) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		start := 0
		for start < len(data) && bytes.IndexByte(l.Terminators, data[start]) >= 0 {
			start++
		}
		if pos := bytes.IndexAny(data[start:], string(l.Terminators)); pos >= 0 {
			return start + pos + 1, data[start : start+pos], nil
		}
		if rest := len(data) - start; rest >= max || (atEOF && rest > 0) {
			if rest > max {
				rest = max
			}
			return start + rest, data[start : start+rest], nil
		}
		return start, nil, nil
	}
}
