package mqtt

import (
	"io"
	"net/url"
	"sync"
)

// Stream bridges a byte stream over two MQTT topics. Payloads received
// on SubTopic are returned by Read, Write publishes to PubTopic.
type Stream struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	sub     *Subscription
	pktCh   chan []byte
	pending []byte
	closeCh chan struct{}
	once    sync.Once
}

// Default stream topics, relative to the topic prefix.
const (
	DefaultStreamSubTopic = "radio/down"
	DefaultStreamPubTopic = "radio/up"
)

// NewStream creates a Stream on a Queue which is not connected yet.
func NewStream(q *Queue, subTopic, pubTopic string) *Stream {
	s := &Stream{
		Queue:    q,
		SubTopic: subTopic,
		PubTopic: pubTopic,
		pktCh:    make(chan []byte, 16),
		closeCh:  make(chan struct{}),
	}
	s.sub = q.Sub(subTopic, Handler(s.handleMsg))
	return s
}

// OpenStream connects to the broker in u and creates the Stream. Topics
// are taken from query parameters "sub" and "pub".
func OpenStream(u *url.URL) (*Stream, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(u.String())
	if err != nil {
		return nil, err
	}
	query := u.Query()
	subTopic, pubTopic := query.Get("sub"), query.Get("pub")
	if subTopic == "" {
		subTopic = DefaultStreamSubTopic
	}
	if pubTopic == "" {
		pubTopic = DefaultStreamPubTopic
	}
	s := NewStream(NewQueue(opts, topicPrefix), subTopic, pubTopic)
	token := s.Queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	return s, nil
}

// Read implements io.Reader.
func (s *Stream) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		select {
		case pkt := <-s.pktCh:
			s.pending = pkt
		case <-s.closeCh:
			return 0, io.EOF
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// Write implements io.Writer.
func (s *Stream) Write(p []byte) (int, error) {
	token := s.Queue.Pub(s.PubTopic, p)
	token.Wait()
	if err := token.Error(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close implements io.Closer.
func (s *Stream) Close() error {
	s.once.Do(func() {
		close(s.closeCh)
		s.sub.Close()
		s.Queue.Close()
	})
	return nil
}

func (s *Stream) handleMsg(_ string, payload []byte) {
	pkt := append([]byte(nil), payload...)
	select {
	case s.pktCh <- pkt:
	case <-s.closeCh:
	}
}
