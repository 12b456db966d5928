package comm

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type testStream struct {
	io.Reader
	bytes.Buffer
}

func (s *testStream) Read(p []byte) (int, error) {
	return s.Reader.Read(p)
}

func (s *testStream) Write(p []byte) (int, error) {
	return s.Buffer.Write(p)
}

func collectChunks(l *Link) (chunks []string) {
	for {
		chunk, ok := l.NextChunk()
		if !ok {
			return
		}
		chunks = append(chunks, string(chunk))
	}
}

func TestLinkSplit(t *testing.T) {
	testCases := []struct {
		name   string
		in     string
		max    int
		expect []string
	}{
		{"terminated", msgMotors + "G", 0, []string{msgMotors}},
		{"unterminated", msgMotors, 0, []string{msgMotors}},
		{"multiple", msgMotors + "G" + msgEnd + "\n\r" + msgReverse + "G", 0,
			[]string{msgMotors, msgEnd, msgReverse}},
		{"empty chunks", "GG\r\n" + msgEnd + "GG", 0, []string{msgEnd}},
		{"concatenated", msgMotors + msgEnd + "G", 0, []string{msgMotors + msgEnd}},
		{"capped", strings.Repeat("0", 20) + "G", 8, []string{"00000000", "00000000", "0000"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLink("test", &testStream{Reader: strings.NewReader(tc.in)})
			if tc.max > 0 {
				l.MaxChunk = tc.max
			}
			err := l.Run(context.Background())
			require.Equal(t, io.EOF, err)
			require.Equal(t, tc.expect, collectChunks(l))
		})
	}
}

func TestLinkDecode(t *testing.T) {
	in := msgForeign + "G" + msgMotors + "G" + msgEnd + "G"
	l := NewLink("test", &testStream{Reader: strings.NewReader(in)})
	require.Equal(t, io.EOF, l.Run(context.Background()))

	d := NewDecoder(testID)
	var cmds []CommandType
	for i := 0; i < 8; i++ {
		if r := d.Decode(l); r.Decoded {
			cmds = append(cmds, r.Command.Type)
		}
	}
	require.Equal(t, []CommandType{CommandMotors, CommandEnd}, cmds)
}

func TestLinkWriteLine(t *testing.T) {
	s := &testStream{Reader: strings.NewReader("")}
	l := NewLink("test", s)
	require.Equal(t, "test", l.Name())
	require.NoError(t, l.WriteLine("1"))
	require.NoError(t, l.WriteLine("10, 12, -2, 500, 500, 80"))
	require.Equal(t, "1\n\r10, 12, -2, 500, 500, 80\n\r", s.Buffer.String())
}

func TestLinkCancel(t *testing.T) {
	r, w := io.Pipe()
	l := NewLink("test", &testStream{Reader: r})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Run(ctx)
	}()
	_, err := w.Write([]byte(msgEnd + "G"))
	require.NoError(t, err)
	chunk := <-l.Chunks()
	require.Equal(t, msgEnd, string(chunk))
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}
