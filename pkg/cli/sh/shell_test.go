package sh

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/pisibot/pkg/l0/comm"
)

type testConn struct {
	bytes.Buffer
	writes int
	closed bool
}

func (c *testConn) Write(p []byte) (int, error) {
	c.writes++
	return c.Buffer.Write(p)
}

func (c *testConn) Close() error {
	c.closed = true
	return nil
}

func TestParseValues(t *testing.T) {
	cases := []struct {
		name  string
		args  []string
		names []string
		vals  []int16
		err   string
	}{
		{"decimal", []string{"2000", "-500"}, []string{"MM", "POWER"}, []int16{2000, -500}, ""},
		{"hex", []string{"0x7d0"}, nil, []int16{2000}, ""},
		{"extra", []string{"1", "2", "3"}, []string{"A"}, []int16{1, 2, 3}, ""},
		{"missing", []string{"1"}, []string{"MM", "POWER"}, nil, "POWER required"},
		{"overflow", []string{"40000"}, []string{"MM"}, nil, "invalid MM"},
		{"unnamed", []string{"1", "x"}, []string{"A"}, nil, "invalid argument 2"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			vals, err := ParseValues(c.args, c.names...)
			if c.err != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), c.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.vals, vals)
		})
	}
}

func TestSendRepeats(t *testing.T) {
	var pauses []time.Duration
	conn := &testConn{}
	s := &Shell{
		Config: &Config{Target: 0x45, Repeat: 3, RepeatInterval: 10 * time.Millisecond},
		Conn:   conn,
		Sleep:  func(d time.Duration) { pauses = append(pauses, d) },
	}
	require.NoError(t, s.Send(s.Message(comm.CommandMotors, 300, 300)))
	require.Equal(t, 3, conn.writes)
	require.Equal(t, "000045030712C,12CADG000045030712C,12CADG000045030712C,12CADG", conn.String())
	require.Equal(t, []time.Duration{10 * time.Millisecond, 10 * time.Millisecond}, pauses)
}

func TestSendOnce(t *testing.T) {
	conn := &testConn{}
	s := &Shell{Config: &Config{Target: 0x69}, Conn: conn}
	require.NoError(t, s.Send(s.Message(comm.CommandDrive, 2000, 500)))
	require.Equal(t, "00006901077D0,1F4BBG", conn.String())
}

func TestSendErrors(t *testing.T) {
	s := &Shell{Config: NewConfig()}
	require.Error(t, s.Send(s.Message(comm.CommandEnd, 0)))

	s.Conn = &testConn{}
	require.Equal(t, comm.ErrNoArgs, s.Send(s.Message(comm.CommandEnd)))
}

func TestTargetAndClose(t *testing.T) {
	conn := &testConn{}
	s := &Shell{Config: NewConfig(), Conn: conn}
	s.SetTarget(comm.Broadcast)
	require.Equal(t, byte(0xff), s.Message(comm.CommandEnd).Address)
	s.Close()
	require.True(t, conn.closed)
	require.Nil(t, s.Conn)
}
