package bot

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/pisibot/pkg/framework"
	"github.com/robotalks/pisibot/pkg/l0/comm"
	"github.com/robotalks/pisibot/pkg/sim/physics/diffdrive"
)

type testRadio struct {
	bytes.Buffer
}

func (r *testRadio) Read([]byte) (int, error) {
	return 0, io.EOF
}

type testBench struct {
	robot  *Robot
	plant  *diffdrive.Plant
	radio  *testRadio
	chunks comm.Chunks
	loop   *fx.Loop
	clock  *fx.ManualClock
}

func newTestBench(t *testing.T, conf *Config) *testBench {
	b := &testBench{
		plant: diffdrive.New(diffdrive.DefaultConfig()),
		radio: &testRadio{},
		clock: fx.NewManualClock(t0),
	}
	robot, err := conf.NewRobot(b.radio, b.plant, b.plant.LeftEncoder(), b.plant.RightEncoder())
	require.NoError(t, err)
	robot.Source = &b.chunks
	b.robot = robot
	b.loop = fx.NewLoop()
	b.loop.Clock = b.clock
	b.loop.Add(robot, b.plant)
	return b
}

func (b *testBench) send(t *testing.T, msg comm.Message) {
	data, err := msg.Encode()
	require.NoError(t, err)
	b.chunks = append(b.chunks, data)
}

func (b *testBench) run(iterations int) {
	for i := 0; i < iterations; i++ {
		b.loop.RunOnce(context.Background())
		b.clock.Advance(b.robot.Config.Interval)
	}
}

func testConfig() *Config {
	conf := NewConfig()
	conf.Telemetry.MQTTBrokerURL = ""
	return conf
}

func TestRobotDriveMM(t *testing.T) {
	b := newTestBench(t, testConfig())
	b.send(t, comm.Message{Address: DefaultRadioID, Type: comm.CommandDrive, Args: []int16{30, 200}})
	b.run(1)
	require.Equal(t, Running, b.robot.Dispatcher.State())
	l, r := b.plant.Power()
	require.Equal(t, int16(200), l)
	require.Equal(t, int16(200), r)

	b.run(100)
	require.Equal(t, Idle, b.robot.Dispatcher.State())
	l, r = b.plant.Power()
	require.Zero(t, l)
	require.Zero(t, r)
	require.True(t, b.plant.Pose().X > 25)
	require.InDelta(t, 0, b.plant.Pose().Y, 1e-6)
}

func TestRobotWatchdog(t *testing.T) {
	b := newTestBench(t, testConfig())
	b.send(t, comm.Message{Address: comm.Broadcast, Type: comm.CommandMotors, Args: []int16{300, -300}})
	b.run(1)
	l, r := b.plant.Power()
	require.Equal(t, int16(300), l)
	require.Equal(t, int16(-300), r)

	b.run(260)
	require.Equal(t, Idle, b.robot.Dispatcher.State())
	require.Equal(t, uint64(1), b.robot.Dispatcher.WatchdogTrips())
	l, r = b.plant.Power()
	require.Zero(t, l)
	require.Zero(t, r)
}

func TestRobotSkipsForeignMessages(t *testing.T) {
	b := newTestBench(t, testConfig())
	b.send(t, comm.Message{Address: 0x46, Type: comm.CommandMotors, Args: []int16{300, 300}})
	b.run(3)
	require.Equal(t, Idle, b.robot.Dispatcher.State())
	stats := b.robot.Decoder.Stats()
	require.Equal(t, uint64(1), stats.AddressMismatch)
	require.Zero(t, stats.Decoded)
}

func TestRobotOneMessagePerIteration(t *testing.T) {
	b := newTestBench(t, testConfig())
	first, err := (&comm.Message{Address: DefaultRadioID, Type: comm.CommandMotors, Args: []int16{100, 100}}).Encode()
	require.NoError(t, err)
	second, err := (&comm.Message{Address: DefaultRadioID, Type: comm.CommandMotors, Args: []int16{200, -200}}).Encode()
	require.NoError(t, err)
	b.chunks = append(b.chunks, append(first, second...))

	b.run(1)
	cmd := b.robot.Dispatcher.Command()
	require.Equal(t, []int16{100, 100}, cmd.Args())
	b.run(1)
	cmd = b.robot.Dispatcher.Command()
	require.Equal(t, []int16{200, -200}, cmd.Args())
}

func TestRobotDiagnostics(t *testing.T) {
	conf := testConfig()
	conf.Diagnostics = true
	b := newTestBench(t, conf)
	b.run(1)
	require.Equal(t, "1\n\r", b.radio.String())
	b.radio.Reset()

	b.send(t, comm.Message{Address: DefaultRadioID, Type: comm.CommandMotors, Args: []int16{300, -300}})
	b.run(1)
	line := b.radio.String()
	require.True(t, strings.HasPrefix(line, "le: "))
	require.True(t, strings.HasSuffix(line, ", err: 0, pwrl: 300, pwrr: -300, t: 20\n\r"))
	b.radio.Reset()

	// 80ms apart.
	b.run(4)
	require.Equal(t, 1, strings.Count(b.radio.String(), "\n\r"))
	require.True(t, strings.HasPrefix(b.radio.String(), "le: "))
	require.True(t, strings.HasSuffix(b.radio.String(), "t: 100\n\r"))
}

func TestRobotNoDiagnosticsByDefault(t *testing.T) {
	b := newTestBench(t, testConfig())
	b.send(t, comm.Message{Address: DefaultRadioID, Type: comm.CommandMotors, Args: []int16{300, -300}})
	b.run(10)
	require.Equal(t, "1\n\r", b.radio.String())
}

func TestRobotStatus(t *testing.T) {
	b := newTestBench(t, testConfig())
	b.send(t, comm.Message{Address: DefaultRadioID, Type: comm.CommandMotors, Args: []int16{300, -300}})
	b.run(1)
	now := b.clock.Now()
	st := b.robot.Status(now)
	require.Equal(t, "RUNNING", st.State)
	require.Equal(t, "MOTORS", st.Command)
	require.Equal(t, []int32{300, -300}, st.Args)
	require.False(t, st.Done)
	require.Equal(t, int64(20), st.SinceCommandMs)
	require.Equal(t, int32(300), st.Drive.LeftPower)
	require.Equal(t, int32(-300), st.Drive.RightPower)
	require.Equal(t, uint64(1), st.Decode.Decoded)
	require.Equal(t, uint64(1), st.Decode.Chunks)
	require.Equal(t, now.UnixNano()/int64(time.Millisecond), st.TimestampMillis)
}

func TestNewRobotValidates(t *testing.T) {
	conf := testConfig()
	conf.RadioID = 0xff
	_, err := conf.NewRobot(&testRadio{}, nil, nil, nil)
	require.Error(t, err)
}
