package bot

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/pisibot/pkg/drive"
	"github.com/robotalks/pisibot/pkg/l0/comm"
)

var _ Driver = &drive.Controller{}

type testDriver struct {
	calls []string
	done  bool
}

func (d *testDriver) Reset() { d.calls = append(d.calls, "reset") }
func (d *testDriver) Stop()  { d.calls = append(d.calls, "stop") }

func (d *testDriver) Drive(left, right int16) {
	d.calls = append(d.calls, fmt.Sprintf("drive %d %d", left, right))
}

func (d *testDriver) DriveMM(mm, power int16) bool {
	d.calls = append(d.calls, fmt.Sprintf("drive_mm %d %d", mm, power))
	return d.done
}

func (d *testDriver) TurnDeg(deg int32, power int16) bool {
	d.calls = append(d.calls, fmt.Sprintf("turn %d %d", deg, power))
	return d.done
}

func (d *testDriver) take() []string {
	calls := d.calls
	d.calls = nil
	return calls
}

var t0 = time.Unix(1000, 0)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func TestDispatcherStartsIdle(t *testing.T) {
	drv := &testDriver{}
	d := NewDispatcher(drv)
	require.Equal(t, Idle, d.State())
	cmd := d.Command()
	require.Equal(t, comm.CommandEnd, cmd.Type)
	require.True(t, cmd.Done)
	d.Step(at(100000))
	require.Empty(t, drv.take())
	require.Zero(t, d.WatchdogTrips())
}

func TestDispatcherCompletes(t *testing.T) {
	cases := []struct {
		name string
		cmd  comm.Command
		step string
	}{
		{"drive", comm.NewCommand(comm.CommandDrive, 100, 500), "drive_mm 100 500"},
		{"drive backwards", comm.NewCommand(comm.CommandDrive, -100, 500), "drive_mm -100 500"},
		{"turn", comm.NewCommand(comm.CommandTurn, -90, 300), "turn -90 300"},
		{"missing args", comm.NewCommand(comm.CommandTurn), "turn 0 0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			drv := &testDriver{}
			d := NewDispatcher(drv)
			d.Accept(c.cmd, at(0))
			require.Equal(t, []string{"reset"}, drv.take())
			require.Equal(t, Running, d.State())

			d.Step(at(20))
			require.Equal(t, []string{c.step}, drv.take())
			require.False(t, d.Command().Done)

			drv.done = true
			d.Step(at(40))
			require.Equal(t, []string{c.step}, drv.take())
			require.True(t, d.Command().Done)
			require.Equal(t, Running, d.State())

			d.Step(at(60))
			require.Equal(t, []string{"reset"}, drv.take())
			require.Equal(t, Idle, d.State())

			d.Step(at(80))
			require.Empty(t, drv.take())
		})
	}
}

func TestDispatcherMotorsNeverComplete(t *testing.T) {
	drv := &testDriver{done: true}
	d := NewDispatcher(drv)
	d.Accept(comm.NewCommand(comm.CommandMotors, 300, -300), at(0))
	drv.take()
	for i := 1; i <= 10; i++ {
		d.Step(at(i * 20))
		require.Equal(t, []string{"drive 300 -300"}, drv.take())
		require.Equal(t, Running, d.State())
	}
}

func TestDispatcherEnds(t *testing.T) {
	cases := []struct {
		name string
		cmd  comm.Command
	}{
		{"end", comm.NewCommand(comm.CommandEnd)},
		{"unknown", comm.NewCommand(comm.CommandType(9), 1, 2)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			drv := &testDriver{}
			d := NewDispatcher(drv)
			d.Accept(c.cmd, at(0))
			require.Equal(t, Running, d.State())
			d.Step(at(20))
			require.Equal(t, []string{"reset", "reset"}, drv.take())
			require.Equal(t, Idle, d.State())
			require.True(t, d.Command().Done)
		})
	}
}

func TestDispatcherSupersede(t *testing.T) {
	drv := &testDriver{}
	d := NewDispatcher(drv)
	d.Accept(comm.NewCommand(comm.CommandMotors, 100, 100), at(0))
	d.Step(at(20))
	require.Equal(t, []string{"reset", "drive 100 100"}, drv.take())

	d.Accept(comm.NewCommand(comm.CommandDrive, 50, 200), at(30))
	require.Equal(t, []string{"reset"}, drv.take())
	d.Step(at(40))
	require.Equal(t, []string{"drive_mm 50 200"}, drv.take())
	cmd := d.Command()
	require.Equal(t, comm.CommandDrive, cmd.Type)
	require.Equal(t, at(30), d.Received())
}

func TestDispatcherAcceptClearsDone(t *testing.T) {
	drv := &testDriver{}
	d := NewDispatcher(drv)
	cmd := comm.NewCommand(comm.CommandDrive, 10, 10)
	cmd.Done = true
	d.Accept(cmd, at(0))
	require.False(t, d.Command().Done)
}

func TestDispatcherWatchdog(t *testing.T) {
	drv := &testDriver{}
	d := NewDispatcher(drv)
	d.Accept(comm.NewCommand(comm.CommandMotors, 300, 300), at(0))
	drv.take()

	d.Step(at(4999))
	require.Equal(t, []string{"drive 300 300"}, drv.take())
	require.Zero(t, d.WatchdogTrips())

	d.Step(at(5000))
	require.Equal(t, []string{"drive 300 300"}, drv.take())
	require.Equal(t, uint64(1), d.WatchdogTrips())
	require.Equal(t, comm.CommandEnd, d.Command().Type)
	require.Equal(t, Running, d.State())

	// motors stop on the following step.
	d.Step(at(5020))
	require.Equal(t, []string{"reset"}, drv.take())
	require.Equal(t, Idle, d.State())

	// no active command, nothing to end.
	d.Step(at(20000))
	require.Empty(t, drv.take())
	require.Equal(t, uint64(1), d.WatchdogTrips())
}

func TestDispatcherWatchdogRearmed(t *testing.T) {
	drv := &testDriver{}
	d := NewDispatcher(drv)
	d.Accept(comm.NewCommand(comm.CommandMotors, 300, 300), at(0))
	d.Step(at(4000))
	d.Accept(comm.NewCommand(comm.CommandMotors, 300, 300), at(4000))
	d.Step(at(8000))
	require.Zero(t, d.WatchdogTrips())
	require.Equal(t, comm.CommandMotors, d.Command().Type)
	d.Step(at(9000))
	require.Equal(t, uint64(1), d.WatchdogTrips())
}

func TestDispatcherWatchdogSkipsDone(t *testing.T) {
	drv := &testDriver{done: true}
	d := NewDispatcher(drv)
	d.Accept(comm.NewCommand(comm.CommandDrive, 10, 100), at(0))
	d.Step(at(6000))
	require.True(t, d.Command().Done)
	require.Zero(t, d.WatchdogTrips())
}

func TestDispatcherWatchdogDisabled(t *testing.T) {
	drv := &testDriver{}
	d := NewDispatcher(drv)
	d.Watchdog = 0
	d.Accept(comm.NewCommand(comm.CommandMotors, 300, 300), at(0))
	d.Step(at(60000))
	require.Zero(t, d.WatchdogTrips())
	require.Equal(t, Running, d.State())
}

func TestStateString(t *testing.T) {
	require.Equal(t, "IDLE", Idle.String())
	require.Equal(t, "RUNNING", Running.String())
}
