package bot

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/pisibot/pkg/l0/comm"
)

// DefaultWatchdog stops the robot when no command arrives for this long.
const DefaultWatchdog = 5 * time.Second

// State is the dispatcher state.
type State int

// States
const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "RUNNING"
	}
	return "IDLE"
}

// Driver executes motion primitives. It is implemented by drive.Controller.
type Driver interface {
	Reset()
	Stop()
	Drive(left, right int16)
	DriveMM(mm, power int16) bool
	TurnDeg(deg int32, power int16) bool
}

// Dispatcher runs the active command one control step at a time.
type Dispatcher struct {
	// Watchdog is the longest time without a new command while running,
	// zero disables the watchdog.
	Watchdog time.Duration

	driver   Driver
	state    State
	cmd      comm.Command
	received time.Time
	trips    uint64
}

// NewDispatcher creates a Dispatcher in Idle state.
func NewDispatcher(driver Driver) *Dispatcher {
	return &Dispatcher{
		Watchdog: DefaultWatchdog,
		driver:   driver,
		cmd:      comm.IdleCommand(),
	}
}

// State returns the current state.
func (d *Dispatcher) State() State {
	return d.state
}

// Command returns the active command, or the last finished one in Idle.
func (d *Dispatcher) Command() comm.Command {
	return d.cmd
}

// Received is the arrival time of the last accepted command.
func (d *Dispatcher) Received() time.Time {
	return d.received
}

// WatchdogTrips counts commands ended by the watchdog.
func (d *Dispatcher) WatchdogTrips() uint64 {
	return d.trips
}

// Accept supersedes the active command with cmd. The driver is reset
// before the new command executes its first step.
func (d *Dispatcher) Accept(cmd comm.Command, now time.Time) {
	if d.state == Running && !d.cmd.Done {
		glog.V(2).Infof("command %s superseded by %s", d.cmd, cmd)
	}
	d.driver.Reset()
	d.cmd = cmd
	d.cmd.Done = false
	d.received = now
	d.state = Running
}

// Step runs one control step of the active command.
func (d *Dispatcher) Step(now time.Time) {
	if d.state == Idle {
		return
	}
	switch {
	case d.cmd.Done || d.cmd.Type == comm.CommandEnd:
		d.finish()
	case d.cmd.Type == comm.CommandDrive:
		d.cmd.Done = d.driver.DriveMM(d.cmd.Arg(0), d.cmd.Arg(1))
	case d.cmd.Type == comm.CommandTurn:
		d.cmd.Done = d.driver.TurnDeg(int32(d.cmd.Arg(0)), d.cmd.Arg(1))
	case d.cmd.Type == comm.CommandMotors:
		// never completes, runs until superseded or timed out.
		d.driver.Drive(d.cmd.Arg(0), d.cmd.Arg(1))
	default:
		d.finish()
	}
	if d.cmd.Done && d.state == Running {
		glog.V(2).Infof("command %s done", d.cmd)
	}
	d.checkWatchdog(now)
}

func (d *Dispatcher) finish() {
	d.driver.Reset()
	d.cmd.Done = true
	d.state = Idle
}

// checkWatchdog ends the active command when no command arrived in time.
// Motors are stopped by the following step.
func (d *Dispatcher) checkWatchdog(now time.Time) {
	if d.state == Idle || d.cmd.Done || d.Watchdog <= 0 || d.cmd.Type == comm.CommandEnd {
		return
	}
	if now.Sub(d.received) >= d.Watchdog {
		glog.Warningf("no command for %v, ending %s", now.Sub(d.received), d.cmd)
		d.cmd.Type = comm.CommandEnd
		d.trips++
	}
}
