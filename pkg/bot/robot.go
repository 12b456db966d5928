package bot

import (
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/pisibot/pkg/drive"
	fx "github.com/robotalks/pisibot/pkg/framework"
	"github.com/robotalks/pisibot/pkg/l0/comm"
	env "github.com/robotalks/pisibot/pkg/l1/env/controller"
	"github.com/robotalks/pisibot/pkg/l1/msgs"
)

// ReadyLine is written to the radio when the robot starts.
const ReadyLine = "1"

// CommandMsg carries a decoded command from the decoder to the dispatcher
// within one loop iteration.
type CommandMsg struct {
	Command comm.Command
	// Offset is where the message was found in the receive buffer.
	Offset int
}

// NewMessage implements Message.
func (m *CommandMsg) NewMessage() fx.Message { return &CommandMsg{} }

// Robot wires the radio decoder, the dispatcher and the drive controller
// into a control loop.
type Robot struct {
	Config *Config
	Link   *comm.Link
	// Source feeds the decoder, Link by default.
	Source     comm.ChunkSource
	Decoder    *comm.Decoder
	Drive      *drive.Controller
	Dispatcher *Dispatcher
	// Telemetry is optional.
	Telemetry *env.Env

	started    time.Time
	ready      bool
	nextDiag   time.Time
	nextReport time.Time
}

// NewRobot creates a Robot talking to the radio over rw.
func (c *Config) NewRobot(rw io.ReadWriter, motors drive.Motors, left, right drive.Encoder) (*Robot, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	r := &Robot{
		Config:  c,
		Link:    comm.NewLink(fmt.Sprintf("radio-%02x", c.RadioID), rw),
		Decoder: comm.NewDecoder(byte(c.RadioID)),
		Drive:   drive.New(c.Drive, motors, left, right),
	}
	r.Source = r.Link
	r.Dispatcher = NewDispatcher(r.Drive)
	r.Dispatcher.Watchdog = c.Watchdog
	return r, nil
}

// AddToLoop implements LoopAdder.
func (r *Robot) AddToLoop(loop *fx.Loop) {
	loop.Interval = r.Config.Interval
	loop.AddRunnable(r.Link)
	loop.AddController(fx.PrLvSense, fx.ControlFunc(r.decode))
	loop.AddController(fx.PrLvControl, fx.ControlFunc(r.dispatch))
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(r.report))
	if r.Telemetry != nil {
		r.Telemetry.AddToLoop(loop)
	}
}

// decode takes at most one message from the radio per iteration.
func (r *Robot) decode(cc fx.ControlContext) error {
	res := r.Decoder.Decode(r.Source)
	if res.Decoded {
		cc.Messages().AddMessages(&CommandMsg{Command: res.Command, Offset: res.Offset})
	}
	return nil
}

func (r *Robot) dispatch(cc fx.ControlContext) error {
	now := cc.Time()
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
		if msg, ok := mc.CurrentMessage().(*CommandMsg); ok {
			mc.MessageTaken()
			r.Dispatcher.Accept(msg.Command, now)
		}
	}))
	r.Dispatcher.Step(now)
	return nil
}

func (r *Robot) report(cc fx.ControlContext) error {
	now := cc.Time()
	if !r.ready {
		r.ready, r.started = true, now
		if err := r.Link.WriteLine(ReadyLine); err != nil {
			glog.Errorf("write ready line: %v", err)
		}
	}
	if r.Config.Diagnostics && r.Dispatcher.State() == Running && !now.Before(r.nextDiag) {
		r.nextDiag = now.Add(r.Config.DiagInterval)
		if err := r.Link.WriteLine(r.DiagLine(now)); err != nil {
			glog.V(2).Infof("write diagnostics: %v", err)
		}
	}
	if r.Telemetry != nil && r.Telemetry.Enabled() && !now.Before(r.nextReport) {
		r.nextReport = now.Add(r.Telemetry.Config.Interval)
		if err := r.Telemetry.Report(r.Status(now)); err != nil {
			glog.Warningf("report status: %v", err)
		}
	}
	return nil
}

// DiagLine formats the drive state for the operator. Encoder values are
// reported in driving direction.
func (r *Robot) DiagLine(now time.Time) string {
	st := r.Drive.Status()
	le, re := st.LeftTicks, st.RightTicks
	if r.Config.Drive.InvertEncoders {
		le, re = -le, -re
	}
	return fmt.Sprintf("le: %d, re: %d, err: %d, pwrl: %d, pwrr: %d, t: %d",
		le, re, st.Error, st.LeftPower, st.RightPower, now.Sub(r.started).Milliseconds())
}

// Status builds the telemetry status.
func (r *Robot) Status(now time.Time) *msgs.Status {
	cmd := r.Dispatcher.Command()
	st := r.Drive.Status()
	ds := r.Decoder.Stats()
	msg := &msgs.Status{
		State:         r.Dispatcher.State().String(),
		Command:       cmd.Type.String(),
		Done:          cmd.Done,
		WatchdogTrips: r.Dispatcher.WatchdogTrips(),
		Drive: &msgs.DriveStatus{
			LeftTicks:  st.LeftTicks,
			RightTicks: st.RightTicks,
			LeftMm:     st.LeftMM,
			RightMm:    st.RightMM,
			Error:      st.Error,
			Correction: st.Correction,
			LeftPower:  int32(st.LeftPower),
			RightPower: int32(st.RightPower),
			Behavior:   st.Behavior.String(),
		},
		Decode: &msgs.DecodeStats{
			Chunks:            ds.Chunks,
			Decoded:           ds.Decoded,
			TooShort:          ds.TooShort,
			Truncated:         ds.Truncated,
			NoPreamble:        ds.NoPreamble,
			AddressMismatch:   ds.AddressMismatch,
			InvalidType:       ds.InvalidType,
			ZeroLength:        ds.ZeroLength,
			Checksum:          ds.Checksum,
			MalformedByte:     ds.MalformedByte,
			MalformedArgument: ds.MalformedArgument,
			Incomplete:        ds.Incomplete,
		},
		TimestampMillis: now.UnixNano() / int64(time.Millisecond),
	}
	for _, arg := range cmd.Args() {
		msg.Args = append(msg.Args, int32(arg))
	}
	if received := r.Dispatcher.Received(); !received.IsZero() {
		msg.SinceCommandMs = now.Sub(received).Milliseconds()
	}
	return msg
}
