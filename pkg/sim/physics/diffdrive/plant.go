// Package diffdrive simulates a two wheel differential drive robot with
// quadrature encoders.
package diffdrive

import (
	"math"
	"sync"
	"time"

	fx "github.com/robotalks/pisibot/pkg/framework"
	"github.com/robotalks/pisibot/pkg/sim"
)

// Config describes the simulated robot.
type Config struct {
	// TicksPerPower is the steady state tick rate per second for each unit
	// of motor power.
	TicksPerPower float64 `yaml:"ticks_per_power"`
	// LeftGain and RightGain scale each motor to emulate mismatched wheels.
	LeftGain  float64 `yaml:"left_gain"`
	RightGain float64 `yaml:"right_gain"`
	// Response is the time constant of the motors.
	Response time.Duration `yaml:"response"`
	// MMPerTick converts ticks to traveled distance.
	MMPerTick float64 `yaml:"mm_per_tick"`
	// TrackWidth is the distance between the wheels in mm.
	TrackWidth float64 `yaml:"track_width"`
	// InvertTicks makes the encoders count down when driving forward.
	InvertTicks bool `yaml:"invert_ticks"`
}

// DefaultConfig matches the reference robot at full power of 800.
func DefaultConfig() Config {
	return Config{
		TicksPerPower: 10,
		LeftGain:      1,
		RightGain:     1,
		Response:      50 * time.Millisecond,
		MMPerTick:     1000.0 / 7744,
		TrackWidth:    89.3,
		InvertTicks:   true,
	}
}

type wheel struct {
	gain  float64
	power int16
	rate  float64
	ticks float64
}

func (w *wheel) step(conf *Config, secs float64) float64 {
	target := float64(w.power) * conf.TicksPerPower * w.gain
	if conf.Response > 0 {
		w.rate += (target - w.rate) * math.Min(1, secs/conf.Response.Seconds())
	} else {
		w.rate = target
	}
	delta := w.rate * secs
	w.ticks += delta
	return delta
}

// Plant is the simulated robot. It implements drive.Motors and provides
// both wheel encoders.
type Plant struct {
	Config Config

	left, right wheel
	encoders    [2]*Encoder
	pose        sim.Pose2D
	last        time.Time
	lock        sync.Mutex
}

// New creates a Plant.
func New(conf Config) *Plant {
	p := &Plant{
		Config: conf,
		left:   wheel{gain: conf.LeftGain},
		right:  wheel{gain: conf.RightGain},
	}
	p.encoders[0] = &Encoder{plant: p, wheel: &p.left}
	p.encoders[1] = &Encoder{plant: p, wheel: &p.right}
	return p
}

// SetPower implements drive.Motors.
func (p *Plant) SetPower(left, right int16) {
	p.lock.Lock()
	p.left.power, p.right.power = left, right
	p.lock.Unlock()
}

// Power returns the applied motor powers.
func (p *Plant) Power() (int16, int16) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.left.power, p.right.power
}

// Step advances the simulation by dt.
func (p *Plant) Step(dt time.Duration) {
	if dt <= 0 {
		return
	}
	secs := dt.Seconds()
	p.lock.Lock()
	defer p.lock.Unlock()
	dl := p.left.step(&p.Config, secs) * p.Config.MMPerTick
	dr := p.right.step(&p.Config, secs) * p.Config.MMPerTick
	dist := (dl + dr) / 2
	// counterclockwise is positive.
	rot := 0.0
	if p.Config.TrackWidth > 0 {
		rot = (dr - dl) / p.Config.TrackWidth
	}
	p.pose.OffsetBy(p.pose.Orientation.AddRadians(rot / 2).Project(dist))
	p.pose.Orientation = p.pose.Orientation.AddRadians(rot)
}

// StepTo advances the simulation to now. The first call only records
// the time.
func (p *Plant) StepTo(now time.Time) {
	if !p.last.IsZero() {
		p.Step(now.Sub(p.last))
	}
	p.last = now
}

// Pose returns the estimated pose.
func (p *Plant) Pose() sim.Pose2D {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.pose
}

// SetPose places the robot.
func (p *Plant) SetPose(pose sim.Pose2D) {
	p.lock.Lock()
	p.pose = pose
	p.lock.Unlock()
}

// LeftEncoder returns the encoder of the left wheel.
func (p *Plant) LeftEncoder() *Encoder {
	return p.encoders[0]
}

// RightEncoder returns the encoder of the right wheel.
func (p *Plant) RightEncoder() *Encoder {
	return p.encoders[1]
}

// AddToLoop implements LoopAdder.
func (p *Plant) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvAcuate, fx.ControlFunc(p.Execute))
}

// Execute is a controller stepping the simulation to the loop time.
func (p *Plant) Execute(cc fx.ControlContext) error {
	p.StepTo(cc.Time())
	return nil
}

// Encoder implements drive.Encoder on a simulated wheel.
type Encoder struct {
	plant *Plant
	wheel *wheel
	zero  float64
}

// Ticks implements drive.Encoder.
func (e *Encoder) Ticks() int32 {
	e.plant.lock.Lock()
	defer e.plant.lock.Unlock()
	ticks := int32(e.wheel.ticks - e.zero)
	if e.plant.Config.InvertTicks {
		ticks = -ticks
	}
	return ticks
}

// Reset implements drive.Encoder.
func (e *Encoder) Reset() {
	e.plant.lock.Lock()
	e.zero = e.wheel.ticks
	e.plant.lock.Unlock()
}
