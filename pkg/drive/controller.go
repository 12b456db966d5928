package drive

import (
	"math"

	"github.com/golang/glog"
)

// Controller drives two wheels from encoder feedback. It is driven by a
// single control loop and is not safe for concurrent use.
type Controller struct {
	Config Config

	motors Motors
	left   Encoder
	right  Encoder
	bal    balancer
	status Status
}

// New creates a Controller.
func New(conf Config, motors Motors, left, right Encoder) *Controller {
	c := &Controller{
		Config: conf,
		motors: motors,
		left:   left,
		right:  right,
	}
	c.bal = balancer{law: conf.Law, p: conf.P, d: conf.D, i: conf.I, iMax: conf.IMax}
	return c
}

// Ticks reads the raw tick count of a wheel.
func (c *Controller) Ticks(w Wheel) int32 {
	if w == Left {
		return c.left.Ticks()
	}
	return c.right.Ticks()
}

// AbsTicks is the tick count magnitude.
func (c *Controller) AbsTicks(w Wheel) int32 {
	t := c.Ticks(w)
	if t < 0 {
		return -t
	}
	return t
}

// AbsDistanceMM is the distance a wheel traveled since the last reset
// regardless of direction.
func (c *Controller) AbsDistanceMM(w Wheel) int32 {
	return c.Config.TicksToMM(c.AbsTicks(w))
}

// DistanceMM is the signed distance a wheel traveled since the last reset,
// negative when going backwards.
func (c *Controller) DistanceMM(w Wheel) int32 {
	t := c.Ticks(w)
	if c.Config.InvertEncoders {
		t = -t
	}
	return c.Config.TicksToMM(t)
}

// Reset stops the motors, clears the control law state and zeros encoders.
func (c *Controller) Reset() {
	c.setPower(0, 0)
	c.bal.reset()
	c.left.Reset()
	c.right.Reset()
	c.status = Status{}
}

// Stop stops the motors.
func (c *Controller) Stop() {
	c.setPower(0, 0)
}

// Drive applies powers. Equal nonzero powers are balanced to drive
// straight, otherwise powers are applied as they are.
func (c *Controller) Drive(left, right int16) {
	l, r := c.Config.Clamp(int(left)), c.Config.Clamp(int(right))
	if l != r || l == 0 {
		c.status.Behavior = Straight
		c.setPower(l, r)
		return
	}
	dir, pwr := direction(int(l)), abs16(l)
	c.setPower(c.balance(pwr, dir))
}

// DriveMM drives straight for mm millimeters, backwards when negative. It
// must be called every control step and returns true once done.
func (c *Controller) DriveMM(mm, power int16) bool {
	if mm == 0 || power == 0 {
		c.Stop()
		return true
	}
	dir, pwr := direction(int(mm)), abs16(c.Config.Clamp(int(power)))
	target := int32(mm) * int32(dir)
	l, r := c.balance(pwr, dir)
	if c.reached(target) {
		c.Stop()
		return true
	}
	c.setPower(l, r)
	return false
}

// TurnDeg turns in place, clockwise for positive deg. It must be called
// every control step and returns true once done.
func (c *Controller) TurnDeg(deg int32, power int16) bool {
	if deg == 0 || power == 0 {
		c.Stop()
		return true
	}
	pwr := abs16(c.Config.Clamp(int(power)))
	if c.reached(c.Config.TurnDistanceMM(deg)) {
		c.Stop()
		return true
	}
	c.status.Behavior = Straight
	if deg < 0 {
		c.setPower(-pwr, pwr)
	} else {
		c.setPower(pwr, -pwr)
	}
	return false
}

// Status returns the state after the last step.
func (c *Controller) Status() Status {
	s := c.status
	s.LeftTicks, s.RightTicks = c.Ticks(Left), c.Ticks(Right)
	s.LeftMM, s.RightMM = c.DistanceMM(Left), c.DistanceMM(Right)
	return s
}

// balance runs the control law and returns wheel powers.
func (c *Controller) balance(pwr int16, dir int16) (int16, int16) {
	err := c.AbsTicks(Left) - c.AbsTicks(Right)
	u := c.bal.correction(pwr, err)
	left := c.Config.Clamp(int(math.Round(float64(pwr) - u)))
	right := c.Config.Clamp(int(math.Round(float64(pwr) + u)))
	c.status.Error, c.status.Correction = err, u
	c.status.Behavior = behaviorOf(u)
	if glog.V(5) {
		glog.Infof("balance err=%d u=%.2f %s", err, u, c.status.Behavior)
	}
	return dir * left, dir * right
}

// reached tells if either wheel traveled target mm.
func (c *Controller) reached(target int32) bool {
	return c.AbsDistanceMM(Left) >= target || c.AbsDistanceMM(Right) >= target
}

func (c *Controller) setPower(left, right int16) {
	c.status.LeftPower, c.status.RightPower = left, right
	c.motors.SetPower(left, right)
}

func direction(v int) int16 {
	if v < 0 {
		return -1
	}
	return 1
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}
