// Package drive implements closed-loop control of a two wheel
// differential drive.
package drive

// Motors applies signed power to both wheels. Implementations may clamp
// further but never swap wheels.
type Motors interface {
	SetPower(left, right int16)
}

// Encoder is a quadrature encoder counting wheel ticks.
type Encoder interface {
	Ticks() int32
	Reset()
}

// Wheel selects a wheel.
type Wheel int

// Wheels
const (
	Left Wheel = iota
	Right
)

func (w Wheel) String() string {
	if w == Left {
		return "left"
	}
	return "right"
}

// Behavior labels a balancing correction.
type Behavior int

// Behaviors
const (
	Straight Behavior = iota
	TurnLeft
	TurnRight
)

func (b Behavior) String() string {
	switch b {
	case TurnLeft:
		return "turn-left"
	case TurnRight:
		return "turn-right"
	}
	return "straight"
}

// Status is a snapshot of the controller.
type Status struct {
	LeftTicks  int32
	RightTicks int32
	// LeftMM and RightMM are signed distances.
	LeftMM     int32
	RightMM    int32
	Error      int32
	Correction float64
	LeftPower  int16
	RightPower int16
	Behavior   Behavior
}
