// Package sim provides geometry shared by the simulation.
package sim

import "fmt"

// Pos2D is a position on the floor in mm.
type Pos2D struct {
	X, Y float64
}

// Pose2D is a position with a heading.
type Pose2D struct {
	Pos2D
	Orientation Angle
}

// Angle is a heading in radians, counter-clockwise from the X axis.
type Angle float64

// OffsetBy moves p by d in place.
func (p *Pos2D) OffsetBy(d Pos2D) *Pos2D {
	p.X += d.X
	p.Y += d.Y
	return p
}

func (p Pose2D) String() string {
	return fmt.Sprintf("(%.1f, %.1f) %.1f°", p.X, p.Y, p.Orientation.Degrees())
}
