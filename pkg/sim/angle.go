package sim

import "math"

// AddRadians returns the heading turned by r, wrapped into (-Pi, Pi].
func (a Angle) AddRadians(r float64) Angle {
	return Angle(wrapPi(float64(a) + r))
}

// Degrees converts the heading for display.
func (a Angle) Degrees() float64 {
	return float64(a) * 180 / math.Pi
}

// Project returns the displacement of moving dist along the heading.
func (a Angle) Project(dist float64) Pos2D {
	sin, cos := math.Sincos(float64(a))
	return Pos2D{X: dist * cos, Y: dist * sin}
}

func wrapPi(r float64) float64 {
	r = math.Mod(r+math.Pi, 2*math.Pi)
	if r <= 0 {
		r += 2 * math.Pi
	}
	return r - math.Pi
}
