package drive

import "math"

// balancer keeps the state of the balancing law between steps.
type balancer struct {
	law       Law
	p, d, i   float64
	iMax      float64
	lastError int32
	integral  int32
}

func (b *balancer) reset() {
	b.lastError, b.integral = 0, 0
}

// correction computes u for the tick imbalance err at nominal power.
// u is taken from the left wheel and given to the right one.
func (b *balancer) correction(power int16, err int32) float64 {
	pwr := float64(power)
	var u float64
	switch b.law {
	case LawPI:
		if (b.integral > 0 && err < 0) || (b.integral < 0 && err > 0) {
			b.integral = 0
		} else if b.integral < int32(math.Round(b.iMax*pwr)) {
			b.integral += err
		}
		u = b.p*pwr*float64(err) + b.i*pwr*float64(b.integral)
	default:
		u = b.p*pwr*float64(err) + b.d*pwr*float64(b.lastError-err)
	}
	b.lastError = err
	return u
}

func behaviorOf(u float64) Behavior {
	switch {
	case u > 0:
		return TurnLeft
	case u < 0:
		return TurnRight
	}
	return Straight
}
