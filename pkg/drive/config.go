package drive

import (
	"fmt"
	"strings"
)

// Law selects the balancing control law.
type Law int

// Control laws
const (
	// LawPD is proportional-derivative control.
	LawPD Law = iota
	// LawPI is proportional-integral control.
	LawPI
)

func (l Law) String() string {
	switch l {
	case LawPD:
		return "pd"
	case LawPI:
		return "pi"
	}
	return fmt.Sprintf("law(%d)", int(l))
}

// ParseLaw parses the name of a control law.
func ParseLaw(s string) (Law, error) {
	switch strings.ToLower(s) {
	case "pd":
		return LawPD, nil
	case "pi":
		return LawPI, nil
	}
	return LawPD, fmt.Errorf("unknown control law %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Law) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Law) UnmarshalText(text []byte) (err error) {
	*l, err = ParseLaw(string(text))
	return
}

// Config is the calibration of the drive train.
type Config struct {
	// MaxPower limits the magnitude of every motor power.
	MaxPower int16 `yaml:"max_power"`

	P    float64 `yaml:"p"`
	D    float64 `yaml:"d"`
	I    float64 `yaml:"i"`
	IMax float64 `yaml:"i_max"`
	Law  Law     `yaml:"law"`

	// Distance in mm is ticks*TickMultiplier/TickDivisor. Wheel geometry
	// gives a divisor of about 4723 but measured runs need 7744.
	TickMultiplier int64 `yaml:"tick_multiplier"`
	TickDivisor    int64 `yaml:"tick_divisor"`

	// Arc length in mm for turning in place is deg*TurnMultiplier/TurnDivisor,
	// approximating the wheel base circumference (89.3mm*Pi) over 360.
	TurnMultiplier int64 `yaml:"turn_multiplier"`
	TurnDivisor    int64 `yaml:"turn_divisor"`

	// InvertEncoders negates ticks for signed distances, the encoders count
	// backwards when driving forward.
	InvertEncoders bool `yaml:"invert_encoders"`
}

// DefaultConfig returns the calibration of the reference robot.
func DefaultConfig() Config {
	return Config{
		MaxPower:       800,
		P:              0.05,
		D:              0.1,
		I:              0.0006,
		IMax:           0.2,
		Law:            LawPD,
		TickMultiplier: 1000,
		TickDivisor:    7744,
		TurnMultiplier: 779,
		TurnDivisor:    1000,
		InvertEncoders: true,
	}
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.MaxPower <= 0 {
		return fmt.Errorf("max power must be positive")
	}
	if c.TickMultiplier <= 0 || c.TickDivisor <= 0 {
		return fmt.Errorf("tick multiplier and divisor must be positive")
	}
	if c.TurnMultiplier <= 0 || c.TurnDivisor <= 0 {
		return fmt.Errorf("turn multiplier and divisor must be positive")
	}
	if c.Law != LawPD && c.Law != LawPI {
		return fmt.Errorf("invalid control law %v", c.Law)
	}
	return nil
}

// TicksToMM converts encoder ticks to mm, rounded to nearest.
func (c *Config) TicksToMM(ticks int32) int32 {
	return int32(roundDiv(int64(ticks)*c.TickMultiplier, c.TickDivisor))
}

// TurnDistanceMM converts a rotation in degrees to the arc length each
// wheel travels.
func (c *Config) TurnDistanceMM(deg int32) int32 {
	return int32(roundDiv(abs64(int64(deg))*c.TurnMultiplier, c.TurnDivisor))
}

// Clamp limits power to [-MaxPower, MaxPower].
func (c *Config) Clamp(power int) int16 {
	max := int(c.MaxPower)
	if power > max {
		return c.MaxPower
	}
	if power < -max {
		return -c.MaxPower
	}
	return int16(power)
}

// roundDiv divides rounding half away from zero. d must be positive.
func roundDiv(n, d int64) int64 {
	if n < 0 {
		return -((-n + d/2) / d)
	}
	return (n + d/2) / d
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
