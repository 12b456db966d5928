package drive

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRoundDiv(t *testing.T) {
	testCases := []struct {
		n, d, expect int64
	}{
		{0, 10, 0},
		{4, 10, 0},
		{5, 10, 1},
		{15, 10, 2},
		{-4, 10, 0},
		{-5, 10, -1},
		{-15, 10, -2},
		{280440, 1000, 280},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expect, roundDiv(tc.n, tc.d), "%d/%d", tc.n, tc.d)
	}
}

func TestConversions(t *testing.T) {
	conf := DefaultConfig()
	require.Equal(t, int32(280), conf.TurnDistanceMM(360))
	require.Equal(t, int32(280), conf.TurnDistanceMM(-360))
	require.Equal(t, int32(70), conf.TurnDistanceMM(90))
	require.Equal(t, int32(500), conf.TicksToMM(3872))
	require.Equal(t, int32(-500), conf.TicksToMM(-3872))
	require.Equal(t, int32(1), conf.TicksToMM(4))
	require.Equal(t, int32(0), conf.TicksToMM(3))

	require.Equal(t, int16(800), conf.Clamp(1000))
	require.Equal(t, int16(-800), conf.Clamp(-40000))
	require.Equal(t, int16(-12), conf.Clamp(-12))
}

func TestConfigYAML(t *testing.T) {
	conf := DefaultConfig()
	require.NoError(t, yaml.Unmarshal([]byte("max_power: 600\nlaw: PI\ntick_divisor: 4723\n"), &conf))
	require.Equal(t, int16(600), conf.MaxPower)
	require.Equal(t, LawPI, conf.Law)
	require.Equal(t, int64(4723), conf.TickDivisor)
	require.Equal(t, 0.05, conf.P)
	require.NoError(t, conf.Validate())

	require.Error(t, yaml.Unmarshal([]byte("law: pid\n"), &conf))

	conf.TickDivisor = 0
	require.Error(t, conf.Validate())
}

func TestParseLaw(t *testing.T) {
	law, err := ParseLaw("pd")
	require.NoError(t, err)
	require.Equal(t, LawPD, law)
	law, err = ParseLaw("Pi")
	require.NoError(t, err)
	require.Equal(t, LawPI, law)
	_, err = ParseLaw("x")
	require.Error(t, err)
	require.Equal(t, "pi", LawPI.String())
}
