package bot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/pisibot/pkg/drive"
)

const testYAML = `
radio_id: 0x12
transport: tcp://localhost:9000
watchdog: 2s
diagnostics: true
drive:
  max_power: 600
  law: pi
plant:
  left_gain: 1.1
telemetry:
  mqtt: mqtt://broker:1883/robo/
  ref:
    type: rover
    id: r1
`

func TestConfigLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0644))

	conf := NewConfig()
	require.NoError(t, conf.Load(path))
	require.Equal(t, uint(0x12), conf.RadioID)
	require.Equal(t, "tcp://localhost:9000", conf.Transport)
	require.Equal(t, 2*time.Second, conf.Watchdog)
	require.True(t, conf.Diagnostics)
	require.Equal(t, DefaultInterval, conf.Interval)
	require.Equal(t, DefaultDiagInterval, conf.DiagInterval)
	require.Equal(t, int16(600), conf.Drive.MaxPower)
	require.Equal(t, drive.LawPI, conf.Drive.Law)
	require.Equal(t, drive.DefaultConfig().P, conf.Drive.P)
	require.Equal(t, 1.1, conf.Plant.LeftGain)
	require.Equal(t, 1.0, conf.Plant.RightGain)
	require.Equal(t, "mqtt://broker:1883/robo/", conf.Telemetry.MQTTBrokerURL)
	require.Equal(t, "rover", conf.Telemetry.Ref.Type)
	require.Equal(t, "r1", conf.Telemetry.Ref.ID)
	require.NoError(t, conf.Validate())

	// defaults untouched.
	require.Equal(t, uint(DefaultRadioID), Default().RadioID)
	require.NotEqual(t, "rover", Default().Telemetry.Ref.Type)
}

func TestConfigLoadErrors(t *testing.T) {
	dir := t.TempDir()
	conf := NewConfig()
	require.Error(t, conf.Load(filepath.Join(dir, "missing.yaml")))

	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("drive:\n  law: pid\n"), 0644))
	require.Error(t, conf.Load(path))
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
	}{
		{"broadcast id", func(c *Config) { c.RadioID = 0xff }},
		{"id too large", func(c *Config) { c.RadioID = 0x100 }},
		{"interval", func(c *Config) { c.Interval = 0 }},
		{"diag interval", func(c *Config) { c.Diagnostics, c.DiagInterval = true, 0 }},
		{"drive", func(c *Config) { c.Drive.TickDivisor = 0 }},
	}
	require.NoError(t, NewConfig().Validate())
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			conf := NewConfig()
			c.modify(conf)
			require.Error(t, conf.Validate())
		})
	}
}
