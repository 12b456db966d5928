// Package bot runs the radio controlled differential drive robot.
package bot

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"github.com/robotalks/pisibot/pkg/drive"
	"github.com/robotalks/pisibot/pkg/l0/comm"
	"github.com/robotalks/pisibot/pkg/l0/transport"
	env "github.com/robotalks/pisibot/pkg/l1/env/controller"
	"github.com/robotalks/pisibot/pkg/sim/physics/diffdrive"
)

// DefaultRadioID is the address of the reference robot.
const DefaultRadioID = 0x45

// Default intervals.
const (
	DefaultInterval     = 20 * time.Millisecond
	DefaultDiagInterval = 80 * time.Millisecond
)

// Config defines the robot configuration.
type Config struct {
	// RadioID is the address the robot accepts besides broadcast.
	RadioID uint `yaml:"radio_id"`
	// Transport is the URL of the radio stream, see transport.Open.
	Transport string `yaml:"transport"`
	// Interval is the control loop interval.
	Interval time.Duration `yaml:"interval"`
	// Watchdog is the command timeout, zero disables it.
	Watchdog time.Duration `yaml:"watchdog"`
	// Diagnostics enables writing the drive state back over the radio
	// every DiagInterval.
	Diagnostics  bool          `yaml:"diagnostics"`
	DiagInterval time.Duration `yaml:"diag_interval"`

	Drive     drive.Config     `yaml:"drive"`
	Plant     diffdrive.Config `yaml:"plant"`
	Telemetry *env.Config      `yaml:"telemetry"`
}

var defaultConfig = Config{
	RadioID:      DefaultRadioID,
	Transport:    transport.Stdio,
	Interval:     DefaultInterval,
	Watchdog:     DefaultWatchdog,
	DiagInterval: DefaultDiagInterval,
	Drive:        drive.DefaultConfig(),
	Plant:        diffdrive.DefaultConfig(),
	Telemetry:    env.Default(),
}

func init() {
	if val := os.Getenv("ROBO_RADIO_ID"); val != "" {
		if id, err := strconv.ParseUint(val, 0, 8); err == nil {
			defaultConfig.RadioID = uint(id)
		}
	}
	if val := os.Getenv("ROBO_TRANSPORT"); val != "" {
		defaultConfig.Transport = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.UintVar(&defaultConfig.RadioID, "radio-id", defaultConfig.RadioID, "Radio address of the robot.")
	flag.StringVar(&defaultConfig.Transport, "transport", defaultConfig.Transport, "Radio transport URL.")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Control loop interval.")
	flag.DurationVar(&defaultConfig.Watchdog, "watchdog", defaultConfig.Watchdog, "Stop when no command arrives in time, 0 to disable.")
	flag.BoolVar(&defaultConfig.Diagnostics, "diag", defaultConfig.Diagnostics, "Write drive diagnostics to the radio.")
	flag.DurationVar(&defaultConfig.DiagInterval, "diag-interval", defaultConfig.DiagInterval, "Diagnostics interval.")
	env.SetupFlags()
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	telemetry := *defaultConfig.Telemetry
	conf.Telemetry = &telemetry
	return &conf
}

// Load merges a YAML file into c.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %v", path, err)
	}
	return nil
}

// LoadFile merges a YAML file into the default config. Flags given on the
// command line keep precedence over the file.
func LoadFile(path string) error {
	set := make(map[string]string)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = f.Value.String()
	})
	if err := defaultConfig.Load(path); err != nil {
		return err
	}
	for name, val := range set {
		if err := flag.Set(name, val); err != nil {
			return err
		}
	}
	glog.Infof("config loaded from %s", path)
	return nil
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.RadioID >= uint(comm.Broadcast) {
		return fmt.Errorf("invalid radio id %#x", c.RadioID)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("invalid interval %v", c.Interval)
	}
	if c.Diagnostics && c.DiagInterval <= 0 {
		return fmt.Errorf("invalid diagnostics interval %v", c.DiagInterval)
	}
	return c.Drive.Validate()
}
