// Package controller sets up the telemetry environment of a robot.
package controller

import (
	"flag"
	"fmt"
	"os"
	"time"

	fx "github.com/robotalks/pisibot/pkg/framework"
	"github.com/robotalks/pisibot/pkg/l1"
	"github.com/robotalks/pisibot/pkg/l1/comm/mqtt"
	"github.com/robotalks/pisibot/pkg/l1/env"
	"github.com/robotalks/pisibot/pkg/l1/msgs"
)

// Config provides options of robot telemetry.
type Config struct {
	Info l1.RobotInfo `yaml:"-"`

	Ref l1.RobotRef `yaml:"ref"`
	// MQTTBrokerURL specifies the MQTT broker to report to, telemetry is
	// disabled when empty.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string `yaml:"mqtt"`
	// Interval is the status reporting interval.
	Interval time.Duration `yaml:"interval"`
}

// DefaultInterval is the default status reporting interval.
const DefaultInterval = time.Second

var defaultConfig = Config{
	Ref:      l1.RobotRef{Type: "pisibot"},
	Interval: DefaultInterval,
}

func init() {
	if val := os.Getenv("ROBO_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("ROBO_TYPE"); val != "" {
		defaultConfig.Ref.Type = val
	}
	if val := os.Getenv("ROBO_ID"); val != "" {
		defaultConfig.Ref.ID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.Type, "type", defaultConfig.Ref.Type, "Robot type")
	flag.StringVar(&defaultConfig.Ref.ID, "id", defaultConfig.Ref.ID, "Robot ID, default is machine ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL for telemetry")
	flag.DurationVar(&defaultConfig.Interval, "telemetry-interval", defaultConfig.Interval, "Telemetry reporting interval")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Env is the telemetry env of a robot.
type Env struct {
	Config   *Config
	Reporter *mqtt.Reporter
}

// NewEnv creates Env from config. Reporter is nil if telemetry is
// disabled.
func (c *Config) NewEnv(meta l1.RobotMeta) (*Env, error) {
	e := &Env{Config: c}
	if c.MQTTBrokerURL == "" {
		return e, nil
	}
	c.Info.Ref, c.Info.Meta = c.Ref, meta
	if c.Info.Ref.ID == "" {
		c.Info.Ref.ID = env.MachineID()
	}
	if !c.Info.Ref.IsValid() {
		return nil, fmt.Errorf("invalid robot reference %q", c.Info.Ref.Name())
	}
	reporter, err := mqtt.NewReporter(c.MQTTBrokerURL, c.Info)
	if err != nil {
		return nil, fmt.Errorf("create MQTT reporter error: %v", err)
	}
	e.Reporter = reporter
	return e, nil
}

// Enabled tells if telemetry is reported.
func (e *Env) Enabled() bool {
	return e.Reporter != nil
}

// Report publishes msg if enabled.
func (e *Env) Report(msg msgs.SerializableMessage) error {
	if e.Reporter == nil {
		return nil
	}
	return e.Reporter.Report(msg)
}

// AddToLoop adds the reporter connection to loop.
func (e *Env) AddToLoop(loop *fx.Loop) {
	if e.Reporter != nil {
		loop.AddRunnable(e.Reporter)
	}
}
