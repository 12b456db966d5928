package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/pisibot/pkg/bot"
	fx "github.com/robotalks/pisibot/pkg/framework"
	"github.com/robotalks/pisibot/pkg/l0/transport"
	"github.com/robotalks/pisibot/pkg/l1"
	"github.com/robotalks/pisibot/pkg/sim/physics/diffdrive"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", configFile, "YAML config file.")
	bot.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	if configFile != "" {
		if err := bot.LoadFile(configFile); err != nil {
			glog.Exitf("load config: %v", err)
		}
	}
	conf := bot.NewConfig()

	radio, err := transport.Open(conf.Transport)
	if err != nil {
		glog.Exitf("open transport: %v", err)
	}
	defer radio.Close()

	plant := diffdrive.New(conf.Plant)
	robot, err := conf.NewRobot(radio, plant, plant.LeftEncoder(), plant.RightEncoder())
	if err != nil {
		glog.Exit(err)
	}
	if robot.Telemetry, err = conf.Telemetry.NewEnv(l1.RobotMeta{
		Description: "Differential drive robot, simulated",
		RadioID:     byte(conf.RadioID),
	}); err != nil {
		glog.Exit(err)
	}

	glog.Infof("robot %02X on %s", conf.RadioID, conf.Transport)
	loop := fx.NewLoop().Add(robot, plant)
	runner := fx.NewRunnerWith(context.Background()).HandleSignals()
	runner.Go(fx.NamedRun("loop", loop))
	if err := runner.Wait(); err != nil && err != context.Canceled {
		glog.Exit(err)
	}
}
