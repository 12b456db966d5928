// Package radio adds the robot commands to the shell.
package radio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/pisibot/pkg/cli/sh"
	"github.com/robotalks/pisibot/pkg/l0/comm"
)

var (
	// DriveCmd drives straight for a distance.
	DriveCmd = sh.SendCmd("drive", []string{"d"}, "MM POWER", comm.CommandDrive, "MM", "POWER")

	// TurnCmd turns in place, clockwise for positive degrees.
	TurnCmd = sh.SendCmd("turn", []string{"t"}, "DEGREES POWER", comm.CommandTurn, "DEGREES", "POWER")

	// MotorsCmd sets wheel powers until superseded or the robot times out.
	MotorsCmd = sh.SendCmd("motors", []string{"m"}, "LEFT RIGHT", comm.CommandMotors, "LEFT", "RIGHT")

	// EndCmd stops the robot. END carries a dummy argument as the data
	// field must not be empty.
	EndCmd = ishell.Cmd{
		Name:    "end",
		Aliases: []string{"stop", "s"},
		Help:    "stop the robot",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if err := s.Send(s.Message(comm.CommandEnd, 0)); err != nil {
				c.Err(err)
			}
		},
	}

	// EncodeCmd prints a message without sending it.
	EncodeCmd = ishell.Cmd{
		Name: "encode",
		Help: "TYPE ARGS...",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("TYPE required"))
				return
			}
			s := sh.ShellFrom(c)
			out, err := Encode(byte(s.Config.Target), c.Args[0], c.Args[1:])
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(out)
		},
	}
)

// ParseType parses a command type by name or number.
func ParseType(s string) (comm.CommandType, error) {
	for t := comm.CommandEnd; t <= comm.LastCommandType; t++ {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid TYPE %q", s)
	}
	return comm.CommandType(n), nil
}

// Encode renders a message as sent over the radio.
func Encode(target byte, typ string, args []string) (string, error) {
	t, err := ParseType(typ)
	if err != nil {
		return "", err
	}
	vals, err := sh.ParseValues(args)
	if err != nil {
		return "", err
	}
	if t == comm.CommandEnd && len(vals) == 0 {
		vals = []int16{0}
	}
	msg := comm.Message{Address: target, Type: t, Args: vals}
	out, err := msg.Encode()
	if err != nil {
		return "", err
	}
	return string(out) + string(comm.Terminator), nil
}

func init() {
	sh.AddCmds(
		&DriveCmd,
		&TurnCmd,
		&MotorsCmd,
		&EndCmd,
		&EncodeCmd,
	)
}
