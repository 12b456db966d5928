package comm

import (
	"fmt"
	"strconv"
)

// CommandType is the type byte of a message.
type CommandType byte

// Command types
const (
	CommandEnd CommandType = iota
	CommandDrive
	CommandTurn
	CommandMotors

	// LastCommandType is the highest type accepted from the wire.
	LastCommandType = CommandMotors
)

// Valid tells if the type is accepted from the wire.
func (t CommandType) Valid() bool {
	return t <= LastCommandType
}

func (t CommandType) String() string {
	switch t {
	case CommandEnd:
		return "END"
	case CommandDrive:
		return "DRIVE"
	case CommandTurn:
		return "TURN"
	case CommandMotors:
		return "MOTORS"
	}
	return "TYPE(" + strconv.Itoa(int(t)) + ")"
}

// Command is a decoded command. Arguments are kept in a fixed-capacity
// array so a Command can be copied and reused without allocation.
type Command struct {
	Type CommandType
	Done bool

	args [MaxArgs]int16
	n    int
}

// NewCommand creates a Command. Arguments beyond MaxArgs are dropped.
func NewCommand(typ CommandType, args ...int16) Command {
	c := Command{Type: typ}
	c.n = copy(c.args[:], args)
	return c
}

// IdleCommand is the command record state at startup.
func IdleCommand() Command {
	return Command{Type: CommandEnd, Done: true}
}

// Args returns the arguments in message order.
func (c *Command) Args() []int16 {
	return c.args[:c.n]
}

// NumArgs is the argument count.
func (c *Command) NumArgs() int {
	return c.n
}

// Arg returns the i-th argument, or 0 if the command has fewer arguments.
func (c *Command) Arg(i int) int16 {
	if i < 0 || i >= c.n {
		return 0
	}
	return c.args[i]
}

func (c Command) String() string {
	return fmt.Sprintf("%s%v", c.Type, c.Args())
}
