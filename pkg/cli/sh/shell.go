// Package sh provides the operator shell sending commands to robots over
// the radio.
package sh

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/pisibot/pkg/l0/comm"
	"github.com/robotalks/pisibot/pkg/l0/transport"
)

// Config provides the options of the shell.
type Config struct {
	// Transport is the radio URL opened at start, empty to open later.
	Transport string
	// Target is the address of the robot commands are sent to.
	Target uint
	// Repeat is how many times each message is sent.
	Repeat int
	// RepeatInterval is the pause between repeated sends.
	RepeatInterval time.Duration
}

var defaultConfig = Config{
	Target:         0x45,
	Repeat:         3,
	RepeatInterval: 10 * time.Millisecond,
}

var (
	evalOnly bool

	commands = []*ishell.Cmd{
		&OpenCmd,
		&CloseCmd,
		&TargetCmd,
		&RepeatCmd,
		&RawCmd,
	}
)

func init() {
	if val := os.Getenv("ROBO_TRANSPORT"); val != "" {
		defaultConfig.Transport = val
	}
	if val := os.Getenv("ROBO_RADIO_ID"); val != "" {
		if id, err := strconv.ParseUint(val, 0, 8); err == nil {
			defaultConfig.Target = uint(id)
		}
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.StringVar(&defaultConfig.Transport, "transport", defaultConfig.Transport, "Radio transport URL.")
	flag.UintVar(&defaultConfig.Target, "target", defaultConfig.Target, "Radio address of the robot.")
	flag.IntVar(&defaultConfig.Repeat, "repeat", defaultConfig.Repeat, "Send each message this many times.")
	flag.DurationVar(&defaultConfig.RepeatInterval, "repeat-interval", defaultConfig.RepeatInterval, "Pause between repeated sends.")
}

// NewConfig creates a Config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool

	Shell  *ishell.Shell
	Config *Config
	Conn   io.ReadWriteCloser

	// Sleep pauses between repeats, replaced in tests.
	Sleep func(time.Duration)
}

const (
	shellKey      = "$shell"
	closedPrompt  = "[closed] > "
	openPromptFmt = "[%s %02X] > "
)

// New creates a new shell.
func New(conf *Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Shell:       ishell.New(),
		Config:      conf,
		Sleep:       time.Sleep,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Open opens the radio transport, replacing the current one.
func (s *Shell) Open(url string) error {
	conn, err := transport.Open(url)
	if err != nil {
		return err
	}
	s.Close()
	s.Conn, s.Config.Transport = conn, url
	s.updatePrompt()
	return nil
}

// Close closes the radio transport.
func (s *Shell) Close() {
	if s.Conn != nil {
		if err := s.Conn.Close(); err != nil {
			glog.Warningf("close %s: %v", s.Config.Transport, err)
		}
		s.Conn = nil
	}
	s.updatePrompt()
}

// SetTarget changes the robot address.
func (s *Shell) SetTarget(target byte) {
	s.Config.Target = uint(target)
	s.updatePrompt()
}

func (s *Shell) updatePrompt() {
	if s.Shell == nil {
		return
	}
	if s.Conn == nil {
		s.Shell.SetPrompt(closedPrompt)
		return
	}
	s.Shell.SetPrompt(fmt.Sprintf(openPromptFmt, s.Config.Transport, s.Config.Target))
}

// Message builds a message to the current target.
func (s *Shell) Message(typ comm.CommandType, args ...int16) *comm.Message {
	return &comm.Message{Address: byte(s.Config.Target), Type: typ, Args: args}
}

// Send writes the message Repeat times. Repeating is the only way to get
// a message through a noisy radio as robots never acknowledge.
func (s *Shell) Send(msg *comm.Message) error {
	data, err := msg.Encode()
	if err != nil {
		return err
	}
	return s.SendRaw(append(data, comm.Terminator))
}

// SendRaw writes data Repeat times.
func (s *Shell) SendRaw(data []byte) error {
	if s.Conn == nil {
		return fmt.Errorf("transport not open")
	}
	repeat := s.Config.Repeat
	if repeat < 1 {
		repeat = 1
	}
	for i := 0; i < repeat; i++ {
		if i > 0 && s.Config.RepeatInterval > 0 && s.Sleep != nil {
			s.Sleep(s.Config.RepeatInterval)
		}
		if _, err := s.Conn.Write(data); err != nil {
			return err
		}
	}
	glog.V(2).Infof("sent %q x%d", data, repeat)
	return nil
}

// ParseValues parses integer arguments as signed 16 bit values. Decimal is
// the default, 0x prefixes hex.
func ParseValues(args []string, names ...string) ([]int16, error) {
	if len(args) < len(names) {
		return nil, fmt.Errorf("%s required", names[len(args)])
	}
	vals := make([]int16, len(args))
	for n, arg := range args {
		val, err := strconv.ParseInt(arg, 0, 16)
		if err != nil {
			name := "argument " + strconv.Itoa(n+1)
			if n < len(names) {
				name = names[n]
			}
			return nil, fmt.Errorf("invalid %s: %v", name, err)
		}
		vals[n] = int16(val)
	}
	return vals, nil
}

// SendCmd creates a command sending a message of typ. Arguments are named
// by names, extra arguments are sent as well.
func SendCmd(name string, aliases []string, help string, typ comm.CommandType, names ...string) ishell.Cmd {
	return ishell.Cmd{
		Name:    name,
		Aliases: aliases,
		Help:    help,
		Func: func(c *ishell.Context) {
			vals, err := ParseValues(c.Args, names...)
			if err != nil {
				c.Err(err)
				return
			}
			s := ShellFrom(c)
			if err := s.Send(s.Message(typ, vals...)); err != nil {
				c.Err(err)
			}
		},
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.Config.Transport != "" {
		if err := s.Open(s.Config.Transport); err != nil {
			log.Fatalf("open %q failed: %v", s.Config.Transport, err)
		}
	}
	defer s.Close()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// OpenCmd opens the radio transport.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "URL",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("URL required"))
				return
			}
			if err := ShellFrom(c).Open(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes the radio transport.
	CloseCmd = ishell.Cmd{
		Name: "close",
		Help: "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}

	// TargetCmd shows or sets the robot address.
	TargetCmd = ishell.Cmd{
		Name:    "target",
		Aliases: []string{"t"},
		Help:    "[ID], hex, FF for broadcast",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) < 1 {
				c.Printf("%02X\n", s.Config.Target)
				return
			}
			id, err := strconv.ParseUint(c.Args[0], 16, 8)
			if err != nil {
				c.Err(fmt.Errorf("invalid ID: %v", err))
				return
			}
			s.SetTarget(byte(id))
		},
	}

	// RepeatCmd shows or sets how many times a message is sent.
	RepeatCmd = ishell.Cmd{
		Name: "repeat",
		Help: "[N]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) < 1 {
				c.Println(s.Config.Repeat)
				return
			}
			n, err := strconv.Atoi(c.Args[0])
			if err != nil || n < 1 {
				c.Err(fmt.Errorf("invalid N: %q", c.Args[0]))
				return
			}
			s.Config.Repeat = n
		},
	}

	// RawCmd sends text as it is.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "TEXT",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("TEXT required"))
				return
			}
			if err := ShellFrom(c).SendRaw([]byte(c.Args[0])); err != nil {
				c.Err(err)
			}
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(NewConfig()).Run(flag.Args()...)
}
