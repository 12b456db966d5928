// Package transport opens the byte stream connected to the radio.
package transport

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"
	"golang.org/x/net/websocket"

	"github.com/robotalks/pisibot/pkg/l1/comm/mqtt"
)

// DefaultBaudRate is the baud rate the radio is configured for.
const DefaultBaudRate = 57600

// DialTimeout limits connecting network transports.
var DialTimeout = 5 * time.Second

// Stdio is the URL selecting standard input and output.
const Stdio = "stdio"

// Open opens the transport specified by rawURL:
//
//	serial:///dev/ttyUSB0?baud=57600
//	tcp://host:port
//	ws://host:port/path
//	mqtt://broker:1883/prefix/?sub=radio/down&pub=radio/up
//	stdio
func Open(rawURL string) (io.ReadWriteCloser, error) {
	if rawURL == Stdio || rawURL == "-" {
		return StdioStream(), nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid transport URL: %v", err)
	}
	glog.Infof("open transport %s", u.Redacted())
	switch u.Scheme {
	case "serial":
		return openSerial(u)
	case "tcp":
		return net.DialTimeout("tcp", u.Host, DialTimeout)
	case "ws", "wss":
		return openWebsocket(u)
	case "mqtt":
		return mqtt.OpenStream(u)
	}
	return nil, fmt.Errorf("unknown transport scheme: %q", u.Scheme)
}

func openSerial(u *url.URL) (io.ReadWriteCloser, error) {
	device, mode, err := serialMode(u)
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v", device, err)
	}
	return port, nil
}

// serialMode extracts the device and port settings from a serial URL.
func serialMode(u *url.URL) (string, *serial.Mode, error) {
	device := u.Path
	if device == "" {
		device = u.Opaque
	}
	if device == "" {
		return "", nil, fmt.Errorf("serial device required")
	}
	baud := DefaultBaudRate
	if val := u.Query().Get("baud"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			return "", nil, fmt.Errorf("invalid baud rate: %q", val)
		}
		baud = n
	}
	return device, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}, nil
}

func openWebsocket(u *url.URL) (io.ReadWriteCloser, error) {
	origin := "http://" + u.Host + "/"
	if u.Scheme == "wss" {
		origin = "https://" + u.Host + "/"
	}
	conf, err := websocket.NewConfig(u.String(), origin)
	if err != nil {
		return nil, err
	}
	conf.Dialer = &net.Dialer{Timeout: DialTimeout}
	return websocket.DialConfig(conf)
}

type stdioStream struct {
	io.Reader
	io.Writer
}

func (s *stdioStream) Close() error {
	return os.Stdin.Close()
}

// StdioStream combines standard input and output.
func StdioStream() io.ReadWriteCloser {
	return &stdioStream{Reader: os.Stdin, Writer: os.Stdout}
}
