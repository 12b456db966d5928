package comm

import (
	"io"
	"strconv"
)

// Terminator ends a transmission on the radio link.
const Terminator byte = 'G'

// Message is an outgoing message.
type Message struct {
	Address byte
	Type    CommandType
	Args    []int16
}

const hexDigits = "0123456789ABCDEF"

// Encode renders the message without terminator.
func (m *Message) Encode() ([]byte, error) {
	if len(m.Args) == 0 {
		return nil, ErrNoArgs
	}
	var data []byte
	for i, arg := range m.Args {
		if i > 0 {
			data = append(data, ArgDelim)
		}
		if arg < 0 {
			data = append(data, '-')
		}
		v := int64(arg)
		if v < 0 {
			v = -v
		}
		data = strconv.AppendInt(data, v, 16)
	}
	if len(data) > MaxDataLen {
		return nil, ErrDataTooLong
	}
	for i, c := range data {
		if c >= 'a' && c <= 'f' {
			data[i] = c - 'a' + 'A'
		}
	}
	out := make([]byte, 0, offsetData+len(data)+byteWidth)
	out = append(out, Preamble...)
	out = appendHexByte(out, m.Address)
	out = appendHexByte(out, byte(m.Type))
	out = appendHexByte(out, byte(len(data)))
	out = append(out, data...)
	out = appendHexByte(out, Checksum(out[offsetAddress:]))
	return out, nil
}

// WriteTo writes the encoded message followed by Terminator.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	out, err := m.Encode()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(append(out, Terminator))
	return int64(n), err
}

func appendHexByte(out []byte, b byte) []byte {
	return append(out, hexDigits[b>>4], hexDigits[b&0xf])
}
