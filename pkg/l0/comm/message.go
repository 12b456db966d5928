package comm

// frame is a validated message located in the receive buffer. data points
// into the buffer.
type frame struct {
	address byte
	typ     CommandType
	data    []byte
	size    int
}

// Checksum computes the checksum over body, which is everything from the
// address through the end of data.
func Checksum(body []byte) byte {
	var sum uint32
	for _, c := range body {
		sum += uint32(c)
	}
	return byte(sum % 255)
}

// Accepts tells if a message sent to address is for robot id.
func Accepts(id, address byte) bool {
	return address == id || address == Broadcast
}

// validateFrame checks the message at the start of msg, which must begin
// with a preamble. Fields are checked in order address, length, checksum,
// type, so a corrupted type byte is reported as checksum mismatch.
func validateFrame(msg []byte, id byte) (f frame, err error) {
	if len(msg) < offsetData {
		return f, ErrIncomplete
	}
	var ok bool
	if f.address, ok = hexByte(msg[offsetAddress:]); !ok {
		return f, ErrMalformedByte
	}
	if !Accepts(id, f.address) {
		return f, ErrAddressMismatch
	}
	length, ok := hexByte(msg[offsetLength:])
	if !ok {
		return f, ErrMalformedByte
	}
	if length == 0 {
		return f, ErrZeroLength
	}
	end := offsetData + int(length)
	if end+byteWidth > len(msg) {
		return f, ErrIncomplete
	}
	sum, ok := hexByte(msg[end:])
	if !ok {
		return f, ErrMalformedByte
	}
	if Checksum(msg[offsetAddress:end]) != sum {
		return f, ErrChecksum
	}
	typ, ok := hexByte(msg[offsetType:])
	if !ok {
		return f, ErrMalformedByte
	}
	if f.typ = CommandType(typ); !f.typ.Valid() {
		return f, ErrInvalidType
	}
	f.data, f.size = msg[offsetData:end], end+byteWidth
	return f, nil
}

// hexByte parses exactly two hexadecimal characters at the start of s.
func hexByte(s []byte) (byte, bool) {
	if len(s) < byteWidth {
		return 0, false
	}
	hi, ok := hexDigit(s[0])
	if !ok {
		return 0, false
	}
	lo, ok := hexDigit(s[1])
	if !ok {
		return 0, false
	}
	return hi<<4 | lo, true
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
