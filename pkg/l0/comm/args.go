package comm

import "bytes"

// ParseArgs decodes the data field into dst and returns the argument count.
//
// With delimiters present the field is consumed from the right: the value
// after the last delimiter fills the last slot, the field is cut at that
// delimiter, and so on until the remaining prefix becomes the first
// argument. Tokenizing from the left used to lose the sign of a leading
// negative value ("-500,-500" came out as 500,-500).
//
// dst may be partially written when an error is returned.
func ParseArgs(data []byte, delim byte, dst []int16) (int, error) {
	count := bytes.Count(data, []byte{delim}) + 1
	if count > len(dst) {
		return 0, ErrMalformedArgument
	}
	end := len(data)
	for i := count - 1; i > 0; i-- {
		pos := bytes.LastIndexByte(data[:end], delim)
		val, err := parseArg(data[pos+1 : end])
		if err != nil {
			return 0, err
		}
		dst[i], end = val, pos
	}
	val, err := parseArg(data[:end])
	if err != nil {
		return 0, err
	}
	dst[0] = val
	return count, nil
}

// parseArg parses an optionally signed hexadecimal int16 without
// allocating.
func parseArg(s []byte) (int16, error) {
	neg := false
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if len(s) == 0 {
		return 0, ErrMalformedArgument
	}
	var val int32
	for _, c := range s {
		d, ok := hexDigit(c)
		if !ok {
			return 0, ErrMalformedArgument
		}
		val = val<<4 | int32(d)
		if val > 0x8000 {
			return 0, ErrMalformedArgument
		}
	}
	if neg {
		val = -val
	}
	if val > 0x7fff {
		return 0, ErrMalformedArgument
	}
	return int16(val), nil
}
