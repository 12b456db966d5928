package comm

import "errors"

// Buffer level errors. The whole receive buffer is discarded.
var (
	// ErrTooShort indicates less than one message worth of bytes is left.
	ErrTooShort = errors.New("buffer too short")
	// ErrTruncated indicates the read filled the whole buffer, so the
	// data was cut and can't be trusted.
	ErrTruncated = errors.New("buffer truncated")
	// ErrNoPreamble indicates no message boundary is left in the buffer.
	ErrNoPreamble = errors.New("preamble not found")
)

// Message level errors. Only the current message is skipped.
var (
	// ErrAddressMismatch indicates the message is for another robot.
	ErrAddressMismatch = errors.New("address mismatch")
	// ErrInvalidType indicates an unknown command type.
	ErrInvalidType = errors.New("invalid command type")
	// ErrZeroLength indicates the length byte is 0.
	ErrZeroLength = errors.New("zero data length")
	// ErrChecksum indicates checksum mismatch.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrMalformedByte indicates a header or checksum field is not two
	// hexadecimal characters.
	ErrMalformedByte = errors.New("malformed byte")
	// ErrMalformedArgument indicates an argument is not a signed 16-bit
	// hexadecimal number.
	ErrMalformedArgument = errors.New("malformed argument")
	// ErrIncomplete indicates the data or checksum runs past the end of
	// the buffer.
	ErrIncomplete = errors.New("incomplete message")
)

// Encoding errors.
var (
	// ErrNoArgs indicates a message without arguments, which can't be
	// encoded as the length byte must not be 0.
	ErrNoArgs = errors.New("no arguments")
	// ErrDataTooLong indicates the encoded data exceeds MaxDataLen.
	ErrDataTooLong = errors.New("data too long")
)

// IsBufferError tells if err discards the whole buffer rather than
// a single message.
func IsBufferError(err error) bool {
	return err == ErrTooShort || err == ErrTruncated || err == ErrNoPreamble
}
