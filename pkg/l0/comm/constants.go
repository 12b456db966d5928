package comm

// Protocol constants.
const (
	// Preamble marks the start of every message.
	Preamble = "0000"
	// Broadcast is the address accepted by every robot.
	Broadcast byte = 0xff
	// MinMessageLen is the length of the shortest legal message.
	MinMessageLen = 13
	// DefaultBufferSize is the receive buffer capacity.
	DefaultBufferSize = 1024
	// MaxArgs is the maximum number of arguments of one command.
	MaxArgs = 256
	// ArgDelim separates arguments in the data field.
	ArgDelim byte = ','
	// HeaderStride is how far the cursor moves past a rejected message.
	HeaderStride = 4
	// MaxDataLen is the largest data field the length byte can describe.
	MaxDataLen = 0xff
)

const (
	offsetAddress = 4
	offsetType    = 6
	offsetLength  = 8
	offsetData    = 10
	byteWidth     = 2
)
