package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/pisibot/pkg/framework"
)

// GroupRobot is the type group of robot telemetry.
const GroupRobot uint32 = 0x00010000

// TypeIDs
const (
	StatusTypeID      uint32 = TypeIDKindEvent | GroupRobot | 0x0000
	DecodeStatsTypeID uint32 = TypeIDKindEvent | GroupRobot | 0x0001
)

// Status is the periodic robot status event.
type Status struct {
	State           string       `protobuf:"bytes,1,opt,name=state,proto3" json:"state,omitempty"`
	Command         string       `protobuf:"bytes,2,opt,name=command,proto3" json:"command,omitempty"`
	Args            []int32      `protobuf:"zigzag32,3,rep,packed,name=args,proto3" json:"args,omitempty"`
	Done            bool         `protobuf:"varint,4,opt,name=done,proto3" json:"done,omitempty"`
	SinceCommandMs  int64        `protobuf:"varint,5,opt,name=since_command_ms,proto3" json:"since_command_ms,omitempty"`
	WatchdogTrips   uint64       `protobuf:"varint,6,opt,name=watchdog_trips,proto3" json:"watchdog_trips,omitempty"`
	Drive           *DriveStatus `protobuf:"bytes,7,opt,name=drive,proto3" json:"drive,omitempty"`
	Decode          *DecodeStats `protobuf:"bytes,8,opt,name=decode,proto3" json:"decode,omitempty"`
	TimestampMillis int64        `protobuf:"varint,9,opt,name=timestamp_millis,proto3" json:"timestamp_millis,omitempty"`
}

// NewMessage implements Message.
func (m *Status) NewMessage() fx.Message { return &Status{} }

// TypeID implements SerializableMessage.
func (m *Status) TypeID() uint32 { return StatusTypeID }

// Serializable implements SerializableMessage.
func (m *Status) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *Status) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Status) Reset() { *m = Status{} }

// String implements proto.Message.
func (m *Status) String() string { return proto.CompactTextString(m) }

// DriveStatus reflects the drive controller.
type DriveStatus struct {
	LeftTicks  int32   `protobuf:"zigzag32,1,opt,name=left_ticks,proto3" json:"left_ticks,omitempty"`
	RightTicks int32   `protobuf:"zigzag32,2,opt,name=right_ticks,proto3" json:"right_ticks,omitempty"`
	LeftMm     int32   `protobuf:"zigzag32,3,opt,name=left_mm,proto3" json:"left_mm,omitempty"`
	RightMm    int32   `protobuf:"zigzag32,4,opt,name=right_mm,proto3" json:"right_mm,omitempty"`
	Error      int32   `protobuf:"zigzag32,5,opt,name=error,proto3" json:"error,omitempty"`
	Correction float64 `protobuf:"fixed64,6,opt,name=correction,proto3" json:"correction,omitempty"`
	LeftPower  int32   `protobuf:"zigzag32,7,opt,name=left_power,proto3" json:"left_power,omitempty"`
	RightPower int32   `protobuf:"zigzag32,8,opt,name=right_power,proto3" json:"right_power,omitempty"`
	Behavior   string  `protobuf:"bytes,9,opt,name=behavior,proto3" json:"behavior,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *DriveStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DriveStatus) Reset() { *m = DriveStatus{} }

// String implements proto.Message.
func (m *DriveStatus) String() string { return proto.CompactTextString(m) }

// DecodeStats counts radio decode outcomes.
type DecodeStats struct {
	Chunks            uint64 `protobuf:"varint,1,opt,name=chunks,proto3" json:"chunks,omitempty"`
	Decoded           uint64 `protobuf:"varint,2,opt,name=decoded,proto3" json:"decoded,omitempty"`
	TooShort          uint64 `protobuf:"varint,3,opt,name=too_short,proto3" json:"too_short,omitempty"`
	Truncated         uint64 `protobuf:"varint,4,opt,name=truncated,proto3" json:"truncated,omitempty"`
	NoPreamble        uint64 `protobuf:"varint,5,opt,name=no_preamble,proto3" json:"no_preamble,omitempty"`
	AddressMismatch   uint64 `protobuf:"varint,6,opt,name=address_mismatch,proto3" json:"address_mismatch,omitempty"`
	InvalidType       uint64 `protobuf:"varint,7,opt,name=invalid_type,proto3" json:"invalid_type,omitempty"`
	ZeroLength        uint64 `protobuf:"varint,8,opt,name=zero_length,proto3" json:"zero_length,omitempty"`
	Checksum          uint64 `protobuf:"varint,9,opt,name=checksum,proto3" json:"checksum,omitempty"`
	MalformedByte     uint64 `protobuf:"varint,10,opt,name=malformed_byte,proto3" json:"malformed_byte,omitempty"`
	MalformedArgument uint64 `protobuf:"varint,11,opt,name=malformed_argument,proto3" json:"malformed_argument,omitempty"`
	Incomplete        uint64 `protobuf:"varint,12,opt,name=incomplete,proto3" json:"incomplete,omitempty"`
}

// NewMessage implements Message.
func (m *DecodeStats) NewMessage() fx.Message { return &DecodeStats{} }

// TypeID implements SerializableMessage.
func (m *DecodeStats) TypeID() uint32 { return DecodeStatsTypeID }

// Serializable implements SerializableMessage.
func (m *DecodeStats) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *DecodeStats) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DecodeStats) Reset() { *m = DecodeStats{} }

// String implements proto.Message.
func (m *DecodeStats) String() string { return proto.CompactTextString(m) }
