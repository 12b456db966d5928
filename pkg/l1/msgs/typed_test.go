package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypedStatus(t *testing.T) {
	status := &Status{
		State:   "RUNNING",
		Command: "DRIVE",
		Args:    []int32{-2000, 500},
		Drive: &DriveStatus{
			LeftTicks:  -120,
			Correction: -12.5,
			LeftPower:  -512,
			Behavior:   "turn-right",
		},
		Decode:        &DecodeStats{Decoded: 3, Checksum: 1},
		WatchdogTrips: 2,
	}
	data, err := EncodeTyped(status)
	require.NoError(t, err)

	typed, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, StatusTypeID, typed.TypeID)
	require.True(t, typed.IsEvent())

	msg, err := typed.Decode()
	require.NoError(t, err)
	require.Equal(t, status, msg)
}

func TestTypedUnknown(t *testing.T) {
	typed := &Typed{TypeID: 0x1234}
	_, err := typed.Decode()
	require.Equal(t, &ErrUnknownType{TypeID: 0x1234}, err)
	require.Contains(t, err.Error(), "1234")

	_, err = TypedFrom(nil)
	require.Equal(t, ErrNotSerializable, err)
}
