package comm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	testCases := []struct {
		name   string
		data   string
		expect []int16
		err    error
	}{
		{"single", "1F4", []int16{500}, nil},
		{"single negative", "-1F4", []int16{-500}, nil},
		{"leading negative", "-1F4,-1F4", []int16{-500, -500}, nil},
		{"first negative", "-1F4,1F4", []int16{-500, 500}, nil},
		{"second negative", "1F4,-1F4", []int16{500, -500}, nil},
		{"positive", "1F4,1F4", []int16{500, 500}, nil},
		{"three", "7D0,-1,0", []int16{2000, -1, 0}, nil},
		{"explicit sign", "+a,-B", []int16{10, -11}, nil},
		{"min", "-8000", []int16{-32768}, nil},
		{"max", "7FFF", []int16{32767}, nil},
		{"overflow", "8000", nil, ErrMalformedArgument},
		{"underflow", "-8001", nil, ErrMalformedArgument},
		{"long overflow", "1F4,100000000", nil, ErrMalformedArgument},
		{"empty", "", nil, ErrMalformedArgument},
		{"empty first", ",1", nil, ErrMalformedArgument},
		{"empty last", "1,", nil, ErrMalformedArgument},
		{"sign only", "1,-", nil, ErrMalformedArgument},
		{"not hex", "1,X", nil, ErrMalformedArgument},
		{"double sign", "--1", nil, ErrMalformedArgument},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var dst [MaxArgs]int16
			n, err := ParseArgs([]byte(tc.data), ArgDelim, dst[:])
			require.Equal(t, tc.err, err)
			if err == nil {
				require.Equal(t, tc.expect, dst[:n])
			}
		})
	}
}

func TestParseArgsLimit(t *testing.T) {
	var dst [MaxArgs]int16
	data := strings.Repeat("1,", MaxArgs-1) + "2"
	n, err := ParseArgs([]byte(data), ArgDelim, dst[:])
	require.NoError(t, err)
	require.Equal(t, MaxArgs, n)
	require.Equal(t, int16(1), dst[0])
	require.Equal(t, int16(2), dst[MaxArgs-1])

	_, err = ParseArgs([]byte("1,"+data), ArgDelim, dst[:])
	require.Equal(t, ErrMalformedArgument, err)
}

func TestParseArgsDelimiter(t *testing.T) {
	var dst [4]int16
	n, err := ParseArgs([]byte("-a;b"), ';', dst[:])
	require.NoError(t, err)
	require.Equal(t, []int16{-10, 11}, dst[:n])
}
