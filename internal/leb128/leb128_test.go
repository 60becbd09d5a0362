package leb128

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadUint32(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		exp  uint32
		n    uint64
	}{
		{"single byte", []byte{0x02}, 2, 1},
		{"max single byte", []byte{0x7f}, 127, 1},
		{"two bytes", []byte{0x80, 0x01}, 128, 2},
		{"trailing garbage ignored", []byte{0x81, 0x01, 0xff}, 129, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, n, err := LoadUint32(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.exp, v)
			require.Equal(t, tc.n, n)
		})
	}
}

func TestLoadUint32_TruncatedBuffer(t *testing.T) {
	_, _, err := LoadUint32([]byte{0x80})
	require.Error(t, err)
}

func TestLoadInt32(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		exp  int32
	}{
		{"positive", []byte{0x02}, 2},
		{"negative one", []byte{0x7f}, -1},
		{"negative two bytes", []byte{0xfe, 0x7f}, -2},
		{"negative large", []byte{0x80, 0x7f}, -128},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, _, err := LoadInt32(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.exp, v)
		})
	}
}

func TestLoadInt64_SignExtension(t *testing.T) {
	v, n, err := LoadInt64([]byte{0x7f})
	require.NoError(t, err)
	require.Equal(t, int64(-1), v)
	require.Equal(t, uint64(1), n)
}

func TestLoadUint64_TwoBytes(t *testing.T) {
	// 300 encoded as unsigned LEB128.
	buf := []byte{0xac, 0x02}
	v, n, err := LoadUint64(buf)
	require.NoError(t, err)
	require.Equal(t, uint64(300), v)
	require.Equal(t, uint64(2), n)
}
