package physfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Expectation: SwapU16/32/64 should reverse a value's byte order.
func Test_Swap_Success(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint16(0x3412), SwapU16(0x1234))
	require.Equal(t, uint32(0x78563412), SwapU32(0x12345678))
	require.Equal(t, uint64(0xf0debc9a78563412), SwapU64(0x123456789abcdef0))
}

// Expectation: LittleEndian/BigEndian accessors should decode a
// fixed-width prefix of b using the matching byte order.
func Test_EndianAccessors_Success(t *testing.T) {
	t.Parallel()

	b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	require.Equal(t, uint16(0x0201), LittleEndianU16(b))
	require.Equal(t, uint32(0x04030201), LittleEndianU32(b))
	require.Equal(t, uint64(0x0807060504030201), LittleEndianU64(b))

	require.Equal(t, uint16(0x0102), BigEndianU16(b))
	require.Equal(t, uint32(0x01020304), BigEndianU32(b))
	require.Equal(t, uint64(0x0102030405060708), BigEndianU64(b))
}
