package physfs

import "encoding/binary"

// SwapU16/SwapU32/SwapU64 byte-swap an unsigned integer, for callers
// porting code that handled wire byte order manually. Idiomatic Go callers
// should prefer binary.LittleEndian/BigEndian directly.
func SwapU16(v uint16) uint16 { return v<<8 | v>>8 }

func SwapU32(v uint32) uint32 {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)

	return binary.LittleEndian.Uint32(b[:])
}

func SwapU64(v uint64) uint64 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)

	return binary.LittleEndian.Uint64(b[:])
}

// LittleEndianU16/U32/U64 and BigEndianU16/U32/U64 decode a fixed-size
// prefix of b into an unsigned integer, matching the explicit
// readLE16/readBE32-style accessors used throughout the archive-format
// backends.
func LittleEndianU16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func LittleEndianU32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func LittleEndianU64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

func BigEndianU16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }
func BigEndianU32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }
func BigEndianU64(b []byte) uint64 { return binary.BigEndian.Uint64(b) }
