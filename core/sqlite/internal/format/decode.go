package format

import (
	"encoding/binary"
	"math"
)

// Fixed-width big-endian readers. Callers guarantee that buf holds at least
// offset+width bytes; page and record decoders validate bounds before calling.

// ReadUint8 reads one unsigned byte.
func ReadUint8(buf []byte, offset int) uint8 {
	return buf[offset]
}

// ReadUint16 reads a big-endian 16-bit unsigned integer.
func ReadUint16(buf []byte, offset int) uint16 {
	return binary.BigEndian.Uint16(buf[offset:])
}

// ReadUint24 reads a big-endian 24-bit unsigned integer.
func ReadUint24(buf []byte, offset int) uint32 {
	return uint32(buf[offset])<<16 | uint32(buf[offset+1])<<8 | uint32(buf[offset+2])
}

// ReadUint32 reads a big-endian 32-bit unsigned integer.
func ReadUint32(buf []byte, offset int) uint32 {
	return binary.BigEndian.Uint32(buf[offset:])
}

// ReadUint48 reads a big-endian 48-bit unsigned integer.
func ReadUint48(buf []byte, offset int) uint64 {
	return uint64(binary.BigEndian.Uint16(buf[offset:]))<<32 | uint64(binary.BigEndian.Uint32(buf[offset+2:]))
}

// ReadUint64 reads a big-endian 64-bit unsigned integer.
func ReadUint64(buf []byte, offset int) uint64 {
	return binary.BigEndian.Uint64(buf[offset:])
}

// ReadInt8 reads a signed byte.
func ReadInt8(buf []byte, offset int) int64 {
	return int64(int8(buf[offset]))
}

// ReadInt16 reads a big-endian two's complement 16-bit integer.
func ReadInt16(buf []byte, offset int) int64 {
	return int64(int16(ReadUint16(buf, offset)))
}

// ReadInt24 reads a big-endian two's complement 24-bit integer.
func ReadInt24(buf []byte, offset int) int64 {
	v := int64(ReadUint24(buf, offset))
	if v&0x800000 != 0 {
		v |= ^0xffffff // Sign extend
	}
	return v
}

// ReadInt32 reads a big-endian two's complement 32-bit integer.
func ReadInt32(buf []byte, offset int) int64 {
	return int64(int32(ReadUint32(buf, offset)))
}

// ReadInt48 reads a big-endian two's complement 48-bit integer.
func ReadInt48(buf []byte, offset int) int64 {
	v := int64(ReadUint48(buf, offset))
	if v&0x800000000000 != 0 {
		v |= ^0xffffffffffff // Sign extend
	}
	return v
}

// ReadInt64 reads a big-endian two's complement 64-bit integer.
func ReadInt64(buf []byte, offset int) int64 {
	return int64(ReadUint64(buf, offset))
}

// ReadFloat64 reads a big-endian IEEE 754 double.
func ReadFloat64(buf []byte, offset int) float64 {
	return math.Float64frombits(ReadUint64(buf, offset))
}
