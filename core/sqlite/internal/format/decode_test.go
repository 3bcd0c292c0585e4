package format

import (
	"math"
	"testing"
)

func TestReadSignedWidths(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		read func([]byte, int) int64
		want int64
	}{
		{"int8 positive", []byte{0x7f}, ReadInt8, 127},
		{"int8 negative", []byte{0x80}, ReadInt8, -128},
		{"int16 negative", []byte{0xff, 0xfe}, ReadInt16, -2},
		{"int24 positive", []byte{0x01, 0x00, 0x00}, ReadInt24, 65536},
		{"int24 negative", []byte{0xff, 0xff, 0xff}, ReadInt24, -1},
		{"int24 min", []byte{0x80, 0x00, 0x00}, ReadInt24, -8388608},
		{"int32 negative", []byte{0xff, 0xff, 0xff, 0x00}, ReadInt32, -256},
		{"int48 positive", []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x00}, ReadInt48, 1 << 32},
		{"int48 negative", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xfd}, ReadInt48, -3},
		{"int48 min", []byte{0x80, 0x00, 0x00, 0x00, 0x00, 0x00}, ReadInt48, -(1 << 47)},
		{"int64 min", []byte{0x80, 0, 0, 0, 0, 0, 0, 0}, ReadInt64, math.MinInt64},
		{"int64 max", []byte{0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, ReadInt64, math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.read(tt.buf, 0); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReadUnsignedAtOffset(t *testing.T) {
	buf := []byte{0xde, 0xad, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}

	if got := ReadUint8(buf, 1); got != 0xad {
		t.Errorf("ReadUint8() = 0x%x", got)
	}
	if got := ReadUint16(buf, 2); got != 0x1234 {
		t.Errorf("ReadUint16() = 0x%x", got)
	}
	if got := ReadUint24(buf, 2); got != 0x123456 {
		t.Errorf("ReadUint24() = 0x%x", got)
	}
	if got := ReadUint32(buf, 2); got != 0x12345678 {
		t.Errorf("ReadUint32() = 0x%x", got)
	}
	if got := ReadUint48(buf, 2); got != 0x123456789abc {
		t.Errorf("ReadUint48() = 0x%x", got)
	}
	if got := ReadUint64(buf, 2); got != 0x123456789abcdef0 {
		t.Errorf("ReadUint64() = 0x%x", got)
	}
}

func TestReadFloat64(t *testing.T) {
	// 3.14159 as IEEE 754 big-endian
	buf := []byte{0x40, 0x09, 0x21, 0xf9, 0xf0, 0x1b, 0x86, 0x6e}
	if got := ReadFloat64(buf, 0); got != 3.14159 {
		t.Errorf("ReadFloat64() = %v, want 3.14159", got)
	}
}
