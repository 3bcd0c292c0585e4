package dbtest

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/format"
)

// Field is a record column with an explicit serial type and body bytes.
type Field struct {
	SerialType uint64
	Data       []byte
}

// Record encodes values as a record payload, choosing the smallest serial
// type for each. Supported values are nil, int, int64, float64, string and []byte.
func Record(values ...any) []byte {
	fields := make([]Field, len(values))
	for i, v := range values {
		fields[i] = FieldOf(v)
	}
	return RawRecord(fields...)
}

// FieldOf returns the field SQLite would write for v.
func FieldOf(v any) Field {
	switch v := v.(type) {
	case nil:
		return Field{SerialType: 0}
	case int:
		return intField(int64(v))
	case int64:
		return intField(v)
	case float64:
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, math.Float64bits(v))
		return Field{SerialType: 7, Data: buf}
	case string:
		return Field{SerialType: uint64(13 + 2*len(v)), Data: []byte(v)}
	case []byte:
		return Field{SerialType: uint64(12 + 2*len(v)), Data: v}
	default:
		panic(fmt.Sprintf("dbtest: unsupported record value %T", v))
	}
}

// IntField encodes v with the given integer serial type (1..6).
func IntField(serialType uint64, v int64) Field {
	widths := map[uint64]int{1: 1, 2: 2, 3: 3, 4: 4, 5: 6, 6: 8}
	width, ok := widths[serialType]
	if !ok {
		panic(fmt.Sprintf("dbtest: %d is not an integer serial type", serialType))
	}
	var full [8]byte
	binary.BigEndian.PutUint64(full[:], uint64(v))
	return Field{SerialType: serialType, Data: append([]byte(nil), full[8-width:]...)}
}

func intField(v int64) Field {
	switch {
	case v == 0:
		return Field{SerialType: 8}
	case v == 1:
		return Field{SerialType: 9}
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return IntField(1, v)
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return IntField(2, v)
	case v >= -(1<<23) && v < 1<<23:
		return IntField(3, v)
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return IntField(4, v)
	case v >= -(1<<47) && v < 1<<47:
		return IntField(5, v)
	default:
		return IntField(6, v)
	}
}

// RawRecord encodes fields exactly as given.
func RawRecord(fields ...Field) []byte {
	typesLen := 0
	for _, f := range fields {
		typesLen += format.VarintLen(f.SerialType)
	}
	// The header length counts its own varint.
	headerLen := typesLen + 1
	for format.VarintLen(uint64(headerLen))+typesLen != headerLen {
		headerLen = format.VarintLen(uint64(headerLen)) + typesLen
	}

	out := format.AppendVarint(nil, uint64(headerLen))
	for _, f := range fields {
		out = format.AppendVarint(out, f.SerialType)
	}
	for _, f := range fields {
		out = append(out, f.Data...)
	}
	return out
}
