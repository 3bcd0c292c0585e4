// Package record decodes SQLite record payloads: a varint header of serial
// types followed by the column bodies.
package record

import (
	"github.com/FocuswithJustin/pagelite/core/errors"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/format"
)

// FieldType is the storage class and width selected by a serial type.
type FieldType uint8

// Field types, one per serial type class.
const (
	TypeNull  FieldType = iota // serial type 0
	TypeInt8                   // 1
	TypeInt16                  // 2
	TypeInt24                  // 3
	TypeInt32                  // 4
	TypeInt48                  // 5
	TypeInt64                  // 6
	TypeFloat                  // 7
	TypeZero                   // 8, literal 0
	TypeOne                    // 9, literal 1
	TypeBlob                   // even n >= 12
	TypeText                   // odd n >= 13
)

var fieldTypeNames = [...]string{
	TypeNull:  "null",
	TypeInt8:  "int8",
	TypeInt16: "int16",
	TypeInt24: "int24",
	TypeInt32: "int32",
	TypeInt48: "int48",
	TypeInt64: "int64",
	TypeFloat: "float",
	TypeZero:  "zero",
	TypeOne:   "one",
	TypeBlob:  "blob",
	TypeText:  "text",
}

func (t FieldType) String() string {
	if int(t) < len(fieldTypeNames) {
		return fieldTypeNames[t]
	}
	return "unknown"
}

// intWidths maps integer field types to their body size in bytes.
var intWidths = [...]int{
	TypeInt8:  1,
	TypeInt16: 2,
	TypeInt24: 3,
	TypeInt32: 4,
	TypeInt48: 6,
	TypeInt64: 8,
}

// Field locates one column inside a payload.
type Field struct {
	Offset int // absolute offset of the body in the payload
	Length int // body length in bytes
	Type   FieldType
}

// Header is a decoded record header.
type Header struct {
	Size   int // header length in bytes, including its own varint
	Fields []Field
}

// SerialType returns the field type and body length for serial type st.
// Serial types 10 and 11 are reserved and rejected.
func SerialType(st int64) (FieldType, int, error) {
	switch {
	case st == 0:
		return TypeNull, 0, nil
	case st >= 1 && st <= 6:
		t := FieldType(st)
		return t, intWidths[t], nil
	case st == 7:
		return TypeFloat, 8, nil
	case st == 8:
		return TypeZero, 0, nil
	case st == 9:
		return TypeOne, 0, nil
	case st >= 12 && st%2 == 0:
		return TypeBlob, int((st - 12) / 2), nil
	case st >= 13:
		return TypeText, int((st - 13) / 2), nil
	default:
		return 0, 0, errors.NewFormat(0, "unsupported record serial type %d", st)
	}
}

// ParseHeader decodes the header of payload and checks that every field body
// lies inside the payload.
func ParseHeader(payload []byte) (Header, error) {
	size, n := format.ReadVarint(payload, 0)
	if n == 0 {
		return Header{}, errors.NewFormat(0, "record header length is truncated")
	}
	if size < int64(n) || size > int64(len(payload)) {
		return Header{}, errors.NewFormat(0, "record header length %d outside payload of %d bytes", size, len(payload))
	}

	h := Header{Size: int(size)}
	pos := n
	body := int(size)
	for pos < h.Size {
		st, n := format.ReadVarint(payload[:h.Size], pos)
		if n == 0 {
			return Header{}, errors.NewFormat(0, "record serial type %d is truncated", len(h.Fields))
		}
		pos += n

		t, length, err := SerialType(st)
		if err != nil {
			return Header{}, err
		}
		if length > len(payload)-body {
			return Header{}, errors.NewFormat(0, "record field %d (%s, %d bytes) runs past payload end", len(h.Fields), t, length)
		}
		h.Fields = append(h.Fields, Field{Offset: body, Length: length, Type: t})
		body += length
	}

	return h, nil
}
