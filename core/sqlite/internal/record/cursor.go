package record

import (
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/format"
)

// Cursor reads the columns of one row. It borrows the payload, which stays
// valid for as long as the page it came from.
type Cursor struct {
	rowid   int64
	payload []byte
	header  Header
}

// NewCursor decodes the record header of payload.
func NewCursor(rowid int64, payload []byte) (*Cursor, error) {
	h, err := ParseHeader(payload)
	if err != nil {
		return nil, err
	}
	return &Cursor{rowid: rowid, payload: payload, header: h}, nil
}

// RowID returns the row's key.
func (c *Cursor) RowID() int64 {
	return c.rowid
}

// Len returns the number of fields in the record.
func (c *Cursor) Len() int {
	return len(c.header.Fields)
}

// Header returns the decoded record header.
func (c *Cursor) Header() Header {
	return c.header
}

// Field returns column i. ok is false when the record has fewer columns.
// Text and blob values alias the payload.
func (c *Cursor) Field(i int) (v Value, ok bool) {
	if i < 0 || i >= len(c.header.Fields) {
		return Value{}, false
	}
	f := c.header.Fields[i]
	p := c.payload

	switch f.Type {
	case TypeNull:
		return Value{Kind: KindNull}, true
	case TypeInt8:
		return Value{Kind: KindInt, Int: format.ReadInt8(p, f.Offset)}, true
	case TypeInt16:
		return Value{Kind: KindInt, Int: format.ReadInt16(p, f.Offset)}, true
	case TypeInt24:
		return Value{Kind: KindInt, Int: format.ReadInt24(p, f.Offset)}, true
	case TypeInt32:
		return Value{Kind: KindInt, Int: format.ReadInt32(p, f.Offset)}, true
	case TypeInt48:
		return Value{Kind: KindInt, Int: format.ReadInt48(p, f.Offset)}, true
	case TypeInt64:
		return Value{Kind: KindInt, Int: format.ReadInt64(p, f.Offset)}, true
	case TypeFloat:
		return Value{Kind: KindFloat, Float: format.ReadFloat64(p, f.Offset)}, true
	case TypeZero:
		return Value{Kind: KindInt, Int: 0}, true
	case TypeOne:
		return Value{Kind: KindInt, Int: 1}, true
	case TypeText:
		end := f.Offset + f.Length
		return Value{Kind: KindText, Bytes: p[f.Offset:end:end]}, true
	default:
		end := f.Offset + f.Length
		return Value{Kind: KindBlob, Bytes: p[f.Offset:end:end]}, true
	}
}

// OwnedField is Field followed by Owned.
func (c *Cursor) OwnedField(i int) (OwnedValue, bool) {
	v, ok := c.Field(i)
	if !ok {
		return OwnedValue{}, false
	}
	return v.Owned(), true
}
