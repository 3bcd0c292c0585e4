package record

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the dynamic type of a value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "integer"
	case KindFloat:
		return "real"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a column value read from a payload. For text and blob values
// Bytes aliases the page buffer; call Owned before keeping it.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Bytes []byte
}

// Owned copies v into a value that does not reference the page.
func (v Value) Owned() OwnedValue {
	switch v.Kind {
	case KindInt:
		return OwnedValue{Kind: KindInt, Int: v.Int}
	case KindFloat:
		return OwnedValue{Kind: KindFloat, Float: v.Float}
	case KindText:
		return OwnedValue{Kind: KindText, Text: string(v.Bytes)}
	case KindBlob:
		return OwnedValue{Kind: KindBlob, Blob: bytes.Clone(v.Bytes)}
	default:
		return OwnedValue{}
	}
}

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Text returns the text bytes as a string. The result is a copy.
func (v Value) Text() string {
	return string(v.Bytes)
}

func (v Value) String() string {
	return v.Owned().String()
}

// OwnedValue is a column value that owns its text and blob bytes.
type OwnedValue struct {
	Kind  Kind
	Int   int64
	Float float64
	Text  string
	Blob  []byte
}

// Null, Int, Float, Text and Blob build owned values.
func Null() OwnedValue { return OwnedValue{} }
func Int(v int64) OwnedValue { return OwnedValue{Kind: KindInt, Int: v} }
func Float(v float64) OwnedValue { return OwnedValue{Kind: KindFloat, Float: v} }
func Text(v string) OwnedValue { return OwnedValue{Kind: KindText, Text: v} }
func Blob(v []byte) OwnedValue { return OwnedValue{Kind: KindBlob, Blob: v} }

// IsNull reports whether v is NULL.
func (v OwnedValue) IsNull() bool {
	return v.Kind == KindNull
}

// Interface returns v as nil, int64, float64, string or []byte.
func (v OwnedValue) Interface() any {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindText:
		return v.Text
	case KindBlob:
		return v.Blob
	default:
		return nil
	}
}

// Equal reports whether v and o have the same kind and content.
func (v OwnedValue) Equal(o OwnedValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	case KindText:
		return v.Text == o.Text
	case KindBlob:
		return bytes.Equal(v.Blob, o.Blob)
	default:
		return true
	}
}

// String formats v the way the sqlite3 shell prints it in list mode:
// NULL is empty, blobs are printed raw and REAL values always carry a
// decimal point.
func (v OwnedValue) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return formatReal(v.Float)
	case KindText:
		return v.Text
	case KindBlob:
		return string(v.Blob)
	default:
		return ""
	}
}

// formatReal renders f with 15 significant digits like SQLite's "%!.15g".
// Values that need more digits to round-trip use their shortest exact form.
func formatReal(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case math.IsNaN(f):
		return ""
	}

	s := strconv.FormatFloat(f, 'g', 15, 64)
	if back, err := strconv.ParseFloat(s, 64); err != nil || back != f {
		s = strconv.FormatFloat(f, 'g', significantDigits(f), 64)
	}
	if strings.Contains(s, ".") {
		return s
	}
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		return s[:i] + ".0" + s[i:]
	}
	return s + ".0"
}

// significantDigits returns the number of digits in the shortest
// representation of f that parses back to f.
func significantDigits(f float64) int {
	m := strconv.FormatFloat(f, 'e', -1, 64)
	m = strings.TrimPrefix(m[:strings.IndexByte(m, 'e')], "-")
	return len(strings.Replace(m, ".", "", 1))
}

// FromInterface converts a database/sql driver value into an owned value.
// Unknown types are formatted as text.
func FromInterface(x any) OwnedValue {
	switch x := x.(type) {
	case nil:
		return Null()
	case int64:
		return Int(x)
	case int:
		return Int(int64(x))
	case float64:
		return Float(x)
	case string:
		return Text(x)
	case []byte:
		return Blob(bytes.Clone(x))
	case bool:
		if x {
			return Int(1)
		}
		return Int(0)
	default:
		return Text(fmt.Sprint(x))
	}
}
