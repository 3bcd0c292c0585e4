package format

// Variable-length integer encoding/decoding (SQLite format).
//
// A varint is 1 to 9 bytes, most significant group first. Each of the first
// eight bytes carries 7 bits and sets the high bit when another byte follows.
// A ninth byte, when reached, carries a full 8 bits and always terminates.

// MaxVarintLen is the longest encoding of a 64-bit value.
const MaxVarintLen = 9

// ReadVarint decodes the varint starting at buf[offset]. It returns the value
// reinterpreted as a signed 64-bit integer and the number of bytes consumed.
// n is 0 when buf ends before the varint terminates.
func ReadVarint(buf []byte, offset int) (int64, int) {
	var v uint64
	for i := 0; i < MaxVarintLen; i++ {
		if offset+i >= len(buf) {
			return 0, 0
		}
		b := buf[offset+i]
		if i == MaxVarintLen-1 {
			v = v<<8 | uint64(b)
			return int64(v), MaxVarintLen
		}
		v = v<<7 | uint64(b&0x7f)
		if b&0x80 == 0 {
			return int64(v), i + 1
		}
	}
	return int64(v), MaxVarintLen
}

// PutVarint writes a 64-bit unsigned integer to p and returns the number of bytes written.
// p must have room for VarintLen(v) bytes.
func PutVarint(p []byte, v uint64) int {
	if v <= 0x7f {
		p[0] = byte(v)
		return 1
	}
	if v&(uint64(0xff000000)<<32) != 0 {
		// 9-byte case: all 8 bits of the 9th byte are used
		p[8] = byte(v)
		v >>= 8
		for i := 7; i >= 0; i-- {
			p[i] = byte((v & 0x7f) | 0x80)
			v >>= 7
		}
		return 9
	}

	n := VarintLen(v)
	for i := n - 1; i >= 0; i-- {
		b := byte(v & 0x7f)
		if i != n-1 {
			b |= 0x80 // Continuation bit on all but the last byte
		}
		p[i] = b
		v >>= 7
	}
	return n
}

// AppendVarint appends the encoding of v to dst.
func AppendVarint(dst []byte, v uint64) []byte {
	var buf [MaxVarintLen]byte
	n := PutVarint(buf[:], v)
	return append(dst, buf[:n]...)
}

// VarintLen returns the number of bytes needed to encode v.
func VarintLen(v uint64) int {
	if v&(uint64(0xff000000)<<32) != 0 {
		return 9
	}
	n := 1
	for v > 0x7f {
		v >>= 7
		n++
	}
	return n
}
