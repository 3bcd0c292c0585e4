// Package format defines the SQLite 3 file format constants and the low-level
// decoders every other layer builds on.
//
// # Database File Header
//
// Every database file begins with a 100-byte header. The read path needs three
// of its fields:
//
//   - Magic string ("SQLite format 3\x00"), checked on open
//   - Page size (bytes 16-17, big-endian; the value 1 means 65536)
//   - Reserved space (byte 20), which shrinks the usable area of every page
//
// The remaining fields are decoded for display only.
//
//	header := &format.Header{}
//	if err := header.Parse(data[:format.HeaderSize]); err != nil {
//	    return err
//	}
//	fmt.Println(header.GetPageSize(), header.UsableSize())
//
// # Byte Decoders
//
// ReadUint16, ReadInt24, ReadInt48, ReadFloat64 and friends read big-endian
// fixed-width values at an offset. Signed readers sign-extend from their
// source width. They do not bounds-check: callers validate the enclosing
// structure first, so a short buffer is a programming error.
//
// ReadVarint decodes SQLite's 1-9 byte variable-length integers. Unlike the
// fixed-width readers it reports a truncated varint by returning n == 0,
// since varints are read from untrusted cell and record bytes.
//
// # Page Types
//
// Only table b-tree pages are read:
//
//   - Interior Table (0x05): 12-byte header ending in the right-most child pointer
//   - Leaf Table (0x0d): 8-byte header
//
// Index page types are defined so that they can be named in error messages.
//
// # References
//
//   - SQLite File Format: https://www.sqlite.org/fileformat.html
package format
