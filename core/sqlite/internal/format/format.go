package format

import (
	"encoding/binary"
	"fmt"

	"github.com/FocuswithJustin/pagelite/core/errors"
)

// SQLite file format constants
const (
	// HeaderSize is the database header size in bytes (first 100 bytes of page 1).
	HeaderSize = 100

	// MagicString is the magic header string for SQLite 3 database files.
	// Must be exactly 16 bytes including the null terminator.
	MagicString = "SQLite format 3\000"

	// DefaultPageSize is the page size used by test fixtures and new headers.
	DefaultPageSize = 4096

	// MinPageSize is the minimum allowed page size (512 bytes).
	MinPageSize = 512

	// MaxPageSize is the maximum allowed page size (65536 bytes).
	MaxPageSize = 65536
)

// Header offsets - byte positions in the 100-byte database header
const (
	OffsetMagic             = 0  // 16 bytes
	OffsetPageSize          = 16 // 2 bytes, 1 means 65536
	OffsetWriteVersion      = 18 // 1 byte
	OffsetReadVersion       = 19 // 1 byte
	OffsetReservedSpace     = 20 // 1 byte, unused bytes at the end of every page
	OffsetMaxPayloadFrac    = 21 // 1 byte, must be 64
	OffsetMinPayloadFrac    = 22 // 1 byte, must be 32
	OffsetLeafPayloadFrac   = 23 // 1 byte, must be 32
	OffsetFileChangeCounter = 24 // 4 bytes
	OffsetDatabaseSize      = 28 // 4 bytes, in pages
	OffsetFirstFreelist     = 32 // 4 bytes
	OffsetFreelistCount     = 36 // 4 bytes
	OffsetSchemaCookie      = 40 // 4 bytes
	OffsetSchemaFormat      = 44 // 4 bytes
	OffsetTextEncoding      = 56 // 4 bytes
	OffsetUserVersion       = 60 // 4 bytes
	OffsetAppID             = 68 // 4 bytes
	OffsetVersionValidFor   = 92 // 4 bytes
	OffsetSQLiteVersion     = 96 // 4 bytes
)

// Text encodings - values for the OffsetTextEncoding field
const (
	// EncodingUnset is written by some tools that never stored text.
	EncodingUnset = 0

	// EncodingUTF8 indicates UTF-8 text encoding.
	EncodingUTF8 = 1

	// EncodingUTF16LE indicates UTF-16 little-endian text encoding.
	EncodingUTF16LE = 2

	// EncodingUTF16BE indicates UTF-16 big-endian text encoding.
	EncodingUTF16BE = 3
)

// Page types - first byte of B-tree page header
const (
	// PageTypeInteriorIndex is an interior index b-tree page (0x02).
	PageTypeInteriorIndex = 0x02

	// PageTypeInteriorTable is an interior table b-tree page (0x05).
	PageTypeInteriorTable = 0x05

	// PageTypeLeafIndex is a leaf index b-tree page (0x0a).
	PageTypeLeafIndex = 0x0a

	// PageTypeLeafTable is a leaf table b-tree page (0x0d).
	PageTypeLeafTable = 0x0d
)

// B-tree page header offsets
const (
	BtreePageType         = 0 // 1 byte
	BtreeFirstFreeblock   = 1 // 2 bytes
	BtreeCellCount        = 3 // 2 bytes
	BtreeCellContentStart = 5 // 2 bytes, 0 means 65536
	BtreeFragmentedBytes  = 7 // 1 byte
	BtreeRightmostPointer = 8 // 4 bytes, interior pages only
)

// B-tree page header sizes
const (
	// BtreeHeaderSizeLeaf is the size of a leaf page header (8 bytes).
	BtreeHeaderSizeLeaf = 8

	// BtreeHeaderSizeInterior is the size of an interior page header (12 bytes).
	// Includes the 4-byte right-most pointer.
	BtreeHeaderSizeInterior = 12
)

// Header represents the 100-byte SQLite database file header.
// Only the fields the read path or the info commands need are decoded.
type Header struct {
	// PageSize is the raw page size field. 1 stands for 65536; use GetPageSize.
	PageSize uint16

	WriteVersion uint8
	ReadVersion  uint8

	// ReservedSpace is the number of bytes of unused space at the end of each page.
	ReservedSpace uint8

	FileChangeCounter uint32

	// DatabaseSize is the size of the database file in pages. Only trusted
	// when VersionValidFor matches FileChangeCounter.
	DatabaseSize uint32

	FirstFreelist   uint32
	FreelistCount   uint32
	SchemaCookie    uint32
	SchemaFormat    uint32
	TextEncoding    uint32
	UserVersion     uint32
	AppID           uint32
	VersionValidFor uint32
	SQLiteVersion   uint32
}

// Parse parses the 100-byte database header from raw bytes.
// It rejects a wrong magic string, an invalid page size, and text encodings
// other than UTF-8.
func (h *Header) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return errors.NewFormat(0, "file is too short for a database header: %d bytes", len(data))
	}

	if string(data[OffsetMagic:OffsetMagic+16]) != MagicString {
		return errors.NewFormat(0, "invalid magic header %q", data[OffsetMagic:OffsetMagic+16])
	}

	h.PageSize = binary.BigEndian.Uint16(data[OffsetPageSize:])
	if !IsValidPageSize(h.GetPageSize()) {
		return errors.NewFormat(0, "invalid page size: %d", h.PageSize)
	}

	h.WriteVersion = data[OffsetWriteVersion]
	h.ReadVersion = data[OffsetReadVersion]
	h.ReservedSpace = data[OffsetReservedSpace]
	if h.UsableSize() < 480 {
		return errors.NewFormat(0, "reserved space %d leaves too few usable bytes", h.ReservedSpace)
	}

	h.FileChangeCounter = ReadUint32(data, OffsetFileChangeCounter)
	h.DatabaseSize = ReadUint32(data, OffsetDatabaseSize)
	h.FirstFreelist = ReadUint32(data, OffsetFirstFreelist)
	h.FreelistCount = ReadUint32(data, OffsetFreelistCount)
	h.SchemaCookie = ReadUint32(data, OffsetSchemaCookie)
	h.SchemaFormat = ReadUint32(data, OffsetSchemaFormat)
	h.TextEncoding = ReadUint32(data, OffsetTextEncoding)
	h.UserVersion = ReadUint32(data, OffsetUserVersion)
	h.AppID = ReadUint32(data, OffsetAppID)
	h.VersionValidFor = ReadUint32(data, OffsetVersionValidFor)
	h.SQLiteVersion = ReadUint32(data, OffsetSQLiteVersion)

	switch h.TextEncoding {
	case EncodingUnset, EncodingUTF8:
	case EncodingUTF16LE, EncodingUTF16BE:
		return errors.NewUnsupported("text encoding", EncodingName(h.TextEncoding))
	default:
		return errors.NewFormat(0, "invalid text encoding: %d", h.TextEncoding)
	}

	return nil
}

// Serialize serializes the database header to 100 bytes.
func (h *Header) Serialize() []byte {
	data := make([]byte, HeaderSize)

	copy(data[OffsetMagic:], MagicString)
	binary.BigEndian.PutUint16(data[OffsetPageSize:], h.PageSize)

	data[OffsetWriteVersion] = h.WriteVersion
	data[OffsetReadVersion] = h.ReadVersion
	data[OffsetReservedSpace] = h.ReservedSpace
	data[OffsetMaxPayloadFrac] = 64
	data[OffsetMinPayloadFrac] = 32
	data[OffsetLeafPayloadFrac] = 32

	binary.BigEndian.PutUint32(data[OffsetFileChangeCounter:], h.FileChangeCounter)
	binary.BigEndian.PutUint32(data[OffsetDatabaseSize:], h.DatabaseSize)
	binary.BigEndian.PutUint32(data[OffsetFirstFreelist:], h.FirstFreelist)
	binary.BigEndian.PutUint32(data[OffsetFreelistCount:], h.FreelistCount)
	binary.BigEndian.PutUint32(data[OffsetSchemaCookie:], h.SchemaCookie)
	binary.BigEndian.PutUint32(data[OffsetSchemaFormat:], h.SchemaFormat)
	binary.BigEndian.PutUint32(data[OffsetTextEncoding:], h.TextEncoding)
	binary.BigEndian.PutUint32(data[OffsetUserVersion:], h.UserVersion)
	binary.BigEndian.PutUint32(data[OffsetAppID:], h.AppID)
	binary.BigEndian.PutUint32(data[OffsetVersionValidFor:], h.VersionValidFor)
	binary.BigEndian.PutUint32(data[OffsetSQLiteVersion:], h.SQLiteVersion)

	return data
}

// NewHeader creates a new database header with default values.
func NewHeader(pageSize int) *Header {
	// Handle special case where 65536 is stored as 1
	var pageSizeVal uint16
	if pageSize == MaxPageSize {
		pageSizeVal = 1
	} else {
		pageSizeVal = uint16(pageSize)
	}

	return &Header{
		PageSize:      pageSizeVal,
		WriteVersion:  1,
		ReadVersion:   1,
		SchemaFormat:  4,
		TextEncoding:  EncodingUTF8,
		SQLiteVersion: 3051020,
	}
}

// GetPageSize returns the actual page size, handling the special case where
// a stored value of 1 means 65536.
func (h Header) GetPageSize() int {
	if h.PageSize == 1 {
		return MaxPageSize
	}
	return int(h.PageSize)
}

// UsableSize returns the page size minus the reserved region at the end of each page.
func (h Header) UsableSize() int {
	return h.GetPageSize() - int(h.ReservedSpace)
}

// SQLiteVersionString renders SQLiteVersion as "X.Y.Z".
func (h Header) SQLiteVersionString() string {
	v := h.SQLiteVersion
	return fmt.Sprintf("%d.%d.%d", v/1000000, v/1000%1000, v%1000)
}

// IsValidPageSize checks if a page size is valid.
// Valid page sizes are powers of 2 between 512 and 65536 inclusive.
func IsValidPageSize(size int) bool {
	if size < MinPageSize || size > MaxPageSize {
		return false
	}

	// Check if it's a power of 2
	return size&(size-1) == 0
}

// EncodingName returns a display name for a text encoding value.
func EncodingName(enc uint32) string {
	switch enc {
	case EncodingUnset:
		return "unset"
	case EncodingUTF8:
		return "UTF-8"
	case EncodingUTF16LE:
		return "UTF-16le"
	case EncodingUTF16BE:
		return "UTF-16be"
	default:
		return "unknown"
	}
}

// PageTypeName returns a short name for a b-tree page type byte.
func PageTypeName(t byte) string {
	switch t {
	case PageTypeInteriorIndex:
		return "interior-index"
	case PageTypeInteriorTable:
		return "interior"
	case PageTypeLeafIndex:
		return "leaf-index"
	case PageTypeLeafTable:
		return "leaf"
	default:
		return "unknown"
	}
}
