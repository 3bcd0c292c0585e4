package pager

import (
	"fmt"

	"github.com/FocuswithJustin/pagelite/core/errors"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/format"
)

// Pgno represents a page number in the database.
// Page numbers start at 1 (page 0 is reserved/invalid).
type Pgno uint32

// PageType is the b-tree page type byte. Only table pages are decoded.
type PageType byte

const (
	// PageTypeInterior is an interior table b-tree page (0x05).
	PageTypeInterior PageType = format.PageTypeInteriorTable

	// PageTypeLeaf is a leaf table b-tree page (0x0d).
	PageTypeLeaf PageType = format.PageTypeLeafTable
)

func (t PageType) String() string {
	return format.PageTypeName(byte(t))
}

// PageHeader represents the parsed header of a b-tree page.
type PageHeader struct {
	PageType         PageType
	FirstFreeblock   uint16
	NumCells         uint16
	CellContentStart int // A stored 0 is decoded as 65536
	FragmentedBytes  uint8

	// RightChild is the right-most child page of an interior page.
	// It is 0 on leaf pages.
	RightChild Pgno
}

// IsLeaf reports whether the page holds rows.
func (h *PageHeader) IsLeaf() bool {
	return h.PageType == PageTypeLeaf
}

// IsInterior reports whether the page holds child pointers.
func (h *PageHeader) IsInterior() bool {
	return h.PageType == PageTypeInterior
}

// HeaderSize returns the on-disk size of the header: 8 bytes for leaves,
// 12 for interior pages.
func (h *PageHeader) HeaderSize() int {
	if h.IsInterior() {
		return format.BtreeHeaderSizeInterior
	}
	return format.BtreeHeaderSizeLeaf
}

// Cell is one entry of a table b-tree page: a *LeafCell or an *InteriorCell.
type Cell interface {
	cell()
}

// LeafCell holds one row. Payload aliases the page buffer and must not be modified.
type LeafCell struct {
	PayloadSize int64
	RowID       int64
	Payload     []byte
}

// InteriorCell routes keys less than or equal to Key into LeftChild.
type InteriorCell struct {
	LeftChild Pgno
	Key       int64
}

func (*LeafCell) cell()     {}
func (*InteriorCell) cell() {}

// Page is a decoded, immutable table b-tree page. A *Page is shared by every
// scan that reads it.
type Page struct {
	Number Pgno
	Header PageHeader

	// CellPointers holds each cell's offset into the page content area,
	// already corrected for the 100-byte file header on page 1.
	CellPointers []uint16

	// Cells is positionally matched to CellPointers.
	Cells []Cell

	data []byte
}

// Data returns the raw page bytes.
func (p *Page) Data() []byte {
	return p.data
}

func (p *Page) String() string {
	return fmt.Sprintf("page %d: %s, %d cells", p.Number, p.Header.PageType, len(p.Cells))
}

// ptrOffset returns the distance between the start of the page buffer and
// its b-tree header.
func ptrOffset(pgno Pgno) int {
	if pgno == 1 {
		return format.HeaderSize
	}
	return 0
}

// DecodePage decodes a raw page buffer read from the database file.
// usableSize excludes the reserved bytes at the end of each page.
func DecodePage(pgno Pgno, data []byte, usableSize int) (*Page, error) {
	page := uint32(pgno)
	offset := ptrOffset(pgno)
	if usableSize > len(data) || usableSize < offset+format.BtreeHeaderSizeInterior {
		return nil, errors.NewFormat(page, "usable size %d does not fit a %d byte page", usableSize, len(data))
	}
	content := data[offset:usableSize]

	h := PageHeader{
		PageType:         PageType(content[format.BtreePageType]),
		FirstFreeblock:   format.ReadUint16(content, format.BtreeFirstFreeblock),
		NumCells:         format.ReadUint16(content, format.BtreeCellCount),
		CellContentStart: int(format.ReadUint16(content, format.BtreeCellContentStart)),
		FragmentedBytes:  content[format.BtreeFragmentedBytes],
	}
	if h.CellContentStart == 0 {
		h.CellContentStart = format.MaxPageSize
	}

	switch h.PageType {
	case PageTypeLeaf:
	case PageTypeInterior:
		h.RightChild = Pgno(format.ReadUint32(content, format.BtreeRightmostPointer))
		if h.RightChild == 0 {
			return nil, errors.NewFormat(page, "interior page has no right-most child")
		}
	default:
		return nil, errors.NewFormat(page, "unsupported page type 0x%02x (%s)", byte(h.PageType), h.PageType)
	}

	ptrEnd := h.HeaderSize() + 2*int(h.NumCells)
	if ptrEnd > len(content) {
		return nil, errors.NewFormat(page, "%d cell pointers overflow the usable page area", h.NumCells)
	}

	p := &Page{
		Number:       pgno,
		Header:       h,
		CellPointers: make([]uint16, h.NumCells),
		Cells:        make([]Cell, h.NumCells),
		data:         data,
	}

	for i := range p.CellPointers {
		raw := int(format.ReadUint16(content, h.HeaderSize()+2*i))
		ptr := raw - offset
		if ptr < ptrEnd || ptr >= len(content) {
			return nil, errors.NewFormat(page, "cell %d pointer %d is outside the cell content area", i, raw)
		}
		p.CellPointers[i] = uint16(ptr)

		var (
			c   Cell
			err error
		)
		if h.IsLeaf() {
			c, err = decodeLeafCell(content, ptr, usableSize)
		} else {
			c, err = decodeInteriorCell(content, ptr)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "page %d cell %d", pgno, i)
		}
		p.Cells[i] = c
	}

	return p, nil
}

// decodeLeafCell parses a table leaf cell
// Format: varint(payload_size), varint(rowid), payload
func decodeLeafCell(content []byte, offset, usableSize int) (*LeafCell, error) {
	// Read payload size (varint)
	size, n := format.ReadVarint(content, offset)
	if n == 0 {
		return nil, errors.NewFormat(0, "truncated payload size")
	}
	offset += n

	// Read rowid (varint)
	rowid, n := format.ReadVarint(content, offset)
	if n == 0 {
		return nil, errors.NewFormat(0, "truncated rowid")
	}
	offset += n

	if size < 0 {
		return nil, errors.NewFormat(0, "negative payload size %d", size)
	}
	if maxLocal := int64(usableSize - 35); size > maxLocal {
		return nil, errors.NewUnsupported("overflow payload",
			fmt.Sprintf("row %d needs %d bytes, at most %d fit on a page", rowid, size, maxLocal))
	}
	end := offset + int(size)
	if end > len(content) {
		return nil, errors.NewFormat(0, "payload of row %d runs past the page end", rowid)
	}

	return &LeafCell{
		PayloadSize: size,
		RowID:       rowid,
		Payload:     content[offset:end:end],
	}, nil
}

// decodeInteriorCell parses a table interior cell
// Format: 4-byte child page number, varint(rowid)
func decodeInteriorCell(content []byte, offset int) (*InteriorCell, error) {
	if offset+4 > len(content) {
		return nil, errors.NewFormat(0, "interior cell truncated")
	}

	child := Pgno(format.ReadUint32(content, offset))
	if child == 0 {
		return nil, errors.NewFormat(0, "interior cell points at page 0")
	}

	key, n := format.ReadVarint(content, offset+4)
	if n == 0 {
		return nil, errors.NewFormat(0, "truncated interior key")
	}

	return &InteriorCell{LeftChild: child, Key: key}, nil
}
