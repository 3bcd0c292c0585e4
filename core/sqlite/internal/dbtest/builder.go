// Package dbtest builds byte-exact SQLite database images for tests.
//
// Pages are laid out the way SQLite writes them: b-tree header, cell pointer
// array, and cell content packed at the end of the usable area. Page 1 carries
// the 100-byte database header followed by the schema table root.
package dbtest

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/format"
)

// Row is one leaf cell.
type Row struct {
	RowID   int64
	Payload []byte
}

// Child is one interior cell: keys <= Key live under Page.
type Child struct {
	Page uint32
	Key  int64
}

// SchemaEntry is one row of the schema table.
type SchemaEntry struct {
	Type     string
	Name     string
	TblName  string
	RootPage int64
	SQL      string
}

// TableEntry returns the schema row for a table named name rooted at root.
func TableEntry(name string, root uint32, sql string) SchemaEntry {
	return SchemaEntry{Type: "table", Name: name, TblName: name, RootPage: int64(root), SQL: sql}
}

// Record encodes the entry as a schema table record.
func (e SchemaEntry) Record() []byte {
	return Record(e.Type, e.Name, e.TblName, e.RootPage, e.SQL)
}

// Builder assembles a database image page by page.
type Builder struct {
	pageSize int
	reserved int
	pages    [][]byte // index 0 is page 1
}

// New returns a builder for pageSize-byte pages. Page 1 starts as an empty
// schema table.
func New(pageSize int) *Builder {
	if !format.IsValidPageSize(pageSize) {
		panic(fmt.Sprintf("dbtest: invalid page size %d", pageSize))
	}
	b := &Builder{pageSize: pageSize, pages: make([][]byte, 1)}
	b.Schema()
	return b
}

// Reserve sets the number of reserved bytes at the end of every page.
// It must be called before any page is written.
func (b *Builder) Reserve(n int) *Builder {
	b.reserved = n
	b.Schema()
	return b
}

// PageSize returns the configured page size.
func (b *Builder) PageSize() int {
	return b.pageSize
}

// Alloc reserves the next page number. The page reads as zeroes until set.
func (b *Builder) Alloc() uint32 {
	b.pages = append(b.pages, make([]byte, b.pageSize))
	return uint32(len(b.pages))
}

// Schema writes page 1 as a schema table leaf holding entries.
func (b *Builder) Schema(entries ...SchemaEntry) *Builder {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{RowID: int64(i + 1), Payload: e.Record()}
	}
	b.SetLeaf(1, rows...)
	return b
}

// Leaf allocates a leaf page holding rows and returns its number.
func (b *Builder) Leaf(rows ...Row) uint32 {
	pgno := b.Alloc()
	b.SetLeaf(pgno, rows...)
	return pgno
}

// Interior allocates an interior page and returns its number.
func (b *Builder) Interior(right uint32, children ...Child) uint32 {
	pgno := b.Alloc()
	b.SetInterior(pgno, right, children...)
	return pgno
}

// SetLeaf writes pgno as a leaf table page.
func (b *Builder) SetLeaf(pgno uint32, rows ...Row) {
	cells := make([][]byte, len(rows))
	for i, r := range rows {
		cell := format.AppendVarint(nil, uint64(len(r.Payload)))
		cell = format.AppendVarint(cell, uint64(r.RowID))
		cells[i] = append(cell, r.Payload...)
	}
	b.SetPage(pgno, b.encodePage(pgno, format.PageTypeLeafTable, 0, cells))
}

// SetInterior writes pgno as an interior table page.
func (b *Builder) SetInterior(pgno, right uint32, children ...Child) {
	cells := make([][]byte, len(children))
	for i, c := range children {
		cell := binary.BigEndian.AppendUint32(nil, c.Page)
		cells[i] = format.AppendVarint(cell, uint64(c.Key))
	}
	b.SetPage(pgno, b.encodePage(pgno, format.PageTypeInteriorTable, right, cells))
}

// SetPage replaces the raw bytes of pgno, growing the image as needed.
// For page 1 the database header is rewritten by Bytes.
func (b *Builder) SetPage(pgno uint32, data []byte) {
	for uint32(len(b.pages)) < pgno {
		b.pages = append(b.pages, make([]byte, b.pageSize))
	}
	page := make([]byte, b.pageSize)
	copy(page, data)
	b.pages[pgno-1] = page
}

// Page returns the current bytes of pgno.
func (b *Builder) Page(pgno uint32) []byte {
	return b.pages[pgno-1]
}

// Table stores rows as a b-tree with at most fanout cells per page and
// returns the root page number.
func (b *Builder) Table(rows []Row, fanout int) uint32 {
	if fanout < 2 {
		panic("dbtest: fanout must be at least 2")
	}
	if len(rows) == 0 {
		return b.Leaf()
	}

	type node struct {
		pgno   uint32
		maxKey int64
	}
	var level []node
	for start := 0; start < len(rows); start += fanout {
		end := min(start+fanout, len(rows))
		level = append(level, node{b.Leaf(rows[start:end]...), rows[end-1].RowID})
	}

	for len(level) > 1 {
		var next []node
		for start := 0; start < len(level); start += fanout {
			end := min(start+fanout, len(level))
			group := level[start:end]
			children := make([]Child, 0, len(group)-1)
			for _, n := range group[:len(group)-1] {
				children = append(children, Child{Page: n.pgno, Key: n.maxKey})
			}
			last := group[len(group)-1]
			next = append(next, node{b.Interior(last.pgno, children...), last.maxKey})
		}
		level = next
	}
	return level[0].pgno
}

// Bytes returns the database image.
func (b *Builder) Bytes() []byte {
	h := format.NewHeader(b.pageSize)
	h.ReservedSpace = uint8(b.reserved)
	h.DatabaseSize = uint32(len(b.pages))
	h.FileChangeCounter = 1
	h.VersionValidFor = 1
	copy(b.pages[0], h.Serialize())

	out := make([]byte, 0, len(b.pages)*b.pageSize)
	for _, p := range b.pages {
		out = append(out, p...)
	}
	return out
}

// WriteFile writes the image to path.
func (b *Builder) WriteFile(path string) error {
	return os.WriteFile(path, b.Bytes(), 0o644)
}

func (b *Builder) encodePage(pgno uint32, pageType byte, right uint32, cells [][]byte) []byte {
	buf := make([]byte, b.pageSize)
	hdr := 0
	if pgno == 1 {
		hdr = format.HeaderSize
	}
	headerSize := format.BtreeHeaderSizeLeaf
	if pageType == format.PageTypeInteriorTable {
		headerSize = format.BtreeHeaderSizeInterior
	}

	ptr := hdr + headerSize
	content := b.pageSize - b.reserved
	for i, cell := range cells {
		content -= len(cell)
		if content < ptr+2*(len(cells)-i) {
			panic(fmt.Sprintf("dbtest: %d cells do not fit on page %d", len(cells), pgno))
		}
		copy(buf[content:], cell)
		binary.BigEndian.PutUint16(buf[ptr:], uint16(content))
		ptr += 2
	}

	buf[hdr+format.BtreePageType] = pageType
	binary.BigEndian.PutUint16(buf[hdr+format.BtreeCellCount:], uint16(len(cells)))
	if content < format.MaxPageSize {
		binary.BigEndian.PutUint16(buf[hdr+format.BtreeCellContentStart:], uint16(content))
	}
	if pageType == format.PageTypeInteriorTable {
		binary.BigEndian.PutUint32(buf[hdr+format.BtreeRightmostPointer:], right)
	}
	return buf
}
