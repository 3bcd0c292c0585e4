package pager

import (
	"encoding/hex"
	"io"
	"sync"
	"sync/atomic"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/pagelite/core/errors"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/format"
	"github.com/FocuswithJustin/pagelite/internal/logging"
)

// Pager reads pages from a database image and caches the decoded result.
type Pager struct {
	// Underlying database image
	src io.ReadSeeker

	// Name used in log records and errors
	name string

	// Serializes seek+read on src
	ioMu sync.Mutex

	// Decoded pages
	cache *PageCache

	// Database header from page 1
	header format.Header

	// Page size and usable size in bytes
	pageSize   int
	usableSize int

	// Number of whole pages in the image
	pageCount Pgno

	hits   atomic.Uint64
	misses atomic.Uint64
	loads  atomic.Uint64
}

// Stats is a snapshot of page cache activity.
type Stats struct {
	Hits   uint64 // ReadPage calls served without reading the image
	Misses uint64 // ReadPage calls that read the image
	Loads  uint64 // Pages read successfully from the image
	Pages  int    // Pages currently cached
}

// New reads the database header from src and returns a Pager over it.
// name is used in log records and error messages.
func New(src io.ReadSeeker, name string) (*Pager, error) {
	p := &Pager{
		src:   src,
		name:  name,
		cache: NewPageCache(),
	}

	buf := make([]byte, format.HeaderSize)
	if err := p.readAt(buf, 0); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, errors.NewFormat(0, "file is too short for a database header")
		}
		return nil, err
	}
	if err := p.header.Parse(buf); err != nil {
		return nil, err
	}
	p.pageSize = p.header.GetPageSize()
	p.usableSize = p.header.UsableSize()

	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.NewIO("seek", name, err)
	}
	p.pageCount = Pgno(size / int64(p.pageSize))
	if p.pageCount == 0 {
		return nil, errors.NewFormat(0, "file holds %d bytes, less than one %d byte page", size, p.pageSize)
	}

	return p, nil
}

// ReadPage returns page pgno (1-based), loading and decoding it on first use.
// The returned page is shared and must not be modified.
func (p *Pager) ReadPage(pgno Pgno) (*Page, error) {
	if pgno == 0 || pgno > p.pageCount {
		return nil, errors.NewFormat(uint32(pgno), "page number out of range (database has %d pages)", p.pageCount)
	}

	page, loaded, err := p.cache.GetOrLoad(pgno, func() (*Page, error) {
		return p.loadPage(pgno)
	})
	if loaded {
		p.misses.Add(1)
	} else if err == nil {
		p.hits.Add(1)
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

// loadPage reads and decodes one page from the image.
func (p *Pager) loadPage(pgno Pgno) (*Page, error) {
	buf := make([]byte, p.pageSize)
	offset := int64(pgno-1) * int64(p.pageSize)
	if err := p.readAt(buf, offset); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, errors.NewFormat(uint32(pgno), "page is truncated")
		}
		return nil, err
	}
	p.loads.Add(1)

	page, err := DecodePage(pgno, buf, p.usableSize)
	if err != nil {
		return nil, err
	}
	logging.PageLoaded(uint32(pgno), page.Header.PageType.String(), len(page.Cells), "db", p.name)
	return page, nil
}

// readAt seeks to offset and fills buf. Seek and read happen under ioMu so
// concurrent loads cannot interleave.
func (p *Pager) readAt(buf []byte, offset int64) error {
	p.ioMu.Lock()
	defer p.ioMu.Unlock()

	if _, err := p.src.Seek(offset, io.SeekStart); err != nil {
		return errors.NewIO("seek", p.name, err)
	}
	if _, err := io.ReadFull(p.src, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return err
		}
		return errors.NewIO("read", p.name, err)
	}
	return nil
}

// Fingerprint returns the hex BLAKE3-256 digest of the whole database image.
func (p *Pager) Fingerprint() (string, error) {
	p.ioMu.Lock()
	defer p.ioMu.Unlock()

	if _, err := p.src.Seek(0, io.SeekStart); err != nil {
		return "", errors.NewIO("seek", p.name, err)
	}
	h := blake3.New()
	if _, err := io.Copy(h, p.src); err != nil {
		return "", errors.NewIO("read", p.name, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Close closes the underlying image if it implements io.Closer.
func (p *Pager) Close() error {
	if c, ok := p.src.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return errors.NewIO("close", p.name, err)
		}
	}
	return nil
}

// Header returns the parsed database header.
func (p *Pager) Header() format.Header {
	return p.header
}

// PageSize returns the page size in bytes.
func (p *Pager) PageSize() int {
	return p.pageSize
}

// UsableSize returns the page size minus the reserved region.
func (p *Pager) UsableSize() int {
	return p.usableSize
}

// PageCount returns the number of pages in the image.
func (p *Pager) PageCount() Pgno {
	return p.pageCount
}

// Name returns the name the pager was opened with.
func (p *Pager) Name() string {
	return p.name
}

// Stats returns a snapshot of cache activity.
func (p *Pager) Stats() Stats {
	return Stats{
		Hits:   p.hits.Load(),
		Misses: p.misses.Load(),
		Loads:  p.loads.Load(),
		Pages:  p.cache.Size(),
	}
}
