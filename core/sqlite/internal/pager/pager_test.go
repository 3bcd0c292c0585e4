package pager

import (
	"bytes"
	"encoding/hex"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/pagelite/core/errors"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/dbtest"
)

// countingSource counts reads that start at a page boundary past page 1.
type countingSource struct {
	*bytes.Reader
	pageSize int64
	pos      int64
	reads    atomic.Int64
	gate     chan struct{}
}

func (s *countingSource) Seek(offset int64, whence int) (int64, error) {
	n, err := s.Reader.Seek(offset, whence)
	s.pos = n
	return n, err
}

func (s *countingSource) Read(p []byte) (int, error) {
	if s.pos >= s.pageSize && s.pos%s.pageSize == 0 && len(p) == int(s.pageSize) {
		s.reads.Add(1)
		if s.gate != nil {
			<-s.gate
		}
	}
	n, err := s.Reader.Read(p)
	s.pos += int64(n)
	return n, err
}

func buildTwoTables(t *testing.T) []byte {
	t.Helper()
	b := dbtest.New(1024).Schema(
		dbtest.TableEntry("t1", 2, "CREATE TABLE t1(a)"),
		dbtest.TableEntry("t2", 3, "CREATE TABLE t2(b)"),
	)
	b.Leaf(dbtest.Row{RowID: 1, Payload: dbtest.Record("a")})
	b.Leaf(dbtest.Row{RowID: 1, Payload: dbtest.Record("b")})
	return b.Bytes()
}

func TestNew(t *testing.T) {
	data := buildTwoTables(t)
	p, err := New(NewMemSource(data), "mem")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer p.Close()

	if p.PageSize() != 1024 {
		t.Errorf("PageSize() = %d, want 1024", p.PageSize())
	}
	if p.UsableSize() != 1024 {
		t.Errorf("UsableSize() = %d, want 1024", p.UsableSize())
	}
	if p.PageCount() != 3 {
		t.Errorf("PageCount() = %d, want 3", p.PageCount())
	}
	if p.Name() != "mem" {
		t.Errorf("Name() = %q, want %q", p.Name(), "mem")
	}
	if h := p.Header(); h.DatabaseSize != 3 {
		t.Errorf("Header().DatabaseSize = %d, want 3", h.DatabaseSize)
	}
}

func TestNewErrors(t *testing.T) {
	valid := buildTwoTables(t)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", valid[:50]},
		{"bad magic", append([]byte("SQLite format 2\000"), valid[16:]...)},
		{"header only", valid[:100]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(NewMemSource(tt.data), tt.name)
			if !errors.Is(err, errors.ErrFormat) {
				t.Errorf("New() error = %v, want format error", err)
			}
		})
	}
}

func TestReadPage(t *testing.T) {
	p, err := New(NewMemSource(buildTwoTables(t)), "mem")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	schema, err := p.ReadPage(1)
	if err != nil {
		t.Fatalf("ReadPage(1) failed: %v", err)
	}
	if len(schema.Cells) != 2 {
		t.Errorf("schema page has %d cells, want 2", len(schema.Cells))
	}

	page, err := p.ReadPage(3)
	if err != nil {
		t.Fatalf("ReadPage(3) failed: %v", err)
	}
	if page.Number != 3 {
		t.Errorf("Number = %d, want 3", page.Number)
	}

	again, err := p.ReadPage(3)
	if err != nil {
		t.Fatalf("second ReadPage(3) failed: %v", err)
	}
	if again != page {
		t.Error("cached read returned a different *Page")
	}

	stats := p.Stats()
	if stats.Misses != 2 || stats.Hits != 1 || stats.Loads != 2 || stats.Pages != 2 {
		t.Errorf("Stats() = %+v, want 2 misses, 1 hit, 2 loads, 2 pages", stats)
	}
}

func TestReadPageOutOfRange(t *testing.T) {
	p, err := New(NewMemSource(buildTwoTables(t)), "mem")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, pgno := range []Pgno{0, 4, 1 << 20} {
		if _, err := p.ReadPage(pgno); !errors.Is(err, errors.ErrFormat) {
			t.Errorf("ReadPage(%d) error = %v, want format error", pgno, err)
		}
	}
}

func TestReadPageCorruptNotCached(t *testing.T) {
	b := dbtest.New(512)
	pgno := b.Alloc() // all zeroes: type 0x00
	p, err := New(NewMemSource(b.Bytes()), "mem")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := p.ReadPage(Pgno(pgno)); !errors.Is(err, errors.ErrFormat) {
			t.Fatalf("read %d: error = %v, want format error", i, err)
		}
	}
	if s := p.Stats(); s.Pages != 0 || s.Misses != 2 {
		t.Errorf("Stats() = %+v, want no cached pages and 2 misses", s)
	}
}

func TestReadPageConcurrentSingleLoad(t *testing.T) {
	data := buildTwoTables(t)
	src := &countingSource{Reader: bytes.NewReader(data), pageSize: 1024, gate: make(chan struct{})}
	p, err := New(src, "mem")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	const readers = 16
	pages := make([]*Page, readers)
	errs := make([]error, readers)

	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pages[i], errs[i] = p.ReadPage(2)
		}(i)
	}
	close(src.gate)
	wg.Wait()

	for i := range pages {
		if errs[i] != nil {
			t.Fatalf("reader %d: %v", i, errs[i])
		}
		if pages[i] != pages[0] {
			t.Fatalf("reader %d got a different *Page", i)
		}
	}
	if n := src.reads.Load(); n != 1 {
		t.Errorf("page 2 read %d times, want 1", n)
	}
	if s := p.Stats(); s.Loads != 1 || s.Misses != 1 || s.Hits != readers-1 {
		t.Errorf("Stats() = %+v, want 1 load, 1 miss, %d hits", s, readers-1)
	}
}

func TestReadPageConcurrentDistinctPages(t *testing.T) {
	b := dbtest.New(512)
	var roots []uint32
	for i := 0; i < 20; i++ {
		roots = append(roots, b.Leaf(dbtest.Row{RowID: int64(i), Payload: dbtest.Record(int64(i))}))
	}
	p, err := New(NewMemSource(b.Bytes()), "mem")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var wg sync.WaitGroup
	for round := 0; round < 4; round++ {
		for i, pgno := range roots {
			wg.Add(1)
			go func(i int, pgno uint32) {
				defer wg.Done()
				page, err := p.ReadPage(Pgno(pgno))
				if err != nil {
					t.Errorf("ReadPage(%d): %v", pgno, err)
					return
				}
				if got := page.Cells[0].(*LeafCell).RowID; got != int64(i) {
					t.Errorf("page %d rowid = %d, want %d", pgno, got, i)
				}
			}(i, pgno)
		}
	}
	wg.Wait()

	if s := p.Stats(); s.Loads != uint64(len(roots)) {
		t.Errorf("Loads = %d, want %d", s.Loads, len(roots))
	}
}

func TestFingerprint(t *testing.T) {
	data := buildTwoTables(t)
	p, err := New(NewMemSource(data), "mem")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := p.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	sum := blake3.Sum256(data)
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Errorf("Fingerprint() = %s, want %s", got, want)
	}

	// Reading pages afterwards still works from the right offsets.
	if _, err := p.ReadPage(2); err != nil {
		t.Errorf("ReadPage after Fingerprint: %v", err)
	}
}

type failingSource struct {
	io.ReadSeeker
}

func (failingSource) Read([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestNewReadFailure(t *testing.T) {
	_, err := New(failingSource{NewMemSource(nil)}, "broken")
	var ioErr *errors.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("New() error = %v, want *IOError", err)
	}
	if ioErr.Operation != "read" || ioErr.Path != "broken" {
		t.Errorf("IOError = %+v", ioErr)
	}
}
