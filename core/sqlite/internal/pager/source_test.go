package pager

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/pagelite/core/errors"
)

func writeCompressed(t *testing.T, path string, data []byte) {
	t.Helper()

	var buf bytes.Buffer
	switch filepath.Ext(path) {
	case ".xz":
		w, err := xz.NewWriter(&buf)
		if err != nil {
			t.Fatalf("xz.NewWriter: %v", err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("xz write: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("xz close: %v", err)
		}
	case ".gz":
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			t.Fatalf("gzip write: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("gzip close: %v", err)
		}
	default:
		buf.Write(data)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestOpenSource(t *testing.T) {
	data := buildTwoTables(t)
	dir := t.TempDir()

	for _, name := range []string{"plain.db", "packed.db.xz", "packed.db.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			writeCompressed(t, path, data)

			src, err := OpenSource(path)
			if err != nil {
				t.Fatalf("OpenSource failed: %v", err)
			}
			p, err := New(src, name)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			defer p.Close()

			if p.PageCount() != 3 {
				t.Errorf("PageCount() = %d, want 3", p.PageCount())
			}
			page, err := p.ReadPage(3)
			if err != nil {
				t.Fatalf("ReadPage(3) failed: %v", err)
			}
			if got := page.Cells[0].(*LeafCell).Payload[2:]; string(got) != "b" {
				t.Errorf("payload text = %q, want %q", got, "b")
			}
		})
	}
}

func TestOpenSourceMissing(t *testing.T) {
	_, err := OpenSource(filepath.Join(t.TempDir(), "missing.db"))
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("OpenSource() error = %v, want not found", err)
	}
}

func TestOpenSourceCorruptArchive(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bad.db.xz", "bad.db.gz"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("not compressed"), 0o644); err != nil {
			t.Fatal(err)
		}
		var ioErr *errors.IOError
		if _, err := OpenSource(path); !errors.As(err, &ioErr) {
			t.Errorf("OpenSource(%s) error = %v, want *IOError", name, err)
		}
	}
}
