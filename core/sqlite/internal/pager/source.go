package pager

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/pagelite/core/errors"
)

// Source is a database image: a plain file or a decompressed buffer.
type Source interface {
	io.ReadSeeker
	io.Closer
}

// memSource serves a decompressed image from memory.
type memSource struct {
	*bytes.Reader
}

func (memSource) Close() error { return nil }

// NewMemSource wraps an in-memory database image.
func NewMemSource(data []byte) Source {
	return memSource{bytes.NewReader(data)}
}

// OpenSource opens the database image at path. Files ending in .xz or .gz are
// decompressed into memory first, since pages are read at arbitrary offsets.
func OpenSource(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("database file", path)
		}
		return nil, errors.NewIO("open", path, err)
	}

	var reader io.Reader
	switch {
	case strings.HasSuffix(path, ".xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.NewIO("decompress", path, err)
		}
		reader = xzr
	case strings.HasSuffix(path, ".gz"):
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.NewIO("decompress", path, err)
		}
		defer gzr.Close()
		reader = gzr
	default:
		return f, nil
	}
	defer f.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewIO("decompress", path, err)
	}
	return NewMemSource(data), nil
}
