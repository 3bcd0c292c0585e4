// Package btree walks table b-trees in rowid order.
package btree

import (
	"io"

	"github.com/FocuswithJustin/pagelite/core/errors"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/pager"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/record"
)

// MaxDepth bounds the number of pages on a root-to-leaf path. Deeper trees
// only occur in corrupt files, usually through a page cycle.
const MaxDepth = 20

// PageReader is the part of *pager.Pager the scanner needs.
type PageReader interface {
	ReadPage(pgno pager.Pgno) (*pager.Page, error)
}

type frame struct {
	page  *pager.Page
	index int // next cell; len(Cells) means the right-most child is next
}

// Scanner yields the rows of one table b-tree in ascending rowid order.
// A Scanner is not restartable and is not safe for concurrent use; each scan
// of a table needs its own Scanner. Many scanners may share one pager.
type Scanner struct {
	pages PageReader
	root  pager.Pgno

	stack   [MaxDepth]frame
	depth   int
	started bool
	err     error // sticky; io.EOF once exhausted
	rows    int
}

// NewScanner returns a scanner over the b-tree rooted at root. No page is
// read until the first call to Next.
func NewScanner(pages PageReader, root pager.Pgno) *Scanner {
	return &Scanner{pages: pages, root: root}
}

// Root returns the root page number.
func (s *Scanner) Root() pager.Pgno {
	return s.root
}

// Rows returns the number of rows yielded so far.
func (s *Scanner) Rows() int {
	return s.rows
}

// Next returns a cursor over the next row. It returns io.EOF after the last
// row. Any other error ends the scan and is returned again by later calls.
func (s *Scanner) Next() (*record.Cursor, error) {
	if s.err != nil {
		return nil, s.err
	}
	if !s.started {
		s.started = true
		if err := s.push(s.root); err != nil {
			return nil, s.fail(err)
		}
	}

	for s.depth > 0 {
		top := &s.stack[s.depth-1]
		page := top.page
		n := len(page.Cells)

		switch {
		case top.index < n:
			c := page.Cells[top.index]
			top.index++

			switch c := c.(type) {
			case *pager.LeafCell:
				cur, err := record.NewCursor(c.RowID, c.Payload)
				if err != nil {
					return nil, s.fail(errors.Wrapf(err, "page %d row %d", page.Number, c.RowID))
				}
				s.rows++
				return cur, nil
			case *pager.InteriorCell:
				if err := s.push(c.LeftChild); err != nil {
					return nil, s.fail(err)
				}
			}

		case top.index == n && page.Header.IsInterior():
			top.index++
			if err := s.push(page.Header.RightChild); err != nil {
				return nil, s.fail(err)
			}

		default:
			s.stack[s.depth-1] = frame{}
			s.depth--
		}
	}

	s.err = io.EOF
	return nil, io.EOF
}

func (s *Scanner) push(pgno pager.Pgno) error {
	if s.depth == MaxDepth {
		return errors.NewFormat(uint32(pgno), "b-tree rooted at page %d is deeper than %d pages", s.root, MaxDepth)
	}
	page, err := s.pages.ReadPage(pgno)
	if err != nil {
		return err
	}
	s.stack[s.depth] = frame{page: page}
	s.depth++
	return nil
}

func (s *Scanner) fail(err error) error {
	s.err = err
	for i := range s.stack[:s.depth] {
		s.stack[i] = frame{}
	}
	s.depth = 0
	return err
}
