/*
Package pager reads fixed-size pages from a SQLite database image and decodes
them into table b-tree pages.

# Overview

The pager sits between the b-tree scanner and the database image. It owns the
image handle and an unbounded cache of decoded pages:

	pg, err := pager.New(src, "example.db")
	if err != nil {
	    return err
	}
	page, err := pg.ReadPage(2)

Page n lives at byte offset (n-1)*pageSize. Page 1 also carries the 100-byte
database header, so its b-tree header starts at offset 100 and its stored cell
pointers are corrected by that amount when decoding.

# Page Model

A decoded Page is immutable and holds:
  - PageHeader: type, freeblock, cell count, content start, fragmented bytes,
    and the right-most child for interior pages
  - CellPointers: offsets into the page content, in storage order
  - Cells: *LeafCell (payload size, rowid, payload) or *InteriorCell
    (left child, key), matched by position to CellPointers

Leaf payloads are subslices of the page buffer. Payloads that would spill to
overflow pages are reported as unsupported.

# Concurrency

ReadPage is safe for concurrent use. Lookups of cached pages take only a read
lock. A miss takes the write lock, checks the cache again, and registers an
in-flight load so that concurrent misses on the same page wait for a single
read. The seek+read pair on the image is serialized by a separate mutex, so
the cache lock is never held across I/O.

# Sources

OpenSource opens a plain database file, or an .xz or .gz compressed image which
is decompressed into memory.
*/
package pager
