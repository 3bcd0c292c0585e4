// Package engine ties the read path together: it opens a database image,
// loads its catalog, and runs queries through the parser and planner.
package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/format"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/pager"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/parser"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/planner"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/schema"
	"github.com/FocuswithJustin/pagelite/internal/logging"
)

// Engine is an open, read-only database.
//
// The catalog is loaded once at open and never changes, so an Engine is safe
// for concurrent Query calls. Each query owns its own scanner and shares only
// the page cache.
type Engine struct {
	// Page access and decoded page cache
	pager *pager.Pager

	// User tables loaded from the schema table
	catalog *schema.Catalog

	// Compiles parsed statements into operators
	planner *planner.Planner

	// Parsed statements keyed by SQL text, nil when disabled
	stmts *ristretto.Cache[string, parser.Statement]

	opts options
}

// Open opens the database file at path. Files ending in .xz or .gz are
// decompressed into memory.
func Open(path string, opts ...Option) (*Engine, error) {
	src, err := pager.OpenSource(path)
	if err != nil {
		return nil, err
	}
	e, err := OpenReader(path, src, opts...)
	if err != nil {
		src.Close()
		return nil, err
	}
	return e, nil
}

// OpenReader opens a database image read from src. name identifies the
// image in log records and errors. If src implements io.Closer it is closed
// by Close.
func OpenReader(name string, src io.ReadSeeker, opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pg, err := pager.New(src, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}

	cat, err := schema.Load(pg)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema of %s: %w", name, err)
	}

	e := &Engine{
		pager:   pg,
		catalog: cat,
		planner: planner.New(cat, pg),
		opts:    o,
	}

	if o.statementCacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[string, parser.Statement]{
			NumCounters:        10 * o.statementCacheSize,
			MaxCost:            o.statementCacheSize,
			BufferItems:        64,
			IgnoreInternalCost: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create statement cache: %w", err)
		}
		e.stmts = cache
	}

	logging.DatabaseOpened(name, pg.PageSize(), cat.Len(), "pages", pg.PageCount())
	return e, nil
}

// Close releases the statement cache and closes the database image.
func (e *Engine) Close() error {
	if e.stmts != nil {
		e.stmts.Close()
	}
	return e.pager.Close()
}

// Parse parses sql, consulting the statement cache first. Statements are
// immutable once parsed, so cached values are shared between callers.
func (e *Engine) Parse(sql string) (parser.Statement, error) {
	if e.stmts != nil {
		if stmt, ok := e.stmts.Get(sql); ok {
			return stmt, nil
		}
	}

	stmt, err := parser.ParseStatement(sql, e.opts.requireSemicolon)
	if err != nil {
		return nil, err
	}

	if e.stmts != nil {
		e.stmts.Set(sql, stmt, 1)
	}
	return stmt, nil
}

// Query parses and compiles sql and returns an iterator over its rows.
// Name resolution errors are returned here, before any row is read.
func (e *Engine) Query(ctx context.Context, sql string) (*Rows, error) {
	if e.opts.queryIDs && logging.GetQueryID(ctx) == "" {
		ctx = logging.WithQueryID(ctx, uuid.NewString())
	}
	start := time.Now()

	stmt, err := e.Parse(sql)
	if err != nil {
		logging.QueryFailed(ctx, sql, err)
		return nil, err
	}
	op, err := e.planner.Compile(stmt)
	if err != nil {
		logging.QueryFailed(ctx, sql, err)
		return nil, err
	}

	logging.DebugContext(ctx, "query_planned", "sql", sql, "plan", op.String())
	return &Rows{
		ctx:   ctx,
		sql:   sql,
		op:    op,
		start: start,
	}, nil
}

// Tables returns the user tables in schema order.
func (e *Engine) Tables() []*schema.Table {
	return e.catalog.Tables()
}

// Table looks up a table by name, ignoring case.
func (e *Engine) Table(name string) (*schema.Table, bool) {
	return e.catalog.Table(name)
}

// Master returns every row of the schema table, including indexes and views.
func (e *Engine) Master() ([]schema.MasterRow, error) {
	return schema.ReadMaster(e.pager)
}

// Header returns the database header.
func (e *Engine) Header() format.Header {
	return e.pager.Header()
}

// PageCount returns the number of pages in the image.
func (e *Engine) PageCount() int {
	return int(e.pager.PageCount())
}

// Fingerprint returns the BLAKE3-256 digest of the database image in hex.
func (e *Engine) Fingerprint() (string, error) {
	return e.pager.Fingerprint()
}

// Stats returns page cache statistics.
func (e *Engine) Stats() pager.Stats {
	return e.pager.Stats()
}

// Name returns the name the database was opened with.
func (e *Engine) Name() string {
	return e.pager.Name()
}
