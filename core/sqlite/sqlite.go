// Package sqlite reads SQLite database files without cgo and without a
// database/sql driver.
//
// It opens a database image read-only, loads its table definitions and runs
// single-table queries of the form
//
//	SELECT * FROM t;
//	SELECT a, b AS c FROM t;
//
// Rows are produced lazily in rowid order.
//
// For comparison and fixture generation the package also wraps a reference
// SQLite driver (see OpenReference):
//   - Default (CGO_ENABLED=0): modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): mattn/go-sqlite3
package sqlite

import (
	"context"
	"io"

	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/engine"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/format"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/record"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/schema"
)

// Value is a single column value. Its Kind says which field holds the data.
type Value = record.OwnedValue

// Kind is the storage class of a Value.
type Kind = record.Kind

// Storage classes.
const (
	KindNull  = record.KindNull
	KindInt   = record.KindInt
	KindFloat = record.KindFloat
	KindText  = record.KindText
	KindBlob  = record.KindBlob
)

// Option configures Open and OpenReader.
type Option = engine.Option

// WithStatementCache sets how many parsed statements a DB keeps. Zero
// disables the cache.
func WithStatementCache(size int) Option {
	return engine.WithStatementCache(size)
}

// WithQueryIDs controls whether each query is tagged with a fresh id in log
// records.
func WithQueryIDs(enabled bool) Option {
	return engine.WithQueryIDs(enabled)
}

// WithRequireSemicolon makes Query reject statements not terminated by ';'.
func WithRequireSemicolon(required bool) Option {
	return engine.WithRequireSemicolon(required)
}

// DB is an open database. It is safe for concurrent use.
type DB struct {
	e *engine.Engine
}

// Open opens the database file at path. Files ending in .xz or .gz are
// decompressed into memory first.
func Open(path string, opts ...Option) (*DB, error) {
	e, err := engine.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	return &DB{e: e}, nil
}

// OpenReader opens a database image read from r. name identifies it in log
// records and errors.
func OpenReader(name string, r io.ReadSeeker, opts ...Option) (*DB, error) {
	e, err := engine.OpenReader(name, r, opts...)
	if err != nil {
		return nil, err
	}
	return &DB{e: e}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.e.Close()
}

// Name returns the path or name the database was opened with.
func (db *DB) Name() string {
	return db.e.Name()
}

// TableInfo describes a user table.
type TableInfo struct {
	Name     string   `json:"name" yaml:"name"`
	RootPage uint32   `json:"root_page" yaml:"root_page"`
	Columns  []Column `json:"columns" yaml:"columns"`
	SQL      string   `json:"sql" yaml:"sql"`
}

// Column is a declared table column.
type Column struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Tables returns the user tables in the order they appear in the schema.
func (db *DB) Tables() []TableInfo {
	tables := db.e.Tables()
	out := make([]TableInfo, len(tables))
	for i, t := range tables {
		out[i] = tableInfo(t)
	}
	return out
}

// Table returns the named table, ignoring case.
func (db *DB) Table(name string) (TableInfo, bool) {
	t, ok := db.e.Table(name)
	if !ok {
		return TableInfo{}, false
	}
	return tableInfo(t), true
}

func tableInfo(t *schema.Table) TableInfo {
	cols := make([]Column, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = Column{Name: c.Name, Type: c.Type.String()}
	}
	return TableInfo{
		Name:     t.Name,
		RootPage: uint32(t.RootPage),
		Columns:  cols,
		SQL:      t.SQL,
	}
}

// SchemaEntry is one row of the schema table.
type SchemaEntry struct {
	Type     string `json:"type" yaml:"type"`
	Name     string `json:"name" yaml:"name"`
	TblName  string `json:"tbl_name" yaml:"tbl_name"`
	RootPage int64  `json:"rootpage" yaml:"rootpage"`
	SQL      string `json:"sql" yaml:"sql"`
}

// Schema returns every row of the schema table, including indexes, views,
// triggers and internal tables.
func (db *DB) Schema() ([]SchemaEntry, error) {
	rows, err := db.e.Master()
	if err != nil {
		return nil, err
	}
	out := make([]SchemaEntry, len(rows))
	for i, r := range rows {
		out[i] = SchemaEntry(r)
	}
	return out, nil
}

// Header holds the database header fields.
type Header struct {
	PageSize          int    `json:"page_size" yaml:"page_size"`
	UsableSize        int    `json:"usable_size" yaml:"usable_size"`
	ReservedSpace     int    `json:"reserved_space" yaml:"reserved_space"`
	WriteVersion      int    `json:"write_version" yaml:"write_version"`
	ReadVersion       int    `json:"read_version" yaml:"read_version"`
	FileChangeCounter uint32 `json:"file_change_counter" yaml:"file_change_counter"`
	DatabaseSize      uint32 `json:"database_size" yaml:"database_size"`
	FreelistPages     uint32 `json:"freelist_pages" yaml:"freelist_pages"`
	SchemaCookie      uint32 `json:"schema_cookie" yaml:"schema_cookie"`
	SchemaFormat      uint32 `json:"schema_format" yaml:"schema_format"`
	TextEncoding      string `json:"text_encoding" yaml:"text_encoding"`
	UserVersion       uint32 `json:"user_version" yaml:"user_version"`
	ApplicationID     uint32 `json:"application_id" yaml:"application_id"`
	SQLiteVersion     string `json:"sqlite_version" yaml:"sqlite_version"`
}

// Header returns the database header.
func (db *DB) Header() Header {
	h := db.e.Header()
	return Header{
		PageSize:          h.GetPageSize(),
		UsableSize:        h.UsableSize(),
		ReservedSpace:     int(h.ReservedSpace),
		WriteVersion:      int(h.WriteVersion),
		ReadVersion:       int(h.ReadVersion),
		FileChangeCounter: h.FileChangeCounter,
		DatabaseSize:      h.DatabaseSize,
		FreelistPages:     h.FreelistCount,
		SchemaCookie:      h.SchemaCookie,
		SchemaFormat:      h.SchemaFormat,
		TextEncoding:      format.EncodingName(h.TextEncoding),
		UserVersion:       h.UserVersion,
		ApplicationID:     h.AppID,
		SQLiteVersion:     h.SQLiteVersionString(),
	}
}

// PageCount returns the number of pages in the database image.
func (db *DB) PageCount() int {
	return db.e.PageCount()
}

// Fingerprint returns the hex BLAKE3-256 digest of the database image.
func (db *DB) Fingerprint() (string, error) {
	return db.e.Fingerprint()
}

// CacheStats reports page cache activity.
type CacheStats struct {
	Hits   uint64 `json:"hits" yaml:"hits"`
	Misses uint64 `json:"misses" yaml:"misses"`
	Pages  int    `json:"pages" yaml:"pages"`
}

// CacheStats returns a snapshot of page cache activity.
func (db *DB) CacheStats() CacheStats {
	st := db.e.Stats()
	return CacheStats{Hits: st.Hits, Misses: st.Misses, Pages: st.Pages}
}

// Query runs a SELECT statement. Unknown tables and columns are reported
// here; errors found while reading pages are reported by Rows.Err.
func (db *DB) Query(ctx context.Context, sql string) (*Rows, error) {
	r, err := db.e.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return &Rows{r: r}, nil
}

// Rows iterates over query results.
type Rows struct {
	r *engine.Rows
}

// Next advances to the next row, returning false at the end or on error.
func (rs *Rows) Next() bool {
	return rs.r.Next()
}

// Values returns a copy of the current row.
func (rs *Rows) Values() []Value {
	row := rs.r.Row()
	if row == nil {
		return nil
	}
	out := make([]Value, len(row))
	copy(out, row)
	return out
}

// Columns returns the result column names.
func (rs *Rows) Columns() []string {
	return rs.r.Columns()
}

// Plan describes how the query runs, e.g. "SCAN t".
func (rs *Rows) Plan() string {
	return rs.r.Plan()
}

// Err returns the error that ended iteration, if any.
func (rs *Rows) Err() error {
	return rs.r.Err()
}

// Close stops iteration.
func (rs *Rows) Close() error {
	return rs.r.Close()
}
