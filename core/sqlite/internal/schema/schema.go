// Package schema builds the table catalog from the schema table on page 1.
//
// The catalog is built once when a database is opened and never changes, so
// it is safe for concurrent reads without locking.
package schema

import (
	"strings"

	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/pager"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/parser"
)

// Catalog holds the tables of one database in schema table order.
type Catalog struct {
	tables []*Table
}

// Table represents a database table definition.
type Table struct {
	Name     string     // Table name, as declared in the CREATE TABLE text
	RootPage pager.Pgno // B-tree root page number
	SQL      string     // CREATE TABLE statement as stored
	Columns  []Column   // Column definitions, in declaration order
}

// Column represents a table column definition.
type Column struct {
	Name string
	Type parser.ColumnType
}

// NewCatalog returns a catalog over tables.
func NewCatalog(tables ...*Table) *Catalog {
	return &Catalog{tables: tables}
}

// Table looks a table up by name, ignoring case. Schemas are small, so this
// is a linear scan.
func (c *Catalog) Table(name string) (*Table, bool) {
	for _, t := range c.tables {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return nil, false
}

// Tables returns the tables in schema table order. The slice must not be
// modified.
func (c *Catalog) Tables() []*Table {
	return c.tables
}

// Names returns the table names in schema table order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.tables))
	for i, t := range c.tables {
		names[i] = t.Name
	}
	return names
}

// Len returns the number of tables.
func (c *Catalog) Len() int {
	return len(c.tables)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if strings.EqualFold(col.Name, name) {
			return i
		}
	}
	return -1
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// tableFromStmt converts a parsed CREATE TABLE statement.
func tableFromStmt(stmt *parser.CreateTableStmt, root pager.Pgno, sql string) *Table {
	cols := make([]Column, len(stmt.Columns))
	for i, c := range stmt.Columns {
		cols[i] = Column{Name: c.Name, Type: c.Type}
	}
	return &Table{
		Name:     stmt.Name,
		RootPage: root,
		SQL:      sql,
		Columns:  cols,
	}
}
