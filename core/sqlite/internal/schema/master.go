package schema

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/FocuswithJustin/pagelite/core/errors"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/btree"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/pager"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/parser"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/record"
)

// The schema table layout:
//
// CREATE TABLE sqlite_schema (
//   type TEXT,      -- "table", "index", "trigger", "view"
//   name TEXT,      -- object name
//   tbl_name TEXT,  -- table name (for indexes/triggers)
//   rootpage INT,   -- root B-tree page
//   sql TEXT        -- CREATE statement
// );
//
// It is always rooted at page 1.

// MasterRoot is the root page of the schema table.
const MasterRoot pager.Pgno = 1

// Column positions in a schema table record.
const (
	masterType = iota
	masterName
	masterTblName
	masterRootPage
	masterSQL
)

// MasterRow represents a row in the schema table.
type MasterRow struct {
	Type     string // "table", "index", "trigger", "view"
	Name     string // Object name
	TblName  string // Associated table name
	RootPage int64  // Root page number
	SQL      string // CREATE statement
}

// Load scans the schema table and returns the catalog of user tables.
// Indexes, views and triggers are skipped, as are internal sqlite_* tables.
// Any malformed table row fails the whole load.
func Load(pages btree.PageReader) (*Catalog, error) {
	s := btree.NewScanner(pages, MasterRoot)
	var tables []*Table

	for {
		cur, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read schema table: %w", err)
		}

		table, err := readTable(cur)
		if err != nil {
			return nil, err
		}
		if table != nil {
			tables = append(tables, table)
		}
	}

	return NewCatalog(tables...), nil
}

// readTable converts one schema record into a Table. It returns nil for rows
// that do not describe a user table.
func readTable(cur *record.Cursor) (*Table, error) {
	object := fmt.Sprintf("schema row %d", cur.RowID())

	kind, err := textField(cur, masterType, object, "type")
	if err != nil {
		return nil, err
	}
	if kind != "table" {
		return nil, nil
	}

	name, err := textField(cur, masterName, object, "name")
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(strings.ToLower(name), "sqlite_") {
		return nil, nil
	}
	object = "table " + name

	root, ok := cur.Field(masterRootPage)
	if !ok || root.Kind != record.KindInt {
		return nil, errors.NewSchema(object, "rootpage is not an integer", nil)
	}
	if root.Int < 1 || root.Int > math.MaxUint32 {
		return nil, errors.NewSchema(object, fmt.Sprintf("rootpage %d is not a valid page number", root.Int), nil)
	}

	sql, err := textField(cur, masterSQL, object, "sql")
	if err != nil {
		return nil, err
	}
	stmt, err := parser.ParseStatement(sql, false)
	if err != nil {
		return nil, errors.NewSchema(object, "cannot parse CREATE TABLE text", err)
	}
	create, ok := stmt.(*parser.CreateTableStmt)
	if !ok {
		return nil, errors.NewSchema(object, fmt.Sprintf("sql holds a %s statement, not CREATE TABLE", stmt.Kind()), nil)
	}

	return tableFromStmt(create, pager.Pgno(root.Int), sql), nil
}

// textField returns field i as a string, or a SchemaError naming the column.
func textField(cur *record.Cursor, i int, object, column string) (string, error) {
	v, ok := cur.Field(i)
	if !ok {
		return "", errors.NewSchema(object, column+" column is missing", nil)
	}
	if v.Kind != record.KindText {
		return "", errors.NewSchema(object, fmt.Sprintf("%s column holds %s, not text", column, v.Kind), nil)
	}
	return v.Text(), nil
}

// ReadMaster returns every row of the schema table, including indexes,
// views and internal tables. Rows with missing columns are returned with
// zero values.
func ReadMaster(pages btree.PageReader) ([]MasterRow, error) {
	s := btree.NewScanner(pages, MasterRoot)
	var rows []MasterRow

	for {
		cur, err := s.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read schema table: %w", err)
		}

		var row MasterRow
		if v, ok := cur.Field(masterType); ok {
			row.Type = v.Text()
		}
		if v, ok := cur.Field(masterName); ok {
			row.Name = v.Text()
		}
		if v, ok := cur.Field(masterTblName); ok {
			row.TblName = v.Text()
		}
		if v, ok := cur.Field(masterRootPage); ok {
			row.RootPage = v.Int
		}
		if v, ok := cur.Field(masterSQL); ok {
			row.SQL = v.Text()
		}
		rows = append(rows, row)
	}
}
