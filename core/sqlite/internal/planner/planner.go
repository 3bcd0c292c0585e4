// Package planner turns parsed statements into operators.
//
// Only single-table SELECT statements are supported. Each is compiled into a
// SeqScan over the table's b-tree; new statement forms add new Operator
// implementations and new cases in Compile.
package planner

import (
	"github.com/FocuswithJustin/pagelite/core/errors"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/btree"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/parser"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/schema"
)

// Planner compiles statements against one database's catalog.
// It holds no mutable state and is safe for concurrent use.
type Planner struct {
	catalog *schema.Catalog
	pages   btree.PageReader
}

// New returns a planner that resolves names in catalog and reads pages
// through pages.
func New(catalog *schema.Catalog, pages btree.PageReader) *Planner {
	return &Planner{catalog: catalog, pages: pages}
}

// Compile resolves stmt and returns an operator ready to produce rows.
// Name resolution happens here, before any row is read.
func (p *Planner) Compile(stmt parser.Statement) (Operator, error) {
	switch s := stmt.(type) {
	case *parser.SelectStmt:
		scan, err := p.compileSelect(s)
		if err != nil {
			return nil, err
		}
		return scan, nil
	default:
		return nil, errors.NewSyntax(-1, "unsupported statement: %s", stmt.Kind())
	}
}

func (p *Planner) compileSelect(stmt *parser.SelectStmt) (*SeqScan, error) {
	table, ok := p.catalog.Table(stmt.From)
	if !ok {
		return nil, errors.NewResolution("table", stmt.From)
	}

	var (
		fields  []int
		columns []string
		aliases []string
	)
	for _, rc := range stmt.Columns {
		if rc.Star {
			for i, col := range table.Columns {
				fields = append(fields, i)
				columns = append(columns, col.Name)
				aliases = append(aliases, "")
			}
			continue
		}

		ref, ok := rc.Expr.(*parser.ColumnRef)
		if !ok {
			return nil, errors.NewSyntax(-1, "unsupported result column: %s", rc.Expr)
		}
		idx := table.ColumnIndex(ref.Name)
		if idx < 0 {
			return nil, errors.NewResolution("column", ref.Name)
		}
		fields = append(fields, idx)
		columns = append(columns, table.Columns[idx].Name)
		aliases = append(aliases, rc.Alias)
	}

	scanner := btree.NewScanner(p.pages, table.RootPage)
	return NewSeqScan(table.Name, scanner, fields, columns, aliases), nil
}
