package parser

import (
	"fmt"
	"strings"
)

// Node is the interface that all AST nodes implement.
type Node interface {
	node()
	String() string
}

// Statement is a parsed SQL statement: *SelectStmt or *CreateTableStmt.
// Statements are immutable once parsed and may be shared between goroutines.
type Statement interface {
	Node
	statement()

	// Kind names the statement type, e.g. "SELECT".
	Kind() string
}

// Expression is a result column expression. Column references are the only
// expressions today.
type Expression interface {
	Node
	expression()
}

// =============================================================================
// Statements
// =============================================================================

// SelectStmt represents a SELECT statement.
type SelectStmt struct {
	Columns []ResultColumn
	From    string
}

func (s *SelectStmt) node()        {}
func (s *SelectStmt) statement()   {}
func (s *SelectStmt) Kind() string { return "SELECT" }

func (s *SelectStmt) String() string {
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = c.String()
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), s.From)
}

// ResultColumn represents a column in the SELECT clause.
type ResultColumn struct {
	Star  bool       // true for SELECT *
	Expr  Expression // nil when Star is set
	Alias string
}

func (c ResultColumn) String() string {
	if c.Star {
		return "*"
	}
	if c.Alias != "" {
		return c.Expr.String() + " AS " + c.Alias
	}
	return c.Expr.String()
}

// CreateTableStmt represents a CREATE TABLE statement.
type CreateTableStmt struct {
	Name    string
	Columns []ColumnDef
}

func (s *CreateTableStmt) node()        {}
func (s *CreateTableStmt) statement()   {}
func (s *CreateTableStmt) Kind() string { return "CREATE TABLE" }

func (s *CreateTableStmt) String() string {
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = c.Name + " " + c.Type.String()
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", s.Name, strings.Join(cols, ", "))
}

// ColumnDef represents a column definition in CREATE TABLE.
type ColumnDef struct {
	Name string
	Type ColumnType
}

// ColumnType is a declared column type.
type ColumnType int

const (
	TypeInteger ColumnType = iota
	TypeReal
	TypeText
	TypeBlob
)

// columnTypes maps lowercased type names to column types. STRING is an
// alias for TEXT.
var columnTypes = map[string]ColumnType{
	"integer": TypeInteger,
	"real":    TypeReal,
	"text":    TypeText,
	"string":  TypeText,
	"blob":    TypeBlob,
}

func (t ColumnType) String() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeReal:
		return "REAL"
	case TypeText:
		return "TEXT"
	case TypeBlob:
		return "BLOB"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// =============================================================================
// Expressions
// =============================================================================

// ColumnRef references a column by name.
type ColumnRef struct {
	Name string
}

func (e *ColumnRef) node()          {}
func (e *ColumnRef) expression()    {}
func (e *ColumnRef) String() string { return e.Name }
