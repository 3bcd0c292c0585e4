package planner

import (
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/btree"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/record"
)

// Operator produces result rows one at a time.
//
// NextRow returns the next row, or io.EOF when there are no more. The
// returned slice is reused by the next call; callers that keep a row must
// copy it first.
type Operator interface {
	NextRow() ([]record.OwnedValue, error)

	// Columns names the output columns.
	Columns() []string

	// String describes the plan, e.g. "SCAN t".
	String() string
}

// SeqScan reads every row of one table in rowid order and projects a fixed
// list of fields.
type SeqScan struct {
	table   string
	fields  []int    // record field index per output column
	columns []string // output column names
	aliases []string // AS names, "" when absent

	scanner *btree.Scanner
	row     []record.OwnedValue
}

// NewSeqScan returns an operator projecting fields from each row of s.
func NewSeqScan(table string, s *btree.Scanner, fields []int, columns, aliases []string) *SeqScan {
	return &SeqScan{
		table:   table,
		fields:  fields,
		columns: columns,
		aliases: aliases,
		scanner: s,
		row:     make([]record.OwnedValue, len(fields)),
	}
}

// NextRow implements Operator. A field past the end of a short record reads
// as NULL, which is how SQLite treats columns added after the row was written.
func (op *SeqScan) NextRow() ([]record.OwnedValue, error) {
	cur, err := op.scanner.Next()
	if err != nil {
		// io.EOF passes through unwrapped so callers can compare it.
		return nil, err
	}

	for i, f := range op.fields {
		v, ok := cur.OwnedField(f)
		if !ok {
			v = record.Null()
		}
		op.row[i] = v
	}
	return op.row, nil
}

// Columns implements Operator.
func (op *SeqScan) Columns() []string {
	return op.columns
}

// Aliases returns the AS name of each output column, or "" where none was
// given. They are recorded for future output naming.
func (op *SeqScan) Aliases() []string {
	return op.aliases
}

// Fields returns the record field index projected into each output column.
func (op *SeqScan) Fields() []int {
	return op.fields
}

// Table returns the scanned table's name.
func (op *SeqScan) Table() string {
	return op.table
}

func (op *SeqScan) String() string {
	return "SCAN " + op.table
}
