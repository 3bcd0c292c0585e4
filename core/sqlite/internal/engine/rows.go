package engine

import (
	"context"
	"io"
	"time"

	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/planner"
	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/record"
	"github.com/FocuswithJustin/pagelite/internal/logging"
)

// Rows is an iterator over query results, in the manner of database/sql.Rows.
//
//	rows, err := e.Query(ctx, "SELECT * FROM t")
//	if err != nil { ... }
//	for rows.Next() {
//		fmt.Println(rows.Row())
//	}
//	if err := rows.Err(); err != nil { ... }
//
// A Rows is not safe for concurrent use.
type Rows struct {
	ctx   context.Context
	sql   string
	op    planner.Operator
	start time.Time

	row   []record.OwnedValue
	count int
	err   error
	done  bool
}

// Next advances to the next row. It returns false at the end of the result
// or on error; Err tells the two apart.
func (r *Rows) Next() bool {
	if r.done {
		return false
	}

	row, err := r.op.NextRow()
	if err != nil {
		r.done = true
		r.row = nil
		if err == io.EOF {
			logging.QueryCompleted(r.ctx, r.sql, r.count, time.Since(r.start))
			return false
		}
		r.err = err
		logging.QueryFailed(r.ctx, r.sql, err, "rows", r.count)
		return false
	}

	r.row = row
	r.count++
	return true
}

// Row returns the current row. The slice is overwritten by the next call
// to Next.
func (r *Rows) Row() []record.OwnedValue {
	return r.row
}

// Columns returns the result column names.
func (r *Rows) Columns() []string {
	return r.op.Columns()
}

// Plan describes how the query is executed, e.g. "SCAN t".
func (r *Rows) Plan() string {
	return r.op.String()
}

// Count returns the number of rows produced so far.
func (r *Rows) Count() int {
	return r.count
}

// Err returns the error, if any, that ended iteration.
func (r *Rows) Err() error {
	return r.err
}

// Close stops iteration. It is safe to call more than once.
func (r *Rows) Close() error {
	r.done = true
	r.row = nil
	return nil
}
