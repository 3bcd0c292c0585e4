package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/FocuswithJustin/pagelite/core/sqlite/internal/record"
)

// Comparison is the outcome of running one query through a DB and through
// the reference SQLite.
type Comparison struct {
	Query         string    `json:"query" yaml:"query"`
	Columns       []string  `json:"columns" yaml:"columns"`
	Rows          int       `json:"rows" yaml:"rows"`
	ReferenceRows int       `json:"reference_rows" yaml:"reference_rows"`
	Diffs         []RowDiff `json:"diffs,omitempty" yaml:"diffs,omitempty"`
}

// RowDiff is a row position where the two results disagree. A nil side means
// that result had no row at that position.
type RowDiff struct {
	Row       int      `json:"row" yaml:"row"`
	Got       []string `json:"got" yaml:"got"`
	Reference []string `json:"reference" yaml:"reference"`
}

// Equal reports whether both results held the same rows.
func (c *Comparison) Equal() bool {
	return len(c.Diffs) == 0
}

func (c *Comparison) String() string {
	if c.Equal() {
		return fmt.Sprintf("%d rows match", c.Rows)
	}
	return fmt.Sprintf("%d of %d rows differ (pagelite %d, reference %d)",
		len(c.Diffs), max(c.Rows, c.ReferenceRows), c.Rows, c.ReferenceRows)
}

// Compare runs query through db and ref and reports the rows that differ.
// Values are compared by their text form.
//
// SQLite may answer a query from an index, which changes row order. With
// unordered set both results are sorted before comparison.
func Compare(ctx context.Context, db *DB, ref *sql.DB, query string, unordered bool) (*Comparison, error) {
	cols, got, err := collectRows(ctx, db, query)
	if err != nil {
		return nil, fmt.Errorf("pagelite: %w", err)
	}
	want, err := collectReference(ctx, ref, query)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}

	if unordered {
		sortRows(got)
		sortRows(want)
	}

	c := &Comparison{
		Query:         query,
		Columns:       cols,
		Rows:          len(got),
		ReferenceRows: len(want),
	}
	for i := 0; i < max(len(got), len(want)); i++ {
		var g, w []string
		if i < len(got) {
			g = got[i]
		}
		if i < len(want) {
			w = want[i]
		}
		if g == nil || w == nil || !slices.Equal(g, w) {
			c.Diffs = append(c.Diffs, RowDiff{Row: i + 1, Got: g, Reference: w})
		}
	}
	return c, nil
}

func collectRows(ctx context.Context, db *DB, query string) ([]string, [][]string, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		out = append(out, rowStrings(rows.Values()))
	}
	return rows.Columns(), out, rows.Err()
}

func collectReference(ctx context.Context, ref *sql.DB, query string) ([][]string, error) {
	rows, err := ref.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	dest := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	var out [][]string
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		vals := make([]Value, len(dest))
		for i, d := range dest {
			vals[i] = record.FromInterface(d)
		}
		out = append(out, rowStrings(vals))
	}
	return out, rows.Err()
}

func rowStrings(row []Value) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = v.String()
	}
	return out
}

func sortRows(rows [][]string) {
	slices.SortFunc(rows, func(a, b []string) int {
		return strings.Compare(strings.Join(a, "\x00"), strings.Join(b, "\x00"))
	})
}
