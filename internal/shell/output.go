package shell

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/pagelite/core/errors"
	"github.com/FocuswithJustin/pagelite/core/sqlite"
)

// Mode selects how result rows are printed.
type Mode int

const (
	// ModePipe prints one line per row with values joined by '|'.
	ModePipe Mode = iota
	// ModeJSON prints a JSON document with columns and rows.
	ModeJSON
	// ModeYAML prints a YAML document with columns and rows.
	ModeYAML
	// ModeXML prints an XML document with one element per row.
	ModeXML
)

var modeNames = map[Mode]string{
	ModePipe: "pipe",
	ModeJSON: "json",
	ModeYAML: "yaml",
	ModeXML:  "xml",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, errors.NewValidation("mode", s, fmt.Sprintf("unknown output mode %q (want pipe, json, yaml or xml)", s))
}

// ModeNames lists the accepted mode names.
func ModeNames() []string {
	return []string{"pipe", "json", "yaml", "xml"}
}

// ResultWriter prints one query result. Begin is called once with the
// column names, Row once per row, and End after the last row.
type ResultWriter interface {
	Begin(columns []string) error
	Row(values []sqlite.Value) error
	End() error
}

// NewResultWriter returns a writer printing to w in mode m.
func NewResultWriter(w io.Writer, m Mode) ResultWriter {
	switch m {
	case ModeJSON:
		return &docWriter{w: w, encode: encodeJSON}
	case ModeYAML:
		return &docWriter{w: w, encode: encodeYAML}
	case ModeXML:
		return &docWriter{w: w, encode: encodeXML}
	default:
		return &pipeWriter{w: w}
	}
}

// WriteRows drains rows into a writer for mode m and returns the row count.
func WriteRows(w io.Writer, m Mode, rows *sqlite.Rows) (int, error) {
	rw := NewResultWriter(w, m)
	if err := rw.Begin(rows.Columns()); err != nil {
		return 0, err
	}
	n := 0
	for rows.Next() {
		if err := rw.Row(rows.Values()); err != nil {
			return n, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}
	return n, rw.End()
}

// pipeWriter streams rows as they arrive.
type pipeWriter struct {
	w   io.Writer
	buf strings.Builder
}

func (p *pipeWriter) Begin([]string) error { return nil }

func (p *pipeWriter) Row(values []sqlite.Value) error {
	p.buf.Reset()
	for i, v := range values {
		if i > 0 {
			p.buf.WriteByte('|')
		}
		p.buf.WriteString(v.String())
	}
	p.buf.WriteByte('\n')
	_, err := io.WriteString(p.w, p.buf.String())
	return err
}

func (p *pipeWriter) End() error { return nil }

// result is the document form shared by the json and yaml modes.
type result struct {
	Columns []string `json:"columns" yaml:"columns"`
	Rows    [][]any  `json:"rows" yaml:"rows"`
}

// docWriter collects the whole result and encodes it at End.
type docWriter struct {
	w       io.Writer
	columns []string
	rows    [][]sqlite.Value
	encode  func(io.Writer, []string, [][]sqlite.Value) error
}

func (d *docWriter) Begin(columns []string) error {
	d.columns = columns
	d.rows = nil
	return nil
}

func (d *docWriter) Row(values []sqlite.Value) error {
	d.rows = append(d.rows, values)
	return nil
}

func (d *docWriter) End() error {
	return d.encode(d.w, d.columns, d.rows)
}

// document converts rows to the Go types the encoders print. Blobs are
// printed as text, matching the pipe mode.
func document(columns []string, rows [][]sqlite.Value) result {
	res := result{Columns: columns, Rows: make([][]any, len(rows))}
	for i, row := range rows {
		out := make([]any, len(row))
		for j, v := range row {
			switch v.Kind {
			case sqlite.KindNull:
				out[j] = nil
			case sqlite.KindInt:
				out[j] = v.Int
			case sqlite.KindFloat:
				out[j] = v.Float
			default:
				out[j] = v.String()
			}
		}
		res.Rows[i] = out
	}
	return res
}

func encodeJSON(w io.Writer, columns []string, rows [][]sqlite.Value) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(document(columns, rows))
}

func encodeYAML(w io.Writer, columns []string, rows [][]sqlite.Value) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document(columns, rows)); err != nil {
		return err
	}
	return enc.Close()
}

type xmlResult struct {
	XMLName xml.Name `xml:"result"`
	Columns []string `xml:"columns>column"`
	Rows    []xmlRow `xml:"row"`
}

type xmlRow struct {
	Values []xmlValue `xml:"value"`
}

type xmlValue struct {
	Column string `xml:"column,attr"`
	Kind   string `xml:"kind,attr"`
	Text   string `xml:",chardata"`
}

func encodeXML(w io.Writer, columns []string, rows [][]sqlite.Value) error {
	doc := xmlResult{Columns: columns}
	for _, row := range rows {
		xr := xmlRow{Values: make([]xmlValue, len(row))}
		for j, v := range row {
			xr.Values[j] = xmlValue{
				Column: columns[j],
				Kind:   v.Kind.String(),
				Text:   v.String(),
			}
		}
		doc.Rows = append(doc.Rows, xr)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
