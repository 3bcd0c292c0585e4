// Package shell implements the interactive pagelite prompt.
//
// Lines starting with '.' are meta commands (see .help). Any other non-empty
// line is one SQL statement; results print in the current output mode and
// errors print as "Error: <message>" without ending the session.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/FocuswithJustin/pagelite/core/sqlite"
	"github.com/FocuswithJustin/pagelite/internal/logging"
)

// Prompt is printed before each input line.
const Prompt = "pagelite> "

// Shell reads statements and commands and prints their results.
// The database should be opened with sqlite.WithRequireSemicolon(true).
type Shell struct {
	db     *sqlite.DB
	out    io.Writer
	mode   Mode
	prompt string
}

// Option configures a Shell.
type Option func(*Shell)

// WithMode sets the initial output mode.
func WithMode(m Mode) Option {
	return func(s *Shell) {
		s.mode = m
	}
}

// WithPrompt replaces the prompt. An empty prompt prints nothing, which suits
// input that is not a terminal.
func WithPrompt(p string) Option {
	return func(s *Shell) {
		s.prompt = p
	}
}

// New returns a shell over db printing to out.
func New(db *sqlite.DB, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		db:     db,
		out:    out,
		mode:   ModePipe,
		prompt: Prompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the current output mode.
func (s *Shell) Mode() Mode {
	return s.mode
}

// MaxLineLength is the longest input line the shell accepts.
const MaxLineLength = 4 * 1024 * 1024

// errLineTooLong is reported for a line longer than MaxLineLength. The
// line is skipped and the session continues.
var errLineTooLong = fmt.Errorf("line too long (limit %d bytes)", MaxLineLength)

// Run reads lines from in until end of input, .exit or .quit.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	r := bufio.NewReader(in)

	for {
		if s.prompt != "" {
			fmt.Fprint(s.out, s.prompt)
		}
		line, err := readLine(r, MaxLineLength)
		if err == errLineTooLong {
			logging.Debug("shell_error", "error", err.Error())
			fmt.Fprintf(s.out, "Error: %v\n", err)
			continue
		}
		if err == io.EOF && line == "" {
			if s.prompt != "" {
				fmt.Fprintln(s.out)
			}
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}
		if s.Execute(ctx, line) {
			return nil
		}
	}
}

// readLine returns the next line without its line ending. A line longer
// than limit is consumed and reported as errLineTooLong. The final line
// may end at io.EOF without a newline.
func readLine(r *bufio.Reader, limit int) (string, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(chunk) > limit+2 {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		line := strings.TrimRight(string(buf), "\r\n")
		if tooLong || len(line) > limit {
			return "", errLineTooLong
		}
		return line, err
	}
}

// Execute handles one input line. It reports whether the session should end.
func (s *Shell) Execute(ctx context.Context, line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	var err error
	if strings.HasPrefix(line, ".") {
		quit, err = s.command(line)
	} else {
		err = s.query(ctx, line)
	}
	if err != nil {
		logging.Debug("shell_error", "line", line, "error", err.Error())
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return quit
}

func (s *Shell) query(ctx context.Context, sql string) error {
	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return err
	}
	defer rows.Close()

	_, err = WriteRows(s.out, s.mode, rows)
	return err
}

func (s *Shell) command(line string) (bool, error) {
	cmd, err := parseCommand(line)
	if err != nil {
		return false, err
	}

	switch cmd.Name {
	case "exit", "quit":
		return true, nil
	case "help":
		_, err := io.WriteString(s.out, helpText)
		return false, err
	case "tables":
		return false, s.tables()
	case "schema":
		if len(cmd.Args) > 1 {
			return false, fmt.Errorf("usage: .schema [TABLE]")
		}
		return false, s.schema(cmd.Args)
	case "dbinfo":
		return false, s.dbinfo()
	case "mode":
		return false, s.setMode(cmd.Args)
	default:
		return false, fmt.Errorf("unknown command: .%s (enter \".help\" for help)", cmd.Name)
	}
}

func (s *Shell) tables() error {
	return WriteTables(s.out, s.db)
}

func (s *Shell) schema(args []string) error {
	table := ""
	if len(args) == 1 {
		table = args[0]
	}
	return WriteSchema(s.out, s.db, table)
}

func (s *Shell) dbinfo() error {
	return WriteInfo(s.out, s.db)
}

func (s *Shell) setMode(args []string) error {
	switch len(args) {
	case 0:
		_, err := fmt.Fprintf(s.out, "current output mode: %s\n", s.mode)
		return err
	case 1:
		m, err := ParseMode(args[0])
		if err != nil {
			return err
		}
		s.mode = m
		return nil
	default:
		return fmt.Errorf("usage: .mode %s", strings.Join(ModeNames(), "|"))
	}
}

// WriteTables prints the user table names separated by spaces.
func WriteTables(w io.Writer, db *sqlite.DB) error {
	tables := db.Tables()
	if len(tables) == 0 {
		return nil
	}
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	_, err := fmt.Fprintln(w, strings.Join(names, " "))
	return err
}

// WriteSchema prints the stored CREATE statement of every schema object, or
// only of the objects belonging to table when it is not empty.
func WriteSchema(w io.Writer, db *sqlite.DB, table string) error {
	entries, err := db.Schema()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.SQL == "" {
			continue
		}
		if table != "" && !strings.EqualFold(e.TblName, table) {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s;\n", e.SQL); err != nil {
			return err
		}
	}
	return nil
}

// WriteInfo prints the database header, table count, cache statistics and
// fingerprint of db, one "label: value" line each.
func WriteInfo(w io.Writer, db *sqlite.DB) error {
	h := db.Header()
	fp, err := db.Fingerprint()
	if err != nil {
		return err
	}
	st := db.CacheStats()
	size := uint64(h.PageSize) * uint64(db.PageCount())

	lines := []struct {
		label string
		value any
	}{
		{"database page size", h.PageSize},
		{"usable page size", h.UsableSize},
		{"write format", h.WriteVersion},
		{"read format", h.ReadVersion},
		{"reserved bytes", h.ReservedSpace},
		{"file change counter", h.FileChangeCounter},
		{"database page count", db.PageCount()},
		{"database size", humanize.Bytes(size)},
		{"freelist page count", h.FreelistPages},
		{"schema cookie", h.SchemaCookie},
		{"schema format", h.SchemaFormat},
		{"text encoding", h.TextEncoding},
		{"user version", h.UserVersion},
		{"application id", h.ApplicationID},
		{"software version", h.SQLiteVersion},
		{"number of tables", len(db.Tables())},
		{"cached pages", st.Pages},
		{"cache hits", st.Hits},
		{"cache misses", st.Misses},
		{"fingerprint", "blake3:" + fp},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-20s %v\n", l.label+":", l.value); err != nil {
			return err
		}
	}
	return nil
}
