// Command pagelite reads SQLite database files and answers simple queries.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/FocuswithJustin/pagelite/core/sqlite"
	"github.com/FocuswithJustin/pagelite/internal/logging"
	"github.com/FocuswithJustin/pagelite/internal/shell"
)

const version = "0.1.0"

// CLI defines the command-line interface for pagelite.
type CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" default:"text" enum:"json,text" help:"Log format (json, text)"`

	Query   QueryCmd   `cmd:"" help:"Run one SELECT statement"`
	Tables  TablesCmd  `cmd:"" help:"List table names"`
	Schema  SchemaCmd  `cmd:"" help:"Show CREATE statements"`
	Info    InfoCmd    `cmd:"" help:"Show database header and file information"`
	Shell   ShellCmd   `cmd:"" help:"Start an interactive prompt"`
	Compare CompareCmd `cmd:"" help:"Run a query here and in the reference SQLite and compare rows"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// App carries the streams commands read from and write to.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// initLogging configures the global logger to write to app.Stderr.
func (c *CLI) initLogging(app *App) {
	logging.SetOutput(app.Stderr)
	logging.InitLogger(logging.ParseLevel(c.LogLevel), logging.ParseFormat(c.LogFormat))
}

// QueryCmd runs a single statement and prints the rows.
type QueryCmd struct {
	DB   string `arg:"" help:"Database file (.db, .db.xz or .db.gz)" type:"existingfile"`
	SQL  string `arg:"" help:"SELECT statement"`
	Mode string `default:"pipe" enum:"pipe,json,yaml,xml" help:"Output mode (pipe, json, yaml, xml)"`
}

func (c *QueryCmd) Run(app *App) error {
	mode, err := shell.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	db, err := sqlite.Open(c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.Query(context.Background(), c.SQL)
	if err != nil {
		return err
	}
	defer rows.Close()

	_, err = shell.WriteRows(app.Stdout, mode, rows)
	return err
}

// TablesCmd lists the user tables.
type TablesCmd struct {
	DB string `arg:"" help:"Database file" type:"existingfile"`
}

func (c *TablesCmd) Run(app *App) error {
	db, err := sqlite.Open(c.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	return shell.WriteTables(app.Stdout, db)
}

// SchemaCmd prints the stored CREATE statements.
type SchemaCmd struct {
	DB    string `arg:"" help:"Database file" type:"existingfile"`
	Table string `arg:"" optional:"" help:"Only show objects of this table"`
}

func (c *SchemaCmd) Run(app *App) error {
	db, err := sqlite.Open(c.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	return shell.WriteSchema(app.Stdout, db, c.Table)
}

// InfoCmd prints header fields, cache statistics and the file fingerprint.
type InfoCmd struct {
	DB string `arg:"" help:"Database file" type:"existingfile"`
}

func (c *InfoCmd) Run(app *App) error {
	db, err := sqlite.Open(c.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	return shell.WriteInfo(app.Stdout, db)
}

// ShellCmd starts the interactive prompt.
type ShellCmd struct {
	DB   string `arg:"" help:"Database file" type:"existingfile"`
	Mode string `default:"pipe" enum:"pipe,json,yaml,xml" help:"Initial output mode"`
}

func (c *ShellCmd) Run(app *App) error {
	mode, err := shell.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	db, err := sqlite.Open(c.DB, sqlite.WithRequireSemicolon(true))
	if err != nil {
		return err
	}
	defer db.Close()

	opts := []shell.Option{shell.WithMode(mode)}
	if !interactive(app.Stdin) {
		opts = append(opts, shell.WithPrompt(""))
	}
	return shell.New(db, app.Stdout, opts...).Run(context.Background(), app.Stdin)
}

// interactive reports whether r is a terminal.
func interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// CompareCmd cross-checks a query against the reference SQLite.
type CompareCmd struct {
	DB        string `arg:"" help:"Database file (uncompressed)" type:"existingfile"`
	SQL       string `arg:"" help:"SELECT statement"`
	Unordered bool   `help:"Sort both results before comparing"`
}

func (c *CompareCmd) Run(app *App) error {
	db, err := sqlite.Open(c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	ref, err := sqlite.OpenReferenceReadOnly(c.DB)
	if err != nil {
		return fmt.Errorf("failed to open reference database: %w", err)
	}
	defer ref.Close()

	cmp, err := sqlite.Compare(context.Background(), db, ref, c.SQL, c.Unordered)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Stdout, "%s (reference: %s)\n", cmp, sqlite.DriverType())
	for _, d := range cmp.Diffs {
		fmt.Fprintf(app.Stdout, "row %d:\n  pagelite:  %q\n  reference: %q\n", d.Row, d.Got, d.Reference)
	}
	if !cmp.Equal() {
		return fmt.Errorf("results differ in %d rows", len(cmp.Diffs))
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(app *App) error {
	fmt.Fprintf(app.Stdout, "pagelite version %s (reference SQLite: %s via %s)\n",
		version, sqlite.DriverType(), sqlite.GetInfo().Package)
	return nil
}

func options(app *App) []kong.Option {
	return []kong.Option{
		kong.Name("pagelite"),
		kong.Description("pagelite - read-only SQLite file reader"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Writers(app.Stdout, app.Stderr),
		kong.Bind(app),
	}
}

func main() {
	app := &App{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	var cli CLI
	ctx := kong.Parse(&cli, options(app)...)
	cli.initLogging(app)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
