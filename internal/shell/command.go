package shell

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// dotCommand is the participle grammar for shell meta commands such as
// ".tables" or ".schema users".
//
//nolint:govet // participle grammar tags are not standard struct tags
type dotCommand struct {
	Name string   `parser:"\".\" @Ident"`
	Args []string `parser:"@(Ident | String | Number)*"`
}

// commandLexer defines the tokens of a dot command line.
var commandLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Dot", Pattern: `\.`},
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "String", Pattern: `"(?:\\.|[^"])*"|'[^']*'`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// commandParser is the participle parser for dot commands.
var commandParser = participle.MustBuild[dotCommand](
	participle.Lexer(commandLexer),
	participle.Elide("Whitespace"),
)

// parseCommand parses a line starting with '.'.
func parseCommand(line string) (*dotCommand, error) {
	cmd, err := commandParser.ParseString("", strings.TrimSpace(line))
	if err != nil {
		return nil, fmt.Errorf("invalid command %q: %w", line, err)
	}
	cmd.Name = strings.ToLower(cmd.Name)
	for i, arg := range cmd.Args {
		cmd.Args[i] = unquote(arg)
	}
	return cmd, nil
}

// unquote strips matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return strings.ReplaceAll(s[1:len(s)-1], `\"`, `"`)
	}
	return s
}

// helpText lists the dot commands.
const helpText = `.dbinfo                Show database header and cache information
.exit                  Exit this program
.help                  Show this message
.mode [MODE]           Set output mode (pipe, json, yaml, xml) or show the current one
.quit                  Exit this program
.schema [TABLE]        Show CREATE statements, optionally for one table
.tables                List names of tables
`
