package parser

import (
	"github.com/FocuswithJustin/pagelite/core/errors"
)

// Parser implements a recursive descent parser over a token list with one
// token of lookahead.
type Parser struct {
	tokens  []Token
	current int
	end     int // byte offset reported for "unexpected end of input"
}

// NewParser tokenizes input and returns a parser over the tokens.
func NewParser(input string) (*Parser, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	return &Parser{tokens: tokens, end: len(input)}, nil
}

// ParseStatement parses exactly one statement from sql. When requireSemicolon
// is set the statement must end with ';'; otherwise the ';' is optional.
// Anything after the statement is an error.
func ParseStatement(sql string, requireSemicolon bool) (Statement, error) {
	p, err := NewParser(sql)
	if err != nil {
		return nil, err
	}
	return p.Parse(requireSemicolon)
}

// Parse parses one statement and checks that the input ends after it.
func (p *Parser) Parse(requireSemicolon bool) (Statement, error) {
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	if !p.match(TK_SEMI) && requireSemicolon {
		return nil, p.error("expected ';' after statement, got %s", p.peek())
	}
	if !p.isAtEnd() {
		return nil, p.error("unexpected %s after end of statement", p.peek())
	}
	return stmt, nil
}

// parseStatement dispatches on the first token.
func (p *Parser) parseStatement() (Statement, error) {
	switch {
	case p.match(TK_SELECT):
		return p.parseSelect()
	case p.match(TK_CREATE):
		return p.parseCreateTable()
	case p.isAtEnd():
		return nil, p.error("unexpected end of input")
	default:
		return nil, p.error("unexpected %s", p.peek())
	}
}

// =============================================================================
// SELECT
// =============================================================================

func (p *Parser) parseSelect() (*SelectStmt, error) {
	stmt := &SelectStmt{}

	cols, err := p.parseResultColumns()
	if err != nil {
		return nil, err
	}
	stmt.Columns = cols

	if !p.match(TK_FROM) {
		return nil, p.error("expected FROM, got %s", p.peek())
	}
	name, err := p.expectIdentifier("table name")
	if err != nil {
		return nil, err
	}
	stmt.From = name

	return stmt, nil
}

func (p *Parser) parseResultColumns() ([]ResultColumn, error) {
	var columns []ResultColumn

	for {
		if p.match(TK_STAR) {
			columns = append(columns, ResultColumn{Star: true})
		} else {
			name, err := p.expectIdentifier("column name or '*'")
			if err != nil {
				return nil, err
			}
			col := ResultColumn{Expr: &ColumnRef{Name: name}}

			// Optional AS alias
			if p.match(TK_AS) {
				alias, err := p.expectIdentifier("alias after AS")
				if err != nil {
					return nil, err
				}
				col.Alias = alias
			}
			columns = append(columns, col)
		}

		if !p.match(TK_COMMA) {
			break
		}
	}

	return columns, nil
}

// =============================================================================
// CREATE TABLE
// =============================================================================

func (p *Parser) parseCreateTable() (*CreateTableStmt, error) {
	if !p.match(TK_TABLE) {
		return nil, p.error("expected TABLE after CREATE, got %s", p.peek())
	}

	name, err := p.expectIdentifier("table name")
	if err != nil {
		return nil, err
	}
	stmt := &CreateTableStmt{Name: name}

	if !p.match(TK_LP) {
		return nil, p.error("expected '(' after table name, got %s", p.peek())
	}

	// Parse column definitions
	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col)

		if !p.match(TK_COMMA) {
			break
		}
	}

	if !p.match(TK_RP) {
		return nil, p.error("expected ')' after column definitions, got %s", p.peek())
	}

	return stmt, nil
}

func (p *Parser) parseColumnDef() (ColumnDef, error) {
	name, err := p.expectIdentifier("column name")
	if err != nil {
		return ColumnDef{}, err
	}

	if !p.check(TK_ID) {
		return ColumnDef{}, p.error("expected type for column %q, got %s", name, p.peek())
	}
	typeName := p.peek().Lexeme
	typ, ok := columnTypes[typeName]
	if !ok {
		return ColumnDef{}, p.error("unknown type %q for column %q", typeName, name)
	}
	p.advance()

	return ColumnDef{Name: name, Type: typ}, nil
}

// =============================================================================
// Helpers
// =============================================================================

func (p *Parser) expectIdentifier(what string) (string, error) {
	if !p.check(TK_ID) {
		return "", p.error("expected %s, got %s", what, p.peek())
	}
	return p.advance().Lexeme, nil
}

func (p *Parser) peek() Token {
	if p.current >= len(p.tokens) {
		return Token{Type: TK_EOF, Pos: p.end}
	}
	return p.tokens[p.current]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) check(t TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) isAtEnd() bool {
	return p.current >= len(p.tokens)
}

func (p *Parser) error(format string, args ...interface{}) error {
	return errors.NewSyntax(p.peek().Pos, format, args...)
}
