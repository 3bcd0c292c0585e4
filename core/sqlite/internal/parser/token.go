// Package parser tokenizes and parses the SQL dialect understood by the
// engine: SELECT over a single table and CREATE TABLE.
package parser

import "fmt"

// TokenType represents the type of a SQL token.
type TokenType int

// Token type constants
const (
	// Special tokens
	TK_EOF TokenType = iota
	TK_ID

	// Keywords
	TK_CREATE
	TK_TABLE
	TK_SELECT
	TK_AS
	TK_FROM

	// Punctuation
	TK_LP    // (
	TK_RP    // )
	TK_STAR  // *
	TK_COMMA // ,
	TK_SEMI  // ;
)

// keywords maps lowercased identifiers to keyword tokens.
var keywords = map[string]TokenType{
	"create": TK_CREATE,
	"table":  TK_TABLE,
	"select": TK_SELECT,
	"as":     TK_AS,
	"from":   TK_FROM,
}

// punctuation maps single characters to their tokens.
var punctuation = map[rune]TokenType{
	'(': TK_LP,
	')': TK_RP,
	'*': TK_STAR,
	',': TK_COMMA,
	';': TK_SEMI,
}

// Token represents a lexical token.
type Token struct {
	Type   TokenType // Token type
	Lexeme string    // Lowercased text for identifiers and keywords
	Pos    int       // Byte offset in the source
}

// ID returns an identifier token, mostly for tests.
func ID(name string) Token {
	return Token{Type: TK_ID, Lexeme: name}
}

// String describes the token for error messages.
func (t Token) String() string {
	switch t.Type {
	case TK_ID:
		return fmt.Sprintf("identifier %q", t.Lexeme)
	case TK_EOF:
		return "end of input"
	default:
		return t.Type.String()
	}
}

// String returns a string representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TK_EOF:
		return "EOF"
	case TK_ID:
		return "ID"
	case TK_CREATE:
		return "CREATE"
	case TK_TABLE:
		return "TABLE"
	case TK_SELECT:
		return "SELECT"
	case TK_AS:
		return "AS"
	case TK_FROM:
		return "FROM"
	case TK_LP:
		return "'('"
	case TK_RP:
		return "')'"
	case TK_STAR:
		return "'*'"
	case TK_COMMA:
		return "','"
	case TK_SEMI:
		return "';'"
	default:
		return "UNKNOWN"
	}
}

// IsKeyword returns true if the token is a SQL keyword.
func (t TokenType) IsKeyword() bool {
	return t >= TK_CREATE && t <= TK_FROM
}

// IsPunctuation returns true if the token is punctuation.
func (t TokenType) IsPunctuation() bool {
	return t >= TK_LP && t <= TK_SEMI
}
