package parser

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FocuswithJustin/pagelite/core/errors"
)

// Lexer tokenizes SQL input.
type Lexer struct {
	input string
	pos   int  // byte offset of ch
	next  int  // byte offset after ch
	ch    rune // current rune, or -1 at end of input
	fold  cases.Caser
}

// NewLexer creates a new Lexer for the given SQL input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		fold:  cases.Lower(language.Und),
	}
	l.readChar()
	return l
}

// readChar reads the next rune and advances position.
func (l *Lexer) readChar() {
	l.pos = l.next
	if l.next >= len(l.input) {
		l.ch = -1
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.next += size
}

// NextToken returns the next token. At the end of input it returns a TK_EOF
// token positioned at len(input).
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	if l.ch < 0 {
		return Token{Type: TK_EOF, Pos: l.pos}, nil
	}

	if tt, ok := punctuation[l.ch]; ok {
		tok := Token{Type: tt, Lexeme: string(l.ch), Pos: l.pos}
		l.readChar()
		return tok, nil
	}

	if unicode.IsLetter(l.ch) {
		return l.readIdentifierOrKeyword(), nil
	}

	return Token{}, errors.NewSyntax(l.pos, "unexpected character %q", l.ch)
}

func (l *Lexer) skipWhitespace() {
	for l.ch >= 0 && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readIdentifierOrKeyword reads a letter followed by letters, digits and
// underscores, lowercases it, and resolves keywords.
func (l *Lexer) readIdentifierOrKeyword() Token {
	start := l.pos
	for l.ch >= 0 && (unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_') {
		l.readChar()
	}

	lexeme := l.fold.String(l.input[start:l.pos])
	tt, ok := keywords[lexeme]
	if !ok {
		tt = TK_ID
	}
	return Token{Type: tt, Lexeme: lexeme, Pos: start}
}

// Tokenize splits sql into tokens, dropping whitespace. The result does not
// include a TK_EOF token.
func Tokenize(sql string) ([]Token, error) {
	lexer := NewLexer(sql)
	var tokens []Token

	for {
		tok, err := lexer.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == TK_EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}
