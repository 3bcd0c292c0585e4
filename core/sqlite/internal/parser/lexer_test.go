package parser

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/pagelite/core/errors"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestTokenizeBasic(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
	}{
		{
			"SELECT * FROM users;",
			[]TokenType{TK_SELECT, TK_STAR, TK_FROM, TK_ID, TK_SEMI},
		},
		{
			"select a, b as c from t",
			[]TokenType{TK_SELECT, TK_ID, TK_COMMA, TK_ID, TK_AS, TK_ID, TK_FROM, TK_ID},
		},
		{
			"create table t(x integer)",
			[]TokenType{TK_CREATE, TK_TABLE, TK_ID, TK_LP, TK_ID, TK_ID, TK_RP},
		},
		{
			"  \t\n ",
			nil,
		},
		{
			"",
			nil,
		},
	}

	for _, tt := range tests {
		tokens, err := Tokenize(tt.input)
		if err != nil {
			t.Errorf("Tokenize(%q) failed: %v", tt.input, err)
			continue
		}
		got := tokenTypes(tokens)
		if len(got) != len(tt.expected) {
			t.Errorf("token count mismatch for %q: got %v, want %v", tt.input, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("token %d mismatch for %q: got %s, want %s", i, tt.input, got[i], tt.expected[i])
			}
		}
	}
}

func TestTokenizeCaseFolding(t *testing.T) {
	tokens, err := Tokenize("SeLect * FroM TableName_1;")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	want := []Token{
		{Type: TK_SELECT, Lexeme: "select", Pos: 0},
		{Type: TK_STAR, Lexeme: "*", Pos: 7},
		{Type: TK_FROM, Lexeme: "from", Pos: 9},
		{Type: TK_ID, Lexeme: "tablename_1", Pos: 14},
		{Type: TK_SEMI, Lexeme: ";", Pos: 25},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, tokens[i], want[i])
		}
	}
}

func TestTokenizeCreateTable(t *testing.T) {
	tokens, err := Tokenize("CREATE TABLE t (id INTEGER, name TEXT)")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	want := []Token{
		{Type: TK_CREATE},
		{Type: TK_TABLE},
		ID("t"),
		{Type: TK_LP},
		ID("id"),
		ID("integer"),
		{Type: TK_COMMA},
		ID("name"),
		ID("text"),
		{Type: TK_RP},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i := range want {
		if tokens[i].Type != want[i].Type {
			t.Errorf("token %d type = %s, want %s", i, tokens[i].Type, want[i].Type)
		}
		if want[i].Type == TK_ID && tokens[i].Lexeme != want[i].Lexeme {
			t.Errorf("token %d lexeme = %q, want %q", i, tokens[i].Lexeme, want[i].Lexeme)
		}
	}
}

func TestTokenizeUnicodeIdentifiers(t *testing.T) {
	tokens, err := Tokenize("select ÄRGER, größe from Straße")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	names := []string{tokens[1].Lexeme, tokens[3].Lexeme, tokens[5].Lexeme}
	want := []string{"ärger", "größe", "straße"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("identifier %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		char   string
	}{
		{"select @ from table;", 7, "'@'"},
		{"select 1 from t", 7, "'1'"},
		{"select _x from t", 7, "'_'"},
		{"select a.b from t", 8, "'.'"},
		{"select 'a' from t", 7, `'\''`},
		{"select * from t where x = 1", 24, "'='"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			var syn *errors.SyntaxError
			if !errors.As(err, &syn) {
				t.Fatalf("Tokenize error = %v, want *SyntaxError", err)
			}
			if syn.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", syn.Offset, tt.offset)
			}
			if !strings.Contains(syn.Message, tt.char) {
				t.Errorf("message %q does not name %s", syn.Message, tt.char)
			}
		})
	}
}

func TestTokenTypeClasses(t *testing.T) {
	for _, tt := range []TokenType{TK_CREATE, TK_TABLE, TK_SELECT, TK_AS, TK_FROM} {
		if !tt.IsKeyword() || tt.IsPunctuation() {
			t.Errorf("%s: keyword=%v punctuation=%v", tt, tt.IsKeyword(), tt.IsPunctuation())
		}
	}
	for _, tt := range []TokenType{TK_LP, TK_RP, TK_STAR, TK_COMMA, TK_SEMI} {
		if tt.IsKeyword() || !tt.IsPunctuation() {
			t.Errorf("%s: keyword=%v punctuation=%v", tt, tt.IsKeyword(), tt.IsPunctuation())
		}
	}
	if TK_ID.IsKeyword() || TK_EOF.IsPunctuation() {
		t.Error("TK_ID or TK_EOF misclassified")
	}
}
