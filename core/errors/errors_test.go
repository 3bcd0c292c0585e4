package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name    string
		err     *FormatError
		wantMsg string
	}{
		{
			name:    "file level",
			err:     NewFormat(0, "invalid page size: %d", 1000),
			wantMsg: "malformed database: invalid page size: 1000",
		},
		{
			name:    "page level",
			err:     NewFormat(7, "unknown page type 0x%02x", 0x0a),
			wantMsg: "malformed database: page 7: unknown page type 0x0a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrFormat) {
				t.Errorf("errors.Is(%v, ErrFormat) = false", tt.err)
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		underlying := fmt.Errorf("short read")
		err := &FormatError{Page: 3, Message: "truncated page", Err: underlying}
		if !errors.Is(err, underlying) {
			t.Error("FormatError does not unwrap to underlying error")
		}
		if !errors.Is(err, ErrFormat) {
			t.Error("FormatError with underlying error does not match ErrFormat")
		}
	})
}

func TestSchemaError(t *testing.T) {
	cause := NewSyntax(4, "unexpected end of input")
	err := NewSchema("users", "cannot parse table definition", cause)

	want := "corrupt schema for users: cannot parse table definition: syntax error at offset 4: unexpected end of input"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrSchema) {
		t.Error("SchemaError does not match ErrSchema")
	}
	if !errors.Is(err, ErrSyntax) {
		t.Error("SchemaError does not unwrap to its syntax cause")
	}

	bare := NewSchema("", "type field is not text", nil)
	if got := bare.Error(); got != "corrupt schema: type field is not text" {
		t.Errorf("Error() = %q", got)
	}
	if got := bare.Unwrap(); got != ErrSchema {
		t.Errorf("Unwrap() = %v, want %v", got, ErrSchema)
	}
}

func TestSyntaxError(t *testing.T) {
	tests := []struct {
		name    string
		err     *SyntaxError
		wantMsg string
	}{
		{"with offset", NewSyntax(7, "unexpected character '@'"), "syntax error at offset 7: unexpected character '@'"},
		{"without offset", NewSyntax(-1, "unexpected end of input"), "syntax error: unexpected end of input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); got != ErrSyntax {
				t.Errorf("Unwrap() = %v, want %v", got, ErrSyntax)
			}
		})
	}
}

func TestResolutionError(t *testing.T) {
	err := NewResolution("column", "nosuch")
	if got := err.Error(); got != "no such column: nosuch" {
		t.Errorf("Error() = %q, want %q", got, "no such column: nosuch")
	}
	if !Is(err, ErrResolution) {
		t.Error("ResolutionError does not match ErrResolution")
	}

	wrapped := fmt.Errorf("compile: %w", err)
	var resErr *ResolutionError
	if !As(wrapped, &resErr) {
		t.Fatal("As() failed to find ResolutionError")
	}
	if resErr.Kind != "column" || resErr.Name != "nosuch" {
		t.Errorf("As() = %+v, unexpected values", resErr)
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFound("file", "missing.db")
	if got := err.Error(); got != "file not found: missing.db" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError does not match ErrNotFound")
	}

	noID := &NotFoundError{Resource: "table"}
	if got := noID.Error(); got != "table not found" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidation("mode", "csv", "must be one of pipe, json, yaml, xml")
	if got := err.Error(); got != "validation failed for mode: must be one of pipe, json, yaml, xml" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError does not match ErrInvalidInput")
	}
}

func TestIOError(t *testing.T) {
	underlying := fmt.Errorf("permission denied")
	err := NewIO("open", "/tmp/x.db", underlying)
	if got := err.Error(); got != "failed to open /tmp/x.db: permission denied" {
		t.Errorf("Error() = %q", got)
	}
	if got := err.Unwrap(); got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}

	noPath := &IOError{Operation: "seek", Err: underlying}
	if got := noPath.Error(); got != "failed to seek: permission denied" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUnsupportedError(t *testing.T) {
	err := NewUnsupported("text encoding", "UTF-16le")
	if got := err.Error(); got != "unsupported text encoding: UTF-16le" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Error("UnsupportedError does not match ErrUnsupported")
	}

	bare := &UnsupportedError{Feature: "overflow payloads"}
	if got := bare.Error(); got != "unsupported overflow payloads" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrap(t *testing.T) {
	t.Run("wraps error", func(t *testing.T) {
		baseErr := fmt.Errorf("base error")
		wrapped := Wrap(baseErr, "context message")
		if wrapped == nil {
			t.Fatal("Wrap() returned nil")
		}
		if !errors.Is(wrapped, baseErr) {
			t.Errorf("Wrap() error does not unwrap to base error")
		}
		wantMsg := "context message: base error"
		if wrapped.Error() != wantMsg {
			t.Errorf("Wrap() = %q, want %q", wrapped.Error(), wantMsg)
		}
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		if got := Wrap(nil, "context"); got != nil {
			t.Errorf("Wrap(nil) = %v, want nil", got)
		}
	})
}

func TestWrapf(t *testing.T) {
	baseErr := NewFormat(2, "cell pointer out of range")
	wrapped := Wrapf(baseErr, "failed to read page %d", 2)
	if !errors.Is(wrapped, ErrFormat) {
		t.Errorf("Wrapf() error does not unwrap to ErrFormat")
	}
	wantMsg := "failed to read page 2: malformed database: page 2: cell pointer out of range"
	if wrapped.Error() != wantMsg {
		t.Errorf("Wrapf() = %q, want %q", wrapped.Error(), wantMsg)
	}

	if got := Wrapf(nil, "context %s", "test"); got != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", got)
	}
}
