// Package errors provides the typed error taxonomy shared by the pagelite engine.
//
// Every failure surfaced by the engine is one of the types below (or wraps one),
// so callers can classify it with errors.Is against a sentinel or errors.As
// against the concrete type.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrFormat indicates the database file violates the on-disk format
	ErrFormat = errors.New("malformed database file")
	// ErrSchema indicates the schema table is missing or carries corrupt rows
	ErrSchema = errors.New("corrupt schema")
	// ErrSyntax indicates SQL text could not be tokenized or parsed
	ErrSyntax = errors.New("syntax error")
	// ErrResolution indicates a query named a table or column that does not exist
	ErrResolution = errors.New("resolution error")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
)

// FormatError reports a structural problem in the database file.
type FormatError struct {
	Page    uint32 // Page number involved, 0 when not tied to a page
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *FormatError) Error() string {
	if e.Page != 0 {
		return fmt.Sprintf("malformed database: page %d: %s", e.Page, e.Message)
	}
	return fmt.Sprintf("malformed database: %s", e.Message)
}

func (e *FormatError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrFormat
}

// Is reports ErrFormat even when an underlying error is attached.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// SchemaError reports a schema table row that cannot be turned into table metadata.
type SchemaError struct {
	Object  string // Schema object name, if known
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *SchemaError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Object != "" {
		return fmt.Sprintf("corrupt schema for %s: %s", e.Object, msg)
	}
	return fmt.Sprintf("corrupt schema: %s", msg)
}

func (e *SchemaError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrSchema
}

// Is reports ErrSchema even when an underlying error is attached.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// SyntaxError reports SQL text that could not be tokenized or parsed.
type SyntaxError struct {
	Message string // Human-readable error message
	Offset  int    // Byte offset into the SQL text, -1 when unknown
}

func (e *SyntaxError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Message)
	}
	return fmt.Sprintf("syntax error: %s", e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// ResolutionError reports a table or column name that does not exist.
type ResolutionError struct {
	Kind string // "table" or "column"
	Name string // The unresolved name
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no such %s: %s", e.Kind, e.Name)
}

func (e *ResolutionError) Unwrap() error {
	return ErrResolution
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "file", "page")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation
	Message string // Human-readable error message
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "seek", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// Helper functions for creating common errors

// NewFormat creates a FormatError for the given page (0 for file-level problems).
func NewFormat(page uint32, format string, args ...interface{}) *FormatError {
	return &FormatError{
		Page:    page,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewSchema creates a SchemaError
func NewSchema(object, message string, err error) *SchemaError {
	return &SchemaError{
		Object:  object,
		Message: message,
		Err:     err,
	}
}

// NewSyntax creates a SyntaxError at the given byte offset
func NewSyntax(offset int, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	}
}

// NewResolution creates a ResolutionError
func NewResolution(kind, name string) *ResolutionError {
	return &ResolutionError{
		Kind: kind,
		Name: name,
	}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, value, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
