package loader

import (
	"fmt"
	"strings"
)

// SchemaError is returned when required columns are missing. No rows are parsed.
type SchemaError struct {
	Filename string
	Missing  []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Filename, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) GetFilename() string {
	return e.Filename
}

// ParseError describes a cell that could not be converted.
type ParseError struct {
	Row    int // 1-based, the header is row 1
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row %d: column %q: %v", e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("row %d: column %q: invalid value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) GetRow() int {
	return e.Row
}
