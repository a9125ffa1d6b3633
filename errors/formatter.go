// Package errors provides error formatting for loading and matching errors. It separates
// error formatting from domain logic, allowing errors to be rendered in multiple formats
// (text, JSON) for different consumers (terminal, scripts).
//
// The package defines a Formatter interface and provides two implementations:
//   - TextFormatter: Formats errors for command-line output, with the offending input row
//   - JSONFormatter: Formats errors as structured JSON for scripts and CI jobs
//
// Domain-specific error types remain in their respective packages (ledger, loader),
// while this package handles the presentation layer.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/robinvdvleuten/cryptofifo/ledger"
	"github.com/robinvdvleuten/cryptofifo/loader"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	sourceContent []byte // Optional CSV source for row context
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the source content used to print the row a parse error points at.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.sourceContent = source
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error.
func (tf *TextFormatter) Format(err error) string {
	switch e := err.(type) {
	case *loader.SchemaError:
		return tf.formatSchema(e)
	case *ledger.InsufficientInventoryError:
		return tf.formatInsufficient(e)
	case *ledger.InvalidTransactionError:
		return fmt.Sprintf("%s\n\n   %s\n", e.Error(), e.Transaction)
	}

	// Errors pointing at an input row
	if e, ok := err.(interface {
		GetRow() int
		Error() string
	}); ok && tf.sourceContent != nil {
		return tf.formatWithSourceContext(e.GetRow(), e.Error(), tf.sourceContent)
	}

	// Fallback to standard error formatting
	return err.Error()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(strings.TrimRight(tf.Format(err), "\n"))

		// Add blank line between errors (but not after the last one)
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

func (tf *TextFormatter) formatSchema(e *loader.SchemaError) string {
	var buf bytes.Buffer
	buf.WriteString(e.Error())
	buf.WriteString("\n\n")
	for _, field := range e.Missing {
		fmt.Fprintf(&buf, "   %-10s accepted headers: %s\n", field, strings.Join(loader.Aliases(field), ", "))
	}
	return buf.String()
}

func (tf *TextFormatter) formatInsufficient(e *ledger.InsufficientInventoryError) string {
	var buf bytes.Buffer
	buf.WriteString(e.Error())
	buf.WriteString("\n\n")
	fmt.Fprintf(&buf, "   %s Sell %s %s\n", e.Date.Format(ledger.DateLayout), e.Quantity, e.Asset)
	fmt.Fprintf(&buf, "   eligible %s, short by %s\n", e.Available, e.Shortfall())
	return buf.String()
}

// formatWithSourceContext prints the header line and the offending row of the source. Row
// numbers equal line numbers as long as no quoted cell spans several lines.
func (tf *TextFormatter) formatWithSourceContext(row int, message string, sourceContent []byte) string {
	lines := strings.Split(string(sourceContent), "\n")
	if row < 1 || row > len(lines) {
		return message
	}

	var buf bytes.Buffer
	buf.WriteString(message)
	buf.WriteString("\n\n")

	if row > 1 {
		buf.WriteString("   ")
		buf.WriteString(strings.TrimRight(lines[0], "\r"))
		buf.WriteByte('\n')
	}
	buf.WriteString("   ")
	buf.WriteString(strings.TrimRight(lines[row-1], "\r"))
	buf.WriteByte('\n')

	return buf.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string                 `json:"type"`
	Message  string                 `json:"message"`
	Position *PositionJSON          `json:"position,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// PositionJSON represents a cell position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename,omitempty"`
	Row      int    `json:"row"`
	Column   string `json:"column,omitempty"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	errJSON := jf.toJSON(err)
	data, _ := json.Marshal(errJSON)
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	jsonErrors := jf.FormatAllToSlice(errs)
	data, _ := json.MarshalIndent(jsonErrors, "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

// toJSON converts an error to ErrorJSON.
func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
		Details: make(map[string]interface{}),
	}

	switch e := err.(type) {
	case *loader.ParseError:
		errJSON.Position = &PositionJSON{Row: e.Row, Column: e.Column}
		if e.Value != "" {
			errJSON.Details["value"] = e.Value
		}
	case *loader.SchemaError:
		errJSON.Position = &PositionJSON{Filename: e.GetFilename(), Row: 1}
		errJSON.Details["missing"] = e.Missing
	case *ledger.InsufficientInventoryError:
		errJSON.Details["quantity"] = e.Quantity.String()
		errJSON.Details["available"] = e.Available.String()
		errJSON.Details["shortfall"] = e.Shortfall().String()
	}

	// Extract additional details based on accessor methods
	if e, ok := err.(interface{ GetAsset() string }); ok {
		errJSON.Details["asset"] = e.GetAsset()
	}
	if e, ok := err.(interface{ GetDate() time.Time }); ok {
		if date := e.GetDate(); !date.IsZero() {
			errJSON.Details["date"] = date.Format(ledger.DateLayout)
		}
	}

	if len(errJSON.Details) == 0 {
		errJSON.Details = nil
	}
	return errJSON
}
