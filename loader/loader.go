// Package loader reads trade exports into normalized ledger transactions.
//
// CSV and Excel workbooks are supported. The first row must hold column headers; they are
// matched case-insensitively against a set of aliases, so exports from different exchanges
// load without renaming columns. Every cell is validated before a single transaction is
// returned: a missing required column yields *SchemaError and malformed cells are collected
// into *ledger.ValidationErrors.
//
// Example usage:
//
//	ldr := loader.New(loader.WithSheet("Trades"))
//	txs, err := ldr.Load(ctx, "trades.xlsx")
//
//	// Single-asset sheets without an asset column
//	ldr := loader.New(loader.WithDefaultAsset("BTCINR"))
//	txs, err := ldr.Load(ctx, "btc.csv")
package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/robinvdvleuten/cryptofifo/ledger"
	"github.com/robinvdvleuten/cryptofifo/logger"
	"github.com/robinvdvleuten/cryptofifo/telemetry"
)

// Format is the encoding of an input file.
type Format int

const (
	CSV Format = iota + 1
	XLSX
)

func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case XLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// FormatFromFilename picks the format from a file extension.
func FormatFromFilename(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return CSV, nil
	case ".xlsx", ".xlsm":
		return XLSX, nil
	default:
		return 0, fmt.Errorf("unsupported file type %q, expected .csv or .xlsx", filepath.Ext(filename))
	}
}

// Loader reads trade exports.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithSheet("Trades"), WithDefaultAsset("BTCINR"))
type Loader struct {
	// Sheet selects the worksheet of a workbook. The first sheet is used when empty.
	Sheet string

	// DefaultAsset is used for rows without an asset, and makes the asset column optional.
	DefaultAsset string

	// DateLayouts are tried in order before falling back to Excel serial numbers.
	DateLayouts []string
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithSheet selects the worksheet to read from workbooks.
func WithSheet(name string) Option {
	return func(l *Loader) {
		l.Sheet = name
	}
}

// WithDefaultAsset sets the asset identifier for sheets that hold a single asset.
func WithDefaultAsset(asset string) Option {
	return func(l *Loader) {
		l.DefaultAsset = strings.TrimSpace(asset)
	}
}

// WithDateLayouts replaces the accepted date layouts.
func WithDateLayouts(layouts ...string) Option {
	return func(l *Loader) {
		l.DateLayouts = layouts
	}
}

// DefaultDateLayouts are the date layouts accepted unless WithDateLayouts is given.
var DefaultDateLayouts = []string{
	ledger.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02-01-2006",
	"01/02/2006",
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{
		DateLayouts: DefaultDateLayouts,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads filename, picking the format from its extension.
func (l *Loader) Load(ctx context.Context, filename string) ([]ledger.Transaction, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	defer func() { _ = f.Close() }()

	return l.LoadReader(ctx, filename, f, format)
}

// LoadReader reads transactions from r. name is only used in messages.
func (l *Loader) LoadReader(ctx context.Context, name string, r io.Reader, format Format) ([]ledger.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	readTimer := telemetry.StartTimer(ctx, "loader.read "+filepath.Base(name))
	var (
		records [][]string
		err     error
	)
	switch format {
	case CSV:
		records, err = readCSV(r)
	case XLSX:
		records, err = readXLSX(r, l.Sheet)
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	readTimer.End()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	normalizeTimer := telemetry.StartTimer(ctx, fmt.Sprintf("loader.normalize (%d rows)", len(records)))
	defer normalizeTimer.End()

	return l.normalize(ctx, name, records)
}

// normalize turns raw records, header first, into transactions.
func (l *Loader) normalize(ctx context.Context, name string, records [][]string) ([]ledger.Transaction, error) {
	var header []string
	if len(records) > 0 {
		header = records[0]
	}

	cols, err := l.mapColumns(name, header)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("columns detected", "file", name, "columns", cols.String())

	var (
		txs  []ledger.Transaction
		errs []error
	)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if isBlank(record) {
			continue
		}

		tx, rowErrs := l.parseRow(i+1, record, cols)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		tx.Seq = len(txs)
		txs = append(txs, tx)
	}

	if len(errs) > 0 {
		return nil, &ledger.ValidationErrors{Errors: errs}
	}
	return txs, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
