package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cryptofifo/ledger"
	"github.com/robinvdvleuten/cryptofifo/output"
	"github.com/robinvdvleuten/cryptofifo/report"
)

func TestRun(t *testing.T) {
	g := testGlobals()
	s, err := g.start(context.Background(), &bytes.Buffer{}, "report")
	assert.NoError(t, err)

	p, err := g.run(s.ctx, &FileOrStdin{Filename: writeTemp(t, "trades.csv", sampleCSV)})
	assert.NoError(t, err)
	assert.Equal(t, 5, len(p.transactions))
	assert.Equal(t, 2, len(p.result.Assets))
	assert.True(t, p.report.HasErrors())
	assert.Equal(t, 1, len(p.result.Errors()))
}

func TestRunSchemaError(t *testing.T) {
	g := testGlobals()
	s, err := g.start(context.Background(), &bytes.Buffer{}, "report")
	assert.NoError(t, err)

	source := "Date,Type,Amount\n2021-01-01,Buy,1\n"
	p, err := g.run(s.ctx, &FileOrStdin{Filename: stdinName, Contents: []byte(source)})
	assert.Error(t, err)
	assert.Equal(t, source, string(p.source))

	var stderr bytes.Buffer
	summary := renderLoadError(&stderr, err, p.source)
	assert.Equal(t, "schema error", summary)
	assert.Contains(t, stderr.String(), "missing required columns: asset, price")
}

func TestRunValidationErrors(t *testing.T) {
	g := testGlobals()
	s, err := g.start(context.Background(), &bytes.Buffer{}, "report")
	assert.NoError(t, err)

	source := "Date,Type,Asset,Amount,Price\nsoon,Buy,BTC,1,1\n2021-01-01,Hold,BTC,1,1\n"
	p, err := g.run(s.ctx, &FileOrStdin{Filename: stdinName, Contents: []byte(source)})
	assert.Error(t, err)

	var stderr bytes.Buffer
	summary := renderLoadError(&stderr, err, p.source)
	assert.Equal(t, "2 validation error(s) found", summary)
	assert.Equal(t, 2, len(flatten(err)))
}

func TestRunStopsWhenParentIsCancelled(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	cancel()

	g := testGlobals()
	s, err := g.start(parent, &bytes.Buffer{}, "report")
	assert.NoError(t, err)

	_, err = g.run(s.ctx, &FileOrStdin{Filename: stdinName, Contents: []byte(sampleCSV)})
	assert.IsError(t, err, context.Canceled)
}

func TestStartRejectsInvalidTolerance(t *testing.T) {
	g := testGlobals()
	g.Tolerance = "-1"
	_, err := g.start(context.Background(), &bytes.Buffer{}, "report")
	assert.Error(t, err)
}

func TestStartTelemetry(t *testing.T) {
	g := testGlobals()
	g.Telemetry = true

	var stderr bytes.Buffer
	s, err := g.start(context.Background(), &stderr, "report trades.csv")
	assert.NoError(t, err)

	_, err = g.run(s.ctx, &FileOrStdin{Filename: stdinName, Contents: []byte(sampleCSV)})
	assert.NoError(t, err)

	s.reportTelemetry()
	s.reportTelemetry()
	assert.Contains(t, stderr.String(), "report trades.csv")
	assert.Contains(t, stderr.String(), "ledger.matching")
}

func TestPrintReport(t *testing.T) {
	g := testGlobals()
	s, err := g.start(context.Background(), &bytes.Buffer{}, "report")
	assert.NoError(t, err)
	p, err := g.run(s.ctx, &FileOrStdin{Filename: stdinName, Contents: []byte(sampleCSV)})
	assert.NoError(t, err)

	var stdout, stderr bytes.Buffer
	printReport(&stdout, &stderr, p.report, g.quotes(), true)

	out := stdout.String()
	assert.Contains(t, out, "FIFO Report")
	assert.Contains(t, out, "Closing Stock")
	assert.Contains(t, out, "Realized Gains")
	assert.Contains(t, out, "Coin Summary")
	assert.Contains(t, out, "BTCINR")
	assert.Contains(t, out, ledger.InsufficientEligibleMessage)
	assert.Contains(t, stderr.String(), "1 sell(s) could not be matched")
}

func TestPrintReportWithoutSells(t *testing.T) {
	g := testGlobals()
	s, err := g.start(context.Background(), &bytes.Buffer{}, "report")
	assert.NoError(t, err)

	source := "Date,Type,Asset,Amount,Price\n2021-01-01,Buy,BTCINR,2,100\n"
	p, err := g.run(s.ctx, &FileOrStdin{Filename: stdinName, Contents: []byte(source)})
	assert.NoError(t, err)

	var stdout, stderr bytes.Buffer
	printReport(&stdout, &stderr, p.report, g.quotes(), false)

	assert.Contains(t, stderr.String(), ledger.ErrNoEntries.Error())
	assert.NotContains(t, stdout.String(), "FIFO Report")
	assert.Contains(t, stdout.String(), "200")
}

func TestWriteExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")

	t.Run("creates new file", func(t *testing.T) {
		var out bytes.Buffer
		err := writeExport(context.Background(), &out, path, false, func(w io.Writer) error {
			_, err := w.Write([]byte("first"))
			return err
		})
		assert.NoError(t, err)
		assert.Contains(t, out.String(), "Wrote")
		assertFile(t, path, "first")
	})

	t.Run("force overwrites", func(t *testing.T) {
		var out bytes.Buffer
		err := writeExport(context.Background(), &out, path, true, func(w io.Writer) error {
			_, err := w.Write([]byte("second"))
			return err
		})
		assert.NoError(t, err)
		assertFile(t, path, "second")
	})

	t.Run("existing file is kept without confirmation", func(t *testing.T) {
		if isTerminal() {
			t.Skip("stdin is a terminal")
		}
		var out bytes.Buffer
		err := writeExport(context.Background(), &out, path, false, func(w io.Writer) error {
			_, err := w.Write([]byte("third"))
			return err
		})
		assert.NoError(t, err)
		assert.Contains(t, out.String(), "Skipped")
		assertFile(t, path, "second")
	})
}

func TestUnmatched(t *testing.T) {
	gains := []report.GainSummary{{Asset: "BTCINR", Errors: 2}, {Asset: "ETHINR"}, {Asset: "SOLINR", Errors: 1}}
	assert.Equal(t, 3, unmatched(gains))
	assert.Equal(t, 0, unmatched(nil))
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, want, string(got))
}

func TestTotalFields(t *testing.T) {
	gains := []report.GainSummary{
		{Asset: "BTCINR", Gain: decimal.NewFromInt(100)},
		{Asset: "ETHUSDT", Gain: decimal.NewFromInt(-5)},
		{Asset: "SOLINR", Gain: decimal.NewFromInt(50)},
	}

	var buf bytes.Buffer
	fields := totalFields(output.NewStyles(&buf), gains, testGlobals().quotes())
	assert.Equal(t, 2, len(fields))
	assert.Equal(t, "Total Gain (INR)", fields[0].key)
	assert.Contains(t, fields[0].value, "150.00")
	assert.Equal(t, "Total Gain (USDT)", fields[1].key)
	assert.Contains(t, fields[1].value, "-5.00")
}
