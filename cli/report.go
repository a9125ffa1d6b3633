package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/cryptofifo/export"
	"github.com/robinvdvleuten/cryptofifo/ledger"
	"github.com/robinvdvleuten/cryptofifo/output"
	"github.com/robinvdvleuten/cryptofifo/report"
	"github.com/robinvdvleuten/cryptofifo/telemetry"
)

type ReportCmd struct {
	File  FileOrStdin `help:"Trade export, .csv or .xlsx (use '-' for CSV on stdin, or omit for stdin)." arg:"" optional:""`
	XLSX  string      `help:"Also write the report to this .xlsx workbook." name:"xlsx" type:"path"`
	CSV   string      `help:"Also write the FIFO rows to this .csv file." name:"csv" type:"path"`
	Force bool        `help:"Overwrite export files without asking." short:"f"`
	Coins bool        `help:"Include the per-coin price summary."`
}

func (cmd *ReportCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.start(context.Background(), ctx.Stderr, fmt.Sprintf("report %s", inputName(&cmd.File)))
	if err != nil {
		return err
	}
	defer s.reportTelemetry()

	p, err := globals.run(s.ctx, &cmd.File)
	if err != nil {
		printError(ctx.Stderr, renderLoadError(ctx.Stderr, err, p.source))
		return NewCommandError(exitProblems)
	}

	printReport(ctx.Stdout, ctx.Stderr, p.report, globals.quotes(), cmd.Coins)

	if cmd.XLSX != "" {
		if err := writeExport(s.ctx, ctx.Stdout, cmd.XLSX, cmd.Force, func(w io.Writer) error {
			return export.WriteXLSX(s.ctx, w, p.report)
		}); err != nil {
			return err
		}
	}
	if cmd.CSV != "" {
		if err := writeExport(s.ctx, ctx.Stdout, cmd.CSV, cmd.Force, func(w io.Writer) error {
			return export.WriteCSV(w, p.report.Rows)
		}); err != nil {
			return err
		}
	}

	return nil
}

// quantityPlaces bounds the decimals shown for quantities and average prices.
const quantityPlaces = 8

// printReport writes every table of r to stdout. Warnings and the count of unmatched sells
// go to stderr.
func printReport(stdout, stderr io.Writer, r *report.Report, quotes report.Quotes, withCoins bool) {
	for _, w := range r.Warnings {
		printWarning(stderr, w.Error())
	}

	if len(r.Rows) > 0 {
		printHeading(stdout, "FIFO Report")
		cells := make([][]string, 0, len(r.Rows))
		for _, row := range r.Rows {
			cells = append(cells, row.Cells())
		}
		headers, cells := trimColumns(report.RowHeaders, cells)
		renderTable(stdout, headers, cells, len(report.RowHeaders)-1)
	}

	printHeading(stdout, report.ClosingStockLabel)
	renderFields(stdout, []field{
		{"Quantity", output.FormatQuantity(r.ClosingStock.Quantity, quantityPlaces)},
		{"Value", r.ClosingStock.Value.String()},
		{"Average Price", output.FormatQuantity(r.ClosingStock.AveragePrice, quantityPlaces)},
	})
	if len(r.ByAsset) > 0 {
		cells := make([][]string, 0, len(r.ByAsset))
		for _, s := range r.ByAsset {
			cells = append(cells, s.Cells())
		}
		renderTable(stdout, []string{"Asset", "Quantity", "Value", "Average Price"}, cells, -1)
	}

	if len(r.Rows) > 0 {
		printHeading(stdout, "Realized Gains")
		styles := output.NewStyles(stdout)
		renderTable(stdout, report.GainHeaders, gainCells(styles, r.Gains, quotes), -1)
		renderFields(stdout, totalFields(styles, r.Gains, quotes))
	}

	if withCoins {
		printCoins(stdout, r.Coins)
	}

	if n := unmatched(r.Gains); n > 0 {
		_, _ = fmt.Fprintln(stderr)
		printWarning(stderr, fmt.Sprintf("%d sell(s) could not be matched: %s", n, ledger.InsufficientEligibleMessage))
	}
}

// gainCells formats money columns in each asset's quote currency.
func gainCells(styles *output.Styles, gains []report.GainSummary, quotes report.Quotes) [][]string {
	cells := make([][]string, 0, len(gains))
	for _, g := range gains {
		quote := report.ParsePair(g.Asset, quotes).Quote
		cells = append(cells, []string{
			styles.Asset(g.Asset),
			fmt.Sprint(g.Sells),
			output.FormatMoney(g.Proceeds, quote),
			output.FormatMoney(g.Cost, quote),
			styles.Gain(g.Gain, output.FormatMoney(g.Gain, quote)),
			fmt.Sprint(g.Errors),
		})
	}
	return cells
}

// totalFields sums realized gains per quote currency. Totals across currencies are never mixed.
func totalFields(styles *output.Styles, gains []report.GainSummary, quotes report.Quotes) []field {
	byQuote := make(map[string][]report.GainSummary)
	var order []string
	for _, g := range gains {
		quote := report.ParsePair(g.Asset, quotes).Quote
		if _, ok := byQuote[quote]; !ok {
			order = append(order, quote)
		}
		byQuote[quote] = append(byQuote[quote], g)
	}

	fields := make([]field, 0, len(order))
	for _, quote := range order {
		total := report.TotalGain(byQuote[quote])
		fields = append(fields, field{
			key:   fmt.Sprintf("Total Gain (%s)", quote),
			value: styles.Gain(total, output.FormatMoney(total, quote)),
		})
	}
	return fields
}

func printCoins(w io.Writer, coins []report.CoinSummary) {
	printHeading(w, "Coin Summary")
	cells := make([][]string, 0, len(coins))
	for _, c := range coins {
		cells = append(cells, c.Cells())
	}
	renderTable(w, report.CoinHeaders, cells, -1)
}

func unmatched(gains []report.GainSummary) int {
	n := 0
	for _, g := range gains {
		n += g.Errors
	}
	return n
}

// writeExport writes a file through write, asking before replacing an existing file unless
// force is set. A declined prompt skips the file without error.
func writeExport(ctx context.Context, w io.Writer, path string, force bool, write func(io.Writer) error) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("export %s", path))
	defer timer.End()

	if _, err := os.Stat(path); err == nil && !force {
		confirmed, err := promptYesNo(fmt.Sprintf("File %q already exists. Overwrite it?", path))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			printWarning(w, fmt.Sprintf("Skipped %s (use --force to overwrite)", path))
			return nil
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	printSuccess(w, fmt.Sprintf("Wrote %s", pathStyle.Render(path)))
	return nil
}
