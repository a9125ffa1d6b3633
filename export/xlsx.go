// Package export writes reports to spreadsheet files.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/robinvdvleuten/cryptofifo/ledger"
	"github.com/robinvdvleuten/cryptofifo/report"
	"github.com/robinvdvleuten/cryptofifo/telemetry"
)

// Sheet names of the exported workbook.
const (
	SheetReport       = "FIFO Report"
	SheetClosingStock = "Closing Stock"
	SheetGains        = "Gains"
	SheetCoins        = "Coin Summary"
)

// sheet is one table of the workbook.
type sheet struct {
	name    string
	table   string // excel table names may not contain spaces
	headers []string
	rows    [][]interface{}
}

// WriteXLSX writes r as a workbook with one table per sheet.
func WriteXLSX(ctx context.Context, w io.Writer, r *report.Report) error {
	timer := telemetry.StartTimer(ctx, "export.xlsx")
	defer timer.End()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheets := []sheet{
		{name: SheetReport, table: "FIFOReport", headers: report.RowHeaders, rows: reportRows(r.Rows)},
		{name: SheetClosingStock, table: "ClosingStock", headers: report.InventoryHeaders, rows: inventoryRows(r)},
		{name: SheetGains, table: "Gains", headers: report.GainHeaders, rows: gainRows(r.Gains)},
		{name: SheetCoins, table: "CoinSummary", headers: report.CoinHeaders, rows: coinRows(r.Coins)},
	}

	for i, s := range sheets {
		if i == 0 {
			f.SetSheetName("Sheet1", s.name)
		} else {
			f.NewSheet(s.name)
		}
		if err := writeSheet(f, s); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", s.name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet) error {
	header := make([]interface{}, len(s.headers))
	for i, h := range s.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return err
	}

	for i := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &s.rows[i]); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(s.headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(s.name, "A", lastCol, 16); err != nil {
		return err
	}

	// A table needs at least one data row.
	if len(s.rows) == 0 {
		return nil
	}
	lowerRight, err := excelize.CoordinatesToCellName(len(s.headers), len(s.rows)+1)
	if err != nil {
		return err
	}
	return f.AddTable(s.name, "A1", lowerRight, tableOptions(s.table))
}

func tableOptions(name string) string {
	return fmt.Sprintf(`{
		"table_name": %q,
		"table_style": "TableStyleMedium2",
		"show_first_column": true,
		"show_last_column": false,
		"show_row_stripes": true,
		"show_column_stripes": false
	}`, name)
}

func reportRows(rows []report.Row) [][]interface{} {
	out := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		out = append(out, []interface{}{
			text(row.Asset),
			day(row.SellDate),
			number(row.SellQuantity),
			number(row.SellPrice),
			day(row.BuyDate),
			number(row.BuyQuantity),
			number(row.BuyPrice),
			number(row.CostBasis),
			number(row.TotalCost),
			number(row.Proceeds),
			number(row.Gain),
			text(row.Error),
		})
	}
	return out
}

func inventoryRows(r *report.Report) [][]interface{} {
	summaries := append([]report.InventorySummary{r.ClosingStock}, r.ByAsset...)
	out := make([][]interface{}, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, []interface{}{
			s.Label,
			s.Quantity.InexactFloat64(),
			s.Value.InexactFloat64(),
			s.AveragePrice.InexactFloat64(),
		})
	}
	return out
}

func gainRows(gains []report.GainSummary) [][]interface{} {
	out := make([][]interface{}, 0, len(gains))
	for _, g := range gains {
		out = append(out, []interface{}{
			g.Asset,
			g.Sells,
			g.Proceeds.InexactFloat64(),
			g.Cost.InexactFloat64(),
			g.Gain.InexactFloat64(),
			g.Errors,
		})
	}
	return out
}

func coinRows(coins []report.CoinSummary) [][]interface{} {
	out := make([][]interface{}, 0, len(coins))
	for _, c := range coins {
		out = append(out, []interface{}{
			c.Asset,
			day(c.FirstDate),
			c.Class.String(),
			c.Quantity.InexactFloat64(),
			c.AveragePrice.InexactFloat64(),
			c.NetAmount.InexactFloat64(),
			c.TDS.InexactFloat64(),
			c.Quote(),
			number(c.CrossRate),
		})
	}
	return out
}

// number returns nil for blank cells so they stay empty in the sheet.
func number(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

func text(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func day(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(ledger.DateLayout)
}
