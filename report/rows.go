package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cryptofifo/ledger"
)

// RowHeaders are the column titles of the FIFO report, in Cells order.
var RowHeaders = []string{
	"Asset",
	"Sell Date",
	"Sell Amount",
	"Sell Price",
	"Buy Date",
	"Buy Amount Used",
	"Buy Price",
	"Cost Basis",
	"Total Cost",
	"Proceeds",
	"Gain",
	"Error",
}

// Row is one line of the FIFO report. Sell-level columns are set only on the first row of a
// sell; the rows that follow for the same sell leave them blank. Blank dates are the zero
// time and blank numbers are invalid NullDecimals.
type Row struct {
	Asset        string
	SellDate     time.Time
	SellQuantity decimal.NullDecimal
	SellPrice    decimal.NullDecimal

	BuyDate      time.Time
	BuyQuantity  decimal.NullDecimal
	BuyPrice     decimal.NullDecimal
	CostBasis    decimal.NullDecimal // this lot's contribution
	TotalCost    decimal.NullDecimal // whole sell
	Proceeds     decimal.NullDecimal
	Gain         decimal.NullDecimal

	Error string
}

// First reports whether r opens a new sell group.
func (r Row) First() bool {
	return !r.SellDate.IsZero()
}

// Cells returns the display values of r in RowHeaders order. Blank fields are empty strings.
func (r Row) Cells() []string {
	return []string{
		r.Asset,
		formatDate(r.SellDate),
		formatNull(r.SellQuantity),
		formatNull(r.SellPrice),
		formatDate(r.BuyDate),
		formatNull(r.BuyQuantity),
		formatNull(r.BuyPrice),
		formatNull(r.CostBasis),
		formatNull(r.TotalCost),
		formatNull(r.Proceeds),
		formatNull(r.Gain),
		r.Error,
	}
}

// Rows flattens the disposals of result into report rows. Assets stay contiguous, sells keep
// their date order and lots follow consumption order.
func Rows(result *ledger.Result) []Row {
	var rows []Row
	for _, d := range result.Disposals() {
		rows = append(rows, DisposalRows(d)...)
	}
	return rows
}

// DisposalRows flattens a single disposal. A failed sell yields one row carrying the error.
func DisposalRows(d ledger.Disposal) []Row {
	head := Row{
		Asset:        d.Sell.Asset,
		SellDate:     d.Sell.Date,
		SellQuantity: valid(d.Sell.Quantity),
		SellPrice:    valid(d.Sell.Price),
	}

	if d.Err != nil {
		head.Error = ledger.InsufficientEligibleMessage
		return []Row{head}
	}

	rows := make([]Row, 0, len(d.Matches))
	for i, m := range d.Matches {
		var row Row
		if i == 0 {
			row = head
			row.TotalCost = valid(d.Cost)
			row.Proceeds = valid(d.Proceeds)
			row.Gain = valid(d.Gain)
		}
		row.BuyDate = m.AcquiredOn
		row.BuyQuantity = valid(m.Quantity)
		row.BuyPrice = valid(m.UnitCost)
		row.CostBasis = valid(m.Cost)
		rows = append(rows, row)
	}
	return rows
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ledger.DateLayout)
}

func formatNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
