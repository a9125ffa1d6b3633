package report

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cryptofifo/ledger"
)

// GainSummary holds the realized totals of one asset. Failed sells only add to Errors.
type GainSummary struct {
	Asset    string
	Sells    int
	Proceeds decimal.Decimal
	Cost     decimal.Decimal
	Gain     decimal.Decimal
	Errors   int
}

// GainHeaders are the column titles of the gain summary, in Cells order.
var GainHeaders = []string{"Asset", "Sells", "Proceeds", "Cost", "Gain", "Errors"}

// Cells returns the display values of g in GainHeaders order.
func (g GainSummary) Cells() []string {
	return []string{
		g.Asset,
		strconv.Itoa(g.Sells),
		g.Proceeds.String(),
		g.Cost.String(),
		g.Gain.String(),
		strconv.Itoa(g.Errors),
	}
}

// Gains returns one GainSummary per asset in result order.
func Gains(result *ledger.Result) []GainSummary {
	out := make([]GainSummary, 0, len(result.Assets))
	for _, a := range result.Assets {
		g := GainSummary{
			Asset:    a.Asset,
			Proceeds: decimal.Zero,
			Cost:     decimal.Zero,
			Gain:     decimal.Zero,
		}
		for _, d := range a.Disposals {
			if d.Err != nil {
				g.Errors++
				continue
			}
			g.Sells++
			g.Proceeds = g.Proceeds.Add(d.Proceeds)
			g.Cost = g.Cost.Add(d.Cost)
			g.Gain = g.Gain.Add(d.Gain)
		}
		out = append(out, g)
	}
	return out
}

// TotalGain sums gains across assets.
func TotalGain(gains []GainSummary) decimal.Decimal {
	total := decimal.Zero
	for _, g := range gains {
		total = total.Add(g.Gain)
	}
	return total
}
