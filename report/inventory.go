package report

import (
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cryptofifo/ledger"
)

// ClosingStockLabel labels the summary over all residual lots.
const ClosingStockLabel = "Closing Stock"

// InventorySummary aggregates a collection of lots.
type InventorySummary struct {
	Label        string
	Quantity     decimal.Decimal
	Value        decimal.Decimal
	AveragePrice decimal.Decimal // Value / Quantity, zero when Quantity is zero
}

// InventoryHeaders are the column titles of an inventory summary, in Cells order.
var InventoryHeaders = []string{"Label", "Quantity", "Value", "Average Price"}

// Cells returns the display values of s in InventoryHeaders order.
func (s InventorySummary) Cells() []string {
	return []string{s.Label, s.Quantity.String(), s.Value.String(), s.AveragePrice.String()}
}

// SummarizeInventory sums quantity and value over lots. It does not depend on lot order and
// never modifies lots.
func SummarizeInventory(label string, lots []ledger.Lot) InventorySummary {
	s := InventorySummary{
		Label:        label,
		Quantity:     decimal.Zero,
		Value:        decimal.Zero,
		AveragePrice: decimal.Zero,
	}
	for _, l := range lots {
		s.Quantity = s.Quantity.Add(l.Quantity)
		s.Value = s.Value.Add(l.Value())
	}
	if !s.Quantity.IsZero() {
		s.AveragePrice = s.Value.Div(s.Quantity)
	}
	return s
}

// ClosingStock summarizes every residual lot of result.
func ClosingStock(result *ledger.Result) InventorySummary {
	return SummarizeInventory(ClosingStockLabel, result.Inventory())
}

// ClosingStockByAsset returns one summary per asset, labelled with the asset identifier.
func ClosingStockByAsset(result *ledger.Result) []InventorySummary {
	out := make([]InventorySummary, 0, len(result.Assets))
	for _, a := range result.Assets {
		out = append(out, SummarizeInventory(a.Asset, a.Inventory.Lots()))
	}
	return out
}
