// Package report turns matching results into the tables shown and exported by the CLI: the
// flattened FIFO rows, inventory summaries, realized gains and per-coin price summaries.
package report

import (
	"context"

	"github.com/robinvdvleuten/cryptofifo/ledger"
	"github.com/robinvdvleuten/cryptofifo/telemetry"
)

// Report bundles every table derived from one batch.
type Report struct {
	Rows         []Row
	ClosingStock InventorySummary
	ByAsset      []InventorySummary
	Gains        []GainSummary
	Coins        []CoinSummary
	Warnings     []error
}

// Build derives all tables from result and the transactions it was computed from. An empty
// batch yields no rows; its warnings are carried over.
func Build(ctx context.Context, result *ledger.Result, txs []ledger.Transaction, quotes Quotes) *Report {
	timer := telemetry.StartTimer(ctx, "report.build")
	defer timer.End()

	r := &Report{
		Rows:         Rows(result),
		ClosingStock: ClosingStock(result),
		ByAsset:      ClosingStockByAsset(result),
		Gains:        Gains(result),
		Warnings:     result.Warnings,
	}

	coinsTimer := timer.Child("report.coins")
	r.Coins = CoinSummaries(txs, quotes)
	coinsTimer.End()

	return r
}

// HasErrors reports whether any row carries an error.
func (r *Report) HasErrors() bool {
	for _, row := range r.Rows {
		if row.Error != "" {
			return true
		}
	}
	return false
}
