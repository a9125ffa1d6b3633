// Package ledger implements FIFO lot matching for crypto trades.
//
// A batch of normalized transactions is grouped by asset. Every buy becomes a lot in the
// asset's inventory queue, and every sell, in date order, consumes the oldest lots acquired on
// or before its own date. A sell that the eligible lots cannot cover is rejected as a whole and
// recorded with an *InsufficientInventoryError; processing carries on with the next sell.
//
// All quantities and prices use decimal arithmetic. A small tolerance (see Config) absorbs
// dust coming from rounded upstream figures.
//
// Example usage:
//
//	txs, err := loader.New().Load(ctx, "trades.xlsx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := ledger.New().Process(ctx, txs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range result.Disposals() {
//	    fmt.Println(d.Sell, d.Gain)
//	}
package ledger

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/robinvdvleuten/cryptofifo/logger"
	"github.com/robinvdvleuten/cryptofifo/telemetry"
)

// Ledger runs the FIFO matching engine over closed batches of transactions.
// A Ledger holds no state between calls to Process.
type Ledger struct {
	config  *Config
	workers int
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithConfig sets the engine configuration. Without it the Config attached to the context
// passed to Process is used, or the defaults.
func WithConfig(cfg *Config) Option {
	return func(l *Ledger) {
		l.config = cfg
	}
}

// WithWorkers overrides the number of assets matched concurrently.
func WithWorkers(n int) Option {
	return func(l *Ledger) {
		l.workers = n
	}
}

// New creates a new Ledger with the given options.
func New(opts ...Option) *Ledger {
	l := &Ledger{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AssetResult is the outcome of matching one asset.
type AssetResult struct {
	Asset     string
	Disposals []Disposal // chronological
	Inventory Queue      // lots left after the last sell
}

// Result is the outcome of processing a batch.
type Result struct {
	Assets   []AssetResult // in order of first appearance in the input
	Warnings []error
}

// Disposals returns every disposal, asset by asset, each asset's sells in date order.
func (r *Result) Disposals() []Disposal {
	var out []Disposal
	for _, a := range r.Assets {
		out = append(out, a.Disposals...)
	}
	return out
}

// Inventory returns every residual lot across all assets.
func (r *Result) Inventory() []Lot {
	var out []Lot
	for _, a := range r.Assets {
		out = append(out, a.Inventory.Lots()...)
	}
	return out
}

// Errors returns the errors of all sells that could not be matched.
func (r *Result) Errors() []error {
	var errs []error
	for _, d := range r.Disposals() {
		if d.Err != nil {
			errs = append(errs, d.Err)
		}
	}
	return errs
}

// Empty reports whether the batch produced no disposals at all.
func (r *Result) Empty() bool {
	for _, a := range r.Assets {
		if len(a.Disposals) > 0 {
			return false
		}
	}
	return true
}

// Process matches every sell in txs against the buys of the same asset.
//
// Transactions that break the input invariants reject the whole batch with
// *ValidationErrors before any matching happens. Sells that cannot be covered do not fail the
// batch; they are reported through Disposal.Err. When the batch has no buys or no sells at
// all, nothing is matched and ErrNoEntries is added to Result.Warnings.
func (l *Ledger) Process(ctx context.Context, txs []Transaction) (*Result, error) {
	cfg := l.config
	if cfg == nil {
		cfg = ConfigFromContext(ctx)
	}
	log := logger.FromContext(ctx)

	var errs []error
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			errs = append(errs, &InvalidTransactionError{Transaction: tx, Err: err})
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}

	groupTimer := telemetry.StartTimer(ctx, "ledger.group")
	streams := groupByAsset(txs)
	groupTimer.End()

	result := &Result{Assets: make([]AssetResult, len(streams))}

	var hasBuys, hasSells bool
	for _, s := range streams {
		hasBuys = hasBuys || len(s.buys) > 0
		hasSells = hasSells || len(s.sells) > 0
	}
	if !hasBuys || !hasSells {
		log.Warn("nothing to match", "transactions", len(txs), "buys", hasBuys, "sells", hasSells)
		for i, s := range streams {
			result.Assets[i] = AssetResult{Asset: s.asset, Inventory: NewQueue(s.buys)}
		}
		result.Warnings = append(result.Warnings, ErrNoEntries)
		return result, nil
	}

	matchTimer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.matching (%d assets)", len(streams)))
	defer matchTimer.End()

	workers := cfg.Workers
	if l.workers > 0 {
		workers = l.workers
	}
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, s := range streams {
		g.Go(func() error {
			res, err := matchAsset(gctx, s, cfg)
			if err != nil {
				return err
			}
			result.Assets[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// matchAsset runs one asset's sells, in order, against its inventory queue.
func matchAsset(ctx context.Context, s *stream, cfg *Config) (AssetResult, error) {
	log := logger.FromContext(ctx).With("asset", s.asset)

	res := AssetResult{Asset: s.asset}
	queue := NewQueue(s.buys)

	for _, sell := range s.sells {
		if err := ctx.Err(); err != nil {
			return AssetResult{}, err
		}

		var d Disposal
		queue, d = MatchSell(queue, sell, cfg.Tolerance)
		res.Disposals = append(res.Disposals, d)

		if d.Err != nil {
			log.Warn("sell not matched", "date", sell.Date.Format(DateLayout), "error", d.Err)
			continue
		}
		log.Debug("sell matched",
			"date", sell.Date.Format(DateLayout),
			"quantity", sell.Quantity.String(),
			"lots", len(d.Matches),
			"gain", d.Gain.String(),
		)
	}

	res.Inventory = queue
	return res, nil
}
