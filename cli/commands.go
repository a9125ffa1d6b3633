package cli

import (
	"github.com/robinvdvleuten/cryptofifo/ledger"
	"github.com/robinvdvleuten/cryptofifo/loader"
	"github.com/robinvdvleuten/cryptofifo/report"
)

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands. Every flag can also be set through
// the environment or a .env file.
type Globals struct {
	Telemetry     bool   `help:"Show timing telemetry for operations." env:"CRYPTOFIFO_TELEMETRY"`
	LogLevel      string `help:"Log level (debug, info, warn, error)." default:"warn" env:"CRYPTOFIFO_LOG_LEVEL"`
	Tolerance     string `help:"Quantity at or below which a lot counts as fully consumed." default:"1e-12" env:"CRYPTOFIFO_TOLERANCE"`
	Workers       int    `help:"Number of assets matched concurrently (0 uses every CPU)." default:"0" env:"CRYPTOFIFO_WORKERS"`
	LocalCurrency string `help:"Local quote currency." default:"INR" env:"CRYPTOFIFO_LOCAL_CURRENCY"`
	StableQuote   string `help:"Stablecoin quote currency." default:"USDT" env:"CRYPTOFIFO_STABLE_QUOTE"`
	Sheet         string `help:"Worksheet to read from workbooks (first sheet if empty)." env:"CRYPTOFIFO_SHEET"`
	DefaultAsset  string `help:"Asset identifier for inputs without an asset column." env:"CRYPTOFIFO_DEFAULT_ASSET"`
}

type Commands struct {
	Globals

	Report ReportCmd `cmd:"" help:"Match sells against buys and print the FIFO gain/loss report."`
	Coins  CoinsCmd  `cmd:"" help:"Print the per-coin price summary."`
	Check  CheckCmd  `cmd:"" help:"Validate a trade export and report sells that cannot be matched."`
	Watch  WatchCmd  `cmd:"" help:"Print the report again whenever the input file changes."`
	Doctor DoctorCmd `cmd:"" help:"Doctor utilities for debugging trade exports."`
}

// ledgerConfig builds the matching configuration from the flags.
func (g *Globals) ledgerConfig() (*ledger.Config, error) {
	cfg := ledger.NewConfig()

	tol, err := ledger.ParseTolerance(g.Tolerance)
	if err != nil {
		return nil, err
	}
	cfg.Tolerance = tol

	if g.Workers > 0 {
		cfg.Workers = g.Workers
	}
	return cfg, nil
}

func (g *Globals) newLoader() *loader.Loader {
	var opts []loader.Option
	if g.Sheet != "" {
		opts = append(opts, loader.WithSheet(g.Sheet))
	}
	if g.DefaultAsset != "" {
		opts = append(opts, loader.WithDefaultAsset(g.DefaultAsset))
	}
	return loader.New(opts...)
}

func (g *Globals) quotes() report.Quotes {
	return report.Quotes{Local: g.LocalCurrency, Stable: g.StableQuote}
}
