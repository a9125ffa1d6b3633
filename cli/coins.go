package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/cryptofifo/report"
	"github.com/robinvdvleuten/cryptofifo/telemetry"
)

type CoinsCmd struct {
	File FileOrStdin `help:"Trade export, .csv or .xlsx (use '-' for CSV on stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *CoinsCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.start(context.Background(), ctx.Stderr, fmt.Sprintf("coins %s", inputName(&cmd.File)))
	if err != nil {
		return err
	}
	defer s.reportTelemetry()

	source, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file for error context: %w", err)
	}

	txs, err := cmd.File.Load(s.ctx, globals.newLoader())
	if err != nil {
		printError(ctx.Stderr, renderLoadError(ctx.Stderr, err, source))
		return NewCommandError(exitProblems)
	}

	timer := telemetry.StartTimer(s.ctx, "report.coins")
	coins := report.CoinSummaries(txs, globals.quotes())
	timer.End()

	if len(coins) == 0 {
		printWarning(ctx.Stderr, "no transactions found")
		return nil
	}
	printCoins(ctx.Stdout, coins)
	return nil
}
