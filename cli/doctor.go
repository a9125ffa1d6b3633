package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/cryptofifo/ledger"
)

// DoctorCmd provides doctor utilities for debugging trade exports.
type DoctorCmd struct {
	Transactions TransactionsCmd `cmd:"" help:"Dump the transactions as the loader normalized them."`
	Inventory    InventoryCmd    `cmd:"" help:"Dump the lots left in each asset's queue after matching."`
}

// TransactionsCmd dumps normalized transactions.
type TransactionsCmd struct {
	File FileOrStdin `help:"Trade export, .csv or .xlsx (use '-' for CSV on stdin, or omit for stdin)." arg:"" optional:""`
}

// txDump is the printable form of a transaction. Decimals are dumped as strings so the output
// shows the values instead of their internal representation.
type txDump struct {
	Seq       int
	Date      string
	Side      string
	Asset     string
	Quantity  string
	Price     string
	NetAmount string
	TDS       string
}

func dumpTransaction(tx ledger.Transaction) txDump {
	d := txDump{
		Seq:      tx.Seq,
		Date:     tx.Date.Format(ledger.DateLayout),
		Side:     tx.Side.String(),
		Asset:    tx.Asset,
		Quantity: tx.Quantity.String(),
		Price:    tx.Price.String(),
	}
	if tx.NetAmount.Valid {
		d.NetAmount = tx.NetAmount.Decimal.String()
	}
	if tx.TDS.Valid {
		d.TDS = tx.TDS.Decimal.String()
	}
	return d
}

func (cmd *TransactionsCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.start(context.Background(), ctx.Stderr, fmt.Sprintf("doctor transactions %s", inputName(&cmd.File)))
	if err != nil {
		return err
	}
	defer s.reportTelemetry()

	source, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	txs, err := cmd.File.Load(s.ctx, globals.newLoader())
	if err != nil {
		printError(ctx.Stderr, renderLoadError(ctx.Stderr, err, source))
		return NewCommandError(exitProblems)
	}

	dump := make([]txDump, 0, len(txs))
	for _, tx := range txs {
		dump = append(dump, dumpTransaction(tx))
	}
	printDump(ctx.Stdout, dump)
	return nil
}

// InventoryCmd dumps residual lots.
type InventoryCmd struct {
	File FileOrStdin `help:"Trade export, .csv or .xlsx (use '-' for CSV on stdin, or omit for stdin)." arg:"" optional:""`
}

type lotDump struct {
	Date     string
	Quantity string
	UnitCost string
	Value    string
}

type queueDump struct {
	Asset string
	Total string
	Lots  []lotDump
}

func dumpInventory(result *ledger.Result) []queueDump {
	out := make([]queueDump, 0, len(result.Assets))
	for _, a := range result.Assets {
		q := queueDump{Asset: a.Asset, Total: a.Inventory.Total().String()}
		for _, l := range a.Inventory.Lots() {
			q.Lots = append(q.Lots, lotDump{
				Date:     l.Date.Format(ledger.DateLayout),
				Quantity: l.Quantity.String(),
				UnitCost: l.UnitCost.String(),
				Value:    l.Value().String(),
			})
		}
		out = append(out, q)
	}
	return out
}

func (cmd *InventoryCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.start(context.Background(), ctx.Stderr, fmt.Sprintf("doctor inventory %s", inputName(&cmd.File)))
	if err != nil {
		return err
	}
	defer s.reportTelemetry()

	p, err := globals.run(s.ctx, &cmd.File)
	if err != nil {
		printError(ctx.Stderr, renderLoadError(ctx.Stderr, err, p.source))
		return NewCommandError(exitProblems)
	}

	printDump(ctx.Stdout, dumpInventory(p.result))
	return nil
}

func printDump(w io.Writer, v any) {
	repr.New(w, repr.Indent("  "), repr.OmitEmpty(true)).Println(v)
}
