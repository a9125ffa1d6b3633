package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cryptofifo/ledger"
)

func TestDumpTransaction(t *testing.T) {
	tx := ledger.NewTransaction("BTCINR", time.Date(2021, 1, 1, 15, 4, 0, 0, time.UTC), ledger.Sell,
		decimal.RequireFromString("1.5"), decimal.NewFromInt(100))
	tx.TDS = decimal.NewNullDecimal(decimal.RequireFromString("1.5"))
	tx.Seq = 3

	assert.Equal(t, txDump{
		Seq:      3,
		Date:     "2021-01-01",
		Side:     "Sell",
		Asset:    "BTCINR",
		Quantity: "1.5",
		Price:    "100",
		TDS:      "1.5",
	}, dumpTransaction(tx))
}

func TestDumpInventory(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2021, 1, d, 0, 0, 0, 0, time.UTC) }
	txs := []ledger.Transaction{
		ledger.NewTransaction("BTC", day(1), ledger.Buy, decimal.NewFromInt(10), decimal.NewFromInt(100)),
		ledger.NewTransaction("BTC", day(2), ledger.Buy, decimal.NewFromInt(10), decimal.NewFromInt(200)),
		ledger.NewTransaction("BTC", day(3), ledger.Sell, decimal.NewFromInt(15), decimal.NewFromInt(300)),
	}
	for i := range txs {
		txs[i].Seq = i
	}

	result, err := ledger.New().Process(context.Background(), txs)
	assert.NoError(t, err)

	dump := dumpInventory(result)
	assert.Equal(t, []queueDump{{
		Asset: "BTC",
		Total: "5",
		Lots:  []lotDump{{Date: "2021-01-02", Quantity: "5", UnitCost: "200", Value: "1000"}},
	}}, dump)

	var buf bytes.Buffer
	printDump(&buf, dump)
	assert.Contains(t, buf.String(), `Asset: "BTC"`)
	assert.Contains(t, buf.String(), `UnitCost: "200"`)
}
