package report

import (
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cryptofifo/ledger"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse(ledger.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

type txOption func(*ledger.Transaction)

func withNet(s string) txOption {
	return func(tx *ledger.Transaction) {
		tx.NetAmount = decimal.NewNullDecimal(dec(s))
	}
}

func withTDS(s string) txOption {
	return func(tx *ledger.Transaction) {
		tx.TDS = decimal.NewNullDecimal(dec(s))
	}
}

func tx(side ledger.Side, asset, date, qty, price string, opts ...txOption) ledger.Transaction {
	t := ledger.NewTransaction(asset, day(date), side, dec(qty), dec(price))
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func sequence(txs ...ledger.Transaction) []ledger.Transaction {
	for i := range txs {
		txs[i].Seq = i
	}
	return txs
}

func process(t *testing.T, txs []ledger.Transaction) *ledger.Result {
	t.Helper()
	result, err := ledger.New().Process(context.Background(), txs)
	assert.NoError(t, err)
	return result
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func assertNull(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()
	if want == "" {
		assert.False(t, got.Valid, "want blank, got %s", got.Decimal.String())
		return
	}
	assert.True(t, got.Valid, "want %s, got blank", want)
	assertDecimal(t, want, got.Decimal)
}
