package ledger

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func buy(asset, date, qty, price string) Transaction {
	return NewTransaction(asset, day(date), Buy, dec(qty), dec(price))
}

func sell(asset, date, qty, price string) Transaction {
	return NewTransaction(asset, day(date), Sell, dec(qty), dec(price))
}

// sequence numbers transactions in input order.
func sequence(txs ...Transaction) []Transaction {
	for i := range txs {
		txs[i].Seq = i
	}
	return txs
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}
