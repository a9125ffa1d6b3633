package cli

import (
	stdErrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cryptofifo/ledger"
	"github.com/robinvdvleuten/cryptofifo/loader"
)

func TestErrorRenderer(t *testing.T) {
	t.Run("schema error lists accepted headers", func(t *testing.T) {
		err := &loader.SchemaError{Filename: "trades.csv", Missing: []string{"price"}}
		out := NewErrorRenderer(nil).Render(err)
		assert.Contains(t, out, "missing required columns: price")
		assert.Contains(t, out, "rate")
	})

	t.Run("parse error shows the offending row", func(t *testing.T) {
		source := []byte("Date,Type,Asset,Amount,Price\n2021-01-01,Buy,BTC,abc,1\n")
		err := &loader.ParseError{Row: 2, Column: "Amount", Value: "abc", Err: stdErrors.New("not a number")}
		out := NewErrorRenderer(source).Render(err)
		assert.Contains(t, out, "2021-01-01,Buy,BTC,abc,1")
	})

	t.Run("render all separates errors", func(t *testing.T) {
		day := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
		errs := []error{
			&ledger.InsufficientInventoryError{Asset: "BTC", Date: day, Quantity: decimal.NewFromInt(5), Available: decimal.NewFromInt(1)},
			&ledger.InsufficientInventoryError{Asset: "ETH", Date: day, Quantity: decimal.NewFromInt(2), Available: decimal.Zero},
		}
		out := NewErrorRenderer(nil).RenderAll(errs)
		assert.Contains(t, out, "BTC")
		assert.Contains(t, out, "ETH")
		assert.Equal(t, 2, strings.Count(out, ledger.InsufficientEligibleMessage))
	})

	t.Run("no errors", func(t *testing.T) {
		assert.Equal(t, "", NewErrorRenderer(nil).RenderAll(nil))
	})
}
