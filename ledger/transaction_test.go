package ledger

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestParseSide(t *testing.T) {
	tests := []struct {
		input   string
		want    Side
		wantErr bool
	}{
		{"buy", Buy, false},
		{"BUY", Buy, false},
		{"  Sell ", Sell, false},
		{"transfer", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSide(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	got := Day(time.Date(2021, 3, 1, 23, 59, 0, 0, ist))
	assert.Equal(t, time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestTransactionValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, buy("BTC", "2021-01-01", "1", "100").Validate())
	})

	t.Run("zero price is allowed", func(t *testing.T) {
		assert.NoError(t, buy("BTC", "2021-01-01", "1", "0").Validate())
	})

	tests := []struct {
		name string
		tx   Transaction
		want string
	}{
		{"missing asset", buy("", "2021-01-01", "1", "100"), "has no asset"},
		{"zero quantity", buy("BTC", "2021-01-01", "0", "100"), "non-positive quantity"},
		{"negative quantity", sell("BTC", "2021-01-01", "-1", "100"), "non-positive quantity"},
		{"negative price", buy("BTC", "2021-01-01", "1", "-5"), "negative price"},
		{"invalid side", Transaction{Asset: "BTC", Quantity: decimal.NewFromInt(1)}, "invalid side"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTransactionString(t *testing.T) {
	tx := sell("ETHINR", "2022-05-06", "0.5", "150000")
	assert.Equal(t, "2022-05-06 Sell 0.5 ETHINR @ 150000", tx.String())
	assertDecimal(t, "75000", tx.Value())
}

func TestGroupByAsset(t *testing.T) {
	txs := sequence(
		sell("ETH", "2021-03-01", "1", "10"),
		buy("BTC", "2021-02-01", "1", "10"),
		buy("ETH", "2021-02-01", "1", "10"),
		buy("ETH", "2021-01-01", "2", "10"),
		buy("ETH", "2021-01-01", "3", "10"),
		sell("BTC", "2021-01-05", "1", "10"),
	)

	streams := groupByAsset(txs)
	assert.Equal(t, 2, len(streams))
	assert.Equal(t, "ETH", streams[0].asset)
	assert.Equal(t, "BTC", streams[1].asset)

	eth := streams[0]
	assert.Equal(t, 3, len(eth.buys))
	assert.Equal(t, 1, len(eth.sells))

	// Same-day buys keep their input order.
	assert.Equal(t, 3, eth.buys[0].Seq)
	assert.Equal(t, 4, eth.buys[1].Seq)
	assert.Equal(t, 2, eth.buys[2].Seq)
}
