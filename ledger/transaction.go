package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Side is the direction of a trade.
type Side int

const (
	Buy Side = iota + 1
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	default:
		return "Unknown"
	}
}

// ParseSide parses a side case-insensitively, ignoring surrounding whitespace.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %q, expected buy or sell", s)
	}
}

// Transaction is a single normalized trade. Transactions are never mutated once loaded.
type Transaction struct {
	Asset    string
	Date     time.Time // UTC, truncated to the day
	Side     Side
	Quantity decimal.Decimal
	Price    decimal.Decimal

	// NetAmount is the settlement amount reported by the exchange, if any.
	NetAmount decimal.NullDecimal
	// TDS is the tax withheld at source on this trade, if any.
	TDS decimal.NullDecimal

	// Seq is the position in the original input and breaks date ties.
	Seq int
}

// Value returns Quantity × Price.
func (tx Transaction) Value() decimal.Decimal {
	return tx.Quantity.Mul(tx.Price)
}

func (tx Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s",
		tx.Date.Format(DateLayout), tx.Side, tx.Quantity.String(), tx.Asset, tx.Price.String())
}

// DateLayout is the day-granularity layout used for every date in reports.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewTransaction builds a transaction from plain values. It is mainly meant for tests and
// tools; the loader builds transactions from files.
func NewTransaction(asset string, date time.Time, side Side, quantity, price decimal.Decimal) Transaction {
	return Transaction{
		Asset:    asset,
		Date:     Day(date),
		Side:     side,
		Quantity: quantity,
		Price:    price,
	}
}

// Validate checks the invariants the matching engine relies on.
func (tx Transaction) Validate() error {
	if tx.Asset == "" {
		return fmt.Errorf("transaction on %s has no asset", tx.Date.Format(DateLayout))
	}
	if tx.Side != Buy && tx.Side != Sell {
		return fmt.Errorf("transaction %s has invalid side", tx.Asset)
	}
	if !tx.Quantity.IsPositive() {
		return fmt.Errorf("transaction %s on %s has non-positive quantity %s",
			tx.Asset, tx.Date.Format(DateLayout), tx.Quantity.String())
	}
	if tx.Price.IsNegative() {
		return fmt.Errorf("transaction %s on %s has negative price %s",
			tx.Asset, tx.Date.Format(DateLayout), tx.Price.String())
	}
	return nil
}

// stream holds one asset's transactions split by side, each ordered by date.
type stream struct {
	asset string
	buys  []Transaction
	sells []Transaction
}

// groupByAsset splits txs into per-asset streams. Assets keep the order in which they first
// appear; buys and sells are stably sorted by date, falling back to Seq.
func groupByAsset(txs []Transaction) []*stream {
	var streams []*stream
	index := make(map[string]*stream)

	for _, tx := range txs {
		s, ok := index[tx.Asset]
		if !ok {
			s = &stream{asset: tx.Asset}
			index[tx.Asset] = s
			streams = append(streams, s)
		}
		switch tx.Side {
		case Buy:
			s.buys = append(s.buys, tx)
		case Sell:
			s.sells = append(s.sells, tx)
		}
	}

	for _, s := range streams {
		sortChronologically(s.buys)
		sortChronologically(s.sells)
	}
	return streams
}

func sortChronologically(txs []Transaction) {
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return a.Seq - b.Seq
	})
}
