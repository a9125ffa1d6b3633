package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cryptofifo/ledger"
)

// Default quote currencies.
const (
	DefaultLocal  = "INR"
	DefaultStable = "USDT"
)

// Quotes names the two quote currencies an identifier can be priced in.
type Quotes struct {
	Local  string
	Stable string
}

// DefaultQuotes returns INR and USDT.
func DefaultQuotes() Quotes {
	return Quotes{Local: DefaultLocal, Stable: DefaultStable}
}

func (q Quotes) normalized() Quotes {
	if q.Local == "" {
		q.Local = DefaultLocal
	}
	if q.Stable == "" {
		q.Stable = DefaultStable
	}
	q.Local = strings.ToUpper(q.Local)
	q.Stable = strings.ToUpper(q.Stable)
	return q
}

// Pair is an asset identifier split into base and quote.
type Pair struct {
	Base  string
	Quote string
}

var separators = strings.NewReplacer("-", "", "/", "", "_", "", " ", "")

// ParsePair splits an identifier such as "BTC-USDT", "ethinr" or "SOL" into base and quote.
//
// A trailing stable or local code wins, stable first, so "USDTINR" is USDT quoted in INR.
// Otherwise an identifier that contains the stable code anywhere is stable-quoted:
// "USDT-BTC" and "BTCUSDT-PERP" both have base BTC. Everything else is quoted in the local
// currency.
func ParsePair(id string, quotes Quotes) Pair {
	quotes = quotes.normalized()
	upper := strings.ToUpper(strings.TrimSpace(id))
	norm := separators.Replace(upper)

	for _, quote := range []string{quotes.Stable, quotes.Local} {
		if len(norm) > len(quote) && strings.HasSuffix(norm, quote) {
			return Pair{Base: strings.TrimSuffix(norm, quote), Quote: quote}
		}
	}

	if base, ok := containedBase(upper, norm, quotes.Stable); ok {
		return Pair{Base: base, Quote: quotes.Stable}
	}
	return Pair{Base: norm, Quote: quotes.Local}
}

// containedBase finds the base of an identifier carrying the stable code somewhere other
// than at its end. Separated tokens are tried first so trailing qualifiers such as "PERP"
// are left out of the base.
func containedBase(upper, norm, stable string) (string, bool) {
	tokens := strings.FieldsFunc(upper, func(r rune) bool {
		return r == '-' || r == '/' || r == '_' || r == ' '
	})
	if len(tokens) > 1 {
		for i, token := range tokens {
			switch {
			case token == stable:
				rest := append(append([]string{}, tokens[:i]...), tokens[i+1:]...)
				return rest[0], true
			case len(token) > len(stable) && strings.HasSuffix(token, stable):
				return strings.TrimSuffix(token, stable), true
			}
		}
	}

	if len(norm) > len(stable) && strings.Contains(norm, stable) {
		return strings.Replace(norm, stable, "", 1), true
	}
	return "", false
}

// Class tells which sides an asset was traded on.
type Class int

const (
	BuyOnly Class = iota + 1
	SellOnly
	Both
)

func (c Class) String() string {
	switch c {
	case BuyOnly:
		return "Buy Only"
	case SellOnly:
		return "Sell Only"
	case Both:
		return "Both"
	default:
		return "Unknown"
	}
}

// CoinSummary aggregates every trade of one asset identifier, without lot tracking.
type CoinSummary struct {
	Asset        string
	Pair         Pair
	FirstDate    time.Time
	Class        Class
	Quantity     decimal.Decimal
	AveragePrice decimal.Decimal // volume weighted over both sides
	NetAmount    decimal.Decimal
	TDS          decimal.Decimal // zero for BuyOnly

	// CrossRate is the local price implied by selling for the stable quote: the average
	// local buy price of the same base, times the stable sell quantity, divided by the stable
	// net settlement. Blank when it cannot be derived.
	CrossRate decimal.NullDecimal

	sellQuantity decimal.Decimal
	sellNet      decimal.Decimal
}

// Quote returns the quote currency of the summary's pair.
func (c CoinSummary) Quote() string {
	return c.Pair.Quote
}

// CoinHeaders are the column titles of the coin summary, in Cells order.
var CoinHeaders = []string{
	"Asset",
	"First Date",
	"Type",
	"Quantity",
	"Avg Price",
	"Net Amount",
	"TDS",
	"Quote",
	"Cross Rate",
}

// Cells returns the display values of c in CoinHeaders order.
func (c CoinSummary) Cells() []string {
	return []string{
		c.Asset,
		formatDate(c.FirstDate),
		c.Class.String(),
		c.Quantity.String(),
		c.AveragePrice.String(),
		c.NetAmount.String(),
		c.TDS.String(),
		c.Pair.Quote,
		formatNull(c.CrossRate),
	}
}

// weighted accumulates a volume weighted average.
type weighted struct {
	quantity decimal.Decimal
	value    decimal.Decimal
}

func (w *weighted) add(qty, price decimal.Decimal) {
	w.quantity = w.quantity.Add(qty)
	w.value = w.value.Add(qty.Mul(price))
}

func (w weighted) average() decimal.Decimal {
	if w.quantity.IsZero() {
		return decimal.Zero
	}
	return w.value.Div(w.quantity)
}

// CoinSummaries builds one summary per asset identifier in order of first appearance.
func CoinSummaries(txs []ledger.Transaction, quotes Quotes) []CoinSummary {
	quotes = quotes.normalized()

	var order []string
	summaries := make(map[string]*CoinSummary)
	volumes := make(map[string]*weighted)
	localBuys := make(map[string]*weighted) // by base

	for _, tx := range txs {
		s, ok := summaries[tx.Asset]
		if !ok {
			s = &CoinSummary{
				Asset:        tx.Asset,
				Pair:         ParsePair(tx.Asset, quotes),
				FirstDate:    tx.Date,
				Quantity:     decimal.Zero,
				NetAmount:    decimal.Zero,
				TDS:          decimal.Zero,
				sellQuantity: decimal.Zero,
				sellNet:      decimal.Zero,
			}
			summaries[tx.Asset] = s
			volumes[tx.Asset] = &weighted{}
			order = append(order, tx.Asset)
		}

		if tx.Date.Before(s.FirstDate) {
			s.FirstDate = tx.Date
		}
		s.Class = s.Class.with(tx.Side)
		s.Quantity = s.Quantity.Add(tx.Quantity)
		volumes[tx.Asset].add(tx.Quantity, tx.Price)

		if tx.NetAmount.Valid {
			s.NetAmount = s.NetAmount.Add(tx.NetAmount.Decimal)
		}
		if tx.TDS.Valid {
			s.TDS = s.TDS.Add(tx.TDS.Decimal)
		}

		switch tx.Side {
		case ledger.Sell:
			s.sellQuantity = s.sellQuantity.Add(tx.Quantity)
			if tx.NetAmount.Valid {
				s.sellNet = s.sellNet.Add(tx.NetAmount.Decimal)
			}
		case ledger.Buy:
			if s.Pair.Quote == quotes.Local {
				w, ok := localBuys[s.Pair.Base]
				if !ok {
					w = &weighted{}
					localBuys[s.Pair.Base] = w
				}
				w.add(tx.Quantity, tx.Price)
			}
		}
	}

	out := make([]CoinSummary, 0, len(order))
	for _, asset := range order {
		s := summaries[asset]
		s.AveragePrice = volumes[asset].average()
		if s.Class == BuyOnly {
			s.TDS = decimal.Zero
		}
		if s.Pair.Quote == quotes.Stable && s.Class != BuyOnly {
			s.CrossRate = crossRate(localBuys[s.Pair.Base], s.sellQuantity, s.sellNet)
		}
		out = append(out, *s)
	}
	return out
}

func crossRate(local *weighted, sellQuantity, sellNet decimal.Decimal) decimal.NullDecimal {
	if local == nil || local.quantity.IsZero() || sellNet.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{
		Decimal: local.average().Mul(sellQuantity).Div(sellNet),
		Valid:   true,
	}
}

func (c Class) with(side ledger.Side) Class {
	switch {
	case c == 0 && side == ledger.Buy:
		return BuyOnly
	case c == 0 && side == ledger.Sell:
		return SellOnly
	case c == BuyOnly && side == ledger.Sell, c == SellOnly && side == ledger.Buy:
		return Both
	default:
		return c
	}
}
