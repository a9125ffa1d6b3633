package output

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultPlaces is the precision used for codes go-money does not know, such as USDT.
const DefaultPlaces = 2

// FormatMoney formats value in the given currency. ISO currencies use go-money's symbol,
// grouping and fraction digits; anything else is rounded to DefaultPlaces and suffixed with
// the code.
func FormatMoney(value decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	cur := money.GetCurrency(code)
	if cur == nil {
		if code == "" {
			return value.StringFixed(DefaultPlaces)
		}
		return value.StringFixed(DefaultPlaces) + " " + code
	}
	minor := value.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

// FormatQuantity trims a quantity to at most places decimals without padding zeros.
func FormatQuantity(value decimal.Decimal, places int32) string {
	return value.Round(places).String()
}
