package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Lot is the unconsumed part of a single buy.
type Lot struct {
	Asset    string
	Date     time.Time       // acquisition day
	Quantity decimal.Decimal // remaining quantity
	UnitCost decimal.Decimal
}

// newLot creates a lot holding the full quantity of a buy.
func newLot(tx Transaction) Lot {
	return Lot{
		Asset:    tx.Asset,
		Date:     tx.Date,
		Quantity: tx.Quantity,
		UnitCost: tx.Price,
	}
}

// Value returns the remaining quantity valued at the lot's unit cost.
func (l Lot) Value() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}

// String returns a string representation of the lot
func (l Lot) String() string {
	return fmt.Sprintf("%s %s {%s, %s}", l.Quantity.String(), l.Asset, l.UnitCost.String(), l.Date.Format(DateLayout))
}

// Match records how much of one lot a sell consumed.
type Match struct {
	AcquiredOn time.Time
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	Cost       decimal.Decimal // Quantity × UnitCost
}

// Disposal is a sell together with the lots it consumed. When Err is set the sell could not
// be matched and Matches is empty.
type Disposal struct {
	Sell     Transaction
	Matches  []Match
	Cost     decimal.Decimal
	Proceeds decimal.Decimal
	Gain     decimal.Decimal
	Err      error
}

// OK reports whether the sell was fully matched.
func (d Disposal) OK() bool {
	return d.Err == nil
}
