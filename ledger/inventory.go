package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Queue is the FIFO inventory of one asset: lots ordered by acquisition date, oldest first.
// A Queue is a value. Matching never modifies the receiver's lots in place, it returns the
// next Queue instead.
type Queue struct {
	lots []Lot
}

// NewQueue builds a queue from buys that are already in chronological order.
func NewQueue(buys []Transaction) Queue {
	lots := make([]Lot, 0, len(buys))
	for _, tx := range buys {
		lots = append(lots, newLot(tx))
	}
	return Queue{lots: lots}
}

// Len returns the number of lots in the queue.
func (q Queue) Len() int { return len(q.lots) }

// IsEmpty returns true if the queue has no lots
func (q Queue) IsEmpty() bool { return len(q.lots) == 0 }

// Lots returns a copy of the lots, oldest first.
func (q Queue) Lots() []Lot {
	out := make([]Lot, len(q.lots))
	copy(out, q.lots)
	return out
}

// Total returns the sum of remaining quantities.
func (q Queue) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range q.lots {
		total = total.Add(l.Quantity)
	}
	return total
}

// Split partitions the queue into lots acquired on or before on (eligible) and lots acquired
// after it (future). Both keep their relative order.
func (q Queue) Split(on time.Time) (eligible, future Queue) {
	for _, l := range q.lots {
		if l.Date.After(on) {
			future.lots = append(future.lots, l)
		} else {
			eligible.lots = append(eligible.lots, l)
		}
	}
	return eligible, future
}

// concat returns q's lots followed by tail's lots.
func (q Queue) concat(tail Queue) Queue {
	lots := make([]Lot, 0, len(q.lots)+len(tail.lots))
	lots = append(lots, q.lots...)
	lots = append(lots, tail.lots...)
	return Queue{lots: lots}
}

// String returns a string representation of the queue
func (q Queue) String() string {
	if q.IsEmpty() {
		return "[]"
	}
	var buf strings.Builder
	buf.WriteByte('[')
	for i, l := range q.lots {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(l.String())
	}
	buf.WriteByte(']')
	return buf.String()
}

// MatchSell consumes q against a single sell and returns the next queue with the resulting
// disposal.
//
// Only lots acquired on or before the sell date are eligible. If there are none, or their
// total is less than the sell quantity, the sell fails as a whole: the queue is returned
// unchanged and the disposal carries an *InsufficientInventoryError. Otherwise lots are
// consumed oldest first until the sell is covered, so a matched disposal always has at least
// one Match. The tolerance only clears dust: a lot whose remaining quantity drops to tolerance
// or below is dropped from the queue.
func MatchSell(q Queue, sell Transaction, tolerance decimal.Decimal) (Queue, Disposal) {
	d := Disposal{
		Sell:     sell,
		Cost:     decimal.Zero,
		Proceeds: sell.Value(),
	}

	eligible, future := q.Split(sell.Date)
	available := eligible.Total()
	if eligible.IsEmpty() || available.LessThan(sell.Quantity) {
		d.Err = &InsufficientInventoryError{
			Asset:     sell.Asset,
			Date:      sell.Date,
			Quantity:  sell.Quantity,
			Available: available,
		}
		d.Proceeds = decimal.Zero
		return q, d
	}

	// eligible holds fresh copies from Split, so lots can be reduced in place.
	lots := eligible.lots
	outstanding := sell.Quantity
	for outstanding.IsPositive() && len(lots) > 0 {
		front := &lots[0]
		use := decimal.Min(outstanding, front.Quantity)

		cost := use.Mul(front.UnitCost)
		d.Matches = append(d.Matches, Match{
			AcquiredOn: front.Date,
			Quantity:   use,
			UnitCost:   front.UnitCost,
			Cost:       cost,
		})
		d.Cost = d.Cost.Add(cost)

		outstanding = outstanding.Sub(use)
		front.Quantity = front.Quantity.Sub(use)
		if front.Quantity.LessThanOrEqual(tolerance) {
			lots = lots[1:]
		}
	}

	d.Gain = d.Proceeds.Sub(d.Cost)
	return Queue{lots: lots}.concat(future), d
}
