package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoEntries is reported as a warning when a batch lacks either buys or sells altogether.
var ErrNoEntries = errors.New("could not find both buy and sell entries")

// InsufficientEligibleMessage is the message shown for sells that could not be matched.
const InsufficientEligibleMessage = "Not enough eligible buy amount before this sell"

// InsufficientInventoryError is recorded when the lots acquired on or before a sell do not
// cover its quantity. It never aborts processing.
type InsufficientInventoryError struct {
	Asset     string
	Date      time.Time
	Quantity  decimal.Decimal // requested by the sell
	Available decimal.Decimal // total of eligible lots
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("%s: %s: %s (need %s, have %s)",
		e.Date.Format(DateLayout), e.Asset, InsufficientEligibleMessage,
		e.Quantity.String(), e.Available.String())
}

func (e *InsufficientInventoryError) GetAsset() string {
	return e.Asset
}

func (e *InsufficientInventoryError) GetDate() time.Time {
	return e.Date
}

// Shortfall returns how much quantity was missing.
func (e *InsufficientInventoryError) Shortfall() decimal.Decimal {
	return e.Quantity.Sub(e.Available)
}

// InvalidTransactionError wraps a transaction that breaks the engine's input invariants.
type InvalidTransactionError struct {
	Transaction Transaction
	Err         error
}

func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("invalid transaction #%d: %v", e.Transaction.Seq+1, e.Err)
}

func (e *InvalidTransactionError) Unwrap() error {
	return e.Err
}

func (e *InvalidTransactionError) GetAsset() string {
	return e.Transaction.Asset
}

func (e *InvalidTransactionError) GetDate() time.Time {
	return e.Transaction.Date
}

// ValidationErrors wraps multiple validation errors
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}
