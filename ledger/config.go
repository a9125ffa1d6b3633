package ledger

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shopspring/decimal"
)

// DefaultTolerance is the quantity below which a lot counts as fully consumed.
var DefaultTolerance = decimal.New(1, -12)

// Config holds the knobs of the matching engine.
type Config struct {
	// Tolerance absorbs dust left over by upstream rounding. Lots whose remainder falls to it
	// or below are dropped. It never lets a sell match more than the eligible lots hold.
	Tolerance decimal.Decimal

	// Workers bounds how many assets are matched concurrently.
	Workers int
}

// NewConfig creates a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Tolerance: DefaultTolerance,
		Workers:   runtime.GOMAXPROCS(0),
	}
}

// ParseTolerance parses a tolerance option such as "1e-12" or "0.00000001".
func ParseTolerance(s string) (decimal.Decimal, error) {
	if s == "" {
		return DefaultTolerance, nil
	}
	tol, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid tolerance %q: %w", s, err)
	}
	if tol.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid tolerance %q: must not be negative", s)
	}
	return tol, nil
}

// contextKey is a private type to avoid key collisions in context.
type contextKey struct{}

// WithContext returns a new context with the Config attached.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ConfigFromContext retrieves the Config from context.
// Returns a default Config if not found.
func ConfigFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		return cfg
	}
	return NewConfig()
}
