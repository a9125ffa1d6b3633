package output

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestNewStyles(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	assert.True(t, styles != nil)
	assert.True(t, styles.Output() != nil)
}

func TestStylesPlainWriter(t *testing.T) {
	// A bytes.Buffer is not a terminal, so every style renders plain text.
	styles := NewStyles(&bytes.Buffer{})

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"success", styles.Success("done"), "done"},
		{"error", styles.Error("failed"), "failed"},
		{"warning", styles.Warning("careful"), "careful"},
		{"file path", styles.FilePath("/tmp/trades.csv"), "/tmp/trades.csv"},
		{"asset", styles.Asset("BTCINR"), "BTCINR"},
		{"amount", styles.Amount("1.5"), "1.5"},
		{"keyword", styles.Keyword("Closing Stock"), "Closing Stock"},
		{"dim", styles.Dim("12ms"), "12ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestStylesGain(t *testing.T) {
	styles := NewStyles(&bytes.Buffer{})

	assert.Equal(t, "2500", styles.Gain(decimal.NewFromInt(2500), "2500"))
	assert.Equal(t, "-10", styles.Gain(decimal.NewFromInt(-10), "-10"))
	assert.Equal(t, "0", styles.Gain(decimal.Zero, "0"))
}
