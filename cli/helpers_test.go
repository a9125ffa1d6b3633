package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

const sampleCSV = `Date,Type,Asset,Amount,Price
2021-01-01,Buy,BTCINR,10,100
2021-02-01,Buy,BTCINR,10,200
2021-03-01,Sell,BTCINR,15,300
2021-01-01,Buy,ETHUSDT,2,10
2021-01-05,Sell,ETHUSDT,5,20
`

// writeTemp writes contents to name inside a fresh temporary directory and returns its path.
func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func testGlobals() *Globals {
	return &Globals{
		LogLevel:      "error",
		Tolerance:     "1e-12",
		LocalCurrency: "INR",
		StableQuote:   "USDT",
	}
}
