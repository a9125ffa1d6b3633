// Sample Trade Export Generator
//
// This tool generates a large trade export for performance testing and profiling.
// It creates realistic buys and sells across many pairs, quoted in INR and USDT, so the
// loader, the matching engine and the report builder all get exercised.
//
// Usage:
//
//	go run main.go > trades.csv
//	go run main.go 500000 > trades.csv  # Specify number of rows
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"
)

const (
	defaultRows = 100_000

	// shortSellRate is the share of sells deliberately larger than the holdings, to exercise
	// the error path.
	shortSellRate = 0.01
)

var (
	bases = map[string]float64{
		"BTC":   2_500_000,
		"ETH":   180_000,
		"SOL":   8_000,
		"MATIC": 70,
		"DOGE":  6,
		"ADA":   30,
		"XRP":   40,
		"DOT":   500,
	}

	quotes = []string{"INR", "USDT"}

	header = []string{"Date", "Type", "Asset", "Amount", "Price", "Net Amount", "TDS"}
)

func main() {
	rows := defaultRows
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil {
			rows = n
		}
	}

	w := csv.NewWriter(os.Stdout)
	if err := w.Write(header); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write header: %v\n", err)
		os.Exit(1)
	}

	var pairs []string
	for base := range bases {
		for _, quote := range quotes {
			pairs = append(pairs, base+quote)
		}
	}

	holdings := make(map[string]float64)
	date := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	buys, sells := 0, 0

	for i := 0; i < rows; i++ {
		pair := pairs[rand.Intn(len(pairs))]
		price := priceOf(pair)

		side, qty := "Buy", randQuantity(price)
		if held := holdings[pair]; held > 0 && rand.Intn(3) == 0 {
			side = "Sell"
			qty = held * (0.1 + rand.Float64()*0.8)
			if rand.Float64() < shortSellRate {
				qty = held * 2
			}
		}

		value := qty * price
		record := []string{
			date.Format("2006-01-02"),
			side,
			pair,
			strconv.FormatFloat(qty, 'f', 8, 64),
			strconv.FormatFloat(price, 'f', 4, 64),
		}
		if side == "Buy" {
			holdings[pair] += qty
			buys++
			record = append(record, strconv.FormatFloat(-value, 'f', 4, 64), "")
		} else {
			if qty <= holdings[pair] {
				holdings[pair] -= qty
			}
			sells++
			tds := value * 0.01
			record = append(record, strconv.FormatFloat(value-tds, 'f', 4, 64), strconv.FormatFloat(tds, 'f', 4, 64))
		}

		if err := w.Write(record); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write row: %v\n", err)
			os.Exit(1)
		}

		// Advance the date every few rows
		if rand.Intn(20) == 0 {
			date = date.AddDate(0, 0, 1)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to flush: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d rows (%d buys, %d sells)\n", rows, buys, sells)
}

// priceOf returns a price around the base's reference level, converted for USDT pairs.
func priceOf(pair string) float64 {
	for base, ref := range bases {
		switch pair {
		case base + "INR":
			return jitter(ref)
		case base + "USDT":
			return jitter(ref / 83)
		}
	}
	return 1
}

func jitter(v float64) float64 {
	return v * (0.8 + rand.Float64()*0.4)
}

// randQuantity spends roughly 1,000 to 50,000 INR worth at the given price.
func randQuantity(price float64) float64 {
	return (1_000 + rand.Float64()*49_000) / price
}
