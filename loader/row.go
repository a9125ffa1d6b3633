package loader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/robinvdvleuten/cryptofifo/ledger"
)

var errMissingValue = errors.New("missing value")

// parseRow converts one record. rowNum is the 1-based row in the file.
func (l *Loader) parseRow(rowNum int, record []string, cols columns) (ledger.Transaction, []error) {
	var (
		tx   ledger.Transaction
		errs []error
	)
	fail := func(field, value string, err error) {
		errs = append(errs, &ParseError{Row: rowNum, Column: cols.name(field), Value: value, Err: err})
	}

	raw, _ := cols.get(record, FieldDate)
	if date, err := l.parseDate(raw); err != nil {
		fail(FieldDate, raw, err)
	} else {
		tx.Date = date
	}

	raw, _ = cols.get(record, FieldSide)
	if raw == "" {
		fail(FieldSide, raw, errMissingValue)
	} else if side, err := ledger.ParseSide(raw); err != nil {
		fail(FieldSide, raw, err)
	} else {
		tx.Side = side
	}

	raw, present := cols.get(record, FieldAsset)
	switch {
	case raw != "":
		tx.Asset = raw
	case l.DefaultAsset != "":
		tx.Asset = l.DefaultAsset
	case present:
		fail(FieldAsset, raw, errMissingValue)
	}

	raw, _ = cols.get(record, FieldQuantity)
	if qty, err := parseDecimal(raw); err != nil {
		fail(FieldQuantity, raw, err)
	} else if !qty.IsPositive() {
		fail(FieldQuantity, raw, errors.New("must be greater than zero"))
	} else {
		tx.Quantity = qty
	}

	raw, _ = cols.get(record, FieldPrice)
	if price, err := parseDecimal(raw); err != nil {
		fail(FieldPrice, raw, err)
	} else if price.IsNegative() {
		fail(FieldPrice, raw, errors.New("must not be negative"))
	} else {
		tx.Price = price
	}

	for _, opt := range []struct {
		field string
		dst   *decimal.NullDecimal
	}{
		{FieldNetAmount, &tx.NetAmount},
		{FieldTDS, &tx.TDS},
	} {
		raw, _ := cols.get(record, opt.field)
		if raw == "" {
			continue
		}
		v, err := parseDecimal(raw)
		if err != nil {
			fail(opt.field, raw, err)
			continue
		}
		*opt.dst = decimal.NewNullDecimal(v)
	}

	return tx, errs
}

// parseDecimal accepts plain numbers with optional thousands separators.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, errMissingValue
	}
	clean := strings.ReplaceAll(s, ",", "")
	clean = strings.ReplaceAll(clean, " ", "")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, errors.New("not a number")
	}
	return d, nil
}

// parseDate tries each configured layout, then Excel serial numbers. The result is truncated
// to the UTC day.
func (l *Loader) parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errMissingValue
	}
	for _, layout := range l.DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ledger.Day(t), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return ledger.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date, expected one of %s", strings.Join(l.DateLayouts, ", "))
}
