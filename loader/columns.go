package loader

import (
	"strings"
)

// Canonical field names, as reported in schema errors.
const (
	FieldDate      = "date"
	FieldSide      = "side"
	FieldAsset     = "asset"
	FieldQuantity  = "quantity"
	FieldPrice     = "price"
	FieldNetAmount = "net amount"
	FieldTDS       = "tds"
)

// RequiredFields lists the fields every input must provide, in reporting order.
var RequiredFields = []string{FieldDate, FieldSide, FieldAsset, FieldQuantity, FieldPrice}

// aliases maps each field to the header names accepted for it, lower case.
var aliases = map[string][]string{
	FieldDate:      {"date", "time", "timestamp", "trade date"},
	FieldSide:      {"type", "side"},
	FieldAsset:     {"asset", "coin", "symbol", "pair", "market"},
	FieldQuantity:  {"amount", "quantity", "qty", "volume"},
	FieldPrice:     {"price", "rate"},
	FieldNetAmount: {"net amount", "net", "net settlement", "total"},
	FieldTDS:       {"tds", "withholding tax", "tax"},
}

// fieldOrder fixes the lookup order so the same header always maps the same way.
var fieldOrder = []string{FieldDate, FieldSide, FieldAsset, FieldQuantity, FieldPrice, FieldNetAmount, FieldTDS}

// columns maps fields to their column index in a record.
type columns struct {
	index  map[string]int
	header []string
}

func (c columns) get(record []string, field string) (string, bool) {
	i, ok := c.index[field]
	if !ok {
		return "", false
	}
	if i >= len(record) {
		return "", true
	}
	return strings.TrimSpace(record[i]), true
}

// name returns the header text of field as found in the file.
func (c columns) name(field string) string {
	if i, ok := c.index[field]; ok {
		return strings.TrimSpace(c.header[i])
	}
	return field
}

func (c columns) String() string {
	var parts []string
	for _, field := range fieldOrder {
		if _, ok := c.index[field]; ok {
			parts = append(parts, field+"="+c.name(field))
		}
	}
	return strings.Join(parts, ", ")
}

// normalizeHeader trims and lower-cases a header and collapses inner whitespace and
// underscores, so "Net_Amount" and " net  amount " both match.
func normalizeHeader(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// mapColumns locates every known field in header. The first matching column wins.
func (l *Loader) mapColumns(name string, header []string) (columns, error) {
	cols := columns{index: make(map[string]int), header: header}

	for _, field := range fieldOrder {
		for i, h := range header {
			if _, taken := cols.lookup(i); taken {
				continue
			}
			if matches(field, normalizeHeader(h)) {
				cols.index[field] = i
				break
			}
		}
	}

	var missing []string
	for _, field := range RequiredFields {
		if _, ok := cols.index[field]; ok {
			continue
		}
		if field == FieldAsset && l.DefaultAsset != "" {
			continue
		}
		missing = append(missing, field)
	}
	if len(missing) > 0 {
		return columns{}, &SchemaError{Filename: name, Missing: missing}
	}
	return cols, nil
}

func (c columns) lookup(i int) (string, bool) {
	for field, idx := range c.index {
		if idx == i {
			return field, true
		}
	}
	return "", false
}

func matches(field, header string) bool {
	for _, alias := range aliases[field] {
		if header == alias {
			return true
		}
	}
	return false
}

// Aliases returns the header names accepted for field.
func Aliases(field string) []string {
	out := make([]string, len(aliases[field]))
	copy(out, aliases[field])
	return out
}
