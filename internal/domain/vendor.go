package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// VendorRecord is one row of the spend ledger as it moves through the
// pipeline. Name and Amount come from the input file; Description and
// Category are filled in by enrichment, Action by recommendation.
type VendorRecord struct {
	Name        string
	Amount      decimal.Decimal
	Description string
	Category    string
	Action      Action
}

// ParseAmount parses a raw ledger amount such as "$1,250.00" into a decimal.
// Currency symbols and thousands separators are stripped first; the amount
// must be numeric and non-negative after stripping.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, &ParseError{Field: "Amount", Value: raw, Err: err}
	}
	if d.IsNegative() {
		return decimal.Decimal{}, &ParseError{Field: "Amount", Value: raw, Reason: "amount must not be negative"}
	}
	return d, nil
}
