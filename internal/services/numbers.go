package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNumber parses a decimal string the way upstream data stores it:
// comma as decimal separator with dot or nothing as thousands separator
// ("1.234,56", "121,00"). Canonical machine form ("121.00") is accepted
// too, so normalization is idempotent. Unparseable input yields zero; a
// bad line contributes nothing to the totals instead of failing the
// whole document.
func ParseNumber(s string) decimal.Decimal {
	d, _ := ParseNumberStrict(s)
	return d
}

// ParseNumberStrict is ParseNumber without the zero fallback. An empty
// string is not an error; it parses to zero.
func ParseNumberStrict(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimSuffix(cleaned, "€")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero, nil
	}

	if strings.Contains(cleaned, ",") {
		// Locale form: dots separate thousands, the comma is the decimal mark
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	} else if strings.Count(cleaned, ".") > 1 {
		// No decimal comma but several dots: all but the last are thousands
		last := strings.LastIndex(cleaned, ".")
		cleaned = strings.ReplaceAll(cleaned[:last], ".", "") + cleaned[last:]
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return d, nil
}

// FormatNumber renders a decimal in canonical machine form: exactly two
// decimal digits with "." as separator. Display-locale formatting is the
// renderer's job, not ours.
func FormatNumber(d decimal.Decimal) string {
	return d.StringFixed(2)
}
