package util

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var nonPriceRegex = regexp.MustCompile(`[^0-9.]`)

// ParsePrice extracts a decimal price from a free-form string such as
// "$1,234.50" or "USD 89.99". Currency symbols and thousands
// separators are stripped before parsing. A non-positive or
// unparseable value is an error, never a panic.
func ParsePrice(s string) (float64, error) {
	cleaned := nonPriceRegex.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric value in %q", s)
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("non-positive price %v in %q", price, s)
	}
	return price, nil
}

// Round2 rounds to 2 fraction digits, the precision every stored
// price carries.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var nonSlugRegex = regexp.MustCompile(`[^a-z0-9]`)

// Slug lowercases s and strips everything outside [a-z0-9]. maxLen <= 0
// means unbounded. Used for deal identities and brand document keys,
// so the output must be stable for a given input.
func Slug(s string, maxLen int) string {
	slug := nonSlugRegex.ReplaceAllString(strings.ToLower(s), "")
	if maxLen > 0 && len(slug) > maxLen {
		slug = slug[:maxLen]
	}
	return slug
}
