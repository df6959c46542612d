package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var currencyMarkers = regexp.MustCompile(`(?i)(₹|rs\.?|inr)`)

// ParseAmount normalizes a currency string to whole rupees. Currency
// symbols and grouping separators are stripped before parsing.
// Unparseable or negative content degrades to 0 rather than failing
// the row; structural failures are signalled elsewhere.
func ParseAmount(s string) int64 {
	cleaned := currencyMarkers.ReplaceAllString(s, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return int64(v)
}

// FormatAmount renders rupees in the canonical decimal form that
// ParseAmount reads back unchanged.
func FormatAmount(amount int64) string {
	return strconv.FormatInt(amount, 10)
}
