package utils

import "strings"

// Canonical column names used by statement tables.
const (
	ColTAN        = "tan"
	ColDeductor   = "deductor"
	ColSection    = "section"
	ColPeriodFrom = "period_from"
	ColPeriodTo   = "period_to"
	ColAmount     = "amount"
	ColBSRCode    = "bsr_code"
	ColChallanNo  = "challan_no"
	ColPaidOn     = "paid_on"
	ColKind       = "kind"
)

// NormalizeHeaders maps a table's header row to canonical column
// indices by case-insensitive substring matching. Unrecognized headers
// are skipped; later duplicates do not override earlier matches.
func NormalizeHeaders(headers []string) map[string]int {
	m := make(map[string]int)
	put := func(key string, i int) {
		if _, ok := m[key]; !ok {
			m[key] = i
		}
	}

	for i, header := range headers {
		h := strings.ToUpper(strings.TrimSpace(header))
		switch {
		case strings.Contains(h, "TAN"):
			put(ColTAN, i)
		case strings.Contains(h, "BSR"):
			put(ColBSRCode, i)
		case strings.Contains(h, "CHALLAN"):
			put(ColChallanNo, i)
		case strings.Contains(h, "DEDUCTOR") || strings.Contains(h, "COLLECTOR") || strings.Contains(h, "NAME"):
			put(ColDeductor, i)
		case strings.Contains(h, "SECTION"):
			put(ColSection, i)
		case strings.Contains(h, "PERIOD") && strings.Contains(h, "FROM"):
			put(ColPeriodFrom, i)
		case strings.Contains(h, "PERIOD") && strings.Contains(h, "TO"):
			put(ColPeriodTo, i)
		case strings.Contains(h, "AMOUNT") || strings.Contains(h, "₹") || strings.Contains(h, "DEPOSITED"):
			put(ColAmount, i)
		case strings.Contains(h, "MINOR") || strings.Contains(h, "TYPE"):
			put(ColKind, i)
		case strings.Contains(h, "DATE") || strings.Contains(h, "PAID"):
			put(ColPaidOn, i)
		}
	}
	return m
}

// HeaderScore counts how many of the expected column keywords appear in
// the header row. Used to pick the best table for a section.
func HeaderScore(headers []string, keywords []string) int {
	joined := strings.ToUpper(strings.Join(headers, " "))
	score := 0
	for _, kw := range keywords {
		if strings.Contains(joined, kw) {
			score++
		}
	}
	return score
}

// Cell returns the trimmed cell at index i of row, or "" when the row
// is too short. Statements routinely drop trailing columns.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
