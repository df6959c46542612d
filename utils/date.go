package utils

import (
	"strings"
	"time"
)

// Accepted statement date formats, tried in priority order.
var dateFormats = []string{
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006-01-02",
	"02/01/06",
	"02-01-06",
}

// ParseDate tries each accepted format in order. Unrecognized input
// yields nil, never an error: dates are optional on statement rows.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return &t
		}
	}
	return nil
}
