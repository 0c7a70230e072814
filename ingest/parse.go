package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/2492dfd/stockLog-final/models"
)

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.\-]`)
	numberPattern = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)
	datePattern   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
)

// ParseNumeric keeps digits, '.' and '-' and parses what is left.
// "1,234원" -> 1234. Empty or unparseable text is absent, never an error.
func ParseNumeric(s string) decimal.NullDecimal {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if !numberPattern.MatchString(cleaned) {
		return decimal.NullDecimal{}
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(v)
}

// ParseDate accepts year-month-day with '-', '.' or '/' separators and an
// optional trailing separator ("2024. 1. 5." is January 5th). Out of range
// days are rejected rather than rolled over. The result is UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return -1
		case r == '.' || r == '/':
			return '-'
		}
		return r
	}, s)
	cleaned = strings.TrimSuffix(cleaned, "-")

	m := datePattern.FindStringSubmatch(cleaned)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// ParseDirection maps free text to a trade side. Anything that does not say
// sell, blank included, is a BUY.
func ParseDirection(s string) models.Direction {
	if strings.Contains(s, "매도") || strings.Contains(strings.ToLower(s), "sell") {
		return models.Sell
	}
	return models.Buy
}
