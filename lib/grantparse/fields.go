package grantparse

import (
	"encoding/json"
	"fmt"
	"grantsync-backend/lib/timezone"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02",
}

// ParseClosingDate reads the deadline for organisations (falling back to
// the one for individuals) from a grant's closing_dates. It returns nil when
// the grant has no deadline or it cannot be read.
func ParseClosingDate(closingDates map[string]any) *time.Time {
	value, _ := closingDates["organisation"].(string)
	if value == "" {
		value, _ = closingDates["individual"].(string)
	}
	value = strings.TrimSpace(value)
	if value == "" || strings.Contains(strings.ToLower(value), "open for") {
		return nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return &t
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, value, timezone.Location)
		if err == nil {
			return &t
		}
	}
	return nil
}

// AmountRange is the funding range of a grant, either end may be unknown.
type AmountRange struct {
	Min *int64
	Max *int64
}

var amountNumberRegex = regexp.MustCompile(`[\d,]+`)

// AmountText is the amount as it appears on the site, it is empty when the
// grant has no amount.
func AmountText(v any) string {
	switch amount := v.(type) {
	case nil:
		return ""
	case string:
		return amount
	case json.Number:
		f, err := amount.Float64()
		if err == nil && f == 0 {
			return ""
		}
		return amount.String()
	case float64:
		if amount == 0 || math.IsNaN(amount) {
			return ""
		}
		return strconv.FormatFloat(amount, 'f', -1, 64)
	case bool:
		if !amount {
			return ""
		}
	}
	return fmt.Sprint(v)
}

// ParseAmount reads the funding range out of a free form amount such as
// "$50,000 - $100,000" or "Up to $20,000".
func ParseAmount(v any) AmountRange {
	s := AmountText(v)
	if s == "" {
		return AmountRange{}
	}

	var numbers []int64
	for _, match := range amountNumberRegex.FindAllString(s, -1) {
		n, err := strconv.ParseInt(strings.ReplaceAll(match, ",", ""), 10, 64)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}

	switch {
	case len(numbers) >= 2:
		min, max := numbers[0], numbers[0]
		for _, n := range numbers[1:] {
			if n < min {
				min = n
			}
			if n > max {
				max = n
			}
		}
		return AmountRange{Min: &min, Max: &max}
	case len(numbers) == 1:
		n := numbers[0]
		if strings.Contains(strings.ToLower(s), "up to") {
			return AmountRange{Max: &n}
		}
		return AmountRange{Min: &n, Max: &n}
	}
	return AmountRange{}
}

// GrantUrl is the public page of a grant on the site.
func GrantUrl(baseUrl, value string) string {
	return strings.TrimRight(baseUrl, "/") + "/grants/" + value
}
