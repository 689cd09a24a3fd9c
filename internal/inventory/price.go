package inventory

import (
	"regexp"
	"strconv"
	"strings"
)

var priceRe = regexp.MustCompile(`^\d+(\.\d+)?$`)

// ParsePrice extracts a numeric dollar amount from a free-form price string
// like "$3.99", "4.50" or "$1,234.56". It reports false for anything
// non-numeric; callers treat that as "unknown price", never as a failure.
func ParsePrice(s string) (float64, bool) {
	cleaned := strings.ReplaceAll(s, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if !priceRe.MatchString(cleaned) {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
