package lookup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const notFoundDetails = "Not Found via Online Retailers"

var (
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	amountRe     = regexp.MustCompile(`\$?(\d+\.\d{2})`)
	proseRe      = regexp.MustCompile(`\$(\d+\.\d{2})\s+at\s+(\w+)`)
	urlRe        = regexp.MustCompile(`https?://[^\s"']+`)
)

// parseResponse recovers a Result from the model's reply. The reply should be
// one of three JSON shapes but routinely arrives wrapped in prose or code
// fences, so parsing is an ordered chain of attempts: fenced JSON block, any
// brace-delimited substring, a "$X.XX at Retailer" prose pattern, then
// literal "Not Found" / "Price Varies" sniffing. The first success wins;
// exhausting the chain yields StatusError, never a raised failure.
func parseResponse(content string) Result {
	content = strings.TrimSpace(content)
	if content == "" {
		return Result{Status: StatusError, Details: "Empty response from price service"}
	}

	if m := fencedJSONRe.FindStringSubmatch(content); m != nil {
		if res, ok := fromJSON(m[1]); ok {
			return res
		}
	}

	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start != -1 && end > start {
		if res, ok := fromJSON(content[start : end+1]); ok {
			return res
		}
	}

	if m := proseRe.FindStringSubmatch(content); m != nil {
		price, _ := strconv.ParseFloat(m[1], 64)
		res := Result{
			Status:  StatusFound,
			Price:   &price,
			Details: fmt.Sprintf("$%s at %s", m[1], m[2]),
		}
		if u := urlRe.FindString(content); u != "" {
			res.URL = u
		}
		return res
	}

	if strings.Contains(content, "Not Found") {
		return Result{Status: StatusNotFound, Details: notFoundDetails}
	}
	if strings.Contains(content, "Price Varies") {
		return Result{Status: StatusVaries, Details: "Price Varies"}
	}

	return Result{Status: StatusError, Details: "Could not parse price from: " + truncate(content, 120)}
}

// fromJSON maps a brace-delimited candidate onto a Result. gjson tolerates
// the mildly malformed JSON models tend to emit; a candidate with no price
// field is rejected so the chain can continue.
func fromJSON(candidate string) (Result, bool) {
	priceField := gjson.Get(candidate, "price")
	if !priceField.Exists() {
		return Result{}, false
	}

	priceStr := strings.TrimSpace(priceField.String())
	retailer := gjson.Get(candidate, "retailer").String()
	productURL := gjson.Get(candidate, "url").String()

	switch priceStr {
	case "Not Found":
		return Result{Status: StatusNotFound, Details: notFoundDetails}, true
	case "Price Varies":
		return Result{Status: StatusVaries, Details: "Price Varies", URL: productURL}, true
	}

	if retailer == "" {
		retailer = "Unknown"
	}
	res := Result{
		Status:  StatusFound,
		Details: fmt.Sprintf("%s at %s", priceStr, retailer),
		URL:     productURL,
	}
	if m := amountRe.FindStringSubmatch(priceStr); m != nil {
		if price, err := strconv.ParseFloat(m[1], 64); err == nil {
			res.Price = &price
		}
	}
	return res, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
