package extraction

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const defaultShelfLifeDays = 7

// parseReceiptJSON parses the model's JSON response into a Receipt.
//
// Line items arrive with a relative "days_until_expiry" integer; it is
// converted to an absolute ISO date relative to now. Items missing any of
// the three required keys (item, days_until_expiry, price_paid) are dropped.
func parseReceiptJSON(text string, now time.Time) (*Receipt, error) {
	text = strings.TrimSpace(text)

	// Remove markdown code blocks if present
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON object boundaries - look for first { and last }
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}

	text = text[startIdx : endIdx+1]

	var raw struct {
		Items []map[string]json.RawMessage `json:"items"`
		Total *string                      `json:"total"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	receipt := &Receipt{Total: "N/A"}
	if raw.Total != nil {
		receipt.Total = strings.TrimSpace(*raw.Total)
	}

	for i, entry := range raw.Items {
		nameRaw, hasName := entry["item"]
		daysRaw, hasDays := entry["days_until_expiry"]
		priceRaw, hasPrice := entry["price_paid"]
		if !hasName || !hasDays || !hasPrice {
			slog.Warn("Dropping incomplete line item", "index", i)
			continue
		}

		var name string
		if err := json.Unmarshal(nameRaw, &name); err != nil || strings.TrimSpace(name) == "" {
			slog.Warn("Dropping line item with unusable name", "index", i)
			continue
		}
		name = strings.TrimSpace(name)

		var price string
		if err := json.Unmarshal(priceRaw, &price); err != nil {
			// Models occasionally emit the price as a bare number
			var n float64
			if nerr := json.Unmarshal(priceRaw, &n); nerr != nil {
				slog.Warn("Dropping line item with unusable price", "item", name)
				continue
			}
			price = fmt.Sprintf("$%.2f", n)
		}

		receipt.Items = append(receipt.Items, Item{
			Name:            name,
			PricePaid:       strings.TrimSpace(price),
			PredictedExpiry: expiryDate(daysRaw, name, now),
		})
	}

	return receipt, nil
}

// expiryDate converts a days_until_expiry value into an absolute ISO date.
// A non-integer value degrades that one field to the default shelf life.
func expiryDate(daysRaw json.RawMessage, name string, now time.Time) string {
	days := defaultShelfLifeDays
	var d int
	// json.Unmarshal leaves the target untouched for a JSON null, so null
	// must be rejected explicitly to hit the default
	if strings.TrimSpace(string(daysRaw)) != "null" && json.Unmarshal(daysRaw, &d) == nil {
		days = d
	} else {
		slog.Warn("Invalid days_until_expiry value, using default", "item", name, "value", string(daysRaw))
	}
	return now.AddDate(0, 0, days).Format("2006-01-02")
}
