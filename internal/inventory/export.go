package inventory

import (
	"bytes"
	"encoding/csv"
)

// csvHeader fixes the export column order to match the inventory table
var csvHeader = []string{"Item", "Price Paid", "Predicted Expiry Date"}

// ExportCSV renders the full inventory as a CSV file. It returns nil when
// the inventory is empty, which callers treat as "no export available".
func ExportCSV(items []Item) []byte {
	if len(items) == 0 {
		return nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(csvHeader)
	for _, item := range items {
		w.Write([]string{item.Name, item.PricePaid, item.PredictedExpiry})
	}
	w.Flush()
	return buf.Bytes()
}
