package inventory

// Item is one line item held in the running inventory. Items sharing a
// BatchID were extracted from the same receipt image. An item is written once
// during the processing pass that created it and never mutated afterwards.
type Item struct {
	Name            string   `json:"item"`
	PricePaid       string   `json:"price_paid"`       // free-form, e.g. "$3.99"
	PredictedExpiry string   `json:"predicted_expiry"` // ISO 8601 date
	BatchID         string   `json:"batch_id"`
	OnlinePrice     *float64 `json:"online_price,omitempty"`
	AssumedPrice    bool     `json:"assumed_price"` // paid price substituted for a missing online match
	OnlineDetails   string   `json:"online_details,omitempty"`
	SourceURL       string   `json:"source_url,omitempty"`
}

// Aggregate holds the comparison totals for one set of items.
// Invariant: FoundCount+AssumedCount <= ItemCount; items with neither a
// parsable paid price nor a found online price count toward neither.
type Aggregate struct {
	PaidTotal    float64 `json:"paid_total"`
	OnlineTotal  float64 `json:"online_total"`
	FoundCount   int     `json:"found_count"`
	AssumedCount int     `json:"assumed_count"`
	ItemCount    int     `json:"item_count"`
}

// Summary is the price-comparison result of one processed receipt: the
// current batch's aggregate, the aggregate over everything in inventory, and
// the current batch's line results in extraction order.
type Summary struct {
	Current    Aggregate
	Cumulative Aggregate
	Lines      []Item
	// MultiReceipt reports whether inventory holds items from another batch,
	// which gates the cumulative block in the rendered report
	MultiReceipt bool
}
