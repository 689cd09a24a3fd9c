package lookup

import "context"

// Status is the outcome of an online price lookup
type Status string

const (
	// StatusFound means a concrete retail price was located
	StatusFound Status = "found"
	// StatusNotFound means no matching product could be located
	StatusNotFound Status = "not_found"
	// StatusVaries means the product exists at multiple prices
	StatusVaries Status = "varies"
	// StatusError means the lookup could not complete
	StatusError Status = "error"
)

// Result is the outcome of one online price lookup.
//
// Price is set only for StatusFound, and even then may be nil when the
// retailer returned a price string no numeric value could be recovered from.
type Result struct {
	Status  Status   `json:"status"`
	Price   *float64 `json:"price,omitempty"`
	Details string   `json:"details"`
	URL     string   `json:"url,omitempty"`
}

// Looker defines the interface for online price lookups. Implementations
// never return a Go error: every failure mode folds into a Result with
// StatusError so callers degrade per-item instead of aborting a batch.
type Looker interface {
	LookupPrice(ctx context.Context, itemName string) Result
}

// Disabled is the Looker used when no API key is configured
type Disabled struct{}

// LookupPrice reports the lookup service as unconfigured
func (Disabled) LookupPrice(ctx context.Context, itemName string) Result {
	return Result{Status: StatusError, Details: "Price lookup not configured"}
}
