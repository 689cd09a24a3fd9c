package extraction

import "log/slog"

// Item is a single line item extracted from a receipt image.
type Item struct {
	Name            string `json:"item"`
	PricePaid       string `json:"price_paid"`       // free-form, e.g. "$3.99"
	PredictedExpiry string `json:"predicted_expiry"` // ISO 8601 date
}

// Receipt holds everything extracted from one receipt image.
//
// A parse failure is reported in-band: Items is empty and Total carries an
// "Error:"-prefixed message that is surfaced directly to the user.
type Receipt struct {
	Items []Item `json:"items"`
	Total string `json:"total"`
}

// Extractor defines the interface for receipt item extraction
type Extractor interface {
	// ExtractItems analyzes a receipt image/PDF and extracts line items
	ExtractItems(imageData []byte, contentType string) (*Receipt, error)
	// Close closes the extractor and releases resources
	Close() error
}

// Fallback tries a primary extractor and degrades to a standby when the
// primary is unreachable. Parse failures are not errors and do not trigger
// the standby; only transport-level failures do.
type Fallback struct {
	Primary Extractor
	Standby Extractor
}

// ExtractItems delegates to the primary extractor, falling back on error
func (f *Fallback) ExtractItems(imageData []byte, contentType string) (*Receipt, error) {
	receipt, err := f.Primary.ExtractItems(imageData, contentType)
	if err != nil {
		slog.Warn("Primary extractor unavailable, using fallback", "error", err)
		return f.Standby.ExtractItems(imageData, contentType)
	}
	return receipt, nil
}

// Close closes both extractors
func (f *Fallback) Close() error {
	err := f.Primary.Close()
	if cerr := f.Standby.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
