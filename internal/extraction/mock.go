package extraction

import (
	"fmt"
	"math/rand"
	"time"
)

// mockCatalog is a fixed set of grocery staples with plausible price and
// shelf-life ranges, so the downstream pipeline is exercised identically
// whether the real model is available or not.
var mockCatalog = []struct {
	name     string
	minPrice float64
	maxPrice float64
	minDays  int
	maxDays  int
}{
	{"Organic Milk", 3.50, 5.99, 7, 14},
	{"Artisan Bread", 3.99, 6.99, 2, 5},
	{"Avocado", 1.25, 2.50, 2, 4},
	{"Free-Range Eggs", 3.99, 6.99, 14, 28},
	{"Fresh Spinach", 2.50, 4.99, 3, 7},
}

// Mock implements the Extractor interface with synthesized data. It is the
// fallback path when no Gemini API key is configured or the service is
// unreachable.
type Mock struct {
	rng *rand.Rand
	now func() time.Time
}

// NewMock creates a Mock seeded from the current time
func NewMock() *Mock {
	return NewMockWithSeed(time.Now().UnixNano())
}

// NewMockWithSeed creates a deterministic Mock for testing
func NewMockWithSeed(seed int64) *Mock {
	return &Mock{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// ExtractItems synthesizes a small receipt from the mock catalog
func (m *Mock) ExtractItems(imageData []byte, contentType string) (*Receipt, error) {
	receipt := &Receipt{
		Total: fmt.Sprintf("$%.2f", 20+m.rng.Float64()*55),
	}

	for _, entry := range mockCatalog {
		price := entry.minPrice + m.rng.Float64()*(entry.maxPrice-entry.minPrice)
		days := entry.minDays + m.rng.Intn(entry.maxDays-entry.minDays+1)
		receipt.Items = append(receipt.Items, Item{
			Name:            entry.name,
			PricePaid:       fmt.Sprintf("$%.2f", price),
			PredictedExpiry: m.now().AddDate(0, 0, days).Format("2006-01-02"),
		})
	}

	return receipt, nil
}

// Close is a no-op for the mock extractor
func (m *Mock) Close() error {
	return nil
}
