package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/receiptflow/receipt-flow/internal/extraction"
	"github.com/receiptflow/receipt-flow/internal/lookup"
)

// IDGenerator generates batch identifiers for processed receipts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp, which has enough
// resolution to be unique per upload
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service aggregates extracted receipts into a running inventory with
// per-receipt and cumulative price comparisons. It holds no inventory of its
// own: state is passed in by value on every call and a fresh slice is
// returned, so concurrent callers can never share a mutable container.
type Service struct {
	extractor   extraction.Extractor
	looker      lookup.Looker
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(extractor extraction.Extractor, looker lookup.Looker) *Service {
	return &Service{
		extractor:   extractor,
		looker:      looker,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(extractor extraction.Extractor, looker lookup.Looker, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		extractor:   extractor,
		looker:      looker,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// ProcessResult is the outcome of processing one receipt upload
type ProcessResult struct {
	// Inventory is the full updated inventory, oldest batch first
	Inventory []Item
	// Total is the display value for the receipt-total field: the
	// extraction-reported total on success, otherwise a user-facing message
	Total string
	// Summary is nil when no items were added
	Summary *Summary
}

// ProcessReceipt extracts items from one receipt image, looks up an online
// reference price for each, and merges the batch into the given inventory.
// It is non-destructive on failure: every error path returns the input state
// unchanged with a displayable message in Total.
func (s *Service) ProcessReceipt(imageData []byte, contentType string, state []Item) (result ProcessResult) {
	if len(imageData) == 0 {
		return ProcessResult{Inventory: state, Total: "Upload a receipt first"}
	}

	// The aggregator boundary converts unexpected faults into a displayable
	// error total and leaves the inventory exactly as passed in
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Unexpected failure processing receipt", "panic", r)
			result = ProcessResult{Inventory: state, Total: "Error: unexpected failure processing receipt"}
		}
	}()

	batchID := s.idGenerator.Generate()

	receipt, err := s.extractor.ExtractItems(imageData, contentType)
	if err != nil {
		slog.Error("Extraction failed", "error", err)
		return ProcessResult{Inventory: state, Total: fmt.Sprintf("Error: could not read receipt (%v)", err)}
	}

	if len(receipt.Items) == 0 {
		total := receipt.Total
		if !strings.HasPrefix(total, "Error:") {
			total = "No items found in receipt."
		}
		return ProcessResult{Inventory: state, Total: total}
	}

	slog.Info("Checking online prices", "batch", batchID, "items", len(receipt.Items))

	// Lookups run sequentially in extraction order; each item degrades on
	// its own per the decision table, never aborting the batch
	var current Aggregate
	batch := make([]Item, 0, len(receipt.Items))
	for _, ex := range receipt.Items {
		item := Item{
			Name:            ex.Name,
			PricePaid:       ex.PricePaid,
			PredictedExpiry: ex.PredictedExpiry,
			BatchID:         batchID,
		}

		paid, paidKnown := ParsePrice(ex.PricePaid)
		if paidKnown {
			current.PaidTotal += paid
		}

		res := s.looker.LookupPrice(context.Background(), ex.Name)
		item.OnlineDetails = res.Details
		item.SourceURL = res.URL

		switch {
		case res.Status == lookup.StatusFound && res.Price != nil:
			price := *res.Price
			current.OnlineTotal += price
			current.FoundCount++
			item.OnlinePrice = &price
		case paidKnown:
			// No reliable online match: assume the online price equals the
			// paid price so the comparison stays meaningful
			assumed := paid
			current.OnlineTotal += assumed
			current.AssumedCount++
			item.OnlinePrice = &assumed
			item.AssumedPrice = true
			item.OnlineDetails = fmt.Sprintf("Assumed same as receipt ($%.2f)", paid)
		default:
			// Neither a found online price nor a parsable paid price:
			// excluded from both totals and both counts
		}

		current.ItemCount++
		batch = append(batch, item)
	}

	// Cumulative totals re-derive each prior item's contribution from its
	// stored lookup outcome; prior items are never re-queried
	cumulative := current
	multiReceipt := false
	for _, prev := range state {
		if prev.BatchID == batchID {
			continue
		}
		multiReceipt = true
		paid, paidKnown := ParsePrice(prev.PricePaid)
		if paidKnown {
			cumulative.PaidTotal += paid
		}
		switch {
		case prev.OnlinePrice != nil:
			cumulative.OnlineTotal += *prev.OnlinePrice
			if prev.AssumedPrice {
				cumulative.AssumedCount++
			} else {
				cumulative.FoundCount++
			}
		case paidKnown:
			cumulative.OnlineTotal += paid
			cumulative.AssumedCount++
		}
		cumulative.ItemCount++
	}

	newState := make([]Item, 0, len(state)+len(batch))
	newState = append(newState, state...)
	newState = append(newState, batch...)

	return ProcessResult{
		Inventory: newState,
		Total:     receipt.Total,
		Summary: &Summary{
			Current:      current,
			Cumulative:   cumulative,
			Lines:        batch,
			MultiReceipt: multiReceipt,
		},
	}
}
