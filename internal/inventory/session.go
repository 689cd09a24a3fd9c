package inventory

import "sync"

// Row is one rendered inventory table row, in the fixed column order
// Item, Price Paid, Predicted Expiry Date
type Row struct {
	Item            string `json:"item"`
	PricePaid       string `json:"price_paid"`
	PredictedExpiry string `json:"predicted_expiry"`
}

// View is what the UI shell receives after any session operation
type View struct {
	Rows            []Row  `json:"rows"`
	Total           string `json:"total"`
	SummaryHTML     string `json:"summary_html"`
	ExportAvailable bool   `json:"export_available"`
}

// Session owns the single logical session's inventory. The mutex serializes
// operations so only one aggregator invocation is ever in flight; the
// inventory slice is copied on the way into the Service and replaced with the
// returned value, never shared.
type Session struct {
	mu      sync.Mutex
	service *Service
	items   []Item
}

// NewSession creates an empty session backed by the given Service
func NewSession(service *Service) *Session {
	return &Session{service: service}
}

// ProcessReceipt runs one receipt through the aggregator and replaces the
// session inventory with the returned state
func (s *Session) ProcessReceipt(imageData []byte, contentType string) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := make([]Item, len(s.items))
	copy(state, s.items)

	result := s.service.ProcessReceipt(imageData, contentType, state)
	s.items = result.Inventory

	view := View{
		Rows:            rowsFor(s.items),
		Total:           result.Total,
		ExportAvailable: len(s.items) > 0,
	}
	if result.Summary != nil {
		view.SummaryHTML = FormatSummary(result.Summary)
	}
	return view
}

// ClearInventory resets the session to empty, unconditionally
func (s *Session) ClearInventory() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return View{Rows: []Row{}, Total: "Cleared"}
}

// PrepareForNext keeps the inventory and its table but clears the total,
// comparison and export so the UI is ready for another capture. The
// aggregator is not invoked.
func (s *Session) PrepareForNext() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{Rows: rowsFor(s.items)}
}

// Rows returns the current inventory table rows
func (s *Session) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	return rowsFor(s.items)
}

// Export returns the current inventory as CSV, or nil when empty
func (s *Session) Export() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ExportCSV(s.items)
}

func rowsFor(items []Item) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, Row{
			Item:            item.Name,
			PricePaid:       item.PricePaid,
			PredictedExpiry: item.PredictedExpiry,
		})
	}
	return rows
}
