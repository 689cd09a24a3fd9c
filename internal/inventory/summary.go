package inventory

import (
	"fmt"
	"html"
	"math"
	"strings"
)

// diffLabel classifies a paid-minus-online difference with a strict sign
// comparison; zero is an exact tie.
func diffLabel(diff float64) string {
	switch {
	case diff > 0:
		return "cheaper online"
	case diff < 0:
		return "cheaper in store"
	default:
		return "same price"
	}
}

func diffColor(diff float64) string {
	switch {
	case diff > 0:
		return "green"
	case diff < 0:
		return "red"
	default:
		return "black"
	}
}

// FormatSummary renders a Summary as an HTML comparison report: the current
// receipt's totals and difference, a cumulative block when inventory spans
// more than one receipt, and the current batch's per-item listing.
func FormatSummary(s *Summary) string {
	var b strings.Builder

	b.WriteString(`<div class="summary">`)
	writeAggregateBlock(&b, "Latest Receipt", "Receipt Total", "Difference", s.Current)

	if s.MultiReceipt {
		b.WriteString(`<div class="summary-cumulative">`)
		writeAggregateBlock(&b, "All Receipts (Cumulative)", "Total Paid", "Total Savings", s.Cumulative)
		b.WriteString(`</div>`)
	}

	if len(s.Lines) > 0 {
		fmt.Fprintf(&b, `<div class="summary-items"><div class="summary-heading">Current Receipt Items (%d)</div>`, len(s.Lines))
		for _, line := range s.Lines {
			writeItemLine(&b, line)
		}
		b.WriteString(`</div>`)
	}

	b.WriteString(`</div>`)
	return b.String()
}

func writeAggregateBlock(b *strings.Builder, heading, paidLabel, diffLabelText string, agg Aggregate) {
	fmt.Fprintf(b, `<div class="summary-block"><div class="summary-heading">%s</div>`, heading)
	fmt.Fprintf(b, `<div class="summary-row"><span><b>%s:</b></span><span>$%.2f</span></div>`, paidLabel, agg.PaidTotal)

	compared := agg.FoundCount + agg.AssumedCount
	if compared > 0 {
		note := ""
		if agg.AssumedCount > 0 {
			note = fmt.Sprintf(` <span class="summary-note">(includes %d items assumed same price)</span>`, agg.AssumedCount)
		}
		fmt.Fprintf(b, `<div class="summary-row"><span><b>Online Total:</b> <span class="summary-note">(%d/%d items)</span>%s</span><span>$%.2f</span></div>`,
			compared, agg.ItemCount, note, agg.OnlineTotal)

		diff := agg.PaidTotal - agg.OnlineTotal
		fmt.Fprintf(b, `<div class="summary-row summary-diff"><span><b>%s:</b></span><span style="color: %s">$%.2f %s</span></div>`,
			diffLabelText, diffColor(diff), math.Abs(diff), diffLabel(diff))
	} else {
		b.WriteString(`<div class="summary-row"><span><b>Online Total:</b></span><span>N/A (No items found)</span></div>`)
	}

	b.WriteString(`</div>`)
}

func writeItemLine(b *strings.Builder, line Item) {
	name := html.EscapeString(line.Name)
	cell := name
	if line.SourceURL != "" {
		cell = fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener">%s</a>`, html.EscapeString(line.SourceURL), name)
	}
	fmt.Fprintf(b, `<div class="summary-item"><span>%s</span><span>%s</span><span>%s</span></div>`,
		cell, html.EscapeString(line.PricePaid), html.EscapeString(line.OnlineDetails))
}
