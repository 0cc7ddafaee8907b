package bids

import "github.com/FACorreiaa/bid-ledger/internal/domain/extraction"

// financialFields is the number of scored slots per item: the five
// financial values plus the unit of measure.
const financialFields = 6

// ItemCompleteness is the fraction of scored fields present on one item.
// Absent fields stay absent; the engine never fills them in, so the score
// reflects the source document, not the parser.
func ItemCompleteness(item extraction.BidItem) float64 {
	present := 0
	if item.Unit != nil {
		present++
	}
	if item.Quantity != nil {
		present++
	}
	if item.UnitPrice != nil {
		present++
	}
	if item.TotalPrice != nil {
		present++
	}
	if item.VATAmount != nil {
		present++
	}
	if item.TotalWithVAT != nil {
		present++
	}
	return float64(present) / float64(financialFields)
}

// Completeness averages item completeness across the whole parse result.
// An empty bid scores zero.
func Completeness(parsed *extraction.Bid) float64 {
	if parsed == nil || len(parsed.Items) == 0 {
		return 0
	}
	sum := 0.0
	for _, item := range parsed.Items {
		sum += ItemCompleteness(item)
	}
	return sum / float64(len(parsed.Items))
}
