package bids

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/bid-ledger/internal/domain/extraction"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func TestItemCompleteness(t *testing.T) {
	t.Run("fully populated item", func(t *testing.T) {
		item := extraction.BidItem{
			Unit:         strPtr("час"),
			Quantity:     decPtr("1.00"),
			UnitPrice:    decPtr("2000.00"),
			TotalPrice:   decPtr("2000.00"),
			VATAmount:    decPtr("360.00"),
			TotalWithVAT: decPtr("2360.00"),
		}
		assert.InDelta(t, 1.0, ItemCompleteness(item), 1e-9)
	})

	t.Run("name only item", func(t *testing.T) {
		assert.Zero(t, ItemCompleteness(extraction.BidItem{Name: "Услуга"}))
	})

	t.Run("partial item", func(t *testing.T) {
		item := extraction.BidItem{
			Unit:     strPtr("брой"),
			Quantity: decPtr("2.00"),
		}
		assert.InDelta(t, 2.0/6.0, ItemCompleteness(item), 1e-9)
	})
}

func TestCompleteness(t *testing.T) {
	t.Run("empty bid scores zero", func(t *testing.T) {
		assert.Zero(t, Completeness(&extraction.Bid{}))
		assert.Zero(t, Completeness(nil))
	})

	t.Run("averages across items", func(t *testing.T) {
		parsed := &extraction.Bid{Items: []extraction.BidItem{
			{Unit: strPtr("час"), Quantity: decPtr("1.00"), UnitPrice: decPtr("10.00"),
				TotalPrice: decPtr("10.00"), VATAmount: decPtr("2.00"), TotalWithVAT: decPtr("12.00")},
			{Name: "Само име"},
		}}
		assert.InDelta(t, 0.5, Completeness(parsed), 1e-9)
	})
}
