package extraction

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// fieldSlots maps numeric-value position to its semantic field. Position in
// this table IS the assignment policy: values are consumed left to right,
// missing trailing values leave their fields nil.
var fieldSlots = []struct {
	name   string
	assign func(*BidItem, decimal.Decimal)
}{
	{"quantity", func(it *BidItem, d decimal.Decimal) { it.Quantity = &d }},
	{"unit_price", func(it *BidItem, d decimal.Decimal) { it.UnitPrice = &d }},
	{"total_price", func(it *BidItem, d decimal.Decimal) { it.TotalPrice = &d }},
	{"vat_amount", func(it *BidItem, d decimal.Decimal) { it.VATAmount = &d }},
	{"total_with_vat", func(it *BidItem, d decimal.Decimal) { it.TotalWithVAT = &d }},
}

// assignFields maps the segment's parsed numeric sequence onto the financial
// fields by position. Fewer than len(fieldSlots) values is not an error: the
// document simply did not carry them, and the missing fields stay nil so the
// downstream completeness scorer sees honest absences.
func assignFields(item *BidItem, values []decimal.Decimal) []ParseWarning {
	n := len(values)
	if n > len(fieldSlots) {
		n = len(fieldSlots)
	}
	for i := 0; i < n; i++ {
		fieldSlots[i].assign(item, values[i])
	}

	switch {
	case len(values) > len(fieldSlots):
		return []ParseWarning{{
			Kind:    WarnExtraNumericValues,
			Message: fmt.Sprintf("%d numeric value(s) beyond %s ignored", len(values)-len(fieldSlots), fieldSlots[len(fieldSlots)-1].name),
		}}
	case len(values) > 0 && len(values) < len(fieldSlots):
		return []ParseWarning{{
			Kind:    WarnIncompleteNumericValues,
			Message: fmt.Sprintf("only %d of %d numeric value(s) present", len(values), len(fieldSlots)),
		}}
	}
	return nil
}
