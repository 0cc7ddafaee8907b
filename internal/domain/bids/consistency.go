package bids

import (
	"fmt"

	"github.com/FACorreiaa/bid-ledger/internal/domain/extraction"
	"github.com/FACorreiaa/bid-ledger/pkg/money"
)

// arithmeticTolerance is one stotinka. Scanned tables routinely lose that
// much to per-cell rounding.
const arithmeticTolerance = 1

// InconsistencyKind labels a failed arithmetic cross-check.
type InconsistencyKind string

const (
	// InconsistentTotal means quantity times unit price disagrees with
	// the stated total.
	InconsistentTotal InconsistencyKind = "total_mismatch"
	// InconsistentVAT means the stated VAT is not the standard rate of
	// the total.
	InconsistentVAT InconsistencyKind = "vat_mismatch"
	// InconsistentGross means total plus VAT disagrees with the stated
	// total-with-VAT.
	InconsistentGross InconsistencyKind = "gross_mismatch"
)

// Inconsistency is one failed cross-check on one item.
type Inconsistency struct {
	ItemNumber int               `json:"item_number"`
	Kind       InconsistencyKind `json:"kind"`
	Detail     string            `json:"detail"`
}

// CheckArithmetic cross-checks the monetary columns of every item that has
// them. Extraction never fails on bad arithmetic; these results feed the
// review dashboard so a human can spot OCR damage.
func CheckArithmetic(items []extraction.BidItem) []Inconsistency {
	var out []Inconsistency

	for _, item := range items {
		if item.Quantity != nil && item.UnitPrice != nil && item.TotalPrice != nil {
			unit := money.NewFromDecimal(*item.UnitPrice, money.BGN)
			computed := unit.MultiplyDecimal(*item.Quantity)
			stated := money.NewFromDecimal(*item.TotalPrice, money.BGN)
			if !computed.WithinTolerance(stated, arithmeticTolerance) {
				out = append(out, Inconsistency{
					ItemNumber: item.ItemNumber,
					Kind:       InconsistentTotal,
					Detail: fmt.Sprintf("%s x %s = %s, document says %s",
						item.Quantity, item.UnitPrice, computed.Display(), stated.Display()),
				})
			}
		}

		if item.TotalPrice != nil && item.VATAmount != nil {
			total := money.NewFromDecimal(*item.TotalPrice, money.BGN)
			computedVAT := total.VAT(money.StandardVATRate)
			statedVAT := money.NewFromDecimal(*item.VATAmount, money.BGN)
			if !computedVAT.WithinTolerance(statedVAT, arithmeticTolerance) {
				out = append(out, Inconsistency{
					ItemNumber: item.ItemNumber,
					Kind:       InconsistentVAT,
					Detail: fmt.Sprintf("20%% of %s = %s, document says %s",
						total.Display(), computedVAT.Display(), statedVAT.Display()),
				})
			}
		}

		if item.TotalPrice != nil && item.VATAmount != nil && item.TotalWithVAT != nil {
			total := money.NewFromDecimal(*item.TotalPrice, money.BGN)
			vat := money.NewFromDecimal(*item.VATAmount, money.BGN)
			gross, err := total.Add(vat)
			if err != nil {
				continue
			}
			stated := money.NewFromDecimal(*item.TotalWithVAT, money.BGN)
			if !gross.WithinTolerance(stated, arithmeticTolerance) {
				out = append(out, Inconsistency{
					ItemNumber: item.ItemNumber,
					Kind:       InconsistentGross,
					Detail: fmt.Sprintf("%s + %s = %s, document says %s",
						total.Display(), vat.Display(), gross.Display(), stated.Display()),
				})
			}
		}
	}
	return out
}
