// Package extraction reconstructs structured bid price tables from the flat
// line stream produced by upstream PDF text extraction. Parsing is a pure,
// single-pass transform: it performs no I/O, keeps no state between calls and
// always returns a best-effort Bid with structured warnings instead of
// failing on malformed document content.
package extraction

import (
	"github.com/shopspring/decimal"
)

// BidItem is one row of a bidder's submitted price table.
// Financial fields are nil when the document did not carry enough numeric
// values for the slot; the engine never substitutes zeros for missing data.
type BidItem struct {
	CPVCode      string           `json:"cpv_code"`
	ItemNumber   int              `json:"item_number"`
	Name         string           `json:"name"`
	Unit         *string          `json:"unit"`
	Quantity     *decimal.Decimal `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	TotalPrice   *decimal.Decimal `json:"total_price"`
	VATAmount    *decimal.Decimal `json:"vat_amount"`
	TotalWithVAT *decimal.Decimal `json:"total_with_vat"`

	// RawText preserves the original lines that produced this item, verbatim,
	// for audit and debugging.
	RawText string `json:"raw_text"`

	LotNumber      *string `json:"lot_number"`
	LotDescription *string `json:"lot_description"`
}

// Bid is the complete parse result for one document: the ordered item list
// plus every non-fatal issue encountered along the way. A Bid is immutable
// once returned; re-parsing the same input produces a structurally equal Bid.
type Bid struct {
	Items    []BidItem      `json:"items"`
	Warnings []ParseWarning `json:"warnings"`
}

// LotContext is caller-supplied lot information carried through unchanged
// onto every item of the parse. The engine never derives lots itself.
type LotContext struct {
	Number      *string
	Description *string
}

// WarningKind identifies a class of non-fatal parse issue.
type WarningKind string

const (
	// WarnNoLeadingCode marks text found before the first CPV boundary.
	WarnNoLeadingCode WarningKind = "no_leading_code"
	// WarnSkippedLine marks a line inside a segment that matched no
	// recognized classification and was dropped.
	WarnSkippedLine WarningKind = "skipped_line"
	// WarnMalformedNumber marks a numeric-looking line that failed
	// fixed-point parsing; its slot is treated as absent, not zero.
	WarnMalformedNumber WarningKind = "malformed_number"
	// WarnEmptyName marks an item whose name had to be derived from its
	// CPV code because no descriptive tokens remained.
	WarnEmptyName WarningKind = "empty_name"
	// WarnIncompleteNumericValues marks an item with fewer than five
	// numeric values; the remaining financial fields stay nil.
	WarnIncompleteNumericValues WarningKind = "incomplete_numeric_values"
	// WarnExtraNumericValues marks an item with more than five numeric
	// values; the surplus was ignored.
	WarnExtraNumericValues WarningKind = "extra_numeric_values"
	// WarnEmptySegment marks a boundary that produced no content at all
	// and was dropped without emitting an item.
	WarnEmptySegment WarningKind = "empty_segment"
)

// ParseWarning is a structured, non-fatal parse issue. RawText carries the
// offending input where one exists; ItemNumber is 0 for warnings that are
// not attributable to an emitted item.
type ParseWarning struct {
	Kind       WarningKind `json:"kind"`
	Message    string      `json:"message"`
	RawText    string      `json:"raw_text,omitempty"`
	ItemNumber int         `json:"item_number,omitempty"`
}
