package extraction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Fatal errors. Both are caller-contract violations; malformed document
// content never produces an error, only warnings on the returned Bid.
var (
	ErrNilInput         = errors.New("input line list is nil")
	ErrControlCharacter = errors.New("input line contains control characters")
)

// Parser turns the flat line stream of one bid document into a structured
// Bid. It is stateless and safe for concurrent use across documents; the
// lines of a single document are inherently sequential and must be passed
// in original order.
type Parser struct {
	vocab Vocabulary
}

// NewParser creates a Parser with the given unit-keyword vocabulary.
func NewParser(vocab Vocabulary) *Parser {
	return &Parser{vocab: vocab}
}

// Parse reconstructs the itemized bid table from the document's text lines.
// The caller-supplied lot context is carried through onto every item
// unmodified. The returned Bid is always complete and best-effort; partial
// data is retained and every non-fatal issue is recorded as a warning.
func (p *Parser) Parse(lines []string, lot LotContext) (*Bid, error) {
	if lines == nil {
		return nil, ErrNilInput
	}
	for _, line := range lines {
		if idx := strings.IndexFunc(line, isControl); idx >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrControlCharacter, line)
		}
	}

	segments, warnings := scan(lines)

	bid := &Bid{
		Items:    make([]BidItem, 0, len(segments)),
		Warnings: warnings,
	}

	for _, seg := range segments {
		// A boundary immediately followed by the next boundary (or end of
		// input) collected nothing; it yields no item and no number gap.
		if len(seg.tokens) == 0 && len(seg.numbers) == 0 {
			bid.Warnings = append(bid.Warnings, ParseWarning{
				Kind:    WarnEmptySegment,
				Message: "cpv boundary produced no content",
				RawText: strings.Join(seg.raw, "\n"),
			})
			continue
		}
		item, itemWarnings := p.buildItem(seg, len(bid.Items)+1, lot)
		bid.Items = append(bid.Items, item)
		bid.Warnings = append(bid.Warnings, itemWarnings...)
	}

	return bid, nil
}

// buildItem assembles one BidItem from a collected segment. itemNumber is
// the 1-based position the item will occupy in the output.
func (p *Parser) buildItem(seg segment, itemNumber int, lot LotContext) (BidItem, []ParseWarning) {
	var warnings []ParseWarning

	item := BidItem{
		CPVCode:        seg.cpv,
		ItemNumber:     itemNumber,
		RawText:        strings.Join(seg.raw, "\n"),
		LotNumber:      lot.Number,
		LotDescription: lot.Description,
	}

	item.Name, item.Unit = splitUnitName(seg.tokens, p.vocab)
	if item.Name == "" {
		item.Name = fallbackName(seg.cpv)
		warnings = append(warnings, ParseWarning{
			Kind:       WarnEmptyName,
			Message:    "no descriptive tokens, name derived from cpv code",
			ItemNumber: itemNumber,
		})
	}

	values := make([]decimal.Decimal, 0, len(seg.numbers))
	for _, raw := range seg.numbers {
		d, err := ParseAmount(raw)
		if err != nil {
			// The slot is absent, not zero.
			warnings = append(warnings, ParseWarning{
				Kind:       WarnMalformedNumber,
				Message:    err.Error(),
				RawText:    raw,
				ItemNumber: itemNumber,
			})
			continue
		}
		values = append(values, d)
	}

	for _, w := range assignFields(&item, values) {
		w.ItemNumber = itemNumber
		warnings = append(warnings, w)
	}

	return item, warnings
}

func fallbackName(cpv string) string {
	if cpv == "" {
		return "Item (unknown)"
	}
	return "Item " + cpv
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
