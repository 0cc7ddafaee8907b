package extraction

import "strings"

// Vocabulary answers whether a token denotes a unit of measure. The word set
// is injected configuration, not part of the algorithm, so locales can be
// swapped without touching the splitter.
type Vocabulary interface {
	Contains(token string) bool
}

// unitRun is the half-open token index range [start, end) identified as the
// unit-of-measure phrase, or the zero value when no unit was found.
type unitRun struct {
	start, end int
	found      bool
}

// findUnitRun locates the maximal trailing consecutive run of unit-keyword
// tokens ending at the LAST vocabulary match. Unit words appearing earlier
// in the list, detached from that final cluster, belong to the item name: a
// description can legitimately contain a unit-like word, but the table's
// unit column prints closest to the end of the text run.
func findUnitRun(tokens []string, vocab Vocabulary) unitRun {
	var matched []int
	for i, tok := range tokens {
		if vocab.Contains(tok) {
			matched = append(matched, i)
		}
	}
	if len(matched) == 0 {
		return unitRun{}
	}

	// Walk the match list backward while the indices stay consecutive.
	left := matched[len(matched)-1]
	for j := len(matched) - 2; j >= 0 && matched[j] == left-1; j-- {
		left = matched[j]
	}

	return unitRun{start: left, end: matched[len(matched)-1] + 1, found: true}
}

// splitUnitName partitions a segment's token list into the item name and the
// unit-of-measure phrase. Tokens after the unit run (malformed input) are
// folded back into the name rather than silently dropped.
func splitUnitName(tokens []string, vocab Vocabulary) (name string, unit *string) {
	run := findUnitRun(tokens, vocab)
	if !run.found {
		return strings.Join(tokens, " "), nil
	}

	nameTokens := make([]string, 0, len(tokens))
	nameTokens = append(nameTokens, tokens[:run.start]...)
	nameTokens = append(nameTokens, tokens[run.end:]...)

	u := strings.Join(tokens[run.start:run.end], " ")
	return strings.Join(nameTokens, " "), &u
}
