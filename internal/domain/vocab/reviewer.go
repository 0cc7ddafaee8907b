package vocab

import (
	"sort"
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// EmbeddedMatch is a vocabulary word found inside an extracted item name.
// Units folded into names are the main symptom of the trailing-run split
// policy misfiring, so the review dashboard surfaces them for inspection.
type EmbeddedMatch struct {
	Word string `json:"word"`
	Name string `json:"name"`
}

// Suggestion is a token from parsed item names that is close, but not
// identical, to an existing vocabulary word. Reviewers promote suggestions
// into custom keywords to grow coverage from real documents.
type Suggestion struct {
	Token    string `json:"token"`
	Nearest  string `json:"nearest"`
	Distance int    `json:"distance"`
	Count    int    `json:"count"`
}

// Reviewer scans parsed item names against the active vocabulary. The
// Aho-Corasick matcher finds every vocabulary word embedded in a name in a
// single pass regardless of vocabulary size.
type Reviewer struct {
	mu      sync.RWMutex
	matcher *ahocorasick.Matcher
	words   []string
}

// NewReviewer builds a reviewer for the vocabulary's current word set.
// Rebuild after the vocabulary changes.
func NewReviewer(v *Vocabulary) *Reviewer {
	r := &Reviewer{}
	r.Build(v)
	return r
}

// Build reconstructs the matcher from the vocabulary's current content.
func (r *Reviewer) Build(v *Vocabulary) {
	words := v.Words()
	sort.Strings(words)

	patterns := make([][]byte, len(words))
	for i, w := range words {
		patterns[i] = []byte(w)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.words = words
	if len(patterns) > 0 {
		r.matcher = ahocorasick.NewMatcher(patterns)
	} else {
		r.matcher = nil
	}
}

// EmbeddedUnits returns the vocabulary words that occur inside the given
// item name. Matching is case-insensitive and does not require word
// boundaries; callers treat hits as review hints, never as parse input.
func (r *Reviewer) EmbeddedUnits(name string) []EmbeddedMatch {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.matcher == nil || name == "" {
		return nil
	}

	hits := r.matcher.Match([]byte(strings.ToLower(name)))
	if len(hits) == 0 {
		return nil
	}

	out := make([]EmbeddedMatch, 0, len(hits))
	for _, idx := range hits {
		if idx >= 0 && idx < len(r.words) {
			out = append(out, EmbeddedMatch{Word: r.words[idx], Name: name})
		}
	}
	return out
}

// SuggestFromNames ranks the trailing tokens of parsed item names against
// the vocabulary by Levenshtein distance. Tokens within maxDistance of an
// existing word but not already members are likely unrecognized inflections.
func (r *Reviewer) SuggestFromNames(names []string, maxDistance int) []Suggestion {
	r.mu.RLock()
	words := r.words
	r.mu.RUnlock()

	if len(words) == 0 {
		return nil
	}

	known := make(map[string]struct{}, len(words))
	for _, w := range words {
		known[w] = struct{}{}
	}

	type candidate struct {
		nearest  string
		distance int
		count    int
	}
	candidates := make(map[string]*candidate)

	for _, name := range names {
		tokens := strings.Fields(name)
		if len(tokens) == 0 {
			continue
		}
		// Only the last token of a name sits where a unit column would
		// print; earlier tokens are genuine description words.
		tok := normalizeWord(tokens[len(tokens)-1])
		if tok == "" {
			continue
		}
		if _, ok := known[tok]; ok {
			continue
		}

		if c, seen := candidates[tok]; seen {
			c.count++
			continue
		}

		nearest, distance := "", maxDistance+1
		for _, w := range words {
			if d := fuzzy.LevenshteinDistance(tok, w); d < distance {
				nearest, distance = w, d
			}
		}
		if nearest == "" {
			continue
		}
		candidates[tok] = &candidate{nearest: nearest, distance: distance, count: 1}
	}

	out := make([]Suggestion, 0, len(candidates))
	for tok, c := range candidates {
		out = append(out, Suggestion{Token: tok, Nearest: c.nearest, Distance: c.distance, Count: c.count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Token < out[j].Token
	})
	return out
}
