// Package vocab manages the unit-of-measure keyword vocabulary the
// extraction engine splits names and units with. A built-in Bulgarian word
// set is merged with operator-defined keywords stored in Postgres, and a
// review toolkit suggests new keywords from already parsed documents.
package vocab

import (
	"strings"
	"sync"
)

// defaultBulgarianUnits is the built-in vocabulary for Bulgarian procurement
// documents: unit words, their common abbreviations and inflected forms as
// they appear in bid price tables.
var defaultBulgarianUnits = []string{
	// counting
	"брой", "броя", "бр", "бр.", "парче", "парчета",
	"комплект", "комплекта", "к-т", "опаковка", "опаковки", "оп", "оп.",
	"пакет", "пакета", "кутия", "кутии", "чифт", "чифта",
	// time
	"час", "часа", "работен", "работни", "ден", "дни", "дена",
	"седмица", "седмици", "месец", "месеца", "година", "години",
	"човекочас", "човекочаса", "машиносмяна",
	// mass and volume
	"килограм", "килограма", "кг", "кг.", "грам", "грама", "гр", "гр.",
	"тон", "тона", "т", "литър", "литра", "л", "л.", "мл",
	// length and area
	"метър", "метра", "м", "м.", "мм", "см", "км",
	"м2", "кв.м", "кв.м.", "м3", "куб.м", "куб.м.",
	// misc
	"линеен", "линейни", "точка", "точки", "позиция", "абонамент",
}

// Vocabulary is a unit-keyword set. Membership testing is case-insensitive;
// the set is safe for concurrent readers and may be rebuilt at runtime when
// operators add or remove custom keywords.
type Vocabulary struct {
	mu    sync.RWMutex
	words map[string]struct{}
}

// NewVocabulary creates a vocabulary from the given words.
func NewVocabulary(words []string) *Vocabulary {
	v := &Vocabulary{}
	v.Replace(words)
	return v
}

// DefaultBulgarian returns the built-in Bulgarian unit vocabulary.
func DefaultBulgarian() *Vocabulary {
	return NewVocabulary(defaultBulgarianUnits)
}

// Contains reports whether the token denotes a unit of measure. Trailing
// sentence punctuation does not defeat membership: "бр." matches both as a
// stored abbreviation and as "бр" plus a period.
func (v *Vocabulary) Contains(token string) bool {
	key := normalizeWord(token)
	if key == "" {
		return false
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if _, ok := v.words[key]; ok {
		return true
	}
	if trimmed := strings.TrimRight(key, "."); trimmed != key {
		_, ok := v.words[trimmed]
		return ok
	}
	return false
}

// Add inserts extra words, typically operator-defined keywords loaded from
// the repository.
func (v *Vocabulary) Add(words ...string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, w := range words {
		if key := normalizeWord(w); key != "" {
			v.words[key] = struct{}{}
		}
	}
}

// Replace swaps the whole word set atomically.
func (v *Vocabulary) Replace(words []string) {
	next := make(map[string]struct{}, len(words))
	for _, w := range words {
		if key := normalizeWord(w); key != "" {
			next[key] = struct{}{}
		}
	}

	v.mu.Lock()
	v.words = next
	v.mu.Unlock()
}

// Words returns the vocabulary content in normalized form, unordered.
func (v *Vocabulary) Words() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]string, 0, len(v.words))
	for w := range v.words {
		out = append(out, w)
	}
	return out
}

// Len returns the number of distinct words.
func (v *Vocabulary) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.words)
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}
