package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordSet is a minimal Vocabulary for splitter tests.
type wordSet map[string]struct{}

func (w wordSet) Contains(token string) bool {
	_, ok := w[strings.ToLower(token)]
	return ok
}

func testVocab(words ...string) wordSet {
	w := make(wordSet, len(words))
	for _, word := range words {
		w[strings.ToLower(word)] = struct{}{}
	}
	return w
}

func TestSplitUnitName(t *testing.T) {
	vocab := testVocab("парче", "час", "работен", "кг")

	tests := []struct {
		name     string
		tokens   []string
		wantName string
		wantUnit *string
	}{
		{
			name:     "trailing multi word unit",
			tokens:   []string{"Николет", "Работен", "час"},
			wantName: "Николет",
			wantUnit: strPtr("Работен час"),
		},
		{
			name:     "isolated earlier match folds into name",
			tokens:   []string{"парче", "Николет", "час"},
			wantName: "парче Николет",
			wantUnit: strPtr("час"),
		},
		{
			name:     "no unit keyword",
			tokens:   []string{"Николет", "Special", "Item"},
			wantName: "Николет Special Item",
			wantUnit: nil,
		},
		{
			name:     "all tokens are unit keywords",
			tokens:   []string{"Работен", "час"},
			wantName: "",
			wantUnit: strPtr("Работен час"),
		},
		{
			name:     "single unit token",
			tokens:   []string{"Консумативи", "кг"},
			wantName: "Консумативи",
			wantUnit: strPtr("кг"),
		},
		{
			name:     "tokens after unit run appended to name",
			tokens:   []string{"Ремонт", "час", "допълнение"},
			wantName: "Ремонт допълнение",
			wantUnit: strPtr("час"),
		},
		{
			name:     "empty token list",
			tokens:   nil,
			wantName: "",
			wantUnit: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, unit := splitUnitName(tt.tokens, vocab)
			assert.Equal(t, tt.wantName, name)
			if tt.wantUnit == nil {
				assert.Nil(t, unit)
			} else {
				require.NotNil(t, unit)
				assert.Equal(t, *tt.wantUnit, *unit)
			}
		})
	}
}

// Two separate unit clusters: only the final one is the unit, the earlier
// cluster stays in the name even when it is longer.
func TestFindUnitRun_LastClusterWins(t *testing.T) {
	vocab := testVocab("работен", "час", "кг")

	run := findUnitRun([]string{"Работен", "час", "Брашно", "кг"}, vocab)
	require.True(t, run.found)
	assert.Equal(t, 3, run.start)
	assert.Equal(t, 4, run.end)
}

func strPtr(s string) *string { return &s }
