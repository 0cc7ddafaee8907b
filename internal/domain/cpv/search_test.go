package cpv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	return []Entry{
		{Code: "50421200", Description: "Услуги по ремонт и поддържане на рентгенови апарати"},
		{Code: "33111000", Description: "Рентгенови апарати"},
		{Code: "90910000", Description: "Услуги по почистване"},
		{Code: "45000000", Description: "Строителни и монтажни работи"},
	}
}

func newTestIndex(t *testing.T) *SearchIndex {
	t.Helper()
	si, err := NewSearchIndex("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = si.Close() })

	require.NoError(t, si.IndexEntries(testEntries()))
	return si
}

func TestSearchIndex_Search(t *testing.T) {
	si := newTestIndex(t)

	count, err := si.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)

	hits, err := si.Search("рентгенови апарати", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	codes := make([]string, len(hits))
	for i, h := range hits {
		codes[i] = h.Code
	}
	assert.Contains(t, codes, "50421200")
	assert.Contains(t, codes, "33111000")
	assert.NotContains(t, codes, "45000000")
}

func TestSearchIndex_FuzzyMatch(t *testing.T) {
	si := newTestIndex(t)

	// one character off still finds the cleaning services entry
	hits, err := si.Search("почиствани", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "90910000", hits[0].Code)
}

func TestSearchIndex_LimitApplied(t *testing.T) {
	si := newTestIndex(t)

	hits, err := si.Search("услуги", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearchIndex_Reindex(t *testing.T) {
	si := newTestIndex(t)

	// indexing the same batch again keeps IDs stable
	require.NoError(t, si.IndexEntries(testEntries()))
	count, err := si.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
}
