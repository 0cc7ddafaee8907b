package cpv

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
)

// searchDoc is the indexed shape of a dictionary entry.
type searchDoc struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// SearchHit is one search result with its relevance score.
type SearchHit struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// SearchIndex is a Bleve full-text index over CPV descriptions, so
// reviewers can find the right classification code from free text.
type SearchIndex struct {
	index   bleve.Index
	indexMu sync.RWMutex
	path    string // empty for in-memory
}

// NewSearchIndex creates a search index. An empty path builds an in-memory
// index; otherwise the index is persisted and reopened across restarts.
func NewSearchIndex(path string) (*SearchIndex, error) {
	si := &SearchIndex{path: path}

	var index bleve.Index
	var err error

	indexMapping := buildIndexMapping()

	if path == "" {
		index, err = bleve.NewMemOnly(indexMapping)
	} else if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if mkdirErr := os.MkdirAll(filepath.Dir(path), 0o755); mkdirErr != nil {
			return nil, fmt.Errorf("failed to create index directory: %w", mkdirErr)
		}
		index, err = bleve.New(path, indexMapping)
	} else {
		index, err = bleve.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create/open cpv index: %w", err)
	}

	si.index = index
	return si, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = simple.Name

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = keyword.Name

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("code", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("description", textFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = simple.Name
	return indexMapping
}

// IndexEntries (re)indexes dictionary entries in one batch.
func (si *SearchIndex) IndexEntries(entries []Entry) error {
	si.indexMu.Lock()
	defer si.indexMu.Unlock()

	batch := si.index.NewBatch()
	for _, e := range entries {
		doc := searchDoc{Code: e.Code, Description: e.Description}
		if err := batch.Index(e.Code, doc); err != nil {
			return fmt.Errorf("failed to index cpv %s: %w", e.Code, err)
		}
	}
	if err := si.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to execute cpv index batch: %w", err)
	}
	return nil
}

// Search runs a fuzzy full-text query over descriptions.
func (si *SearchIndex) Search(query string, limit int) ([]SearchHit, error) {
	si.indexMu.RLock()
	defer si.indexMu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetFuzziness(1)

	searchRequest := bleve.NewSearchRequest(matchQuery)
	searchRequest.Size = limit
	searchRequest.Fields = []string{"code", "description"}

	searchResult, err := si.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("cpv search failed: %w", err)
	}

	hits := make([]SearchHit, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		h := SearchHit{Code: hit.ID, Score: hit.Score}
		if desc, ok := hit.Fields["description"].(string); ok {
			h.Description = desc
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// DocCount returns the number of indexed entries.
func (si *SearchIndex) DocCount() (uint64, error) {
	si.indexMu.RLock()
	defer si.indexMu.RUnlock()
	return si.index.DocCount()
}

// Close releases the underlying index.
func (si *SearchIndex) Close() error {
	si.indexMu.Lock()
	defer si.indexMu.Unlock()
	return si.index.Close()
}
