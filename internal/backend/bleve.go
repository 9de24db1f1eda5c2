package backend

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/certogo-tech/meilisearch-thai-sub004/internal/models"
)

// BleveBackend implements Backend over an embedded Bleve index. It exists for
// local development and integration tests, where running a full search engine
// is not worth the setup.
type BleveBackend struct {
	index bleve.Index
}

func bleveMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so exact spellings
	// match; stemming mangles transliterated Thai terms.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("id", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("language", keywordFieldMapping)
	im.AddDocumentMapping("document", docMapping)
	im.DefaultType = "document"
	im.DefaultMapping = docMapping
	return im
}

// NewBleveBackend creates or opens a Bleve index at path.
func NewBleveBackend(path string) (*BleveBackend, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open bleve index: %w", openErr)
		}
		return &BleveBackend{index: index}, nil
	}
	index, err := bleve.New(path, bleveMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}
	return &BleveBackend{index: index}, nil
}

// NewMemBleveBackend creates an in-memory Bleve index, used in tests.
func NewMemBleveBackend() (*BleveBackend, error) {
	index, err := bleve.NewMemOnly(bleveMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory bleve index: %w", err)
	}
	return &BleveBackend{index: index}, nil
}

// Index indexes a document by id.
func (b *BleveBackend) Index(id string, doc map[string]interface{}) error {
	return b.index.Index(id, doc)
}

// Close releases the underlying index.
func (b *BleveBackend) Close() error {
	return b.index.Close()
}

// Search runs a match query and returns up to limit results. The index name
// is ignored: an embedded backend holds exactly one index.
func (b *BleveBackend) Search(ctx context.Context, index, query string, limit int) (*Response, error) {
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"*"}
	req.Highlight = bleve.NewHighlight()

	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	out := &Response{
		TotalHits:        int64(results.Total),
		ProcessingTimeMs: results.Took.Milliseconds(),
		Metadata:         map[string]interface{}{"engine": "bleve"},
	}
	for _, hit := range results.Hits {
		h := &models.Hit{
			ID:       hit.ID,
			Score:    hit.Score,
			Document: make(map[string]interface{}, len(hit.Fields)),
		}
		for field, value := range hit.Fields {
			h.Document[field] = value
		}
		if _, ok := h.Document["id"]; !ok {
			h.Document["id"] = hit.ID
		}
		if len(hit.Fragments) > 0 {
			h.Highlight = make(map[string]string, len(hit.Fragments))
			for field, frags := range hit.Fragments {
				if len(frags) > 0 {
					h.Highlight[field] = frags[0]
				}
			}
		}
		out.Hits = append(out.Hits, h)
	}
	return out, nil
}
