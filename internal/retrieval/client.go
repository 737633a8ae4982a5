// Package retrieval runs relevance-filtered similarity searches against a
// pre-built vector index.
package retrieval

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"

	"github.com/h0ng79/Botcare/internal/models"
)

// Search parameters matching the index this system was built against.
const (
	DefaultK              = 5
	DefaultScoreThreshold = 0.4
	defaultSourceKey      = "Title"
)

// Searcher is the slice of a vector store the client needs.
type Searcher interface {
	SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error)
}

// Client fetches the top k candidates and keeps those whose score strictly
// exceeds the threshold. The index only supports "return top k, then
// inspect scores", so the threshold is always applied here, after the
// fetch, never pushed down.
type Client struct {
	searcher  Searcher
	k         int
	threshold float32
	sourceKey string
}

func NewClient(searcher Searcher, k int, threshold float32, sourceKey string) *Client {
	if k <= 0 {
		k = DefaultK
	}
	if sourceKey == "" {
		sourceKey = defaultSourceKey
	}
	return &Client{searcher: searcher, k: k, threshold: threshold, sourceKey: sourceKey}
}

// Retrieve returns the passing candidates in ranking order. Duplicate
// sources are kept; provenance dedup is the orchestrator's job.
func (c *Client) Retrieve(ctx context.Context, query string) ([]models.RetrievedPassage, error) {
	docs, err := c.searcher.SimilaritySearch(ctx, query, c.k)
	if err != nil {
		return nil, &RetrievalError{Query: query, Err: err}
	}
	passages := make([]models.RetrievedPassage, 0, len(docs))
	for _, doc := range docs {
		if doc.Score <= c.threshold {
			continue
		}
		passages = append(passages, models.RetrievedPassage{
			Text:     doc.PageContent,
			SourceID: c.sourceID(doc),
			Score:    doc.Score,
		})
	}
	return passages, nil
}

func (c *Client) sourceID(doc schema.Document) string {
	v, ok := doc.Metadata[c.sourceKey]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
