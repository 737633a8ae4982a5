package retrieval

import (
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/vectorstores/pinecone"
)

// PineconeConfig locates the pre-built index.
type PineconeConfig struct {
	APIKey    string
	Host      string
	Namespace string
}

// NewPineconeSearcher connects to an existing Pinecone index. The index is
// never written to from here; it is a read-only knowledge base.
func NewPineconeSearcher(cfg PineconeConfig, embedder embeddings.Embedder) (Searcher, error) {
	store, err := pinecone.New(
		pinecone.WithAPIKey(cfg.APIKey),
		pinecone.WithHost(cfg.Host),
		pinecone.WithNameSpace(cfg.Namespace),
		pinecone.WithEmbedder(embedder),
	)
	if err != nil {
		return nil, err
	}
	return store, nil
}
