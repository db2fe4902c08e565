package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/automind-ai/automind/rag"
)

// ErrEmptyQuery is returned when querying with blank text.
var ErrEmptyQuery = errors.New("empty query")

// batchSize bounds how many texts are sent to the embedder at once.
const batchSize = 64

// Index is an in-memory vector index ranked by cosine similarity.
type Index struct {
	embedder rag.Embedder

	mu        sync.RWMutex
	documents []rag.Document
	vectors   [][]float32
}

// New creates an empty index that embeds through embedder.
func New(embedder rag.Embedder) *Index {
	return &Index{embedder: embedder}
}

// Build embeds docs and returns an index over them.
func Build(ctx context.Context, docs []rag.Document, embedder rag.Embedder) (*Index, error) {
	ix := New(embedder)
	if err := ix.Add(ctx, docs); err != nil {
		return nil, err
	}
	return ix, nil
}

// Add embeds and indexes documents.
func (ix *Index) Add(ctx context.Context, docs []rag.Document) error {
	if ix.embedder == nil {
		return fmt.Errorf("no embedder configured")
	}

	for start := 0; start < len(docs); start += batchSize {
		end := min(start+batchSize, len(docs))
		batch := docs[start:end]

		texts := make([]string, len(batch))
		for i, doc := range batch {
			texts[i] = doc.Content
		}

		vectors, err := ix.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed documents: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(batch))
		}
		if err := ix.AddWithEmbeddings(batch, vectors); err != nil {
			return err
		}
	}
	return nil
}

// AddWithEmbeddings indexes documents with precomputed vectors. All vectors
// in an index must share one dimension.
func (ix *Index) AddWithEmbeddings(docs []rag.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("documents and embeddings must have same length")
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	dim := 0
	if len(ix.vectors) > 0 {
		dim = len(ix.vectors[0])
	}
	for i, v := range vectors {
		if dim == 0 {
			dim = len(v)
		}
		if len(v) != dim {
			return fmt.Errorf("document %s: embedding dimension %d, index dimension %d", docs[i].ID, len(v), dim)
		}
	}

	ix.documents = append(ix.documents, docs...)
	ix.vectors = append(ix.vectors, vectors...)
	return nil
}

// Query embeds text and returns the k most similar documents, best first.
func (ix *Index) Query(ctx context.Context, text string, k int) ([]rag.SearchResult, error) {
	if text == "" {
		return nil, ErrEmptyQuery
	}
	if ix.embedder == nil {
		return nil, fmt.Errorf("no embedder configured")
	}
	vector, err := ix.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return ix.Search(vector, k)
}

// Search returns the k documents most similar to vector, best first. Ties
// keep insertion order.
func (ix *Index) Search(vector []float32, k int) ([]rag.SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	results := make([]rag.SearchResult, len(ix.documents))
	for i, doc := range ix.documents {
		results[i] = rag.SearchResult{
			Document: doc,
			Score:    cosineSimilarity(vector, ix.vectors[i]),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.documents)
}

// Dimension returns the vector dimension, or 0 for an empty index.
func (ix *Index) Dimension() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if len(ix.vectors) == 0 {
		return 0
	}
	return len(ix.vectors[0])
}

// cosineSimilarity calculates cosine similarity between two float32 vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct float64
	var normA float64
	var normB float64

	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
