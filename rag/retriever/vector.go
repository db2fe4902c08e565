package retriever

import (
	"context"
	"fmt"

	"github.com/automind-ai/automind/rag"
)

// Index is the query side of a vector index, such as *store.Index.
type Index interface {
	Query(ctx context.Context, text string, k int) ([]rag.SearchResult, error)
}

// Reranker reorders search results for a query.
type Reranker interface {
	Rerank(ctx context.Context, query string, results []rag.SearchResult) ([]rag.SearchResult, error)
}

// VectorRetriever returns the k documents closest to a query.
type VectorRetriever struct {
	index          Index
	k              int
	scoreThreshold float64
	reranker       Reranker
}

var _ rag.Retriever = (*VectorRetriever)(nil)

// Option configures a VectorRetriever.
type Option func(*VectorRetriever)

// WithK sets how many documents are returned. Default 4.
func WithK(k int) Option {
	return func(r *VectorRetriever) {
		if k > 0 {
			r.k = k
		}
	}
}

// WithScoreThreshold drops results scoring below threshold.
func WithScoreThreshold(threshold float64) Option {
	return func(r *VectorRetriever) {
		r.scoreThreshold = threshold
	}
}

// WithReranker reorders results after thresholding.
func WithReranker(reranker Reranker) Option {
	return func(r *VectorRetriever) {
		r.reranker = reranker
	}
}

// New creates a retriever over index.
func New(index Index, opts ...Option) *VectorRetriever {
	r := &VectorRetriever{
		index: index,
		k:     4,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// K returns the configured number of results.
func (r *VectorRetriever) K() int {
	return r.k
}

// Retrieve retrieves documents based on a query
func (r *VectorRetriever) Retrieve(ctx context.Context, query string) ([]rag.SearchResult, error) {
	return r.RetrieveWithK(ctx, query, r.k)
}

// RetrieveWithK retrieves up to k documents
func (r *VectorRetriever) RetrieveWithK(ctx context.Context, query string, k int) ([]rag.SearchResult, error) {
	results, err := r.index.Query(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	if r.scoreThreshold > 0 {
		filtered := make([]rag.SearchResult, 0, len(results))
		for _, result := range results {
			if result.Score >= r.scoreThreshold {
				filtered = append(filtered, result)
			}
		}
		results = filtered
	}

	if r.reranker != nil && len(results) > 1 {
		results, err = r.reranker.Rerank(ctx, query, results)
		if err != nil {
			return nil, fmt.Errorf("rerank failed: %w", err)
		}
	}

	return results, nil
}
