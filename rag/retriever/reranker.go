package retriever

import (
	"context"
	"sort"
	"strings"

	"github.com/automind-ai/automind/rag"
)

// KeywordReranker blends vector scores with query term frequency.
type KeywordReranker struct {
	// Weight of the keyword score, between 0 and 1. Default 0.3.
	Weight float64
}

// NewKeywordReranker creates a KeywordReranker with the default weight.
func NewKeywordReranker() *KeywordReranker {
	return &KeywordReranker{Weight: 0.3}
}

// Rerank reranks results based on query term occurrences
func (r *KeywordReranker) Rerank(ctx context.Context, query string, results []rag.SearchResult) ([]rag.SearchResult, error) {
	queryTerms := strings.Fields(strings.ToLower(query))

	out := make([]rag.SearchResult, len(results))
	for i, result := range results {
		content := strings.ToLower(result.Document.Content)

		var score float64
		for _, term := range queryTerms {
			score += float64(strings.Count(content, term))
		}
		// Occurrences per thousand characters.
		if len(content) > 0 {
			score = score / float64(len(content)) * 1000
		}

		out[i] = rag.SearchResult{
			Document: result.Document,
			Score:    (1-r.Weight)*result.Score + r.Weight*score,
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
