package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/automind-ai/automind/rag"
)

// HashEmbedder produces deterministic bag-of-words vectors by hashing each
// lowercased word into one of Dimension buckets. Texts sharing words get
// similar vectors, which is enough for offline use and tests.
type HashEmbedder struct {
	Dimension int
}

var _ rag.Embedder = (*HashEmbedder)(nil)

// DefaultHashDimension is the bucket count used when none is given. It is
// large enough that distinct words in a small corpus rarely share a bucket.
const DefaultHashDimension = 4096

// NewHashEmbedder creates a HashEmbedder. Non-positive dimensions default
// to DefaultHashDimension.
func NewHashEmbedder(dimension int) *HashEmbedder {
	if dimension <= 0 {
		dimension = DefaultHashDimension
	}
	return &HashEmbedder{Dimension: dimension}
}

// EmbedDocuments embeds each text.
func (e *HashEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.embed(text)
	}
	return out, nil
}

// EmbedQuery embeds a single text.
func (e *HashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

func (e *HashEmbedder) embed(text string) []float32 {
	dim := e.Dimension
	if dim <= 0 {
		dim = DefaultHashDimension
	}
	vector := make([]float32, dim)

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vector[h.Sum32()%uint32(dim)]++
	}

	// Normalize
	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range vector {
			vector[i] /= n
		}
	}
	return vector
}
