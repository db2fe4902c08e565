package rag

import (
	"context"
	"fmt"
	"maps"
	"strings"
)

// Document is a unit of text with its metadata. Chunks are Documents too.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// Source returns the "source" metadata entry, usually a file path.
func (d Document) Source() string {
	if s, ok := d.Metadata["source"].(string); ok {
		return s
	}
	return ""
}

// SearchResult is a document with its similarity to a query.
type SearchResult struct {
	Document Document
	Score    float64
}

// Embedder turns text into vectors. It has the same method set as
// langchaingo's embeddings.Embedder, so those embedders can be used directly.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Splitter breaks text into chunks.
type Splitter interface {
	Split(text string) ([]string, error)
}

// Retriever returns the documents most relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]SearchResult, error)
}

// SplitDocuments splits every document with s. Chunks inherit the parent's
// metadata plus chunk_index and total_chunks.
func SplitDocuments(s Splitter, docs []Document) ([]Document, error) {
	var out []Document
	for _, doc := range docs {
		chunks, err := s.Split(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("split %s: %w", doc.ID, err)
		}
		for i, chunk := range chunks {
			md := make(map[string]any, len(doc.Metadata)+2)
			maps.Copy(md, doc.Metadata)
			md["chunk_index"] = i
			md["total_chunks"] = len(chunks)

			out = append(out, Document{
				ID:       fmt.Sprintf("%s#%d", doc.ID, i),
				Content:  chunk,
				Metadata: md,
			})
		}
	}
	return out, nil
}

// BuildContext renders results as a numbered context block for a prompt.
func BuildContext(results []SearchResult) string {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[%d]", i+1)
		if src := r.Document.Source(); src != "" {
			fmt.Fprintf(&sb, " (source: %s)", src)
		}
		sb.WriteString("\n")
		sb.WriteString(r.Document.Content)
	}
	return sb.String()
}
