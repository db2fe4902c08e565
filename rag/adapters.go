package rag

import (
	"fmt"
	"maps"

	"github.com/tmc/langchaingo/schema"
)

// FromSchemaDocuments converts langchaingo documents. The "source" metadata
// entry becomes the ID when present.
func FromSchemaDocuments(schemaDocs []schema.Document) []Document {
	docs := make([]Document, len(schemaDocs))
	for i, schemaDoc := range schemaDocs {
		docs[i] = Document{
			Content:  schemaDoc.PageContent,
			Metadata: maps.Clone(schemaDoc.Metadata),
		}
		if docs[i].Metadata == nil {
			docs[i].Metadata = make(map[string]any)
		}

		if source, ok := schemaDoc.Metadata["source"]; ok {
			docs[i].ID = fmt.Sprintf("%v", source)
		} else {
			docs[i].ID = fmt.Sprintf("doc_%d", i)
		}
	}
	return docs
}

// ToSchemaDocuments converts documents for use with langchaingo.
func ToSchemaDocuments(docs []Document) []schema.Document {
	out := make([]schema.Document, len(docs))
	for i, doc := range docs {
		out[i] = schema.Document{
			PageContent: doc.Content,
			Metadata:    maps.Clone(doc.Metadata),
		}
	}
	return out
}
