// Package rag holds the retrieval side of the assistant.
//
// The root package defines the shared types: Document, SearchResult and the
// Embedder, Splitter and Retriever interfaces. Implementations live in
// subpackages:
//
//   - loader: lists files under a data directory and extracts their text
//     (plain text, Markdown, HTML, PDF)
//   - splitter: character windows with overlap, or langchaingo's recursive
//     character splitter
//   - embedding: OpenAI embeddings through go-openai or langchaingo, plus a
//     deterministic offline embedder
//   - store: an in-memory cosine-similarity index
//   - retriever: top-k retrieval over an index with an optional score floor
//
// A typical flow:
//
//	files, _ := ldr.ListFiles(".pdf", ".md")
//	docs, _ := ldr.LoadAll(ctx, files)
//	chunker, _ := splitter.NewCharacterChunker(500, 50)
//	chunks, _ := rag.SplitDocuments(chunker, docs)
//	index, _ := store.Build(ctx, chunks, embedder)
//	results, _ := retriever.New(index, retriever.WithK(4)).Retrieve(ctx, question)
//	prompt := rag.BuildContext(results)
package rag
