package assistant

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/automind-ai/automind/llm"
	"github.com/automind-ai/automind/rag"
	"github.com/automind-ai/automind/rag/retriever"
	"github.com/automind-ai/automind/rag/store"
	"github.com/automind-ai/automind/task"
)

// Task names of the answering plan.
const (
	TaskListFiles      = "list_files"
	TaskLoadDocuments  = "load_documents"
	TaskChunkDocuments = "chunk_documents"
	TaskBuildIndex     = "build_index"
	TaskRetrieve       = "retrieve"
	TaskWebSearch      = "web_search"
	TaskFetchPages     = "fetch_pages"
	TaskGenerate       = "generate"
)

func (a *Assistant) newRegistry() *task.Registry {
	reg := task.NewRegistry()

	reg.Register(TaskListFiles, a.listFiles,
		task.WithDescription("List the data files to index"))
	reg.Register(TaskLoadDocuments, a.loadDocuments,
		task.WithDescription("Extract the text of every listed file"))
	reg.Register(TaskChunkDocuments, a.chunkDocuments,
		task.WithDescription("Split documents into overlapping chunks"))
	reg.Register(TaskBuildIndex, a.buildIndex,
		task.WithDescription("Embed chunks into a vector index"))
	reg.Register(TaskRetrieve, a.retrieve,
		task.WithDescription("Find the chunks most similar to the query"),
		task.WithRequiredParams("query"))
	reg.Register(TaskWebSearch, a.webSearch,
		task.WithDescription("Search the web for related pages"),
		task.WithRequiredParams("query"))
	reg.Register(TaskFetchPages, a.fetchPages,
		task.WithDescription("Fetch the text of the pages found by web search"))
	reg.Register(TaskGenerate, a.generate,
		task.WithDescription("Answer the question from the retrieved context"),
		task.WithRequiredParams("question"))

	return reg
}

// dep returns the result of dependency name as a T.
func dep[T any](in task.Input, name string) (T, error) {
	var zero T
	v, ok := in.Dep(name)
	if !ok {
		return zero, fmt.Errorf("missing result of %s", name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("result of %s has type %T, want %T", name, v, zero)
	}
	return t, nil
}

func (a *Assistant) listFiles(_ context.Context, _ task.Input) (any, error) {
	files, err := a.loader.ListFiles(a.extensions...)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Found %d files in %s", len(files), a.loader.Dir())
	return files, nil
}

func (a *Assistant) loadDocuments(ctx context.Context, in task.Input) (any, error) {
	files, err := dep[[]string](in, TaskListFiles)
	if err != nil {
		return nil, err
	}
	return a.loader.LoadAll(ctx, files)
}

func (a *Assistant) chunkDocuments(_ context.Context, in task.Input) (any, error) {
	docs, err := dep[[]rag.Document](in, TaskLoadDocuments)
	if err != nil {
		return nil, err
	}
	chunks, err := rag.SplitDocuments(a.splitter, docs)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Split %d documents into %d chunks", len(docs), len(chunks))
	return chunks, nil
}

func (a *Assistant) buildIndex(ctx context.Context, in task.Input) (any, error) {
	chunks, err := dep[[]rag.Document](in, TaskChunkDocuments)
	if err != nil {
		return nil, err
	}
	return store.Build(ctx, chunks, a.embedder)
}

func (a *Assistant) retrieve(ctx context.Context, in task.Input) (any, error) {
	index, err := dep[*store.Index](in, TaskBuildIndex)
	if err != nil {
		return nil, err
	}

	opts := []retriever.Option{retriever.WithScoreThreshold(a.scoreThreshold)}
	if k, ok := in.Params.GetInt("k"); ok {
		opts = append(opts, retriever.WithK(k))
	}
	if a.reranker != nil {
		opts = append(opts, retriever.WithReranker(a.reranker))
	}
	return retriever.New(index, opts...).Retrieve(ctx, in.Params.GetString("query"))
}

func (a *Assistant) webSearch(ctx context.Context, in task.Input) (any, error) {
	count, ok := in.Params.GetInt("count")
	if !ok {
		count = a.searchCount
	}
	return a.searcher.Search(ctx, in.Params.GetString("query"), count)
}

// maxPageChars bounds how much of one fetched page enters the prompt.
const maxPageChars = 2000

// fetchPages fetches every searched URL. Pages that fail to load are logged
// and left out; the task only fails when the context is done.
func (a *Assistant) fetchPages(ctx context.Context, in task.Input) (any, error) {
	urls, err := dep[[]string](in, TaskWebSearch)
	if err != nil {
		return nil, err
	}

	var pages []rag.Document
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := a.fetcher(ctx, u)
		if err != nil {
			a.logger.Warn("Skipping page %s: %v", u, err)
			continue
		}
		if r := []rune(text); len(r) > maxPageChars {
			text = string(r[:maxPageChars])
		}
		pages = append(pages, rag.Document{
			ID:       u,
			Content:  text,
			Metadata: map[string]any{"source": u},
		})
	}
	a.logger.Debug("Fetched %d of %d pages", len(pages), len(urls))
	return pages, nil
}

func (a *Assistant) generate(ctx context.Context, in task.Input) (any, error) {
	results, err := dep[[]rag.SearchResult](in, TaskRetrieve)
	if err != nil {
		return nil, err
	}
	var urls []string
	if _, ok := in.Dep(TaskWebSearch); ok {
		if urls, err = dep[[]string](in, TaskWebSearch); err != nil {
			return nil, err
		}
	}

	if _, ok := in.Dep(TaskFetchPages); ok {
		pages, err := dep[[]rag.Document](in, TaskFetchPages)
		if err != nil {
			return nil, err
		}
		results = slices.Clone(results)
		for _, page := range pages {
			results = append(results, rag.SearchResult{Document: page})
		}
	}

	ragContext := rag.BuildContext(results)
	if a.generator == nil {
		if strings.TrimSpace(ragContext) == "" {
			return NoContextAnswer, nil
		}
		return ragContext, nil
	}
	return a.generator.Generate(ctx, llm.AnswerPrompt(in.Params.GetString("question"), ragContext, urls))
}
