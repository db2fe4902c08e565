package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/automind-ai/automind/llm"
	"github.com/automind-ai/automind/log"
	"github.com/automind-ai/automind/memory"
	"github.com/automind-ai/automind/planner"
	"github.com/automind-ai/automind/rag"
	"github.com/automind-ai/automind/rag/embedding"
	"github.com/automind-ai/automind/rag/loader"
	"github.com/automind-ai/automind/rag/retriever"
	"github.com/automind-ai/automind/rag/splitter"
	"github.com/automind-ai/automind/store"
	"github.com/automind-ai/automind/task"
	"github.com/automind-ai/automind/tool"
)

// ErrEmptyQuestion is returned by Ask for a blank question.
var ErrEmptyQuestion = errors.New("question is empty")

// NoContextAnswer is the answer text when nothing relevant was retrieved and
// no generator is configured.
const NoContextAnswer = "No relevant documents found."

// Generator turns a prompt into text. *llm.Generator implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Answer is the result of one question.
type Answer struct {
	Question string
	Text     string
	// Sources lists the distinct documents the context came from, in
	// retrieval order.
	Sources []string
	URLs    []string
	RunID   string
}

// Assistant answers questions over a directory of documents by running a
// retrieval plan through the planner.
type Assistant struct {
	loader     *loader.DirectoryLoader
	extensions []string
	splitter   rag.Splitter
	embedder   rag.Embedder
	generator  Generator
	reranker   retriever.Reranker
	searcher   tool.Searcher
	fetcher    PageFetcher
	memory     memory.Memory

	topK           int
	scoreThreshold float64
	searchCount    int
	workers        int

	logger    log.Logger
	runs      store.RunStore
	listeners []planner.Listener

	registry *task.Registry
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithExtensions restricts which files are loaded.
func WithExtensions(exts ...string) Option {
	return func(a *Assistant) {
		a.extensions = exts
	}
}

// WithSplitter sets how documents are chunked.
func WithSplitter(s rag.Splitter) Option {
	return func(a *Assistant) {
		if s != nil {
			a.splitter = s
		}
	}
}

// WithEmbedder sets the embedder used for chunks and questions.
func WithEmbedder(e rag.Embedder) Option {
	return func(a *Assistant) {
		if e != nil {
			a.embedder = e
		}
	}
}

// WithGenerator sets the language model. Without one the answer is the
// retrieved context.
func WithGenerator(g Generator) Option {
	return func(a *Assistant) {
		a.generator = g
	}
}

// WithSearcher adds a web_search task returning up to count URLs.
func WithSearcher(s tool.Searcher, count int) Option {
	return func(a *Assistant) {
		a.searcher = s
		if count > 0 {
			a.searchCount = count
		}
	}
}

// PageFetcher returns the text of the page at url. tool.WebFetch implements
// it.
type PageFetcher func(ctx context.Context, url string) (string, error)

// WithPageFetcher adds a fetch_pages task after web_search whose page text is
// added to the generate context. It has no effect without a searcher.
func WithPageFetcher(f PageFetcher) Option {
	return func(a *Assistant) {
		a.fetcher = f
	}
}

// WithMemory sets where answers are remembered.
func WithMemory(m memory.Memory) Option {
	return func(a *Assistant) {
		if m != nil {
			a.memory = m
		}
	}
}

// WithTopK sets how many chunks are retrieved.
func WithTopK(k int) Option {
	return func(a *Assistant) {
		if k > 0 {
			a.topK = k
		}
	}
}

// WithScoreThreshold drops chunks scoring below threshold.
func WithScoreThreshold(threshold float64) Option {
	return func(a *Assistant) {
		a.scoreThreshold = threshold
	}
}

// WithReranker reorders retrieved chunks.
func WithReranker(r retriever.Reranker) Option {
	return func(a *Assistant) {
		a.reranker = r
	}
}

// WithWorkers sets planner parallelism.
func WithWorkers(n int) Option {
	return func(a *Assistant) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithLogger sets the logger shared by the assistant and its planner.
func WithLogger(logger log.Logger) Option {
	return func(a *Assistant) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRunStore saves a record of every plan execution to s.
func WithRunStore(s store.RunStore) Option {
	return func(a *Assistant) {
		a.runs = s
	}
}

// WithListener attaches l to every plan the assistant builds.
func WithListener(l planner.Listener) Option {
	return func(a *Assistant) {
		a.listeners = append(a.listeners, l)
	}
}

// New creates an assistant over the documents in dataDir.
func New(dataDir string, opts ...Option) *Assistant {
	a := &Assistant{
		loader:      loader.NewDirectoryLoader(dataDir),
		extensions:  []string{".pdf", ".txt", ".md", ".html"},
		splitter:    &splitter.CharacterChunker{Size: 100, Overlap: 20},
		embedder:    embedding.NewHashEmbedder(0),
		memory:      memory.NewInMemory(),
		topK:        4,
		searchCount: 5,
		workers:     1,
		logger:      log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.registry = a.newRegistry()
	return a
}

// Registry returns the registry holding the assistant's tasks.
func (a *Assistant) Registry() *task.Registry {
	return a.registry
}

// Memory returns the answer memory.
func (a *Assistant) Memory() memory.Memory {
	return a.memory
}

// Plan builds the plan answering question without executing it.
func (a *Assistant) Plan(question string) (*planner.Planner, error) {
	opts := []planner.Option{
		planner.WithWorkers(a.workers),
		planner.WithLogger(a.logger),
		planner.WithMetadata(map[string]any{"question": question}),
	}
	if a.runs != nil {
		opts = append(opts, planner.WithRunStore(a.runs))
	}
	for _, l := range a.listeners {
		opts = append(opts, planner.WithListener(l))
	}
	p := planner.New(a.registry, opts...)

	steps := []step{
		{TaskListFiles, nil, nil},
		{TaskLoadDocuments, []string{TaskListFiles}, nil},
		{TaskChunkDocuments, []string{TaskLoadDocuments}, nil},
		{TaskBuildIndex, []string{TaskChunkDocuments}, nil},
		{TaskRetrieve, []string{TaskBuildIndex}, map[string]any{"query": question, "k": a.topK}},
	}
	generateDeps := []string{TaskRetrieve}
	if a.searcher != nil {
		steps = append(steps, step{TaskWebSearch, nil, map[string]any{"query": question, "count": a.searchCount}})
		generateDeps = append(generateDeps, TaskWebSearch)
		if a.fetcher != nil {
			steps = append(steps, step{TaskFetchPages, []string{TaskWebSearch}, nil})
			generateDeps = append(generateDeps, TaskFetchPages)
		}
	}
	steps = append(steps, step{TaskGenerate, generateDeps, map[string]any{"question": question}})

	for _, s := range steps {
		if err := p.AddTask(s.name, s.deps, s.attrs); err != nil {
			return nil, err
		}
	}
	return p, nil
}

type step struct {
	name  string
	deps  []string
	attrs map[string]any
}

// Ask answers question and remembers the answer under it.
func (a *Assistant) Ask(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	p, err := a.Plan(question)
	if err != nil {
		return nil, err
	}
	run, err := p.ExecutePlan(ctx)
	if err != nil {
		return nil, err
	}

	answer := &Answer{Question: question, RunID: run.ID}
	if v, ok := run.Result(TaskGenerate); ok {
		answer.Text, _ = v.(string)
	}
	if v, ok := run.Result(TaskRetrieve); ok {
		results, _ := v.([]rag.SearchResult)
		answer.Sources = sources(results)
	}
	if v, ok := run.Result(TaskWebSearch); ok {
		answer.URLs, _ = v.([]string)
	}

	if err := a.memory.Store(ctx, question, answer.Text); err != nil {
		a.logger.Warn("failed to remember answer: %v", err)
	}
	return answer, nil
}

// Recall returns the remembered answer to question, if any.
func (a *Assistant) Recall(ctx context.Context, question string) (string, bool, error) {
	v, ok, err := a.memory.Retrieve(ctx, strings.TrimSpace(question))
	if err != nil || !ok {
		return "", ok, err
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("remembered answer has type %T", v)
	}
	return s, true, nil
}

func sources(results []rag.SearchResult) []string {
	seen := make(map[string]bool, len(results))
	var out []string
	for _, r := range results {
		src := r.Document.Source()
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		out = append(out, src)
	}
	return out
}

var (
	_ Generator   = (*llm.Generator)(nil)
	_ PageFetcher = tool.WebFetch
)
