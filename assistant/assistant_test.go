package assistant

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automind-ai/automind/log"
	"github.com/automind-ai/automind/memory"
	"github.com/automind-ai/automind/planner"
	"github.com/automind-ai/automind/rag/embedding"
	"github.com/automind-ai/automind/rag/splitter"
	storemem "github.com/automind-ai/automind/store/memory"
)

type fakeGenerator struct {
	mu      sync.Mutex
	reply   string
	prompts []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.reply, nil
}

type fakeSearcher struct {
	urls  []string
	err   error
	count int
}

func (s *fakeSearcher) Search(ctx context.Context, query string, count int) ([]string, error) {
	s.count = count
	return s.urls, s.err
}

func newDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"go.txt":      "Go has goroutines and channels for concurrency.",
		"cooking.txt": "Bake the bread at a high temperature until golden.",
		"notes.md":    "# Gardening\n\nWater the tomatoes every morning.",
		"skip.csv":    "a,b,c",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func newAssistant(t *testing.T, dir string, opts ...Option) *Assistant {
	t.Helper()
	base := []Option{
		WithSplitter(&splitter.CharacterChunker{Size: 500, Overlap: 0}),
		WithEmbedder(embedding.NewHashEmbedder(4096)),
		WithLogger(log.NoOpLogger{}),
		WithTopK(1),
	}
	return New(dir, append(base, opts...)...)
}

func TestAsk_WithoutGenerator(t *testing.T) {
	dir := newDataDir(t)
	a := newAssistant(t, dir)

	answer, err := a.Ask(context.Background(), "  how does Go handle concurrency with goroutines?  ")
	require.NoError(t, err)

	assert.Equal(t, "how does Go handle concurrency with goroutines?", answer.Question)
	assert.Contains(t, answer.Text, "goroutines and channels")
	assert.Equal(t, []string{filepath.Join(dir, "go.txt")}, answer.Sources)
	assert.Empty(t, answer.URLs)
	assert.NotEmpty(t, answer.RunID)

	text, ok, err := a.Recall(context.Background(), answer.Question)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, answer.Text, text)
}

func TestAsk_WithGenerator(t *testing.T) {
	gen := &fakeGenerator{reply: "Goroutines."}
	a := newAssistant(t, newDataDir(t), WithGenerator(gen))

	answer, err := a.Ask(context.Background(), "what about goroutines")
	require.NoError(t, err)
	assert.Equal(t, "Goroutines.", answer.Text)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Question: what about goroutines")
	assert.Contains(t, gen.prompts[0], "goroutines and channels")
	assert.NotContains(t, gen.prompts[0], "Related web pages")
}

func TestAsk_WithSearcher(t *testing.T) {
	gen := &fakeGenerator{reply: "see links"}
	search := &fakeSearcher{urls: []string{"https://go.dev/doc"}}
	a := newAssistant(t, newDataDir(t),
		WithGenerator(gen),
		WithSearcher(search, 3),
		WithWorkers(2),
	)

	answer, err := a.Ask(context.Background(), "goroutines")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://go.dev/doc"}, answer.URLs)
	assert.Equal(t, 3, search.count)
	assert.Contains(t, gen.prompts[0], "- https://go.dev/doc")
}

func TestAsk_WithPageFetcher(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	search := &fakeSearcher{urls: []string{"https://go.dev/doc", "https://down.example", "https://long.example"}}
	fetch := func(ctx context.Context, url string) (string, error) {
		switch url {
		case "https://go.dev/doc":
			return "The Go scheduler multiplexes goroutines.", nil
		case "https://long.example":
			return strings.Repeat("x", maxPageChars+100), nil
		}
		return "", errors.New("status code 503")
	}
	a := newAssistant(t, newDataDir(t),
		WithGenerator(gen),
		WithSearcher(search, 3),
		WithPageFetcher(fetch),
	)

	answer, err := a.Ask(context.Background(), "goroutines")
	require.NoError(t, err)
	assert.Equal(t, search.urls, answer.URLs)
	assert.Equal(t, []string{filepath.Join(a.loader.Dir(), "go.txt")}, answer.Sources)

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "goroutines and channels")
	assert.Contains(t, prompt, "(source: https://go.dev/doc)\nThe Go scheduler multiplexes goroutines.")
	assert.NotContains(t, prompt, "(source: https://down.example)")
	assert.Contains(t, prompt, strings.Repeat("x", maxPageChars))
	assert.NotContains(t, prompt, strings.Repeat("x", maxPageChars+1))
}

func TestAsk_SearchFailureFailsPlan(t *testing.T) {
	cause := errors.New("quota exceeded")
	a := newAssistant(t, newDataDir(t), WithSearcher(&fakeSearcher{err: cause}, 0))

	_, err := a.Ask(context.Background(), "goroutines")
	require.Error(t, err)

	var planErr *planner.PlanExecutionError
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, TaskWebSearch, planErr.Task)
	assert.ErrorIs(t, err, planner.ErrPlanExecution)
	assert.ErrorIs(t, err, cause)

	_, ok, _ := a.Recall(context.Background(), "goroutines")
	assert.False(t, ok)
}

func TestAsk_EmptyDataDir(t *testing.T) {
	a := newAssistant(t, t.TempDir())

	answer, err := a.Ask(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, NoContextAnswer, answer.Text)
	assert.Empty(t, answer.Sources)
}

func TestAsk_MissingDataDir(t *testing.T) {
	a := newAssistant(t, filepath.Join(t.TempDir(), "nope"))

	_, err := a.Ask(context.Background(), "anything")
	var planErr *planner.PlanExecutionError
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, TaskListFiles, planErr.Task)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	_, err := newAssistant(t, t.TempDir()).Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestAsk_ExtensionsFilter(t *testing.T) {
	dir := newDataDir(t)
	a := newAssistant(t, dir, WithExtensions(".md"), WithTopK(5))

	answer, err := a.Ask(context.Background(), "tomatoes")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "notes.md")}, answer.Sources)
	assert.NotContains(t, answer.Text, "#")
}

func TestAsk_RecordsRun(t *testing.T) {
	runs := storemem.NewRunStore()
	var events []planner.EventType
	var mu sync.Mutex
	a := newAssistant(t, newDataDir(t),
		WithRunStore(runs),
		WithListener(planner.ListenerFunc(func(ctx context.Context, e planner.Event) {
			mu.Lock()
			events = append(events, e.Type)
			mu.Unlock()
		})),
	)

	answer, err := a.Ask(context.Background(), "bread")
	require.NoError(t, err)

	rec, err := runs.Load(context.Background(), answer.RunID)
	require.NoError(t, err)
	assert.Equal(t, string(planner.StateCompleted), rec.State)
	assert.Equal(t, []string{
		TaskListFiles, TaskLoadDocuments, TaskChunkDocuments, TaskBuildIndex, TaskRetrieve, TaskGenerate,
	}, rec.Executed)
	assert.Equal(t, "bread", rec.Metadata["question"])

	require.NotEmpty(t, events)
	assert.Equal(t, planner.EventPlanStart, events[0])
	assert.Equal(t, planner.EventPlanEnd, events[len(events)-1])
}

func TestPlan(t *testing.T) {
	t.Run("without searcher", func(t *testing.T) {
		p, err := newAssistant(t, t.TempDir()).Plan("q")
		require.NoError(t, err)

		order, err := p.Graph().TopologicalOrder()
		require.NoError(t, err)
		assert.Equal(t, []string{
			TaskListFiles, TaskLoadDocuments, TaskChunkDocuments, TaskBuildIndex, TaskRetrieve, TaskGenerate,
		}, order)

		attrs, ok := p.Graph().NodeAttributes(TaskRetrieve)
		require.True(t, ok)
		assert.Equal(t, "q", attrs["query"])
		assert.Equal(t, 1, attrs["k"])
	})

	t.Run("with searcher", func(t *testing.T) {
		p, err := newAssistant(t, t.TempDir(), WithSearcher(&fakeSearcher{}, 2)).Plan("q")
		require.NoError(t, err)

		assert.True(t, p.Graph().HasNode(TaskWebSearch))
		assert.True(t, p.Graph().HasEdge(TaskWebSearch, TaskGenerate))
		assert.True(t, p.Graph().HasEdge(TaskRetrieve, TaskGenerate))

		preds, err := p.Graph().Predecessors(TaskGenerate)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{TaskRetrieve, TaskWebSearch}, preds)
	})

	t.Run("with page fetcher", func(t *testing.T) {
		fetch := func(ctx context.Context, url string) (string, error) { return "", nil }
		p, err := newAssistant(t, t.TempDir(), WithSearcher(&fakeSearcher{}, 2), WithPageFetcher(fetch)).Plan("q")
		require.NoError(t, err)

		assert.True(t, p.Graph().HasEdge(TaskWebSearch, TaskFetchPages))
		assert.True(t, p.Graph().HasEdge(TaskFetchPages, TaskGenerate))
	})

	t.Run("page fetcher needs searcher", func(t *testing.T) {
		fetch := func(ctx context.Context, url string) (string, error) { return "", nil }
		p, err := newAssistant(t, t.TempDir(), WithPageFetcher(fetch)).Plan("q")
		require.NoError(t, err)
		assert.False(t, p.Graph().HasNode(TaskFetchPages))
	})

	t.Run("every task registered", func(t *testing.T) {
		fetch := func(ctx context.Context, url string) (string, error) { return "", nil }
		a := newAssistant(t, t.TempDir(), WithSearcher(&fakeSearcher{}, 2), WithPageFetcher(fetch))
		p, err := a.Plan("q")
		require.NoError(t, err)
		for _, name := range p.Graph().Nodes() {
			assert.True(t, a.Registry().Has(name), name)
			assert.NotEmpty(t, a.Registry().Description(name), name)
		}
	})
}

func TestRecall_NonStringValue(t *testing.T) {
	mem := memory.NewInMemory()
	require.NoError(t, mem.Store(context.Background(), "q", 42))
	a := newAssistant(t, t.TempDir(), WithMemory(mem))

	_, _, err := a.Recall(context.Background(), "q")
	assert.ErrorContains(t, err, "type int")

	_, ok, err := a.Recall(context.Background(), "unknown")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Same(t, mem, a.Memory())
}
