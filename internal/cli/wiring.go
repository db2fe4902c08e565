package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/automind-ai/automind/assistant"
	"github.com/automind-ai/automind/config"
	"github.com/automind-ai/automind/llm"
	"github.com/automind-ai/automind/log"
	"github.com/automind-ai/automind/memory"
	"github.com/automind-ai/automind/planner"
	"github.com/automind-ai/automind/rag"
	"github.com/automind-ai/automind/rag/embedding"
	"github.com/automind-ai/automind/rag/retriever"
	"github.com/automind-ai/automind/rag/splitter"
	"github.com/automind-ai/automind/store"
	storemem "github.com/automind-ai/automind/store/memory"
	"github.com/automind-ai/automind/store/postgres"
	"github.com/automind-ai/automind/store/redis"
	"github.com/automind-ai/automind/store/sqlite"
	"github.com/automind-ai/automind/tool"
)

// app holds the components built from a configuration and the resources
// that must be released afterwards.
type app struct {
	cfg     *config.Config
	logger  log.Logger
	closers []func() error
}

func newApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.Log.File != "" {
		logger, closer, err := log.NewFileLogger(cfg.Log.File, cfg.LogLevel())
		if err != nil {
			return nil, err
		}
		a.logger = logger
		a.closers = append(a.closers, closer.Close)
	} else {
		a.logger = log.NewDefaultLogger(cfg.LogLevel())
	}
	log.SetDefaultLogger(a.logger)

	return a, nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// runStore opens the configured run store.
func (a *app) runStore(ctx context.Context) (store.RunStore, error) {
	c := a.cfg.Store
	switch c.Type {
	case "redis":
		s := redis.NewRunStore(redis.Options{Addr: c.RedisAddr})
		a.closers = append(a.closers, s.Close)
		return s, nil
	case "sqlite":
		s, err := sqlite.NewRunStore(sqlite.Options{Path: c.SQLitePath})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		return s, nil
	case "postgres":
		s, err := postgres.NewRunStore(ctx, postgres.Options{ConnString: c.PostgresURL})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { s.Close(); return nil })
		if err := s.InitSchema(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return storemem.NewRunStore(), nil
	}
}

func (a *app) memory() memory.Memory {
	if a.cfg.Memory.Type == "redis" {
		m := memory.NewRedis(memory.RedisOptions{Addr: a.cfg.Memory.RedisAddr})
		a.closers = append(a.closers, m.Close)
		return m
	}
	return memory.NewInMemory()
}

func (a *app) embedder() (rag.Embedder, error) {
	c := a.cfg
	switch c.Embedding.Provider {
	case "openai":
		var opts []embedding.OpenAIOption
		if c.Embedding.Model != "" {
			opts = append(opts, embedding.WithOpenAIModel(c.Embedding.Model))
		}
		if c.LLM.BaseURL != "" {
			opts = append(opts, embedding.WithOpenAIBaseURL(c.LLM.BaseURL))
		}
		return embedding.NewOpenAIEmbedder(c.LLM.APIKey, opts...)
	case "langchain":
		return embedding.NewLangChainEmbedder(c.LLM.APIKey, c.Embedding.Model, c.LLM.BaseURL)
	default:
		return embedding.NewHashEmbedder(c.Embedding.Dimension), nil
	}
}

func (a *app) generator() (assistant.Generator, error) {
	c := a.cfg.LLM
	if c.APIKey == "" {
		return nil, nil
	}
	return llm.NewOpenAI(c.APIKey, c.Model, c.BaseURL,
		llm.WithMaxTokens(c.MaxTokens),
		llm.WithTemperature(c.Temperature),
		llm.WithTopK(c.TopK),
	)
}

func (a *app) searcher() tool.Searcher {
	c := a.cfg.Search
	switch c.Provider {
	case "brave":
		opts := []tool.BraveOption{tool.WithBraveCount(c.Count)}
		if c.BaseURL != "" {
			opts = append(opts, tool.WithBraveBaseURL(c.BaseURL))
		}
		return tool.NewBraveSearch(c.APIKey, opts...)
	case "http":
		return tool.NewHTTPSearch(c.APIKey, c.BaseURL)
	default:
		return nil
	}
}

func (a *app) splitter() (rag.Splitter, error) {
	c := a.cfg.Chunk
	if c.Strategy == "recursive" {
		return splitter.NewRecursiveSplitter(c.Size, c.Overlap)
	}
	return splitter.NewCharacterChunker(c.Size, c.Overlap)
}

// listeners returns the plan listeners. Task events are only logged at debug
// level.
func (a *app) listeners() []planner.Listener {
	if a.cfg.LogLevel() != log.LogLevelDebug {
		return nil
	}
	return []planner.Listener{planner.NewLoggingListener(a.logger)}
}

// assistant builds the assistant. runs may be nil.
func (a *app) assistant(runs store.RunStore) (*assistant.Assistant, error) {
	c := a.cfg

	chunker, err := a.splitter()
	if err != nil {
		return nil, err
	}
	emb, err := a.embedder()
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	gen, err := a.generator()
	if err != nil {
		return nil, err
	}

	opts := []assistant.Option{
		assistant.WithExtensions(c.Extensions...),
		assistant.WithSplitter(chunker),
		assistant.WithEmbedder(emb),
		assistant.WithMemory(a.memory()),
		assistant.WithTopK(c.Retrieval.TopK),
		assistant.WithScoreThreshold(c.Retrieval.ScoreThreshold),
		assistant.WithWorkers(c.Planner.Workers),
		assistant.WithLogger(a.logger),
	}
	if gen != nil {
		opts = append(opts, assistant.WithGenerator(gen))
	}
	if s := a.searcher(); s != nil {
		opts = append(opts, assistant.WithSearcher(s, c.Search.Count))
		if c.Search.Fetch {
			opts = append(opts, assistant.WithPageFetcher(tool.WebFetch))
		}
	}
	if c.Retrieval.Rerank {
		opts = append(opts, assistant.WithReranker(retriever.NewKeywordReranker()))
	}
	if runs != nil {
		opts = append(opts, assistant.WithRunStore(runs))
	}
	for _, l := range a.listeners() {
		opts = append(opts, assistant.WithListener(l))
	}
	return assistant.New(c.DataDir, opts...), nil
}

var _ io.Closer = (*app)(nil)
