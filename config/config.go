// Package config loads the assistant configuration from a YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/automind-ai/automind/log"
)

// Config holds the application configuration.
type Config struct {
	DataDir    string   `yaml:"data_dir"`
	Extensions []string `yaml:"extensions"`

	Chunk     ChunkConfig     `yaml:"chunk"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Search    SearchConfig    `yaml:"search"`
	Planner   PlannerConfig   `yaml:"planner"`
	Store     StoreConfig     `yaml:"store"`
	Memory    MemoryConfig    `yaml:"memory"`
	Log       LogConfig       `yaml:"log"`
}

// ChunkConfig configures document splitting. Strategy is "character"
// (fixed windows) or "recursive" (split on paragraphs, lines, then words).
type ChunkConfig struct {
	Strategy string `yaml:"strategy"`
	Size     int    `yaml:"size"`
	Overlap  int    `yaml:"overlap"`
}

type RetrievalConfig struct {
	TopK           int     `yaml:"top_k"`
	ScoreThreshold float64 `yaml:"score_threshold"`
	Rerank         bool    `yaml:"rerank"`
}

// EmbeddingConfig selects the embedder: "hash" (offline), "openai" (go-openai
// client) or "langchain" (langchaingo embeddings).
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

// LLMConfig configures the answer generator. Without an API key answers are
// the retrieved context itself.
type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TopK        int     `yaml:"top_k"`
}

// SearchConfig selects the web searcher: "" (disabled), "brave" or "http".
// Fetch also downloads the found pages into the answer context.
type SearchConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Count    int    `yaml:"count"`
	Fetch    bool   `yaml:"fetch"`
}

type PlannerConfig struct {
	Workers int `yaml:"workers"`
}

// StoreConfig selects where run records go: "memory", "redis", "sqlite" or
// "postgres".
type StoreConfig struct {
	Type        string `yaml:"type"`
	RedisAddr   string `yaml:"redis_addr"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresURL string `yaml:"postgres_url"`
}

// MemoryConfig selects the answer memory: "memory" or "redis".
type MemoryConfig struct {
	Type      string `yaml:"type"`
	RedisAddr string `yaml:"redis_addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

var (
	chunkStrategies    = []string{"character", "recursive"}
	embeddingProviders = []string{"hash", "openai", "langchain"}
	searchProviders    = []string{"", "brave", "http"}
	storeTypes         = []string{"memory", "redis", "sqlite", "postgres"}
	memoryTypes        = []string{"memory", "redis"}
)

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		DataDir:    "data",
		Extensions: []string{".pdf", ".txt", ".md", ".html"},
		Chunk: ChunkConfig{
			Strategy: "character",
			Size:     100,
			Overlap:  20,
		},
		Retrieval: RetrievalConfig{
			TopK: 4,
		},
		Embedding: EmbeddingConfig{
			Provider:  "hash",
			Dimension: 4096,
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			MaxTokens:   256,
			Temperature: 1.0,
			TopK:        50,
		},
		Search: SearchConfig{
			Count: 5,
		},
		Planner: PlannerConfig{
			Workers: 1,
		},
		Store: StoreConfig{
			Type:       "memory",
			RedisAddr:  "localhost:6379",
			SQLitePath: "automind.db",
		},
		Memory: MemoryConfig{
			Type:      "memory",
			RedisAddr: "localhost:6379",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result. ${VAR} references in the file are
// expanded.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv() error {
	c.DataDir = getEnv("AUTOMIND_DATA_DIR", c.DataDir)
	c.LLM.APIKey = getEnv("OPENAI_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = getEnv("OPENAI_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = getEnv("OPENAI_MODEL", c.LLM.Model)
	c.Search.APIKey = getEnv("SEARCH_API_KEY", c.Search.APIKey)
	if key := os.Getenv("BRAVE_API_KEY"); key != "" {
		c.Search.APIKey = key
		if c.Search.Provider == "" {
			c.Search.Provider = "brave"
		}
	}
	c.Store.Type = getEnv("AUTOMIND_STORE", c.Store.Type)
	c.Store.RedisAddr = getEnv("REDIS_ADDR", c.Store.RedisAddr)
	c.Memory.RedisAddr = getEnv("REDIS_ADDR", c.Memory.RedisAddr)
	c.Store.PostgresURL = getEnv("DATABASE_URL", c.Store.PostgresURL)
	c.Log.Level = getEnv("AUTOMIND_LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("AUTOMIND_LOG_FILE", c.Log.File)

	if v := os.Getenv("AUTOMIND_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AUTOMIND_WORKERS: %w", err)
		}
		c.Planner.Workers = n
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}
	if !slices.Contains(chunkStrategies, c.Chunk.Strategy) {
		errs = append(errs, fmt.Errorf("unknown chunk.strategy %q", c.Chunk.Strategy))
	}
	if c.Chunk.Size <= 0 {
		errs = append(errs, fmt.Errorf("chunk.size must be positive, got %d", c.Chunk.Size))
	}
	if c.Chunk.Overlap < 0 || c.Chunk.Overlap >= c.Chunk.Size {
		errs = append(errs, fmt.Errorf("chunk.overlap must be in [0, %d), got %d", c.Chunk.Size, c.Chunk.Overlap))
	}
	if c.Retrieval.TopK <= 0 {
		errs = append(errs, fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK))
	}
	if c.Planner.Workers < 1 {
		errs = append(errs, fmt.Errorf("planner.workers must be at least 1, got %d", c.Planner.Workers))
	}

	if !slices.Contains(embeddingProviders, c.Embedding.Provider) {
		errs = append(errs, fmt.Errorf("unknown embedding.provider %q", c.Embedding.Provider))
	} else if c.Embedding.Provider != "hash" && c.LLM.APIKey == "" {
		errs = append(errs, fmt.Errorf("embedding.provider %q requires OPENAI_API_KEY", c.Embedding.Provider))
	}

	switch {
	case !slices.Contains(searchProviders, c.Search.Provider):
		errs = append(errs, fmt.Errorf("unknown search.provider %q", c.Search.Provider))
	case c.Search.Provider == "":
	default:
		if c.Search.APIKey == "" {
			errs = append(errs, fmt.Errorf("search.api_key is required for the %s provider", c.Search.Provider))
		}
		if c.Search.Provider == "http" && c.Search.BaseURL == "" {
			errs = append(errs, errors.New("search.base_url is required for the http provider"))
		}
	}

	switch {
	case !slices.Contains(storeTypes, c.Store.Type):
		errs = append(errs, fmt.Errorf("unknown store.type %q", c.Store.Type))
	case c.Store.Type == "redis" && c.Store.RedisAddr == "":
		errs = append(errs, errors.New("store.redis_addr is required for the redis store"))
	case c.Store.Type == "sqlite" && c.Store.SQLitePath == "":
		errs = append(errs, errors.New("store.sqlite_path is required for the sqlite store"))
	case c.Store.Type == "postgres" && c.Store.PostgresURL == "":
		errs = append(errs, errors.New("store.postgres_url is required for the postgres store"))
	}

	if !slices.Contains(memoryTypes, c.Memory.Type) {
		errs = append(errs, fmt.Errorf("unknown memory.type %q", c.Memory.Type))
	} else if c.Memory.Type == "redis" && c.Memory.RedisAddr == "" {
		errs = append(errs, errors.New("memory.redis_addr is required for the redis memory"))
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() log.LogLevel {
	level, _ := log.ParseLevel(c.Log.Level)
	return level
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
