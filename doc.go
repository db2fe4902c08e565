// automind - question answering over local documents, driven by a task planner
//
// automind answers questions about the files in a data directory. Each
// answer is produced by a plan: a set of named tasks with "must complete
// before" dependencies, executed in dependency order.
//
// # Quick Start
//
// Install the command:
//
//	go install github.com/automind-ai/automind/cmd/automind@latest
//
// Put some PDF, Markdown, HTML or text files under ./data and ask:
//
//	automind ask "What does the quarterly report say about churn?"
//
// Inspect the plan without running it, or render it as Mermaid:
//
//	automind plan
//	automind plan --mermaid
//
// List and inspect past runs (requires a persistent run store):
//
//	automind runs
//	automind runs show <id>
//	automind runs show --mermaid <id>
//
// # Core Concepts
//
// The planning core is three packages that know nothing about documents:
//
//   - task: a Registry mapping names to task functions. Execute runs a task
//     by name and wraps failures in TaskExecutionError.
//   - graph: a DependencyGraph of task names with a deterministic
//     topological order (Kahn's algorithm, insertion order breaks ties).
//   - planner: a Planner that declares tasks on a graph and executes them
//     through a registry, sequentially or with a bounded worker pool.
//
// A minimal plan:
//
//	reg := task.NewRegistry()
//	reg.Register("fetch", func(ctx context.Context, in task.Input) (any, error) {
//		return "data", nil
//	})
//	reg.Register("report", func(ctx context.Context, in task.Input) (any, error) {
//		v, _ := in.Dep("fetch")
//		return fmt.Sprintf("got %v", v), nil
//	})
//
//	p := planner.New(reg)
//	p.AddTask("fetch", nil, nil)
//	p.AddTask("report", []string{"fetch"}, nil)
//
//	run, err := p.ExecutePlan(ctx)
//	if err != nil {
//		var perr *planner.PlanExecutionError
//		if errors.As(err, &perr) {
//			log.Printf("failed at %s", perr.Task)
//		}
//	}
//	fmt.Println(run.Result("report"))
//
// # Package Structure
//
//   - assistant: the answering plan (list_files, load_documents,
//     chunk_documents, build_index, retrieve, web_search, generate)
//   - rag, rag/loader, rag/splitter, rag/embedding, rag/store,
//     rag/retriever: retrieval building blocks
//   - llm: answer generation over langchaingo models
//   - tool: web search (Brave, generic HTTP) and page fetching
//   - memory: key/value memory of past answers (in memory or Redis)
//   - store: run records, with memory, Redis, SQLite and PostgreSQL backends
//   - config: YAML configuration with environment overrides
//   - log: leveled logging backed by golog
//
// # Configuration
//
// The command reads an optional YAML file (--config) and these environment
// variables:
//
//   - OPENAI_API_KEY, OPENAI_BASE_URL, OPENAI_MODEL: answer generation and
//     remote embeddings
//   - BRAVE_API_KEY: enables web search through Brave
//   - SEARCH_API_KEY: credential for the generic HTTP search provider
//   - AUTOMIND_DATA_DIR: directory of documents (default "data")
//   - AUTOMIND_WORKERS: planner parallelism
//   - AUTOMIND_STORE, REDIS_ADDR, DATABASE_URL: run store selection
//   - AUTOMIND_LOG_LEVEL, AUTOMIND_LOG_FILE: logging
//
// Without OPENAI_API_KEY the answer is the retrieved context itself, and the
// default embedder works offline.
package automind // import "github.com/automind-ai/automind"
