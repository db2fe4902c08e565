// Package assistant answers questions over local documents.
//
// Each question becomes a plan executed by the planner:
//
//	list_files -> load_documents -> chunk_documents -> build_index -> retrieve --> generate
//	web_search (only with a searcher) -------------------------------------------> generate
//
// Every step is a registered task; a step receives its dependencies'
// results and its own parameters (the question, k, the search count).
//
//	a := assistant.New("data",
//		assistant.WithGenerator(gen),
//		assistant.WithSearcher(tool.NewBraveSearch(""), 5),
//		assistant.WithWorkers(2),
//	)
//	answer, err := a.Ask(ctx, "What does the report conclude?")
package assistant
