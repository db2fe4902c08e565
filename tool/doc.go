// Package tool provides the external tools the assistant can call.
//
// Web search is abstracted by Searcher, which returns result URLs:
//
//	s := tool.NewBraveSearch(apiKey)
//	urls, err := s.Search(ctx, "what is retrieval augmented generation", 5)
//	if errors.Is(err, tool.ErrMissingAPIKey) {
//		// configure BRAVE_API_KEY
//	}
//
// BraveSearch talks to the Brave Search API. HTTPSearch talks to any JSON
// endpoint accepting q, num and key parameters and returning {"items":
// [{"url": ...}]}. WebFetch downloads a page and extracts its visible text.
package tool
