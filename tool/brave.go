package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// BraveSearch searches the web with the Brave Search API.
type BraveSearch struct {
	APIKey  string
	BaseURL string
	Count   int
	Country string
	Lang    string
	Client  *http.Client
}

var _ Searcher = (*BraveSearch)(nil)

type BraveOption func(*BraveSearch)

// WithBraveBaseURL sets the base URL for the Brave Search API.
func WithBraveBaseURL(baseURL string) BraveOption {
	return func(b *BraveSearch) {
		b.BaseURL = baseURL
	}
}

// WithBraveCount sets the default number of results (1-20).
func WithBraveCount(count int) BraveOption {
	return func(b *BraveSearch) {
		b.Count = clampCount(count)
	}
}

// WithBraveCountry sets the country code for search results (e.g., "US", "CN").
func WithBraveCountry(country string) BraveOption {
	return func(b *BraveSearch) {
		b.Country = country
	}
}

// WithBraveLang sets the language code for search results (e.g., "en", "zh").
func WithBraveLang(lang string) BraveOption {
	return func(b *BraveSearch) {
		b.Lang = lang
	}
}

// NewBraveSearch creates a Brave searcher. If apiKey is empty, it tries the
// BRAVE_API_KEY environment variable; a missing key only fails at search
// time, with ErrMissingAPIKey.
func NewBraveSearch(apiKey string, opts ...BraveOption) *BraveSearch {
	if apiKey == "" {
		apiKey = os.Getenv("BRAVE_API_KEY")
	}

	b := &BraveSearch{
		APIKey:  apiKey,
		BaseURL: "https://api.search.brave.com/res/v1/web/search",
		Count:   10,
		Country: "US",
		Lang:    "en",
		Client:  defaultClient,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Name returns the name of the tool.
func (b *BraveSearch) Name() string {
	return "Brave_Search"
}

// Description returns the description of the tool.
func (b *BraveSearch) Description() string {
	return "A privacy-focused search engine powered by Brave. " +
		"Useful for finding current information and answering questions. " +
		"Input should be a search query."
}

type braveResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (b *BraveSearch) query(ctx context.Context, query string, count int) ([]braveResult, error) {
	if b.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", fmt.Sprintf("%d", clampCount(count)))
	if b.Country != "" {
		params.Set("country", b.Country)
	}
	if b.Lang != "" {
		params.Set("search_lang", b.Lang)
	}

	header := http.Header{}
	header.Set("X-Subscription-Token", b.APIKey)

	var result struct {
		Web struct {
			Results []braveResult `json:"results"`
		} `json:"web"`
	}

	client := b.Client
	if client == nil {
		client = defaultClient
	}
	if err := getJSON(ctx, client, b.BaseURL+"?"+params.Encode(), header, &result); err != nil {
		return nil, fmt.Errorf("brave search: %w", err)
	}
	return result.Web.Results, nil
}

// Search returns up to count result URLs. A non-positive count uses the
// configured default.
func (b *BraveSearch) Search(ctx context.Context, query string, count int) ([]string, error) {
	if count <= 0 {
		count = b.Count
	}
	results, err := b.query(ctx, query, count)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(results))
	for _, r := range results {
		if r.URL != "" {
			urls = append(urls, r.URL)
		}
	}
	return urls, nil
}

// Call executes the search and formats the results as text.
func (b *BraveSearch) Call(ctx context.Context, input string) (string, error) {
	results, err := b.query(ctx, input, b.Count)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("%d. Title: %s\nURL: %s\nDescription: %s\n\n",
			i+1, r.Title, r.URL, r.Description))
	}

	if sb.Len() == 0 {
		return "No results found", nil
	}

	return sb.String(), nil
}

func clampCount(count int) int {
	if count < 1 {
		count = 1
	}
	if count > 20 {
		count = 20
	}
	return count
}
