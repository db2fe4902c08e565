package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrMissingAPIKey is returned by searches attempted without a credential.
var ErrMissingAPIKey = errors.New("search API key is required")

// Searcher finds web pages for a query.
type Searcher interface {
	// Search returns up to count result URLs.
	Search(ctx context.Context, query string, count int) ([]string, error)
}

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// HTTPSearch queries a generic JSON search endpoint that takes q, num and
// key parameters and answers {"items": [{"url": ...}, ...]}.
type HTTPSearch struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

var _ Searcher = (*HTTPSearch)(nil)

// NewHTTPSearch creates a searcher for baseURL.
func NewHTTPSearch(apiKey, baseURL string) *HTTPSearch {
	return &HTTPSearch{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client:  defaultClient,
	}
}

// Search executes the query.
func (s *HTTPSearch) Search(ctx context.Context, query string, count int) ([]string, error) {
	if s.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if count <= 0 {
		count = 5
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("num", strconv.Itoa(count))
	params.Set("key", s.APIKey)

	var result struct {
		Items []struct {
			URL string `json:"url"`
		} `json:"items"`
	}
	if err := getJSON(ctx, s.client(), s.BaseURL+"?"+params.Encode(), nil, &result); err != nil {
		return nil, fmt.Errorf("failed to perform web search: %w", err)
	}

	urls := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		if item.URL != "" {
			urls = append(urls, item.URL)
		}
	}
	if len(urls) > count {
		urls = urls[:count]
	}
	return urls, nil
}

func (s *HTTPSearch) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return defaultClient
}

// getJSON issues a GET request and decodes a JSON response into v.
func getJSON(ctx context.Context, client *http.Client, reqURL string, header http.Header, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vals := range header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search api returned status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
