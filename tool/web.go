package tool

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/automind-ai/automind/rag/loader"
)

// WebFetch downloads a page and returns its visible text.
func WebFetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "automind/1.0")

	resp, err := defaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch %s: status code %d", pageURL, resp.StatusCode)
	}

	text, err := loader.HTMLText(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content found at %s", pageURL)
	}
	return text, nil
}
