package loader

import (
	"context"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tmc/langchaingo/documentloaders"
)

type extractor func(ctx context.Context, path string) (string, error)

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "pdf"
	case ".md", ".markdown":
		return "markdown"
	case ".html", ".htm":
		return "html"
	default:
		return "text"
	}
}

func extractorFor(path string) extractor {
	switch formatOf(path) {
	case "pdf":
		return loadPDF
	case "markdown":
		return loadMarkdown
	case "html":
		return loadHTML
	default:
		return loadText
	}
}

func loadText(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// loadPDF extracts the text of every page, one page per line block.
func loadPDF(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	pages, err := documentloaders.NewPDF(f, info.Size()).Load(ctx)
	if err != nil {
		return "", err
	}

	texts := make([]string, len(pages))
	for i, page := range pages {
		texts[i] = page.PageContent
	}
	return strings.Join(texts, "\n"), nil
}

func loadMarkdown(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return MarkdownText(data), nil
}

func loadHTML(_ context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return HTMLText(f)
}

// MarkdownText renders Markdown and strips the markup, keeping one line per
// block.
func MarkdownText(src []byte) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	rendered := markdown.ToHTML(src, p, nil)
	stripped := bluemonday.StrictPolicy().SanitizeBytes(rendered)
	return normalizeLines(html.UnescapeString(string(stripped)))
}

// HTMLText returns the visible text of an HTML document. Scripts, styles and
// noscript blocks are dropped.
func HTMLText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()

	sel := doc.Find("body")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	return normalizeLines(sel.Text()), nil
}

// normalizeLines trims every line and drops blank ones.
func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
