package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.txt"), "plain notes")
	writeFile(t, filepath.Join(dir, "guide.md"), "# Guide\n\nUse **goroutines** &amp; channels.\n")
	writeFile(t, filepath.Join(dir, "nested", "page.HTML"), `<html><head><style>p{}</style></head>
<body><h1>Title</h1><script>alert(1)</script><p>Body text</p></body></html>`)
	writeFile(t, filepath.Join(dir, "nested", "deeper", "report.pdf"), "not really a pdf")
	return dir
}

func TestListFiles(t *testing.T) {
	dir := newDataDir(t)
	l := NewDirectoryLoader(dir)
	assert.Equal(t, dir, l.Dir())

	all, err := l.ListFiles()
	require.NoError(t, err)
	assert.Len(t, all, 4)

	pdfs, err := l.ListFiles(".pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "nested", "deeper", "report.pdf")}, pdfs)

	docs, err := l.ListFiles(".md", ".html")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "guide.md"),
		filepath.Join(dir, "nested", "page.HTML"),
	}, docs)

	none, err := l.ListFiles(".docx")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListFiles_MissingDirectory(t *testing.T) {
	_, err := NewDirectoryLoader(filepath.Join(t.TempDir(), "missing")).ListFiles()
	assert.ErrorContains(t, err, "failed to list files")
}

func TestLoadFile_Formats(t *testing.T) {
	ctx := context.Background()
	dir := newDataDir(t)
	l := NewDirectoryLoader(dir)

	text, err := l.LoadFile(ctx, filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "plain notes", text)

	md, err := l.LoadFile(ctx, filepath.Join(dir, "guide.md"))
	require.NoError(t, err)
	assert.Equal(t, "Guide\nUse goroutines & channels.", md)

	page, err := l.LoadFile(ctx, filepath.Join(dir, "nested", "page.HTML"))
	require.NoError(t, err)
	assert.Contains(t, page, "Title")
	assert.Contains(t, page, "Body text")
	assert.NotContains(t, page, "alert")
	assert.NotContains(t, page, "p{}")
}

func TestLoadFile_Errors(t *testing.T) {
	ctx := context.Background()
	dir := newDataDir(t)
	l := NewDirectoryLoader(dir)

	_, err := l.LoadFile(ctx, filepath.Join(dir, "nested", "deeper", "report.pdf"))
	assert.ErrorContains(t, err, "failed to load file")

	_, err = l.LoadFile(ctx, filepath.Join(dir, "absent.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAll(t *testing.T) {
	ctx := context.Background()
	dir := newDataDir(t)
	l := NewDirectoryLoader(dir, WithMetadata(map[string]any{"collection": "docs"}))

	paths, err := l.ListFiles(".txt", ".md")
	require.NoError(t, err)

	docs, err := l.LoadAll(ctx, paths)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, paths[0], docs[0].ID)
	assert.Equal(t, paths[0], docs[0].Source())
	assert.Equal(t, "markdown", docs[0].Metadata["type"])
	assert.Equal(t, "docs", docs[1].Metadata["collection"])
	assert.Equal(t, "text", docs[1].Metadata["type"])

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = l.LoadAll(cancelled, paths)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTMLText(t *testing.T) {
	text, err := HTMLText(strings.NewReader(`<div>
		<p>  first  </p>
		<noscript>enable js</noscript>
		<p>second</p>
	</div>`))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", text)
}

func TestMarkdownText(t *testing.T) {
	out := MarkdownText([]byte("- one\n- two\n\n`code` and [link](https://go.dev)"))
	assert.Equal(t, "one\ntwo\ncode and link", out)
}
