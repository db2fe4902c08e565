package loader

import (
	"context"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"strings"

	"github.com/automind-ai/automind/rag"
)

// DirectoryLoader lists and reads files below a data directory.
type DirectoryLoader struct {
	dir      string
	metadata map[string]any
}

// Option configures a DirectoryLoader.
type Option func(*DirectoryLoader)

// WithMetadata adds metadata to every loaded document.
func WithMetadata(metadata map[string]any) Option {
	return func(l *DirectoryLoader) {
		maps.Copy(l.metadata, metadata)
	}
}

// NewDirectoryLoader creates a loader rooted at dir.
func NewDirectoryLoader(dir string, opts ...Option) *DirectoryLoader {
	l := &DirectoryLoader{
		dir:      dir,
		metadata: make(map[string]any),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the root directory.
func (l *DirectoryLoader) Dir() string {
	return l.dir
}

// ListFiles walks the directory and returns the paths of regular files whose
// name ends with one of extensions, compared case-insensitively. With no
// extensions every file is returned. Paths are in lexical order.
func (l *DirectoryLoader) ListFiles(extensions ...string) ([]string, error) {
	suffixes := make([]string, len(extensions))
	for i, ext := range extensions {
		suffixes[i] = strings.ToLower(ext)
	}

	var files []string
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if matches(strings.ToLower(d.Name()), suffixes) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files in %s: %w", l.dir, err)
	}
	return files, nil
}

func matches(name string, suffixes []string) bool {
	if len(suffixes) == 0 {
		return true
	}
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// LoadFile returns the text content of path. The extractor is chosen by
// extension: PDF, Markdown and HTML are converted to plain text, anything
// else is read as UTF-8.
func (l *DirectoryLoader) LoadFile(ctx context.Context, path string) (string, error) {
	extract := extractorFor(path)
	text, err := extract(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to load file %s: %w", path, err)
	}
	return text, nil
}

// LoadDocument loads path as a document whose ID and "source" are the path.
func (l *DirectoryLoader) LoadDocument(ctx context.Context, path string) (rag.Document, error) {
	text, err := l.LoadFile(ctx, path)
	if err != nil {
		return rag.Document{}, err
	}

	md := make(map[string]any, len(l.metadata)+2)
	maps.Copy(md, l.metadata)
	md["source"] = path
	md["type"] = formatOf(path)

	return rag.Document{
		ID:       path,
		Content:  text,
		Metadata: md,
	}, nil
}

// LoadAll loads every path, stopping at the first failure or when ctx is
// done.
func (l *DirectoryLoader) LoadAll(ctx context.Context, paths []string) ([]rag.Document, error) {
	docs := make([]rag.Document, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := l.LoadDocument(ctx, path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
