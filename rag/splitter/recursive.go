package splitter

import (
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"
)

// RecursiveSplitter splits on paragraph, line and word boundaries before
// falling back to characters, using langchaingo's recursive splitter.
type RecursiveSplitter struct {
	splitter textsplitter.RecursiveCharacter
}

// NewRecursiveSplitter creates a splitter producing chunks of at most size
// runes with the given overlap. Extra separators replace the defaults.
func NewRecursiveSplitter(size, overlap int, separators ...string) (*RecursiveSplitter, error) {
	if err := (&CharacterChunker{Size: size, Overlap: overlap}).validate(); err != nil {
		return nil, err
	}

	opts := []textsplitter.Option{
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(overlap),
	}
	if len(separators) > 0 {
		opts = append(opts, textsplitter.WithSeparators(separators))
	}

	return &RecursiveSplitter{splitter: textsplitter.NewRecursiveCharacter(opts...)}, nil
}

// Split splits text into chunks.
func (s *RecursiveSplitter) Split(text string) ([]string, error) {
	chunks, err := s.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("recursive split: %w", err)
	}
	return chunks, nil
}
