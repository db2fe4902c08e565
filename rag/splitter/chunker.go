package splitter

import (
	"fmt"
	"iter"
)

// CharacterChunker cuts text into windows of Size runes. Consecutive windows
// share Overlap runes, and the last window ends exactly at the end of the
// text.
type CharacterChunker struct {
	Size    int
	Overlap int
}

// NewCharacterChunker returns a chunker, rejecting settings that would not
// advance through the text.
func NewCharacterChunker(size, overlap int) (*CharacterChunker, error) {
	c := &CharacterChunker{Size: size, Overlap: overlap}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CharacterChunker) validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.Size)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return fmt.Errorf("chunk overlap must be in [0, %d), got %d", c.Size, c.Overlap)
	}
	return nil
}

// Chunk lazily yields the windows of text. Invalid settings yield nothing.
func (c *CharacterChunker) Chunk(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if c.validate() != nil {
			return
		}
		runes := []rune(text)
		n := len(runes)
		for start := 0; start < n; {
			end := min(start+c.Size, n)
			if !yield(string(runes[start:end])) {
				return
			}
			if end == n {
				return
			}
			start = end - c.Overlap
		}
	}
}

// Split collects every window of text.
func (c *CharacterChunker) Split(text string) ([]string, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	var chunks []string
	for chunk := range c.Chunk(text) {
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
