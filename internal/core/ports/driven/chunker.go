package driven

import "context"

// Chunker splits prose into ordered, bounded-size passages.
type Chunker interface {
	// Chunk returns non-empty passages of at most maxSize units in document
	// order. Empty text yields an empty slice. It never fails: strategy
	// failures fall back internally.
	Chunk(ctx context.Context, text string, maxSize int) []string
}

// Tokenizer converts text to and from model token ids.
// It drives token-unit chunking when available.
type Tokenizer interface {
	// Encode converts text to token ids without special tokens.
	Encode(text string) ([]int, error)

	// Decode converts token ids back to text.
	Decode(tokens []int) (string, error)

	// Name returns the encoding name.
	Name() string
}
