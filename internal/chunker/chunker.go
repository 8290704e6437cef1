// Package chunker splits extracted page text into ordered, bounded-size
// passages.
//
// Two unit strategies exist. When a tokenizer is configured, text is encoded
// once and sliced into non-overlapping token windows. Otherwise, or whenever
// tokenization fails, text is split on whitespace and sliced into word
// windows. Chunking never fails.
package chunker

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// DefaultChunkSize is the default number of units per chunk.
const DefaultChunkSize = domain.DefaultMaxTokens

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// Chunker splits text into fixed-size windows.
type Chunker struct {
	tokenizer driven.Tokenizer
	chunkSize int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithTokenizer enables the token-unit strategy.
func WithTokenizer(t driven.Tokenizer) Option {
	return func(c *Chunker) {
		c.tokenizer = t
	}
}

// WithChunkSize sets the size used when Chunk is called with maxSize <= 0.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chunk splits text into windows of at most maxSize units.
func (c *Chunker) Chunk(_ context.Context, text string, maxSize int) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	if maxSize <= 0 {
		maxSize = c.chunkSize
	}

	if c.tokenizer != nil {
		chunks, err := c.byTokens(text, maxSize)
		if err == nil {
			logger.Debug("Created %d chunks using %s tokens", len(chunks), c.tokenizer.Name())
			return chunks
		}
		logger.Warn("Tokenization failed: %v, falling back to word-based chunking", err)
	}

	chunks := ByWords(text, maxSize)
	logger.Debug("Created %d chunks using words", len(chunks))
	return chunks
}

// byTokens slices the token sequence of text into windows of size tokens.
// A panicking tokenizer is reported as an error.
func (c *Chunker) byTokens(text string, size int) (chunks []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			chunks, err = nil, fmt.Errorf("tokenizer panic: %v", r)
		}
	}()

	tokens, err := c.tokenizer.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	chunks = make([]string, 0, len(tokens)/size+1)
	for start := 0; start < len(tokens); {
		decoded, end, err := c.decodeWindow(tokens, start, size)
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		if s := strings.TrimSpace(decoded); s != "" {
			chunks = append(chunks, s)
		}
		start = end
	}
	return chunks, nil
}

// decodeWindow decodes the window of up to size tokens at start and returns
// the end it settled on. Byte-level encodings can split one character over
// several tokens, so the window is moved to the nearest end that decodes to
// whole runes: first by giving tokens back to the next window, then, when a
// single character is wider than the window, by growing past size.
func (c *Chunker) decodeWindow(tokens []int, start, size int) (string, int, error) {
	end := min(start+size, len(tokens))
	for e := end; e > start && end-e <= utf8.UTFMax; e-- {
		decoded, err := c.tokenizer.Decode(tokens[start:e])
		if err != nil {
			return "", 0, err
		}
		if e == len(tokens) || utf8.ValidString(decoded) {
			return decoded, e, nil
		}
	}
	for e := end + 1; e <= len(tokens) && e-end <= utf8.UTFMax; e++ {
		decoded, err := c.tokenizer.Decode(tokens[start:e])
		if err != nil {
			return "", 0, err
		}
		if e == len(tokens) || utf8.ValidString(decoded) {
			return decoded, e, nil
		}
	}

	// Invalid input bytes; keep the plain window.
	decoded, err := c.tokenizer.Decode(tokens[start:end])
	return decoded, end, err
}

// ByWords splits text on whitespace and joins windows of size words with
// single spaces.
func ByWords(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	words := strings.Fields(text)
	chunks := make([]string, 0, len(words)/size+1)
	for start := 0; start < len(words); start += size {
		end := min(start+size, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
