// Package tiktoken provides a BPE tokenizer adapter backed by tiktoken-go.
//
// Encodings are resolved lazily on first use. tiktoken-go downloads the
// rank file for an encoding the first time it is requested, so loading can
// fail offline; the failure is remembered and returned from every later call
// so the chunker falls back to word windows without retrying.
package tiktoken

import (
	"fmt"
	"sync"

	tk "github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
)

// Ensure Tokenizer implements the interface.
var _ driven.Tokenizer = (*Tokenizer)(nil)

// DefaultEncoding is the encoding used when none is configured.
const DefaultEncoding = "cl100k_base"

// loader resolves an encoding name. Replaced in tests.
type loader func(name string) (*tk.Tiktoken, error)

// Tokenizer encodes text with a named tiktoken encoding.
type Tokenizer struct {
	name string
	load loader

	once sync.Once
	enc  *tk.Tiktoken
	err  error
}

// New creates a tokenizer for the named encoding.
func New(encoding string) *Tokenizer {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &Tokenizer{name: encoding, load: tk.GetEncoding}
}

// Name returns the encoding name.
func (t *Tokenizer) Name() string {
	return t.name
}

func (t *Tokenizer) encoding() (*tk.Tiktoken, error) {
	t.once.Do(func() {
		t.enc, t.err = t.load(t.name)
		if t.err != nil {
			t.err = fmt.Errorf("tiktoken: load %s: %w", t.name, t.err)
		}
	})
	return t.enc, t.err
}

// Encode converts text to token ids. Special tokens are treated as text.
func (t *Tokenizer) Encode(text string) ([]int, error) {
	enc, err := t.encoding()
	if err != nil {
		return nil, err
	}
	return enc.Encode(text, nil, nil), nil
}

// Decode converts token ids back to text.
func (t *Tokenizer) Decode(tokens []int) (string, error) {
	enc, err := t.encoding()
	if err != nil {
		return "", err
	}
	return enc.Decode(tokens), nil
}
