package domain

import (
	"crypto/sha1" //nolint:gosec // Non-cryptographic use: stable record ids.
	"encoding/binary"
	"math"
	"strconv"
	"time"
)

// MaxStoredChunkText is the number of runes of chunk text kept in index metadata.
const MaxStoredChunkText = 5000

// RawDocument is page markup as returned by the fetcher.
// It is discarded once text has been extracted.
type RawDocument struct {
	// URL is the address the markup was fetched from.
	URL string

	// MIMEType is the response content type (e.g., "text/html").
	MIMEType string

	// Content is the raw response body.
	Content []byte
}

// Document is a web page after text extraction.
// It only lives for the duration of an ingestion request.
type Document struct {
	// URL is the source address and the unique key of the document.
	URL string

	// Title is the page title, if the markup declared one.
	Title string

	// Text is the cleaned prose extracted from the markup.
	Text string
}

// Chunk is a bounded passage of a document's text.
type Chunk struct {
	// URL links the chunk to its Document.
	URL string

	// Index is the 0-based position of the chunk within the document.
	Index int

	// Text is the passage content.
	Text string

	// Embedding is the unit vector for the passage.
	// Only populated under the hybrid scoring strategy.
	Embedding []float32

	// Keywords is a bounded set of frequent non-stopword terms.
	// Only populated under the keyword-only scoring strategy.
	Keywords []string
}

// Record returns the index representation of the chunk.
func (c Chunk) Record() IndexRecord {
	meta := map[string]any{
		MetaURL:        c.URL,
		MetaChunkIndex: c.Index,
		MetaChunkText:  TruncateRunes(c.Text, MaxStoredChunkText),
	}
	if len(c.Keywords) > 0 {
		meta[MetaKeywords] = c.Keywords
	}
	return IndexRecord{
		ID:       RecordID(c.URL, c.Index),
		Vector:   c.Embedding,
		Metadata: meta,
	}
}

// Metadata keys written with every IndexRecord.
const (
	MetaURL        = "url"
	MetaChunkIndex = "chunk_index"
	MetaChunkText  = "chunk_text"
	MetaKeywords   = "keywords"
)

// IndexRecord is a chunk as stored in the vector index.
type IndexRecord struct {
	// ID is URLHash(url) + "_" + chunk index.
	ID string

	// Vector is the chunk embedding or the keyword placeholder vector.
	Vector []float32

	// Metadata holds url, chunk_index, chunk_text and optional keywords.
	Metadata map[string]any
}

// URLHash returns a stable 8-digit identifier for a URL.
func URLHash(url string) string {
	sum := sha1.Sum([]byte(url)) //nolint:gosec // See import.
	n := binary.BigEndian.Uint64(sum[:8]) % 100_000_000
	return strconv.FormatUint(n, 10)
}

// RecordID builds the index id for the chunk at index of url.
func RecordID(url string, index int) string {
	return URLHash(url) + "_" + strconv.Itoa(index)
}

// PlaceholderVector returns the fixed unit vector stored with records that
// carry no embedding. All components are equal, so every record is equally
// similar to it.
func PlaceholderVector(dim int) []float32 {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	v := make([]float32, dim)
	c := float32(1 / math.Sqrt(float64(dim)))
	for i := range v {
		v[i] = c
	}
	return v
}

// TruncateRunes shortens s to at most n runes.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// IngestResult reports the outcome of ingesting one URL.
type IngestResult struct {
	URL         string `json:"url"`
	ChunksCount int    `json:"chunks_count"`
	Indexed     bool   `json:"indexed"`
	Message     string `json:"message"`
}

// IngestionRecord is a ledger entry for a URL that was indexed successfully.
type IngestionRecord struct {
	// URL is the ingested address (unique).
	URL string `json:"url"`

	// Title is the page title at ingestion time.
	Title string `json:"title,omitempty"`

	// ChunksCount is the number of chunks written to the index.
	ChunksCount int `json:"chunks_count"`

	// Strategy is the scoring strategy the chunks were prepared for.
	Strategy ScoringStrategy `json:"strategy"`

	// IndexedAt is when the ingestion finished.
	IndexedAt time.Time `json:"indexed_at"`
}
