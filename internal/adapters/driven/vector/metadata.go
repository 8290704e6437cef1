// Package vector holds helpers shared by the vector index adapters.
// Backends live in the chromem, qdrant and pinecone subpackages.
package vector

import (
	"strconv"
	"strings"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
)

// KeywordSeparator joins keyword lists for backends with string-only metadata.
const KeywordSeparator = ","

// ToMatch decodes record metadata into a VectorMatch.
// chunk_index may arrive as an int, a JSON number or a string.
func ToMatch(id string, score float64, meta map[string]any) driven.VectorMatch {
	m := driven.VectorMatch{ID: id, Score: score}
	if v, ok := meta[domain.MetaURL].(string); ok {
		m.URL = v
	}
	if v, ok := meta[domain.MetaChunkText].(string); ok {
		m.ChunkText = v
	}
	switch v := meta[domain.MetaChunkIndex].(type) {
	case int:
		m.ChunkIndex = v
	case int64:
		m.ChunkIndex = int(v)
	case float64:
		m.ChunkIndex = int(v)
	case string:
		m.ChunkIndex, _ = strconv.Atoi(v)
	}
	return m
}

// StringMetadata flattens record metadata to strings.
func StringMetadata(meta map[string]any) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		switch val := v.(type) {
		case string:
			out[k] = val
		case int:
			out[k] = strconv.Itoa(val)
		case []string:
			out[k] = strings.Join(val, KeywordSeparator)
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		}
	}
	return out
}

// AnyMetadata widens string metadata for ToMatch.
func AnyMetadata(meta map[string]string) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
