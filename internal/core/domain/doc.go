// Package domain defines the core business entities for pagesearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A fetched page reduced to clean text
//   - Chunk: A bounded passage of a document
//   - IndexRecord: A chunk as stored in the vector index
//   - ScoredCandidate / SearchResult: Reranked retrieval output
//   - AppSettings: Scoring, embedding, index and pipeline configuration
//
// It also owns the error taxonomy shared by every layer: FetchError,
// ExtractionError, ConfigurationError, EmbeddingError and IndexError.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
