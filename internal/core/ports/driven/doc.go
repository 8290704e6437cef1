// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Fetcher: Retrieves page markup over HTTP
//   - Normaliser: Reduces markup to title and prose
//   - Chunker: Splits prose into bounded passages
//   - VectorIndex: Stores chunk records and answers similarity queries
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Only required by the hybrid strategy.
//   - Tokenizer: Drives token-unit chunking. Without it, chunking counts words.
//   - IngestionStore: Ledger of ingested URLs. Without it, history is unavailable.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
