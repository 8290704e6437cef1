// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - IngestService: fetch, extract, chunk, embed and upsert a page
//   - SearchService: over-fetch, rerank and reduce candidate chunks
//   - HistoryService: read the ingestion ledger
//   - SettingsService: typed view over the config store
//
// Services are pure Go with no CGO or external dependencies.
package services
