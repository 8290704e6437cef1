// Package httpapi serves pagesearch over a small JSON HTTP API.
//
// Endpoints:
//
//	GET  /api/health/  service status
//	POST /api/fetch/   ingest a page: {"url": "..."}
//	POST /api/search/  query indexed chunks: {"query": "...", "url": "..."}
//
// Additional handlers, such as the MCP streamable endpoint, can be mounted
// on the same mux with Mount.
package httpapi
