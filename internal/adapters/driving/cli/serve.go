package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagesearch/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/pagesearch/internal/adapters/driving/mcp"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON HTTP API together with the MCP streamable endpoint.

Endpoints:
  GET  /api/health/
  POST /api/fetch/   {"url": "https://example.com"}
  POST /api/search/  {"query": "...", "url": "https://example.com"}
  /mcp               Model Context Protocol over HTTP`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "HTTP port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}
	if pipeline != nil {
		if err := pipeline.Ping(cmd.Context()); err != nil {
			logger.Warn("%v", err)
		}
	}

	api, err := httpapi.NewServer(searchService, ingestService)
	if err != nil {
		return err
	}

	mcpServer, err := mcp.NewServer(&mcp.Ports{
		Search:  searchService,
		Ingest:  ingestService,
		History: historyService,
	})
	if err != nil {
		return err
	}
	api.Mount("/mcp", mcpServer.Handler())

	addr := fmt.Sprintf(":%d", servePort)
	fmt.Fprintf(cmd.OutOrStdout(), "pagesearch listening on http://localhost%s\n", addr)
	return api.Run(cmd.Context(), addr)
}
