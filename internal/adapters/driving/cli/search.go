package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// snippetLength is the number of characters of chunk text shown per result.
const snippetLength = 200

var (
	searchLimit int
	searchURL   string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed page chunks",
	Long: `Retrieves the closest chunks from the vector index and reranks them.
With the hybrid strategy, semantic similarity is blended with keyword
overlap; with the keyword strategy, keyword overlap alone decides the order.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultTopK, "maximum number of results")
	searchCmd.Flags().StringVar(&searchURL, "url", "", "only search chunks of this page")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if err := requirePipeline(); err != nil {
		return err
	}

	opts := domain.SearchOptions{
		URL:  searchURL,
		TopK: searchLimit,
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, query, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, query string, results []domain.SearchResult) error {
	if results == nil {
		results = []domain.SearchResult{}
	}
	payload := struct {
		Query   string                `json:"query"`
		Results []domain.SearchResult `json:"results"`
		Count   int                   `json:"count"`
	}{Query: query, Results: results, Count: len(results)}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]
		// Format: [N] URL #chunk (score)
		cmd.Printf("  [%d] %s #%d (%.2f)\n", i+1, r.URL, r.ChunkIndex, r.RelevanceScore)
		cmd.Printf("      %s\n", r.ScoreReason)
		if snippet := domain.TruncateRunes(r.ChunkText, snippetLength); snippet != "" {
			if len(snippet) < len(r.ChunkText) {
				snippet += "..."
			}
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}

	return nil
}
