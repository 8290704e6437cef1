package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// defaultIngestConcurrency bounds parallel page ingestion.
const defaultIngestConcurrency = 4

var (
	ingestJSON        bool
	ingestConcurrency int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [url...]",
	Short: "Fetch web pages and index their chunks",
	Long: `Fetches each page, extracts its readable text, splits it into chunks and
writes them to the vector index. Ingesting a URL again replaces its chunks.

Several URLs are ingested in parallel; a failure on one page does not stop
the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output result as JSON")
	ingestCmd.Flags().IntVarP(&ingestConcurrency, "concurrency", "c", defaultIngestConcurrency,
		"number of pages ingested at once")
	rootCmd.AddCommand(ingestCmd)
}

// ingestOutcome is the result of one URL, kept in argument order.
type ingestOutcome struct {
	result *domain.IngestResult
	err    error
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	outcomes := make([]ingestOutcome, len(args))

	var g errgroup.Group
	g.SetLimit(max(ingestConcurrency, 1))
	for i, url := range args {
		g.Go(func() error {
			result, err := ingestService.Ingest(cmd.Context(), url)
			outcomes[i] = ingestOutcome{result: result, err: err}
			// Failures are reported per URL so the rest keep going.
			return nil
		})
	}
	_ = g.Wait()

	if len(args) == 1 {
		if err := outcomes[0].err; err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
	}

	var failed []error
	results := make([]*domain.IngestResult, 0, len(args))
	for i, o := range outcomes {
		if o.err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", args[i], o.err))
			continue
		}
		results = append(results, o.result)
	}

	if ingestJSON {
		var payload any = results
		if len(args) == 1 {
			payload = results[0]
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
	} else {
		for _, r := range results {
			cmd.Printf("%s from %s\n", r.Message, r.URL)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("ingest failed for %d of %d pages: %w", len(failed), len(args), errors.Join(failed...))
	}
	return nil
}
