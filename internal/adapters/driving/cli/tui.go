package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagesearch/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for pagesearch.

The TUI lets you ingest pages, browse what has been indexed and search
chunks with keyboard navigation.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Search / Select / Expand a result
  n        - New search
  x        - Search all pages again
  Esc      - Back
  q        - Quit (from the menu)`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := newTUIApp(cmd)
	if err != nil {
		return err
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// newTUIApp builds the TUI over the shared pipeline services.
func newTUIApp(cmd *cobra.Command) (*tui.App, error) {
	if err := requirePipeline(); err != nil {
		return nil, err
	}
	if err := requireHistory(); err != nil {
		return nil, err
	}

	app, err := tui.NewApp(tui.NewPorts(searchService, ingestService, historyService))
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}

	topK := 0
	if settings, err := settingsService.Get(); err == nil {
		topK = settings.Search.TopK
	}
	return app.WithContext(cmd.Context()).WithTopK(topK), nil
}
