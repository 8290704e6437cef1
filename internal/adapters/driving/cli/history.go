package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List ingested pages",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output history as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if err := requireHistory(); err != nil {
		return err
	}

	records, err := historyService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if historyJSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		cmd.Println("No pages ingested yet.")
		return nil
	}

	for i := range records {
		r := &records[i]
		title := r.Title
		if title == "" {
			title = "(untitled)"
		}
		cmd.Printf("  %s\n", title)
		cmd.Printf("      %s\n", r.URL)
		cmd.Printf("      %d chunks, %s, %s\n", r.ChunksCount, r.Strategy, r.IndexedAt.Local().Format(time.DateTime))
	}
	return nil
}
