package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pagesearch/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the scoring strategy, embedding provider, vector index
and pipeline options. Settings are stored in config.toml inside the config
directory; API keys may also come from the environment or a .env file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Update a single setting",
	Long: `Update a single setting by its dotted key, for example:

  pagesearch settings set scoring.strategy keyword
  pagesearch settings set embedding.provider openai
  pagesearch settings set vector_index.backend qdrant

Run 'pagesearch settings keys' for the full list.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

// secretKeys are the settings that may be entered without echo.
var secretKeys = []string{"embedding.api_key", "vector_index.api_key"}

var settingsSecretCmd = &cobra.Command{
	Use:   "secret [key]",
	Short: "Set an API key without echoing it",
	Long: `Prompts for an API key and stores it without printing it to the terminal.
Valid keys: embedding.api_key, vector_index.api_key`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsSecret,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, key := range services.SettingKeys() {
			cmd.Println(key)
		}
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsSecretCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Scoring]")
	cmd.Printf("  Strategy: %s\n", settings.Scoring.Strategy.Description())
	cmd.Println()

	cmd.Println("[Embedding]")
	if settings.Scoring.Strategy.RequiresEmbedding() {
		cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
		cmd.Printf("  Model: %s\n", settings.Embedding.Model)
		if settings.Embedding.BaseURL != "" {
			cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
		}
		if settings.Embedding.Provider.RequiresAPIKey() {
			cmd.Printf("  API Key: %s\n", describeKey(settings.Embedding.APIKey))
		}
	} else {
		cmd.Println("  Not used by keyword scoring")
	}
	cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	cmd.Println()

	cmd.Println("[Vector Index]")
	cmd.Printf("  Backend: %s\n", settings.VectorIndex.Backend)
	cmd.Printf("  Collection: %s\n", settings.VectorIndex.Collection)
	if settings.VectorIndex.Path != "" {
		cmd.Printf("  Path: %s\n", settings.VectorIndex.Path)
	}
	if settings.VectorIndex.URL != "" {
		cmd.Printf("  URL: %s\n", settings.VectorIndex.URL)
	}
	if settings.VectorIndex.Backend.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", describeKey(settings.VectorIndex.APIKey))
		cmd.Printf("  Environment: %s\n", settings.VectorIndex.Environment)
	}
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Chunk size: %d\n", settings.Chunking.MaxTokens)
	encoding := settings.Chunking.Encoding
	if encoding == "" {
		encoding = "(words)"
	}
	cmd.Printf("  Encoding: %s\n", encoding)
	cmd.Printf("  Fetch timeout: %s\n", settings.Fetch.Timeout)
	cmd.Printf("  Top K: %d (fetch x%d, cap %d)\n",
		settings.Search.TopK, settings.Search.FetchMultiplier, settings.Search.FetchCap)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'pagesearch settings set <key> <value>' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func runSettingsSecret(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	if !slices.Contains(secretKeys, key) {
		return fmt.Errorf("%s is not a secret setting (valid: %s)", key, strings.Join(secretKeys, ", "))
	}

	cmd.Printf("Enter value for %s: ", key)
	value := readPassword(cmd.InOrStdin())
	cmd.Println()
	if value == "" {
		return errors.New("no value entered")
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s (%s)\n", key, maskAPIKey(value))
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	// Try to read password without echo
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func describeKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
