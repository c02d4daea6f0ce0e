package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/quotemark/quotemark/internal/config"
	"github.com/quotemark/quotemark/internal/log"
	"github.com/quotemark/quotemark/internal/store"
)

// loadDocument parses the HTML file at path into a document tree.
func loadDocument(path string) (*html.Node, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided document path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

// writeDocument renders doc back to its file when write is set, otherwise
// to out.
func writeDocument(doc *html.Node, path string, write bool, out io.Writer) error {
	if !write {
		if err := html.Render(out, doc); err != nil {
			return fmt.Errorf("failed to render document: %w", err)
		}
		_, err := fmt.Fprintln(out)
		return err
	}

	f, err := os.Create(path) //nolint:gosec // Rewriting the user's own document is intentional
	if err != nil {
		return fmt.Errorf("failed to rewrite document: %w", err)
	}
	if err := html.Render(f, doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to render document: %w", err)
	}
	return f.Close()
}

// pageKeyFor derives the storage key for a document: the --page-url flag
// when given, else the document's file path.
func pageKeyFor(cmd *cobra.Command, path string) (string, error) {
	pageURL, err := cmd.Flags().GetString("page-url")
	if err != nil {
		return "", err
	}
	if pageURL != "" {
		return store.PageKey(pageURL)
	}
	return store.FilePageKey(path), nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger configures the default logger for one invocation.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)
	return logger
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.New()
	cfg.Verbose = getVerboseFlag(cmd)

	dbDir, err := cmd.Root().PersistentFlags().GetString("db")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	if f := cmd.Flags().Lookup("batch"); f != nil {
		cfg.BatchSize, err = cmd.Flags().GetInt("batch")
		if err != nil {
			return nil, err
		}
	}

	var explicitPath string
	if f := cmd.Flags().Lookup("config"); f != nil {
		explicitPath, err = cmd.Flags().GetString("config")
		if err != nil {
			return nil, err
		}
		cfg.ConfigFilePath = explicitPath
	}

	configPath := config.FindConfigFile(explicitPath)
	if configPath != "" {
		cfg.Pages, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", explicitPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// openRepository opens the mark database per the configuration.
func openRepository(cfg *config.Config) (*store.DB, error) {
	return store.Open(cfg.DBDir, store.DefaultOptions())
}

// pageCapFor derives the per-page mark cap lookup from the config file.
// Zero means the global store cap only.
func pageCapFor(cfg *config.Config) func(pageKey string) int {
	return func(pageKey string) int {
		if cfg.Pages == nil {
			return 0
		}
		return cfg.Pages.PageConfig(pageKey).MaxMarks
	}
}

// defaultColor picks the marker color when the user gives none: a per-page
// override from the config file wins, then the last color actually used,
// then the configured default.
func defaultColor(cmd *cobra.Command, cfg *config.Config, pageKey string, repo store.Repository) string {
	if c := cfg.ColorFor(pageKey); c != "" {
		return c
	}
	prefs, err := repo.LoadPreferences(cmd.Context())
	if err == nil && prefs.LastColor != "" {
		return prefs.LastColor
	}
	return cfg.DefaultColor
}
