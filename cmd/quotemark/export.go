package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/quotemark/quotemark/internal/export"
	"github.com/quotemark/quotemark/internal/overlay"
	"github.com/quotemark/quotemark/internal/store"
	"github.com/quotemark/quotemark/internal/stream"
)

// NewExportCmd creates the export command. It renders a page's stored
// marks as a Markdown or JSON report.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [flags] [document.html]",
		Short: "Export a page's stored marks as a report",
		Long: `Export renders the marks stored for a page as a shareable report.

The page is named by a document argument or --page-url. When the document
file is given, its current text is fingerprinted so the report can flag
marks saved against an older version of the page.`,
		Example: `  quotemark export page.html
  quotemark export --page-url https://example.com/article --format json -o marks.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExport,
	}

	cmd.Flags().String("page-url", "", "page URL the marks are stored under")
	cmd.Flags().String("format", "markdown", "report format: markdown or json")
	cmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().StringP("config", "f", "", "path to a .quotemark configuration file")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := setupLogger(cmd)
	ctx := cmd.Context()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	pageURL, err := cmd.Flags().GetString("page-url")
	if err != nil {
		return err
	}
	if len(args) == 0 && pageURL == "" {
		return fmt.Errorf("a document argument or --page-url is required")
	}

	var pageKey string
	if pageURL != "" {
		pageKey, err = store.PageKey(pageURL)
		if err != nil {
			return err
		}
	} else {
		pageKey = store.FilePageKey(args[0])
	}

	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.Warn("failed to close database", "error", closeErr)
		}
	}()

	marks, err := repo.Load(ctx, pageKey)
	if err != nil {
		return fmt.Errorf("failed to load marks: %w", err)
	}

	drifted := false
	if len(args) == 1 {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		storedFP, err := repo.Fingerprint(ctx, pageKey)
		if err != nil {
			return fmt.Errorf("failed to load fingerprint: %w", err)
		}
		liveFP := stream.Build(doc, stream.Options{MarkerClass: overlay.MarkerClass}).Fingerprint()
		drifted = storedFP != "" && storedFP != liveFP
	}

	out := io.Writer(cmd.OutOrStdout())
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outputPath != "" {
		f, err := os.Create(outputPath) //nolint:gosec // User-chosen report destination
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				logger.Warn("failed to close report file", "error", closeErr)
			}
		}()
		out = f
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	var w export.Writer
	switch format {
	case "markdown", "md":
		w = export.NewMarkdownWriter(out)
	case "json":
		w = export.NewJSONWriter(out, export.WithPrettyPrint())
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}

	report := export.NewPageReport(pageKey, marks, drifted)
	if _, err := w.Write(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
