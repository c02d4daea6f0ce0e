package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quotemark/quotemark/internal/engine"
)

// NewClearCmd creates the clear command. It removes every mark from a
// document and deletes the page's stored marks.
func NewClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear [flags] <document.html>",
		Short: "Remove all marks from an HTML document",
		Long: `Clear unwraps every mark in an HTML document and deletes the page's
stored marks. The document text is preserved exactly; only the marker
elements are removed.`,
		Example: `  quotemark clear --write page.html`,
		Args:    cobra.ExactArgs(1),
		RunE:    runClear,
	}

	cmd.Flags().String("page-url", "", "page URL the marks are stored under (default: the file path)")
	cmd.Flags().BoolP("write", "w", false, "rewrite the document in place")
	cmd.Flags().StringP("config", "f", "", "path to a .quotemark configuration file")
	return cmd
}

func runClear(cmd *cobra.Command, args []string) error {
	logger := setupLogger(cmd)
	ctx := cmd.Context()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	pageKey, err := pageKeyFor(cmd, path)
	if err != nil {
		return err
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

	eng := engine.New(repo, engine.WithLogger(logger))
	res := eng.ClearAll(ctx, pageKey, doc)
	if !res.OK {
		if res.Err != nil {
			return fmt.Errorf("clear failed (%s): %w", res.Reason, res.Err)
		}
		return fmt.Errorf("clear failed: %s", res.Reason)
	}
	logger.Info("page cleared", "page", pageKey, "removed", res.Removed)

	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}
	return writeDocument(doc, path, write, cmd.OutOrStdout())
}
