package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/quotemark/quotemark/internal/log"
	"github.com/quotemark/quotemark/internal/store"
)

// NewListCmd creates the list command. Without arguments it lists every
// page key with stored marks; with a page argument it lists that page's
// marks.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [flags] [document.html]",
		Short: "List stored pages or the marks of one page",
		Long: `List shows what the mark database holds.

Without arguments every page key with stored marks is printed. With a
document argument (or --page-url) the marks stored for that page are
printed, oldest first.`,
		Example: `  quotemark list
  quotemark list page.html
  quotemark list --page-url https://example.com/article`,
		Args: cobra.MaximumNArgs(1),
		RunE: runList,
	}

	cmd.Flags().String("page-url", "", "page URL to list marks for")
	cmd.Flags().StringP("config", "f", "", "path to a .quotemark configuration file")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	logger := setupLogger(cmd)
	ctx := cmd.Context()

	cfg, err := buildConfig(cmd)
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

	pageURL, err := cmd.Flags().GetString("page-url")
	if err != nil {
		return err
	}

	if len(args) == 0 && pageURL == "" {
		keys, err := repo.PageKeys(ctx)
		if err != nil {
			return fmt.Errorf("failed to list pages: %w", err)
		}
		if len(keys) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no marks stored")
			return nil
		}
		for _, key := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		return nil
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

	descs, err := repo.Load(ctx, pageKey)
	if err != nil {
		return fmt.Errorf("failed to load marks: %w", err)
	}
	if len(descs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no marks stored for %s\n", pageKey)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOLOR\tCREATED\tTEXT")
	for _, d := range descs {
		created := time.UnixMilli(d.CreatedAt).UTC().Format(time.RFC3339)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.Color, created, log.Clip(d.Text, 60))
	}
	return w.Flush()
}
