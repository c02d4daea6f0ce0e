package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quotemark/quotemark/internal/engine"
)

// NewMarkCmd creates the mark command. It toggles a mark over the given
// selection: a selection fully covered by existing marks unmarks, anything
// else marks.
func NewMarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark [flags] <document.html>",
		Short: "Toggle a mark over a text selection in an HTML document",
		Long: `Mark toggles a mark over a text selection in an HTML document.

The selection is located by its text, optionally disambiguated by the
--prefix and --suffix context windows. A selection fully covered by existing
marks is unmarked instead; touched markers are always removed whole.

By default the rewritten document is printed to stdout. Pass --write to
rewrite the file in place.`,
		Example: `  quotemark mark --text "the quick brown fox" page.html
  quotemark mark --text "fox" --prefix "brown " --suffix " jumps" --color "#ffcc00" --write page.html`,
		Args: cobra.ExactArgs(1),
		RunE: runMark,
	}

	cmd.Flags().StringP("text", "t", "", "selected text to mark (required)")
	cmd.Flags().String("prefix", "", "text immediately before the selection")
	cmd.Flags().String("suffix", "", "text immediately after the selection")
	cmd.Flags().StringP("color", "c", "", "marker color, #RGB or #RRGGBB (default: last used)")
	cmd.Flags().String("page-url", "", "page URL to store marks under (default: the file path)")
	cmd.Flags().BoolP("write", "w", false, "rewrite the document in place")
	cmd.Flags().StringP("config", "f", "", "path to a .quotemark configuration file")

	if err := cmd.MarkFlagRequired("text"); err != nil {
		panic(err)
	}
	return cmd
}

func runMark(cmd *cobra.Command, args []string) error {
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

	text, err := cmd.Flags().GetString("text")
	if err != nil {
		return err
	}
	prefix, err := cmd.Flags().GetString("prefix")
	if err != nil {
		return err
	}
	suffix, err := cmd.Flags().GetString("suffix")
	if err != nil {
		return err
	}
	color, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	if color == "" {
		color = defaultColor(cmd, cfg, pageKey, repo)
	}

	eng := engine.New(repo, engine.WithLogger(logger), engine.WithPageCap(pageCapFor(cfg)))

	// Heal stale marks before operating so the selection resolves against
	// the document as it stands.
	if _, err := eng.Reconciler().ReconcileOnLoad(ctx, pageKey, doc); err != nil {
		return fmt.Errorf("failed to reconcile page: %w", err)
	}

	sel := &engine.Selection{Text: text, Prefix: prefix, Suffix: suffix}
	res := eng.ApplyMark(ctx, pageKey, doc, sel, color)
	if !res.OK {
		if res.Err != nil {
			return fmt.Errorf("mark failed (%s): %w", res.Reason, res.Err)
		}
		return fmt.Errorf("mark failed: %s", res.Reason)
	}

	switch res.Action {
	case engine.ActionUnmarked:
		logger.Info("selection unmarked", "page", pageKey, "removed", res.Removed)
	default:
		logger.Info("selection marked", "page", pageKey, "id", res.MarkID, "color", color)
	}

	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}
	return writeDocument(doc, path, write, cmd.OutOrStdout())
}
