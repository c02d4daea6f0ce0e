package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/quotemark/quotemark/internal/config"
	"github.com/quotemark/quotemark/internal/reconciler"
)

// NewReconcileCmd creates the reconcile command. It re-anchors the stored
// marks of one or more documents against their current content.
func NewReconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile [flags] <document.html>...",
		Short: "Re-anchor stored marks against the documents' current content",
		Long: `Reconcile resolves every stored mark of each document against the
document as it stands today. Marks that still resolve are re-applied; marks
whose text has disappeared are dropped from storage. Documents are processed
concurrently, bounded by --batch.

By default the healed documents are printed to stdout. Pass --write to
rewrite each file in place.`,
		Example: `  quotemark reconcile page.html
  quotemark reconcile --write --batch 8 docs/*.html`,
		Args: cobra.MinimumNArgs(1),
		RunE: runReconcile,
	}

	cmd.Flags().String("page-url", "", "page URL the marks are stored under (single document only)")
	cmd.Flags().BoolP("write", "w", false, "rewrite the documents in place")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize, "number of documents reconciled concurrently")
	cmd.Flags().StringP("config", "f", "", "path to a .quotemark configuration file")
	return cmd
}

func runReconcile(cmd *cobra.Command, args []string) error {
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
	if pageURL != "" && len(args) > 1 {
		return fmt.Errorf("--page-url applies to a single document, got %d", len(args))
	}

	write, err := cmd.Flags().GetBool("write")
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

	rec := reconciler.New(repo,
		reconciler.WithLogger(logger),
		reconciler.WithPageCap(pageCapFor(cfg)),
	)

	// Stdout rendering must not interleave across goroutines.
	var outMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.BatchSize)
	results := make([]*reconciler.Result, len(args))

	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			doc, err := loadDocument(path)
			if err != nil {
				return err
			}

			pageKey, err := pageKeyFor(cmd, path)
			if err != nil {
				return err
			}
			if cfg.Pages != nil && cfg.Pages.PageConfig(pageKey).Disabled {
				logger.Debug("page disabled by config, skipping", "page_key", pageKey)
				return nil
			}

			res, err := rec.ReconcileOnLoad(gctx, pageKey, doc)
			if err != nil {
				return fmt.Errorf("failed to reconcile %s: %w", path, err)
			}
			results[i] = res

			if write {
				return writeDocument(doc, path, true, nil)
			}
			outMu.Lock()
			defer outMu.Unlock()
			return writeDocument(doc, path, false, cmd.OutOrStdout())
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, res := range results {
		if res == nil {
			continue
		}
		logger.Info("page reconciled",
			"document", args[i],
			"page_key", res.PageKey,
			"kept", len(res.Kept),
			"dropped", len(res.Dropped),
			"drifted", res.DocumentChanged,
		)
	}
	return nil
}
