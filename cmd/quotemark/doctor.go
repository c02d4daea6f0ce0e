package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quotemark/quotemark/internal/doctor"
	"github.com/quotemark/quotemark/internal/log"
	"github.com/quotemark/quotemark/internal/overlay"
	"github.com/quotemark/quotemark/internal/stream"
)

// NewDoctorCmd creates the doctor command. It diagnoses why stored marks
// do or do not resolve against a document, without changing anything.
func NewDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor [flags] <document.html>",
		Short: "Diagnose stored marks against a document without changing anything",
		Long: `Doctor checks every stored mark of a page against the document as it
stands and classifies each one: resolved, ambiguous, matching only after
Unicode normalization, matching only after whitespace collapsing, or
missing entirely. Nothing is modified; use reconcile to heal.`,
		Example: `  quotemark doctor page.html`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDoctor,
	}

	cmd.Flags().String("page-url", "", "page URL the marks are stored under (default: the file path)")
	cmd.Flags().StringP("config", "f", "", "path to a .quotemark configuration file")
	return cmd
}

func runDoctor(cmd *cobra.Command, args []string) error {
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

	descs, err := repo.Load(ctx, pageKey)
	if err != nil {
		return fmt.Errorf("failed to load marks: %w", err)
	}
	if len(descs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no marks stored for %s\n", pageKey)
		return nil
	}

	storedFP, err := repo.Fingerprint(ctx, pageKey)
	if err != nil {
		return fmt.Errorf("failed to load fingerprint: %w", err)
	}
	liveFP := stream.Build(doc, stream.Options{MarkerClass: overlay.MarkerClass}).Fingerprint()
	if storedFP != "" && storedFP != liveFP {
		fmt.Fprintln(cmd.OutOrStdout(), "document text changed since marks were last saved")
	}

	findings := doctor.Diagnose(doc, descs)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tID\tTEXT\tHINT")
	healthy := 0
	for _, f := range findings {
		if f.Status == doctor.StatusResolved {
			healthy++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			f.Status, f.Descriptor.ID, log.Clip(f.Descriptor.Text, 40), f.Hint)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d/%d marks resolve exactly\n", healthy, len(findings))
	return nil
}
