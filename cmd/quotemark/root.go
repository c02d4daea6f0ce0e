package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for quotemark.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotemark",
		Short: "Durable text marks for HTML documents",
		Long: `quotemark marks passages of text in HTML documents and keeps those marks
anchored across document changes.

Each mark stores the exact quoted text plus a small window of surrounding
context. On reload the text is re-located in the current document; anchors
that no longer resolve are pruned automatically, so storage always reflects
what is actually on the page.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("db", "", "Database directory (default: XDG data directory)")

	// Add subcommands
	cmd.AddCommand(NewMarkCmd())
	cmd.AddCommand(NewClearCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewReconcileCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewDoctorCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
