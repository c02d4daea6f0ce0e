package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quotemark/quotemark/internal/config"
)

//go:embed templates/quotemark.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new quotemark configuration file",
		Long: `Initialize creates a new .quotemark configuration file in the current
directory.

The generated file includes:
- The default marker color
- Commented examples for per-page overrides
- Documentation for all available options`,
		Example: `  # Create .quotemark in the current directory
  quotemark init

  # Create the config file at a specific path
  quotemark init -o myconfig.yaml

  # Force overwrite an existing file
  quotemark init -f`,
		RunE: runInit,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")
	return cmd
}

// runInit executes the init command.
func runInit(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/quotemark.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure per-page settings such as:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - The default marker color")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Per-page mark caps")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Pages to skip during batch reconciliation")
	return nil
}
