package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/quotemark/quotemark/internal/anchor"
	"github.com/quotemark/quotemark/internal/store"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "quotemark"

	// DefaultBatchSize is the number of documents reconciled concurrently
	// by the reconcile command. Reconciliation is CPU- and disk-light, but
	// each document holds its full parsed tree in memory, so a small bound
	// keeps peak memory predictable on large batches.
	DefaultBatchSize = 4

	// DefaultMaxMarks mirrors the store's per-page descriptor cap.
	DefaultMaxMarks = store.MaxMarksPerPage
)

// Config holds all options for one invocation.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit.
type Config struct {
	// DBDir is the directory holding the mark database.
	DBDir string

	// DefaultColor is the marker color used when the caller supplies none
	// and no preference is recorded.
	DefaultColor string

	// BatchSize is the number of documents reconciled concurrently.
	BatchSize int

	// Verbose enables debug-level log output.
	Verbose bool

	// ConfigFilePath is the explicit path to the configuration file.
	// Empty means search the current directory, then the home directory.
	ConfigFilePath string

	// Pages holds per-page overrides loaded from the config file.
	Pages *File
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		DBDir:        DefaultDBDir(),
		DefaultColor: anchor.DefaultColor,
		BatchSize:    DefaultBatchSize,
	}
}

// DefaultDBDir returns the XDG data directory for the mark database.
func DefaultDBDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.DBDir == "" {
		return ErrNoDBDir
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if !anchor.ValidColor(c.DefaultColor) {
		return ErrInvalidDefaultColor
	}
	return nil
}

// ColorFor returns the color configured for a page key in the config file.
// It returns an empty string when the page has no override, so the caller
// can fall through to stored preferences or DefaultColor.
func (c *Config) ColorFor(pageKey string) string {
	if c.Pages == nil {
		return ""
	}
	return c.Pages.PageConfig(pageKey).Color
}
