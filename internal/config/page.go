package config

// PageConfig holds per-page overrides for a single page key.
type PageConfig struct {
	// Color overrides the default marker color for this page.
	Color string `yaml:"color,omitempty"`

	// MaxMarks overrides the persisted descriptor cap for this page.
	// Zero means use the global cap.
	MaxMarks int `yaml:"maxMarks,omitempty"`

	// Disabled skips this page entirely during batch reconciliation.
	Disabled bool `yaml:"disabled,omitempty"`
}

// File represents the structure of the .quotemark configuration file.
type File struct {
	// Pages maps page keys (or their origin+pathname part) to overrides.
	Pages map[string]PageConfig `yaml:"pages,omitempty"`

	// Defaults contains the base overrides applied to every page unless
	// a page-specific entry overrides them.
	Defaults PageConfig `yaml:"defaults,omitempty"`
}

// PageConfig returns the effective overrides for a page key, merging the
// page-specific entry over the defaults.
func (cf *File) PageConfig(pageKey string) PageConfig {
	result := cf.Defaults

	if pc, ok := cf.Pages[pageKey]; ok {
		if pc.Color != "" {
			result.Color = pc.Color
		}
		if pc.MaxMarks != 0 {
			result.MaxMarks = pc.MaxMarks
		}
		if pc.Disabled {
			result.Disabled = true
		}
	}
	return result
}
