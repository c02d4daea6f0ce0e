package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). This allows callers to use errors.Is()
// for programmatic error handling while still providing human-readable
// messages.
var (
	// ErrNoDBDir is returned when no database directory is configured.
	ErrNoDBDir = errors.New("no database directory configured")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no documents are ever processed.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidDefaultColor is returned when the default color does not
	// match the #RGB or #RRGGBB grammar.
	ErrInvalidDefaultColor = errors.New("invalid default color: must be #RGB or #RRGGBB")
)
