// Package log provides logging built on the standard slog package, with a
// handler wrapper that keeps document text out of the output.
//
// Mark operations routinely carry whole-page text in their attributes
// (stream slices, marker content, context windows). The ClipHandler
// truncates long string attribute values before they reach the underlying
// handler, so verbose logging stays readable and log files do not balloon
// with page content.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Debug("resolved anchor",
//	    "text", hugeStreamSlice, // clipped before output
//	    "page_key", key,
//	)
//	slog.SetDefault(logger)
package log
