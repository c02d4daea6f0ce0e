package anchor

import "strings"

// Quote is an extracted passage with its context windows, ready to become a
// Descriptor once the caller assigns an ID, color, and timestamps.
type Quote struct {
	// Text is the exact selected substring of the stream.
	Text string

	// Prefix is up to ContextRadius bytes of stream text before the selection.
	Prefix string

	// Suffix is up to ContextRadius bytes of stream text after the selection.
	Suffix string
}

// Extract produces a Quote for the half-open byte range [start, end) of
// streamText.
//
// Context capture is best effort: near the start or end of the document the
// prefix or suffix is simply shorter, possibly empty. Extraction never fails
// because context is short; it fails only when the range itself is invalid
// or the selected text is empty after trimming whitespace.
func Extract(streamText string, start, end int) (Quote, error) {
	if start < 0 || end > len(streamText) || start >= end {
		return Quote{}, ErrInvalidRange
	}

	text := streamText[start:end]
	if strings.TrimSpace(text) == "" {
		return Quote{}, ErrEmptySelection
	}

	prefixStart := start - ContextRadius
	if prefixStart < 0 {
		prefixStart = 0
	}
	suffixEnd := end + ContextRadius
	if suffixEnd > len(streamText) {
		suffixEnd = len(streamText)
	}

	return Quote{
		Text:   text,
		Prefix: streamText[prefixStart:start],
		Suffix: streamText[end:suffixEnd],
	}, nil
}
