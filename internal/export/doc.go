// Package export renders a page's stored marks as shareable reports.
//
// This package contains writers for different output formats:
//   - MarkdownWriter: Markdown output for documentation and sharing
//   - JSONWriter: Structured JSON output for tool integration
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package export
