package export

import (
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs page reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the page report in Markdown format.
func (w *MarkdownWriter) Write(report *PageReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeMarks(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with page information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *PageReport) {
	md.H1("Quotemark Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Page", "`" + report.PageKey + "`"},
			{"Exported", report.ExportedAt.Format("2006-01-02 15:04:05 MST")},
			{"Marks", strconv.Itoa(len(report.Marks))},
		},
	})
	md.PlainText("")

	if report.Drifted {
		md.Warning("The page's text changed since these marks were saved. Some may no longer resolve; run `quotemark reconcile` to heal them.")
		md.PlainText("")
	}
}

// writeSummary writes the per-color summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *PageReport) {
	md.H2("Summary")
	md.PlainText("")

	if len(report.Marks) == 0 {
		md.PlainText("No marks stored for this page.")
		md.PlainText("")
		return
	}

	counts := report.ColorCounts()
	colors := make([]string, 0, len(counts))
	for c := range counts {
		colors = append(colors, c)
	}
	sort.Strings(colors)

	rows := make([][]string, 0, len(colors)+1)
	for _, c := range colors {
		rows = append(rows, []string{"`" + c + "`", strconv.Itoa(counts[c])})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(len(report.Marks)) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Color", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeMarks writes the marks table and quoted passages.
func (w *MarkdownWriter) writeMarks(md *markdown.Markdown, report *PageReport) {
	if len(report.Marks) == 0 {
		return
	}

	md.H2("Marks")
	md.PlainText("")

	rows := make([][]string, len(report.Marks))
	for i, m := range report.Marks {
		created := time.UnixMilli(m.CreatedAt).UTC().Format("2006-01-02 15:04")
		rows[i] = []string{
			truncateString(m.ID, 8),
			"`" + m.Color + "`",
			created,
			truncateString(m.Text, 60),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Color", "Created", "Text"},
		Rows:   rows,
	})
	md.PlainText("")

	// Full passages, blockquoted, for marks the table truncated.
	for _, m := range report.Marks {
		if len(m.Text) <= 60 {
			continue
		}
		md.Blockquote(m.Text)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [quotemark](https://github.com/quotemark/quotemark)*")
}

// truncateString truncates a string to maxLen bytes with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
