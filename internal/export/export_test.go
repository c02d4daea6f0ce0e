package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/quotemark/quotemark/internal/anchor"
)

func sampleReport() *PageReport {
	return &PageReport{
		PageKey:    "quotemark::https://example.com::/article",
		ExportedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Marks: []anchor.Descriptor{
			{
				ID:        "aaaa-1111",
				Text:      "the quick brown fox",
				Color:     "#ffff00",
				CreatedAt: time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC).UnixMilli(),
			},
			{
				ID:        "bbbb-2222",
				Text:      "jumps over the lazy dog",
				Color:     "#ffcc00",
				CreatedAt: time.Date(2025, 5, 31, 9, 0, 0, 0, time.UTC).UnixMilli(),
			},
		},
	}
}

func TestMarkdownWriterWrite(t *testing.T) {
	t.Parallel()

	t.Run("renders header, summary and marks", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		n, err := w.Write(sampleReport())
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if n == 0 {
			t.Error("Write() wrote 0 bytes")
		}

		out := buf.String()
		for _, want := range []string{
			"# Quotemark Report",
			"quotemark::https://example.com::/article",
			"## Summary",
			"#ffff00",
			"#ffcc00",
			"## Marks",
			"the quick brown fox",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("flags drifted pages", func(t *testing.T) {
		t.Parallel()

		report := sampleReport()
		report.Drifted = true

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), "reconcile") {
			t.Error("drifted report should point at the reconcile command")
		}
	})

	t.Run("empty page", func(t *testing.T) {
		t.Parallel()

		report := NewPageReport("quotemark::file://::/tmp/a.html", nil, false)

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), "No marks stored") {
			t.Error("empty report should say no marks are stored")
		}
	})
}

func TestJSONWriterWrite(t *testing.T) {
	t.Parallel()

	t.Run("compact output round-trips", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		var got PageReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got.PageKey != "quotemark::https://example.com::/article" {
			t.Errorf("PageKey = %q", got.PageKey)
		}
		if len(got.Marks) != 2 {
			t.Errorf("len(Marks) = %d, want 2", len(got.Marks))
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"pageKey\"") {
			t.Error("pretty output should be indented")
		}
	})
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mw := NewMultiWriter(NewJSONWriter(&a), NewMarkdownWriter(&b))

	if _, err := mw.Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Error("MultiWriter should write to every destination")
	}
}

func TestPageReportColorCounts(t *testing.T) {
	t.Parallel()

	report := sampleReport()
	report.Marks = append(report.Marks, anchor.Descriptor{ID: "cccc", Text: "x", Color: "#ffff00"})

	counts := report.ColorCounts()
	if counts["#ffff00"] != 2 {
		t.Errorf("counts[#ffff00] = %d, want 2", counts["#ffff00"])
	}
	if counts["#ffcc00"] != 1 {
		t.Errorf("counts[#ffcc00] = %d, want 1", counts["#ffcc00"])
	}
}
