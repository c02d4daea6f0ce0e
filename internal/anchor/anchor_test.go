package anchor

import (
	"testing"
	"time"
)

// TestValidColor tests the strict hex-color grammar.
func TestValidColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		color string
		want  bool
	}{
		{name: "short form uppercase", color: "#ABC", want: true},
		{name: "long form lowercase", color: "#aabbcc", want: true},
		{name: "long form mixed case", color: "#FfFf00", want: true},
		{name: "named color rejected", color: "red", want: false},
		{name: "five hex digits rejected", color: "#12345", want: false},
		{name: "non-hex digits rejected", color: "#gggggg", want: false},
		{name: "missing hash rejected", color: "aabbcc", want: false},
		{name: "four digits rejected", color: "#abcd", want: false},
		{name: "empty rejected", color: "", want: false},
		{name: "trailing garbage rejected", color: "#aabbcc;", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ValidColor(tt.color); got != tt.want {
				t.Errorf("ValidColor(%q) = %v, want %v", tt.color, got, tt.want)
			}
		})
	}
}

// TestNewDescriptor tests descriptor construction.
func TestNewDescriptor(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	q := Quote{Text: "quick", Prefix: "The ", Suffix: " brown fox"}

	d := NewDescriptor(q, "#ffff00", now)

	if d.ID == "" {
		t.Error("expected non-empty ID")
	}
	if d.Text != "quick" {
		t.Errorf("got text %q, want %q", d.Text, "quick")
	}
	if d.Prefix != "The " || d.Suffix != " brown fox" {
		t.Errorf("context not carried: prefix=%q suffix=%q", d.Prefix, d.Suffix)
	}
	if d.CreatedAt != now.UnixMilli() || d.UpdatedAt != now.UnixMilli() {
		t.Errorf("timestamps not stamped: created=%d updated=%d", d.CreatedAt, d.UpdatedAt)
	}
	if !d.Valid() {
		t.Error("expected descriptor to be valid")
	}
}

// TestDescriptorValid tests the persistence invariants.
func TestDescriptorValid(t *testing.T) {
	t.Parallel()

	t.Run("empty text is invalid", func(t *testing.T) {
		t.Parallel()

		d := Descriptor{ID: "x", Text: "", Color: "#abc"}
		if d.Valid() {
			t.Error("descriptor with empty text must be invalid")
		}
	})

	t.Run("bad color is invalid", func(t *testing.T) {
		t.Parallel()

		d := Descriptor{ID: "x", Text: "hello", Color: "yellow"}
		if d.Valid() {
			t.Error("descriptor with named color must be invalid")
		}
	})
}
