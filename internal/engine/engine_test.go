package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/quotemark/quotemark/internal/overlay"
	"github.com/quotemark/quotemark/internal/store"
)

// mustParse parses an HTML fragment into a document tree.
func mustParse(t *testing.T, src string) *html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

// newTestEngine builds an engine over a fresh temp database.
func newTestEngine(t *testing.T) (*Engine, store.Repository) {
	t.Helper()

	db, err := store.Open(t.TempDir(), store.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	e := New(db, WithClock(func() time.Time { return fixed }))
	return e, db
}

// TestApplyMarkValidation tests the pre-mutation validation order.
func TestApplyMarkValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		sel   *Selection
		color string
		want  FailureReason
	}{
		{name: "invalid color", sel: &Selection{Text: "x"}, color: "red", want: FailureInvalidColor},
		{name: "nil selection", sel: nil, color: "#ffff00", want: FailureNoSelection},
		{name: "whitespace-only text", sel: &Selection{Text: "   "}, color: "#ffff00", want: FailureEmptyText},
		{name: "unmatched text", sel: &Selection{Text: "absent"}, color: "#ffff00", want: FailureNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, repo := newTestEngine(t)
			ctx := context.Background()
			key := store.FilePageKey("/page/" + tt.name)
			doc := mustParse(t, "<body><p>present text</p></body>")

			res := e.ApplyMark(ctx, key, doc, tt.sel, tt.color)
			if res.OK {
				t.Fatal("expected failure")
			}
			if res.Reason != tt.want {
				t.Errorf("got reason %q, want %q", res.Reason, tt.want)
			}

			// Validation failures never mutate the tree or the store.
			if len(overlay.Markers(doc)) != 0 {
				t.Error("document mutated by failed intent")
			}
			keys, err := repo.PageKeys(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(keys) != 0 {
				t.Error("store mutated by failed intent")
			}
		})
	}
}

// TestApplyMarkToggle tests the toggle semantics.
func TestApplyMarkToggle(t *testing.T) {
	t.Parallel()

	t.Run("marking fresh text creates one marker and persists it", func(t *testing.T) {
		t.Parallel()

		e, repo := newTestEngine(t)
		ctx := context.Background()
		key := store.FilePageKey("/page/fresh.html")
		doc := mustParse(t, "<body><p>The quick brown fox</p></body>")

		res := e.ApplyMark(ctx, key, doc, &Selection{Text: "quick"}, "#ffff00")
		if !res.OK || res.Action != ActionMarked {
			t.Fatalf("got %+v", res)
		}

		markers := overlay.Markers(doc)
		if len(markers) != 1 || markers[0].Text != "quick" {
			t.Fatalf("got markers %+v", markers)
		}

		persisted, err := repo.Load(ctx, key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(persisted) != 1 || persisted[0].Text != "quick" || persisted[0].Color != "#ffff00" {
			t.Errorf("persisted %+v", persisted)
		}
	})

	t.Run("re-marking a covered sub-range unwraps the whole mark", func(t *testing.T) {
		t.Parallel()

		e, repo := newTestEngine(t)
		ctx := context.Background()
		key := store.FilePageKey("/page/toggle.html")
		doc := mustParse(t, "<body><p>The quick brown fox</p></body>")

		if res := e.ApplyMark(ctx, key, doc, &Selection{Text: "quick brown"}, "#ffff00"); !res.OK {
			t.Fatalf("setup mark failed: %+v", res)
		}
		res := e.ApplyMark(ctx, key, doc, &Selection{Text: "brown"}, "#ffff00")
		if !res.OK || res.Action != ActionUnmarked {
			t.Fatalf("got %+v, want unmarked", res)
		}
		if res.Removed != 1 {
			t.Errorf("removed %d markers, want 1", res.Removed)
		}

		if len(overlay.Markers(doc)) != 0 {
			t.Error("whole mark must be unwrapped, not clipped")
		}
		persisted, err := repo.Load(ctx, key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(persisted) != 0 {
			t.Errorf("persisted %d, want 0 after unmark", len(persisted))
		}
	})

	t.Run("partial overlap produces one merged mark with the new color", func(t *testing.T) {
		t.Parallel()

		e, _ := newTestEngine(t)
		ctx := context.Background()
		key := store.FilePageKey("/page/union.html")
		doc := mustParse(t, "<body><p>The quick brown fox</p></body>")

		if res := e.ApplyMark(ctx, key, doc, &Selection{Text: "The quick"}, "#ff0000"); !res.OK {
			t.Fatalf("setup mark failed: %+v", res)
		}
		res := e.ApplyMark(ctx, key, doc, &Selection{Text: "quick brown"}, "#ffff00")
		if !res.OK || res.Action != ActionMarked {
			t.Fatalf("got %+v", res)
		}

		markers := overlay.Markers(doc)
		if len(markers) != 1 {
			t.Fatalf("got %d markers, want 1 merged", len(markers))
		}
		if markers[0].Text != "The quick brown" {
			t.Errorf("merged text = %q, want %q", markers[0].Text, "The quick brown")
		}
		if markers[0].Color != "#ffff00" {
			t.Errorf("merged color = %q, want the new mark's color", markers[0].Color)
		}
	})

	t.Run("adjacent same-color marks merge into one element", func(t *testing.T) {
		t.Parallel()

		e, repo := newTestEngine(t)
		ctx := context.Background()
		key := store.FilePageKey("/page/adjacent.html")
		doc := mustParse(t, "<body><p>foo bar baz</p></body>")

		if res := e.ApplyMark(ctx, key, doc, &Selection{Text: "foo"}, "#ffff00"); !res.OK {
			t.Fatalf("setup mark failed: %+v", res)
		}
		if res := e.ApplyMark(ctx, key, doc, &Selection{Text: " bar"}, "#ffff00"); !res.OK {
			t.Fatalf("second mark failed: %+v", res)
		}

		markers := overlay.Markers(doc)
		if len(markers) != 1 {
			t.Fatalf("got %d markers, want 1", len(markers))
		}
		if markers[0].Text != "foo bar" {
			t.Errorf("merged text = %q, want %q", markers[0].Text, "foo bar")
		}

		persisted, err := repo.Load(ctx, key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(persisted) != 1 {
			t.Errorf("persisted %d descriptors, want 1", len(persisted))
		}
	})

	t.Run("marking updates color preferences", func(t *testing.T) {
		t.Parallel()

		e, repo := newTestEngine(t)
		ctx := context.Background()
		doc := mustParse(t, "<body><p>some text</p></body>")

		if res := e.ApplyMark(ctx, store.FilePageKey("/page/prefs.html"), doc, &Selection{Text: "some"}, "#00ff00"); !res.OK {
			t.Fatalf("mark failed: %+v", res)
		}

		prefs, err := repo.LoadPreferences(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if prefs.LastColor != "#00ff00" {
			t.Errorf("last color = %q, want #00ff00", prefs.LastColor)
		}
		if len(prefs.Recents) != 1 || prefs.Recents[0] != "#00ff00" {
			t.Errorf("recents = %v", prefs.Recents)
		}
	})
}

// TestClearAll tests the clear-all intent.
func TestClearAll(t *testing.T) {
	t.Parallel()

	e, repo := newTestEngine(t)
	ctx := context.Background()
	key := store.FilePageKey("/page/clearall.html")
	doc := mustParse(t, "<body><p>one two three</p></body>")

	if res := e.ApplyMark(ctx, key, doc, &Selection{Text: "one"}, "#ffff00"); !res.OK {
		t.Fatalf("mark failed: %+v", res)
	}
	if res := e.ApplyMark(ctx, key, doc, &Selection{Text: "three"}, "#ff0000"); !res.OK {
		t.Fatalf("mark failed: %+v", res)
	}

	res := e.ClearAll(ctx, key, doc)
	if !res.OK || res.Action != ActionCleared || res.Removed != 2 {
		t.Fatalf("got %+v", res)
	}
	if len(overlay.Markers(doc)) != 0 {
		t.Error("markers remain after clear")
	}

	persisted, err := repo.Load(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(persisted) != 0 {
		t.Errorf("persisted %d, want 0", len(persisted))
	}
}
