package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/quotemark/quotemark/internal/anchor"
	"github.com/quotemark/quotemark/internal/locator"
	"github.com/quotemark/quotemark/internal/overlay"
	"github.com/quotemark/quotemark/internal/reconciler"
	"github.com/quotemark/quotemark/internal/region"
	"github.com/quotemark/quotemark/internal/store"
	"github.com/quotemark/quotemark/internal/stream"
)

// FailureReason is the machine-readable classification of a failed intent.
type FailureReason string

// Failure reasons surfaced to the host.
const (
	FailureNone         FailureReason = ""
	FailureInvalidColor FailureReason = "invalid_color"
	FailureNoSelection  FailureReason = "no_selection"
	FailureEmptyText    FailureReason = "empty_text"
	FailureNotFound     FailureReason = "not_found"
	FailureException    FailureReason = "exception"
)

// Action describes what a successful intent did to the document.
type Action string

// Actions reported in results.
const (
	ActionMarked   Action = "marked"
	ActionUnmarked Action = "unmarked"
	ActionCleared  Action = "cleared"
)

// Selection is the textual selection an intent operates on. Prefix and
// Suffix are optional disambiguation context; nil Selection means the host
// had nothing selected at all.
type Selection struct {
	Text   string
	Prefix string
	Suffix string
}

// Result is the structured outcome of one intent.
type Result struct {
	// OK reports overall success.
	OK bool

	// Reason classifies the failure when OK is false.
	Reason FailureReason

	// Action is what happened to the document when OK is true.
	Action Action

	// MarkID is the id of the marker created by a mark action.
	MarkID string

	// Removed is the number of markers removed by an unmark or clear.
	Removed int

	// Err carries the underlying error for the exception reason.
	Err error
}

// failure builds a failed result.
func failure(reason FailureReason, err error) Result {
	return Result{OK: false, Reason: reason, Err: err}
}

// Engine executes intents against one document at a time. Each intent runs
// start to finish before the next; the engine itself keeps no state between
// calls beyond the injected repository.
type Engine struct {
	repo    store.Repository
	rec     *reconciler.Reconciler
	logger  *slog.Logger
	now     func() time.Time
	pageCap func(pageKey string) int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithPageCap sets a per-page descriptor cap lookup, forwarded to the
// reconciler that persists after every mutation.
func WithPageCap(capFor func(pageKey string) int) Option {
	return func(e *Engine) {
		e.pageCap = capFor
	}
}

// New creates an Engine backed by repo.
func New(repo store.Repository, opts ...Option) *Engine {
	e := &Engine{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	recOpts := []reconciler.Option{
		reconciler.WithLogger(e.logger),
		reconciler.WithClock(func() time.Time { return e.now() }),
	}
	if e.pageCap != nil {
		recOpts = append(recOpts, reconciler.WithPageCap(e.pageCap))
	}
	e.rec = reconciler.New(repo, recOpts...)
	return e
}

// Reconciler exposes the engine's reconciler for load-time passes.
func (e *Engine) Reconciler() *reconciler.Reconciler {
	return e.rec
}

// ApplyMark toggles a mark over the selection in doc.
//
// A selection fully covered by existing marks unmarks: every touched marker
// is unwrapped whole, never clipped. Anything else marks: intersecting and
// touching same-color marks are folded into one new marker with the
// requested color spanning the union of the text. On success the stored
// array is rebuilt from the live tree and the color preferences are updated.
func (e *Engine) ApplyMark(ctx context.Context, pageKey string, doc *html.Node, sel *Selection, color string) (res Result) {
	// Unexpected tree shapes surface as the exception reason at this
	// boundary rather than escaping to the host.
	defer func() {
		if p := recover(); p != nil {
			res = failure(FailureException, fmt.Errorf("panic during mark: %v", p))
		}
	}()

	if !anchor.ValidColor(color) {
		return failure(FailureInvalidColor, anchor.ErrInvalidColor)
	}
	if sel == nil {
		return failure(FailureNoSelection, errors.New("nothing selected"))
	}
	if strings.TrimSpace(sel.Text) == "" {
		return failure(FailureEmptyText, anchor.ErrEmptySelection)
	}

	s := stream.Build(doc, stream.Options{MarkerClass: overlay.MarkerClass})
	pos, err := locator.Find(s, locator.Query{Text: sel.Text, Prefix: sel.Prefix, Suffix: sel.Suffix})
	if err != nil {
		if errors.Is(err, locator.ErrNotFound) || errors.Is(err, locator.ErrEmptyText) {
			return failure(FailureNotFound, err)
		}
		return failure(FailureException, err)
	}

	markers := overlay.Markers(doc)
	byID := make(map[string]*html.Node, len(markers))
	intervals := make([]region.Interval, 0, len(markers))
	for _, m := range markers {
		start, end, ok := s.Interval(m.Element.FirstChild)
		if !ok {
			continue
		}
		byID[m.ID] = m.Element
		intervals = append(intervals, region.Interval{ID: m.ID, Color: m.Color, Start: start, End: end})
	}
	model := region.New(intervals...)

	if model.OverlapsFully(pos.Start, pos.End) {
		removed := model.RemoveIntersecting(pos.Start, pos.End)
		for _, iv := range removed {
			if el, ok := byID[iv.ID]; ok {
				if err := overlay.Unwrap(el); err != nil {
					return failure(FailureException, err)
				}
			}
		}
		if _, err := e.rec.RebuildFromLiveMarkers(ctx, pageKey, doc); err != nil {
			return failure(FailureException, err)
		}
		e.logger.Debug("unmarked selection",
			"page_key", pageKey,
			"removed", len(removed),
		)
		return Result{OK: true, Action: ActionUnmarked, Removed: len(removed)}
	}

	final, displaced := model.Insert(uuid.NewString(), color, pos.Start, pos.End)
	for _, iv := range displaced {
		if el, ok := byID[iv.ID]; ok {
			if err := overlay.Unwrap(el); err != nil {
				return failure(FailureException, err)
			}
		}
	}

	// Unwrapping rearranges leaves but never characters, so the union's
	// stream coordinates survive the rebuild.
	s = stream.Build(doc, stream.Options{MarkerClass: overlay.MarkerClass})
	finalPos, err := s.Range(final.Start, final.End)
	if err != nil {
		return failure(FailureException, err)
	}
	if _, err := overlay.Apply(s, finalPos, final.ID, final.Color); err != nil {
		return failure(FailureException, err)
	}
	overlay.MergeAdjacent(doc)

	if _, err := e.rec.RebuildFromLiveMarkers(ctx, pageKey, doc); err != nil {
		return failure(FailureException, err)
	}
	e.touchPreferences(ctx, color)

	e.logger.Debug("marked selection",
		"page_key", pageKey,
		"mark_id", final.ID,
		"color", color,
		"displaced", len(displaced),
	)
	return Result{OK: true, Action: ActionMarked, MarkID: final.ID}
}

// ClearAll removes every mark from doc and the store.
func (e *Engine) ClearAll(ctx context.Context, pageKey string, doc *html.Node) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = failure(FailureException, fmt.Errorf("panic during clear: %v", p))
		}
	}()

	removed, err := e.rec.ClearAll(ctx, pageKey, doc)
	if err != nil {
		return failure(FailureException, err)
	}
	e.logger.Debug("cleared page", "page_key", pageKey, "removed", removed)
	return Result{OK: true, Action: ActionCleared, Removed: removed}
}

// touchPreferences records color in the global preferences. Preference
// bookkeeping is best effort: a failure is logged but never fails the mark
// that already committed.
func (e *Engine) touchPreferences(ctx context.Context, color string) {
	prefs, err := e.repo.LoadPreferences(ctx)
	if err != nil {
		e.logger.Warn("failed to load preferences", "error", err)
		return
	}
	prefs.Touch(color)
	if err := e.repo.SavePreferences(ctx, prefs); err != nil {
		e.logger.Warn("failed to save preferences", "error", err)
	}
}
