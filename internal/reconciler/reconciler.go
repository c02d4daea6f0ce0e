package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/net/html"

	"github.com/quotemark/quotemark/internal/anchor"
	"github.com/quotemark/quotemark/internal/locator"
	"github.com/quotemark/quotemark/internal/overlay"
	"github.com/quotemark/quotemark/internal/store"
	"github.com/quotemark/quotemark/internal/stream"
)

// Reconciler resolves stored anchors against live documents and rebuilds
// storage from the tree after mutations.
type Reconciler struct {
	repo   store.Repository
	logger *slog.Logger

	// now is the clock, replaceable in tests.
	now func() time.Time

	// pageCap returns a per-page descriptor cap, 0 meaning the global
	// store cap only.
	pageCap func(pageKey string) int
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// WithClock sets the time source used for descriptor timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		r.now = now
	}
}

// WithPageCap sets a per-page descriptor cap lookup. A returned value of
// zero or less leaves the page at the global store cap. Keep-first, like
// the global cap.
func WithPageCap(capFor func(pageKey string) int) Option {
	return func(r *Reconciler) {
		r.pageCap = capFor
	}
}

// New creates a Reconciler backed by repo.
func New(repo store.Repository, opts ...Option) *Reconciler {
	r := &Reconciler{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// capped truncates descs to the page's configured cap, keep-first. The
// global store cap still applies on Save.
func (r *Reconciler) capped(pageKey string, descs []anchor.Descriptor) []anchor.Descriptor {
	if r.pageCap == nil {
		return descs
	}
	if n := r.pageCap(pageKey); n > 0 && len(descs) > n {
		return descs[:n]
	}
	return descs
}

// Result summarizes one reconciliation pass.
type Result struct {
	// PageKey identifies the reconciled page.
	PageKey string

	// Kept are the descriptors that resolved and were materialized.
	Kept []anchor.Descriptor

	// Dropped are the descriptors that no longer resolve.
	Dropped []anchor.Descriptor

	// DocumentChanged reports whether the document's text stream differs
	// from the fingerprint recorded at the last save.
	DocumentChanged bool
}

// ReconcileOnLoad resolves every stored descriptor for pageKey against doc,
// materializes the ones that resolve, and persists exactly the kept subset.
//
// Resolution runs against a stream that excludes already-marked subtrees and
// the tree is rewritten after each apply, so the stream is rebuilt per
// descriptor. Descriptors that fail to resolve are dropped without error:
// a shrinking persisted set is the expected reaction to page changes.
func (r *Reconciler) ReconcileOnLoad(ctx context.Context, pageKey string, doc *html.Node) (*Result, error) {
	descs, err := r.repo.Load(ctx, pageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored marks: %w", err)
	}
	descs = r.capped(pageKey, descs)

	storedFP, err := r.repo.Fingerprint(ctx, pageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load fingerprint: %w", err)
	}
	liveFP := stream.Build(doc, stream.Options{MarkerClass: overlay.MarkerClass}).Fingerprint()

	result := &Result{
		PageKey:         pageKey,
		DocumentChanged: storedFP != "" && storedFP != liveFP,
	}
	if result.DocumentChanged {
		r.logger.Debug("document drifted since last save", "page_key", pageKey)
	}

	for _, d := range descs {
		if !d.Valid() {
			result.Dropped = append(result.Dropped, d)
			continue
		}

		// Already materialized, e.g. a document saved with its markers in
		// place. Its text lives inside a marked subtree and would never
		// resolve against the exclusion stream.
		if _, ok := overlay.MarkerByID(doc, d.ID); ok {
			result.Kept = append(result.Kept, d)
			continue
		}

		s := stream.Build(doc, stream.Options{
			MarkerClass:   overlay.MarkerClass,
			ExcludeMarked: true,
		})
		pos, err := locator.Find(s, locator.Query{Text: d.Text, Prefix: d.Prefix, Suffix: d.Suffix})
		if err != nil {
			if !errors.Is(err, locator.ErrNotFound) && !errors.Is(err, locator.ErrEmptyText) {
				return nil, fmt.Errorf("failed to resolve anchor %s: %w", d.ID, err)
			}
			result.Dropped = append(result.Dropped, d)
			continue
		}

		if _, err := overlay.Apply(s, pos, d.ID, d.Color); err != nil {
			// A resolved range can still straddle an existing marker's
			// seam in the exclusion stream. Wrapping it would scramble
			// the document, so the descriptor is stale: drop it.
			if errors.Is(err, overlay.ErrDiscontiguousRange) {
				result.Dropped = append(result.Dropped, d)
				continue
			}
			return nil, fmt.Errorf("failed to materialize anchor %s: %w", d.ID, err)
		}
		result.Kept = append(result.Kept, d)
	}

	if len(result.Dropped) > 0 {
		r.logger.Debug("pruned stale anchors",
			"page_key", pageKey,
			"kept", len(result.Kept),
			"dropped", len(result.Dropped),
		)
	}

	// Corrective save: storage holds exactly what resolved.
	if err := r.repo.Save(ctx, pageKey, result.Kept, liveFP); err != nil {
		return nil, fmt.Errorf("failed to persist reconciled marks: %w", err)
	}

	return result, nil
}

// RebuildFromLiveMarkers re-derives the descriptor array from the marker
// elements currently in doc and persists it. Marker ids correlate entries
// with the previously stored array so creation times survive; everything
// else (text, context, color) is taken from the tree, the ground truth.
func (r *Reconciler) RebuildFromLiveMarkers(ctx context.Context, pageKey string, doc *html.Node) ([]anchor.Descriptor, error) {
	prior, err := r.repo.Load(ctx, pageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored marks: %w", err)
	}
	createdAt := make(map[string]int64, len(prior))
	for _, d := range prior {
		createdAt[d.ID] = d.CreatedAt
	}

	s := stream.Build(doc, stream.Options{MarkerClass: overlay.MarkerClass})
	now := r.now()

	var descs []anchor.Descriptor
	for _, m := range overlay.Markers(doc) {
		start, end, ok := s.Interval(m.Element.FirstChild)
		if !ok {
			continue
		}
		q, err := anchor.Extract(s.Text(), start, end)
		if err != nil {
			// Empty or whitespace-only marker; nothing worth keeping.
			continue
		}

		d := anchor.NewDescriptor(q, m.Color, now)
		// The marker's id is the mark's identity across rebuilds, and a
		// known id carries its original creation time forward.
		d.ID = m.ID
		if at, ok := createdAt[m.ID]; ok {
			d.CreatedAt = at
		}
		descs = append(descs, d)
	}

	descs = r.capped(pageKey, descs)
	if err := r.repo.Save(ctx, pageKey, descs, s.Fingerprint()); err != nil {
		return nil, fmt.Errorf("failed to persist rebuilt marks: %w", err)
	}
	return descs, nil
}

// ClearAll unwraps every marker in doc and deletes the stored array for
// pageKey. It returns the number of markers removed.
func (r *Reconciler) ClearAll(ctx context.Context, pageKey string, doc *html.Node) (int, error) {
	markers := overlay.Markers(doc)
	for _, m := range markers {
		if err := overlay.Unwrap(m.Element); err != nil {
			return 0, fmt.Errorf("failed to unwrap marker %s: %w", m.ID, err)
		}
	}

	if err := r.repo.Delete(ctx, pageKey); err != nil {
		return 0, fmt.Errorf("failed to clear stored marks: %w", err)
	}
	return len(markers), nil
}
