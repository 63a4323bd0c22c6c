// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/document"
	"github.com/jeranaias/classmark/internal/session"
)

// State is the per-session prompt state of a document.
type State int

const (
	NotPrompted State = iota
	Prompting
	Prompted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case NotPrompted:
		return "not-prompted"
	case Prompting:
		return "prompting"
	case Prompted:
		return "prompted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options wires a Controller. Store and Selector are required.
type Options struct {
	Store    Store
	Tracker  *session.Tracker
	Selector Selector
	Painter  Painter
	Logger   *slog.Logger
}

// Controller handles the lifecycle events of every open document.
type Controller struct {
	store    Store
	tracker  *session.Tracker
	selector Selector
	painter  Painter
	logger   *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// New creates a controller. A nil Tracker gets a fresh one; a nil Painter
// disables watermarking.
func New(opts Options) (*Controller, error) {
	if opts.Store == nil {
		return nil, errors.New("lifecycle: store is required")
	}
	if opts.Selector == nil {
		return nil, errors.New("lifecycle: selector is required")
	}
	if opts.Tracker == nil {
		opts.Tracker = session.NewTracker()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:    opts.Store,
		tracker:  opts.Tracker,
		selector: opts.Selector,
		painter:  opts.Painter,
		logger:   logger.With("component", "lifecycle"),
		inflight: make(map[string]struct{}),
	}, nil
}

// Tracker returns the prompt tracker in use.
func (c *Controller) Tracker() *session.Tracker {
	return c.tracker
}

// =============================================================================
// ENTRY EVENTS
// =============================================================================

// OnCreate starts a session for a new document.
func (c *Controller) OnCreate(ctx context.Context, doc document.Document) {
	c.enter(ctx, doc, "create")
}

// OnOpen starts a session for an existing document.
func (c *Controller) OnOpen(ctx context.Context, doc document.Document) {
	c.enter(ctx, doc, "open")
}

func (c *Controller) enter(ctx context.Context, doc document.Document, event string) {
	key := session.KeyOf(doc)
	c.tracker.ResetPromptFlag(key)

	level, ok := c.store.Read(ctx, doc)
	if !ok {
		c.logger.Debug("document unclassified", "event", event, "doc", key)
		return
	}
	c.logger.Debug("document classified", "event", event, "doc", key, "level", level.String())
	c.repaint(ctx, doc, level)
}

// =============================================================================
// GATES
// =============================================================================

// OnBeforeSave runs the classification gate. proceed=false means the host
// must abort the save; err is non-nil only for failures, not cancellation.
func (c *Controller) OnBeforeSave(ctx context.Context, doc document.Document) (bool, error) {
	_, ok, err := c.PromptAndEnsureClassification(ctx, doc)
	return ok, err
}

// OnBeforeClose runs the gate unless this session already classified the
// document or it has no unsaved changes. A failing dirty probe counts as
// clean.
func (c *Controller) OnBeforeClose(ctx context.Context, doc document.Document) (bool, error) {
	key := session.KeyOf(doc)
	if c.tracker.WasPrompted(key) {
		return true, nil
	}
	dirty, err := doc.HasUnsavedChanges()
	if err != nil {
		c.logger.Debug("unsaved-changes probe failed, treating as clean", "doc", key, "error", err)
		return true, nil
	}
	if !dirty {
		return true, nil
	}
	return c.OnBeforeSave(ctx, doc)
}

// PromptAndEnsureClassification asks for a level, commits it and repaints
// the watermarks. ok=false with a nil error is a user cancellation.
func (c *Controller) PromptAndEnsureClassification(ctx context.Context, doc document.Document) (classification.Level, bool, error) {
	key := session.KeyOf(doc)
	if !c.begin(key) {
		return 0, false, ErrPromptInProgress
	}
	defer c.end(key)

	current, has := c.store.Read(ctx, doc)
	seed := current
	if !has {
		seed = classification.LeastSensitive()
	}

	chosen, ok, err := c.selector.Select(ctx, seed, has)
	switch {
	case err != nil && ctx.Err() != nil:
		c.logger.Info("classification prompt abandoned", "doc", key, "reason", ctx.Err())
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("%w: %w", ErrSelectorFailed, err)
	case !ok:
		c.logger.Info("classification cancelled", "doc", key)
		return 0, false, nil
	case !chosen.Valid():
		return 0, false, fmt.Errorf("%w: selector returned %s", ErrSelectorFailed, chosen)
	}

	if err := c.store.Write(ctx, doc, chosen); err != nil {
		c.logger.Error("classification write failed", "doc", key, "level", chosen.String(), "error", err)
		return 0, false, fmt.Errorf("%w: %s: %w", ErrWriteFailed, chosen, err)
	}
	c.logger.Info("classification committed", "doc", key, "level", chosen.String(), "previous", previous(current, has))

	c.repaint(ctx, doc, chosen)
	c.tracker.MarkPrompted(key)
	return chosen, true, nil
}

// State reports where doc is in its session.
func (c *Controller) State(doc document.Document) State {
	key := session.KeyOf(doc)
	c.mu.Lock()
	_, busy := c.inflight[key]
	c.mu.Unlock()
	switch {
	case busy:
		return Prompting
	case c.tracker.WasPrompted(key):
		return Prompted
	default:
		return NotPrompted
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (c *Controller) begin(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[key]; busy {
		return false
	}
	c.inflight[key] = struct{}{}
	return true
}

func (c *Controller) end(key string) {
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
}

func (c *Controller) repaint(ctx context.Context, doc document.Document, level classification.Level) {
	if c.painter == nil {
		return
	}
	if err := c.painter.Apply(ctx, doc, level); err != nil {
		c.logger.Warn("watermark update failed", "doc", session.KeyOf(doc), "level", level.String(), "error", err)
	}
}

func previous(l classification.Level, ok bool) string {
	if !ok {
		return "none"
	}
	return l.String()
}
