// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watermark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/document"
	"github.com/jeranaias/classmark/internal/identity"
)

// Painter applies composed overlays to every page of a Surface.
type Painter struct {
	composer *Composer
	surface  Surface
	identity identity.Source
	now      func() time.Time
	logger   *slog.Logger
}

// PainterOption configures a Painter.
type PainterOption func(*Painter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) PainterOption {
	return func(p *Painter) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogger sets the painter's logger.
func WithLogger(l *slog.Logger) PainterOption {
	return func(p *Painter) {
		if l != nil {
			p.logger = l.With("component", "watermark")
		}
	}
}

// NewPainter returns a painter. A nil composer uses NewComposer().
func NewPainter(c *Composer, s Surface, id identity.Source, opts ...PainterOption) *Painter {
	if c == nil {
		c = NewComposer()
	}
	p := &Painter{
		composer: c,
		surface:  s,
		identity: id,
		now:      time.Now,
		logger:   slog.Default().With("component", "watermark"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Surface returns the surface the painter draws on.
func (p *Painter) Surface() Surface {
	return p.surface
}

// Apply replaces the overlays on every page of doc with a fresh set for
// level. It keeps going after a failing page and returns every error joined.
func (p *Painter) Apply(ctx context.Context, doc document.Document, level classification.Level) error {
	if p.surface == nil {
		return errors.New("watermark: no surface configured")
	}
	editor := identity.Resolve(ctx, p.identity)
	ts := p.now()

	pages, err := p.surface.Pages(ctx, doc)
	if err != nil {
		return fmt.Errorf("list pages: %w", err)
	}

	var errs []error
	for _, page := range pages {
		want := p.composer.Compose(level, editor, ts, page.Margins)
		if err := Reconcile(ctx, p.surface, doc, page.ID, want); err != nil {
			errs = append(errs, fmt.Errorf("page %s: %w", page.ID, err))
		}
	}
	if len(errs) == 0 {
		p.logger.Debug("watermarks applied",
			"level", level.String(),
			"pages", len(pages),
			"editor", editor,
		)
	}
	return errors.Join(errs...)
}

// Reconcile makes the owned overlays on one page exactly want: every shape
// carrying either prefix is removed before want is added.
func Reconcile(ctx context.Context, s Surface, doc document.Document, page string, want []Descriptor) error {
	if err := removeOwned(ctx, s, doc, page); err != nil {
		return err
	}
	var errs []error
	for _, d := range want {
		if _, err := s.AddText(ctx, doc, page, d); err != nil {
			errs = append(errs, fmt.Errorf("add %s: %w", d.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func removeOwned(ctx context.Context, s Surface, doc document.Document, page string) error {
	var errs []error
	for _, prefix := range Prefixes() {
		shapes, err := s.Shapes(ctx, doc, page, prefix)
		if err != nil {
			errs = append(errs, fmt.Errorf("list %s shapes: %w", prefix, err))
			continue
		}
		for _, sh := range shapes {
			if err := s.DeleteShape(ctx, doc, page, sh.Handle); err != nil {
				errs = append(errs, fmt.Errorf("delete %s: %w", sh.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}
