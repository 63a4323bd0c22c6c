// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watermark

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jeranaias/classmark/internal/document"
)

// Page is one drawable page (worksheet, slide, print page) of a document.
type Page struct {
	ID      string  `json:"id"`
	Margins Margins `json:"margins"`
}

// Shape is an overlay already present on a page.
type Shape struct {
	Handle     string     `json:"handle"`
	Page       string     `json:"page"`
	Name       string     `json:"name"`
	Descriptor Descriptor `json:"descriptor"`
}

// Surface is the drawing side of a host. Shape names are unique per page.
type Surface interface {
	// Pages lists every page of doc that should carry overlays.
	Pages(ctx context.Context, doc document.Document) ([]Page, error)

	// Shapes lists shapes on page whose name starts with prefix.
	Shapes(ctx context.Context, doc document.Document, page, prefix string) ([]Shape, error)

	// DeleteShape removes one shape by handle.
	DeleteShape(ctx context.Context, doc document.Document, page, handle string) error

	// AddText adds a free-floating text overlay and returns its handle.
	AddText(ctx context.Context, doc document.Document, page string, d Descriptor) (string, error)
}

// DefaultMargins are the default worksheet margins in points
// (0.7in left/right, 0.75in top/bottom).
var DefaultMargins = Margins{Left: 50.4, Right: 50.4, Top: 54, Bottom: 54}

// =============================================================================
// MEMORY SURFACE
// =============================================================================

// MemorySurface is an in-process Surface. Unknown documents get a single
// page with DefaultMargins.
type MemorySurface struct {
	mu     sync.Mutex
	pages  map[string][]Page
	shapes map[string]map[string][]Shape // doc key -> page -> shapes
	next   int

	// FailAdd, when set, makes AddText fail for names it returns true for.
	FailAdd func(name string) bool
}

// NewMemorySurface returns an empty surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{
		pages:  make(map[string][]Page),
		shapes: make(map[string]map[string][]Shape),
	}
}

func memKey(doc document.Document) string {
	if p := doc.Path(); p != "" {
		return p
	}
	return "instance:" + doc.InstanceID()
}

// SetPages overrides the page list of doc.
func (s *MemorySurface) SetPages(doc document.Document, pages ...Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[memKey(doc)] = append([]Page(nil), pages...)
}

// AddForeign places a shape that watermarking does not own.
func (s *MemorySurface) AddForeign(doc document.Document, page, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(memKey(doc), page, Shape{Name: name})
}

// Pages implements Surface.
func (s *MemorySurface) Pages(ctx context.Context, doc document.Document) ([]Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pages[memKey(doc)]; ok {
		return append([]Page(nil), p...), nil
	}
	return []Page{{ID: "1", Margins: DefaultMargins}}, nil
}

// Shapes implements Surface.
func (s *MemorySurface) Shapes(ctx context.Context, doc document.Document, page, prefix string) ([]Shape, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Shape
	for _, sh := range s.shapes[memKey(doc)][page] {
		if strings.HasPrefix(sh.Name, prefix) {
			out = append(out, sh)
		}
	}
	return out, nil
}

// DeleteShape implements Surface.
func (s *MemorySurface) DeleteShape(ctx context.Context, doc document.Document, page, handle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pages := s.shapes[memKey(doc)]
	list := pages[page]
	for i, sh := range list {
		if sh.Handle == handle {
			pages[page] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("shape %s not found on page %s", handle, page)
}

// AddText implements Surface.
func (s *MemorySurface) AddText(ctx context.Context, doc document.Document, page string, d Descriptor) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.FailAdd != nil && s.FailAdd(d.Name()) {
		return "", fmt.Errorf("add %s: surface rejected shape", d.Name())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.addLocked(memKey(doc), page, Shape{Name: d.Name(), Descriptor: d})
	return sh.Handle, nil
}

func (s *MemorySurface) addLocked(key, page string, sh Shape) Shape {
	s.next++
	sh.Handle = strconv.Itoa(s.next)
	sh.Page = page
	if s.shapes[key] == nil {
		s.shapes[key] = make(map[string][]Shape)
	}
	s.shapes[key][page] = append(s.shapes[key][page], sh)
	return sh
}

// All returns every shape of doc, ordered by page then name.
func (s *MemorySurface) All(doc document.Document) []Shape {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Shape
	for _, list := range s.shapes[memKey(doc)] {
		out = append(out, list...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Page != out[j].Page {
			return out[i].Page < out[j].Page
		}
		return out[i].Name < out[j].Name
	})
	return out
}
