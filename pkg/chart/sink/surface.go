package sink

import (
	"fmt"

	"github.com/matzehuels/waterfall/pkg/chart/layout"
)

// SVGSurface is an in-memory chart surface that renders to SVG. It
// implements chart.Surface and counts every call so callers can observe
// what a session did.
type SVGSurface struct {
	opts []SVGOption

	width, height float64
	allocated     bool
	detached      bool
	drawn         *layout.Layout

	Allocations int
	Clears      int
	Draws       int
}

// NewSVGSurface returns an unallocated surface. opts are applied by
// [SVGSurface.Bytes].
func NewSVGSurface(opts ...SVGOption) *SVGSurface {
	return &SVGSurface{opts: opts}
}

func (s *SVGSurface) Allocate(width, height float64) error {
	if s.detached {
		return fmt.Errorf("surface detached")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %vx%v", width, height)
	}
	s.width, s.height = width, height
	s.allocated = true
	s.drawn = nil
	s.Allocations++
	return nil
}

func (s *SVGSurface) Clear() {
	s.drawn = nil
	s.Clears++
}

func (s *SVGSurface) Draw(l layout.Layout) error {
	switch {
	case s.detached:
		return fmt.Errorf("surface detached")
	case !s.allocated:
		return fmt.Errorf("surface not allocated")
	}
	s.drawn = &l
	s.Draws++
	return nil
}

func (s *SVGSurface) Detach() {
	s.detached = true
	s.drawn = nil
}

// Size returns the allocated size.
func (s *SVGSurface) Size() (width, height float64) { return s.width, s.height }

// Layout returns the currently drawn layout, if any.
func (s *SVGSurface) Layout() (layout.Layout, bool) {
	if s.drawn == nil {
		return layout.Layout{}, false
	}
	return *s.drawn, true
}

// Bytes renders the current surface content. An allocated surface with
// nothing drawn yields an empty document of the allocated size.
func (s *SVGSurface) Bytes() []byte {
	if s.drawn == nil {
		r := newSVGRenderer(s.opts...)
		return renderEmpty(s.width, s.height, r.fixedSize)
	}
	return RenderSVG(*s.drawn, s.opts...)
}
