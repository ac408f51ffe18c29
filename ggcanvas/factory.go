package ggcanvas

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/phanxgames/udraw"
)

// Surface size limits. A surface is four bytes per pixel, so the pixel cap
// bounds one surface at 256 MiB.
const (
	MaxSurfaceSide   = 1 << 15
	MaxSurfacePixels = 1 << 26
)

// Factory allocates gg-backed surfaces. The zero value is not usable; call
// NewFactory.
type Factory struct {
	face font.Face
}

// Option configures a Factory.
type Option func(*Factory)

// WithFace sets the face DrawText uses when a Paint carries none.
func WithFace(face font.Face) Option {
	return func(f *Factory) {
		if face != nil {
			f.face = face
		}
	}
}

// NewFactory returns a Factory. Text falls back to basicfont.Face7x13.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{face: basicfont.Face7x13}
	for _, o := range opts {
		o(f)
	}
	return f
}

// CreateSurface allocates a w x h transparent surface.
func (f *Factory) CreateSurface(w, h int, format udraw.PixelFormat) (udraw.Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("ggcanvas: invalid surface size %dx%d", w, h)
	}
	if w > MaxSurfaceSide || h > MaxSurfaceSide || w*h > MaxSurfacePixels {
		return nil, fmt.Errorf("ggcanvas: surface %dx%d exceeds the %d pixel limit", w, h, MaxSurfacePixels)
	}
	if format != udraw.PixelFormatRGBA8888 {
		return nil, fmt.Errorf("ggcanvas: unsupported pixel format %d", format)
	}
	dc := gg.NewContext(w, h)
	dc.SetFontFace(f.face)
	return &Surface{canvas: newCanvas(dc, f.face)}, nil
}

// Surface is a gg-backed udraw.Surface.
type Surface struct {
	canvas *Canvas
}

// Canvas returns the surface's canvas. It is nil after Close.
func (s *Surface) Canvas() udraw.Canvas {
	if s.canvas == nil {
		return nil
	}
	return s.canvas
}

// Snapshot copies the current pixels into a new NRGBA image.
func (s *Surface) Snapshot() image.Image {
	if s.canvas == nil {
		return nil
	}
	return imaging.Clone(s.canvas.dc.Image())
}

// Close releases the context. Calling it again is a no-op.
func (s *Surface) Close() error {
	s.canvas = nil
	return nil
}
