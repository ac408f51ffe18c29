package udraw

import (
	"image"

	"golang.org/x/image/font"
)

// Canvas is the raster drawing surface a capture renders into. State changes
// (transform, clip, layers) live on a stack: Save and SaveLayer push,
// Restore pops.
type Canvas interface {
	// Save pushes the current transform and clip and returns the save count
	// before the push.
	Save() int
	// SaveLayer is like Save but redirects drawing to an offscreen layer that
	// is composited with the given opacity when the matching Restore runs.
	SaveLayer(alpha float64) int
	// Restore pops one saved state. Restoring the initial state is a no-op.
	Restore()
	// SaveCount returns the stack depth. A fresh canvas reports 1.
	SaveCount() int
	// RestoreToCount pops until SaveCount equals n.
	RestoreToCount(n int)

	Translate(dx, dy float64)
	// Rotate rotates by theta radians.
	Rotate(theta float64)
	Scale(sx, sy float64)

	// ClipRegion combines region, in current canvas coordinates, with the
	// current clip.
	ClipRegion(region Region, op ClipOp)
	// Clear fills every pixel with c, ignoring transform and clip.
	Clear(c Color)

	DrawRect(r Rect, p Paint)
	DrawRoundRect(r Rect, rx, ry float64, p Paint)
	// DrawImage draws the src region of img scaled into dst.
	DrawImage(img image.Image, src image.Rectangle, dst Rect, p Paint)
	// DrawText draws s with its baseline origin at pos.
	DrawText(s string, pos Vec2, p Paint)
}

// Surface is an allocated pixel buffer with a canvas drawing into it.
type Surface interface {
	Canvas() Canvas
	// Snapshot copies the current pixels into a standalone image.
	Snapshot() image.Image
	Close() error
}

// SurfaceFactory allocates surfaces. CreateSurface fails when w or h is not
// positive.
type SurfaceFactory interface {
	CreateSurface(w, h int, format PixelFormat) (Surface, error)
}

// SurfaceFactoryFunc adapts a function to SurfaceFactory.
type SurfaceFactoryFunc func(w, h int, format PixelFormat) (Surface, error)

// CreateSurface calls f.
func (f SurfaceFactoryFunc) CreateSurface(w, h int, format PixelFormat) (Surface, error) {
	return f(w, h, format)
}

// Paint describes how shapes, images and text are drawn.
type Paint struct {
	Color       Color
	Style       PaintStyle
	StrokeWidth float64
	Antialias   bool
	// Face is used by DrawText. Backends fall back to their default face.
	Face font.Face
}

// DefaultPaint returns an antialiased opaque white fill.
func DefaultPaint() Paint {
	return Paint{Color: ColorWhite, Style: PaintFill, StrokeWidth: 1, Antialias: true}
}

// Region is the union of a set of rects.
type Region []Rect

// Bounds returns the smallest rect enclosing the region.
func (r Region) Bounds() (Rect, bool) {
	var out Rect
	ok := false
	for _, rr := range r {
		out, ok = MergeRects(out, ok, rr, true)
	}
	return out, ok
}
