package udraw

import "image"

// Layer renders its node and subtree into an offscreen layer that is
// composited back with Alpha opacity once the subtree is done.
type Layer struct {
	BehaviorBase

	Alpha float64

	saved  int
	pushed bool
}

// NewLayer returns an opaque layer.
func NewLayer() *Layer { return &Layer{Alpha: 1} }

// Drawable returns l.
func (l *Layer) Drawable() Drawable { return l }

// BeginDraw opens the layer.
func (l *Layer) BeginDraw(_ image.Rectangle, c Canvas) error {
	l.saved = c.SaveLayer(clamp01(l.Alpha))
	l.pushed = true
	return nil
}

// Draw is a no-op.
func (l *Layer) Draw(image.Rectangle, Canvas) error { return nil }

// EndDraw commits the layer.
func (l *Layer) EndDraw(_ image.Rectangle, c Canvas) error {
	if !l.pushed {
		return nil
	}
	l.pushed = false
	c.RestoreToCount(l.saved)
	return nil
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
