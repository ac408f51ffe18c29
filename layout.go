package udraw

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rect-layout math. Every derived value is recomputed on read from the
// node's fields and its parent chain; nothing is cached.

// parentRect returns the parent Transform when it uses rect layout.
func (t *Transform) parentRect() (*Transform, bool) {
	p := t.Parent()
	if p == nil || !p.IsRect() {
		return nil, false
	}
	return p, true
}

// Size returns the node's extent. Under a rect parent it is the parent's
// size spread across the anchors plus SizeDelta; otherwise just SizeDelta.
func (t *Transform) Size() Vec2 {
	p, ok := t.parentRect()
	if !ok {
		return t.SizeDelta
	}
	return p.Size().Mul(t.AnchorMax.Sub(t.AnchorMin)).Add(t.SizeDelta)
}

// Rect returns the local rect: Size, placed so that Pivot sits on the origin.
func (t *Transform) Rect() Rect {
	size := t.Size()
	return Rect{
		X:      -t.Pivot.X * size.X,
		Y:      -t.Pivot.Y * size.Y,
		Width:  size.X,
		Height: size.Y,
	}
}

// AnchorRect returns the region of the parent's local rect selected by
// AnchorMin and AnchorMax. A plain parent offers a zero-size rect at its
// local position; no parent offers the zero rect.
func (t *Transform) AnchorRect() Rect {
	var pr Rect
	if p := t.Parent(); p != nil {
		if p.IsRect() {
			pr = p.Rect()
		} else {
			pr = Rect{X: p.LocalPosition.X, Y: p.LocalPosition.Y}
		}
	}
	pos := pr.Position().Add(pr.Size().Mul(t.AnchorMin))
	size := pr.Size().Mul(t.AnchorMax.Sub(t.AnchorMin))
	return Rect{pos.X, pos.Y, size.X, size.Y}
}

func (t *Transform) anchorPivot() Vec2 {
	ar := t.AnchorRect()
	return ar.Position().Add(ar.Size().Mul(t.Pivot))
}

// AnchoredPosition returns the pivot's offset from its anchor reference point.
func (t *Transform) AnchoredPosition() Vec2 {
	return t.LocalPosition.Sub(t.anchorPivot())
}

// SetAnchoredPosition moves the node so AnchoredPosition returns v.
func (t *Transform) SetAnchoredPosition(v Vec2) {
	t.LocalPosition = t.anchorPivot().Add(v)
}

// OffsetMin returns the top-left corner of the rect relative to the
// top-left anchor.
func (t *Transform) OffsetMin() Vec2 {
	return t.LocalPosition.Add(t.Rect().Position()).Sub(t.AnchorRect().Position())
}

// SetOffsetMin moves the top-left edge to v while the bottom-right edge
// stays where it is.
func (t *Transform) SetOffsetMin(v Vec2) {
	ar := t.AnchorRect()
	topLeft := ar.Position().Add(v)
	bottomRight := ar.Max().Add(t.OffsetMax())
	t.SizeDelta = bottomRight.Sub(topLeft).Sub(ar.Size())

	r := t.Rect()
	delta := r.Position().Add(t.LocalPosition).Sub(ar.Position()).Sub(v)
	t.LocalPosition = t.LocalPosition.Sub(delta)
}

// OffsetMax returns the bottom-right corner of the rect relative to the
// bottom-right anchor.
func (t *Transform) OffsetMax() Vec2 {
	r := t.Rect()
	return t.LocalPosition.Add(r.Max()).Sub(t.AnchorRect().Max())
}

// SetOffsetMax moves the bottom-right edge to v while the top-left edge
// stays where it is.
func (t *Transform) SetOffsetMax(v Vec2) {
	ar := t.AnchorRect()
	topLeft := ar.Position().Add(t.OffsetMin())
	bottomRight := ar.Max().Add(v)
	t.SizeDelta = bottomRight.Sub(topLeft).Sub(ar.Size())

	r := t.Rect()
	delta := r.Max().Add(t.LocalPosition).Sub(ar.Max()).Sub(v)
	t.LocalPosition = t.LocalPosition.Sub(delta)
}

// WorldRect returns the smallest axis-aligned rect enclosing the local rect
// after rotation by LocalRotation, scaled by the world scale and moved to
// the world position.
func (t *Transform) WorldRect() Rect {
	r := t.Rect()
	rot := mgl64.Rotate2D(t.LocalRotation)
	corners := [4]mgl64.Vec2{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X, r.Y + r.Height},
		{r.X + r.Width, r.Y + r.Height},
	}

	lo := Vec2{math.Inf(1), math.Inf(1)}
	hi := Vec2{math.Inf(-1), math.Inf(-1)}
	for _, c := range corners {
		p := rot.Mul2x1(c)
		v := Vec2{p.X(), p.Y()}
		lo = minVec(lo, v)
		hi = maxVec(hi, v)
	}

	// A negative scale flips the box, so reorder the corners after scaling.
	scale := t.Scale()
	a, b := lo.Mul(scale), hi.Mul(scale)
	pos := t.Position()
	return RectFromMinMax(minVec(a, b).Add(pos), maxVec(a, b).Add(pos))
}
