package udraw

import (
	"image"
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication happens in the raster backend.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorClear = Color{0, 0, 0, 0}
)

// NRGBA converts c to a straight-alpha color.NRGBA, clamping each component.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: unitToByte(c.R),
		G: unitToByte(c.G),
		B: unitToByte(c.B),
		A: unitToByte(c.A),
	}
}

// Mul multiplies two colors component-wise.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

func unitToByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// Vec2 is a 2D vector used for positions, offsets, sizes, anchors and pivots.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns the component-wise product of v and o.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// Scale returns v scaled by k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

func minVec(a, b Vec2) Vec2 { return Vec2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)} }

func maxVec(a, b Vec2) Vec2 { return Vec2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// RectFromMinMax builds a rect spanning the two corner points.
func RectFromMinMax(lo, hi Vec2) Rect {
	return Rect{lo.X, lo.Y, hi.X - lo.X, hi.Y - lo.Y}
}

// Position returns the top-left corner.
func (r Rect) Position() Vec2 { return Vec2{r.X, r.Y} }

// Size returns the extent.
func (r Rect) Size() Vec2 { return Vec2{r.Width, r.Height} }

// Min returns the top-left corner.
func (r Rect) Min() Vec2 { return Vec2{r.X, r.Y} }

// Max returns the bottom-right corner.
func (r Rect) Max() Vec2 { return Vec2{r.X + r.Width, r.Y + r.Height} }

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Union returns the smallest rect containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return RectFromMinMax(minVec(r.Min(), other.Min()), maxVec(r.Max(), other.Max()))
}

// maxPixelCoord bounds the pixel coordinates Round produces. It fits in a
// 32-bit int.
const maxPixelCoord = 1 << 30

// Round converts r to integer pixel bounds by rounding each edge. Edges are
// clamped to ±2^30 and NaN edges become 0.
func (r Rect) Round() image.Rectangle {
	return image.Rect(
		roundCoord(r.X),
		roundCoord(r.Y),
		roundCoord(r.X+r.Width),
		roundCoord(r.Y+r.Height),
	)
}

func roundCoord(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= maxPixelCoord:
		return maxPixelCoord
	case v <= -maxPixelCoord:
		return -maxPixelCoord
	}
	return int(math.Round(v))
}

// RectFromImage converts integer pixel bounds to a Rect.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy())}
}

// MergeRects unions two optional rects. A missing operand yields the other
// one unchanged; two missing operands yield a missing result.
func MergeRects(a Rect, aok bool, b Rect, bok bool) (Rect, bool) {
	switch {
	case !aok && !bok:
		return Rect{}, false
	case !bok:
		return a, true
	case !aok:
		return b, true
	}
	return a.Union(b), true
}

// PaintStyle selects whether shapes are filled or outlined.
type PaintStyle uint8

const (
	PaintFill   PaintStyle = iota // fill the shape interior
	PaintStroke                   // outline the shape with StrokeWidth
)

// ClipOp combines a clip region with the canvas's current clip.
type ClipOp uint8

const (
	ClipIntersect  ClipOp = iota // keep only the region
	ClipDifference               // keep everything except the region
)

// PixelFormat names the pixel layout requested from a SurfaceFactory.
type PixelFormat uint8

const (
	PixelFormatRGBA8888 PixelFormat = iota // 8-bit premultiplied RGBA
)
