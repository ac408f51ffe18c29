package ggcanvas

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/phanxgames/udraw"
)

// frame is one entry of the save stack. gg restores its own state on Pop
// except the clip mask; frame keeps that and what gg does not expose.
type frame struct {
	matrix gg.Matrix
	// mask is the clip in effect when the frame was pushed. nil means
	// unclipped.
	mask *image.Alpha
	// layer holds the pixels as they were when SaveLayer ran. nil for Save.
	layer *image.RGBA
	alpha float64
}

// Canvas implements udraw.Canvas over a gg.Context.
type Canvas struct {
	dc     *gg.Context
	face   font.Face
	matrix gg.Matrix
	// mask is the current clip. Masks are never modified once set, so
	// frames share them.
	mask  *image.Alpha
	stack []frame
}

var _ udraw.Canvas = (*Canvas)(nil)

func newCanvas(dc *gg.Context, face font.Face) *Canvas {
	return &Canvas{dc: dc, face: face, matrix: gg.Identity()}
}

// Context returns the underlying gg context.
func (c *Canvas) Context() *gg.Context { return c.dc }

func (c *Canvas) pixels() *image.RGBA { return c.dc.Image().(*image.RGBA) }

// Save pushes the transform and clip.
func (c *Canvas) Save() int {
	n := c.SaveCount()
	c.dc.Push()
	c.stack = append(c.stack, frame{matrix: c.matrix, mask: c.mask})
	return n
}

// SaveLayer pushes state and starts an opacity layer. Everything drawn until
// the matching Restore is faded to alpha against what was underneath.
func (c *Canvas) SaveLayer(alpha float64) int {
	n := c.SaveCount()
	c.dc.Push()
	src := c.pixels()
	cp := image.NewRGBA(src.Rect)
	copy(cp.Pix, src.Pix)
	c.stack = append(c.stack, frame{matrix: c.matrix, mask: c.mask, layer: cp, alpha: math.Max(0, math.Min(1, alpha))})
	return n
}

// Restore pops one state. Restoring the initial state is a no-op.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	f := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.dc.Pop()
	c.matrix = f.matrix
	c.setMask(f.mask)
	if f.layer != nil {
		blend(c.pixels(), f.layer, f.alpha)
	}
}

// blend fades the pixels drawn since under was copied: the result is
// under + alpha*(dst - under), which in premultiplied space equals drawing
// the layer's contents over under with opacity alpha.
func blend(dst, under *image.RGBA, alpha float64) {
	if alpha >= 1 {
		return
	}
	for i, v := range dst.Pix {
		u := float64(under.Pix[i])
		dst.Pix[i] = uint8(math.Round(u + alpha*(float64(v)-u)))
	}
}

// SaveCount returns the stack depth. A fresh canvas reports 1.
func (c *Canvas) SaveCount() int { return len(c.stack) + 1 }

// RestoreToCount pops until SaveCount is n.
func (c *Canvas) RestoreToCount(n int) {
	for c.SaveCount() > n && len(c.stack) > 0 {
		c.Restore()
	}
}

func (c *Canvas) Translate(dx, dy float64) {
	c.dc.Translate(dx, dy)
	c.matrix = c.matrix.Translate(dx, dy)
}

func (c *Canvas) Rotate(theta float64) {
	c.dc.Rotate(theta)
	c.matrix = c.matrix.Rotate(theta)
}

func (c *Canvas) Scale(sx, sy float64) {
	c.dc.Scale(sx, sy)
	c.matrix = c.matrix.Scale(sx, sy)
}

// ClipRegion intersects the clip with the union of region, or with its
// complement for ClipDifference. Region rects are in user space.
func (c *Canvas) ClipRegion(region udraw.Region, op udraw.ClipOp) {
	clip := c.regionMask(region)
	if op == udraw.ClipDifference {
		for i, a := range clip.Pix {
			clip.Pix[i] = 255 - a
		}
	}
	if c.mask != nil {
		for i, a := range c.mask.Pix {
			clip.Pix[i] = uint8((uint16(clip.Pix[i])*uint16(a) + 127) / 255)
		}
	}
	c.setMask(clip)
}

// regionMask rasterizes the union of region, mapped through the current
// transform, into a fresh alpha mask the size of the surface.
func (c *Canvas) regionMask(region udraw.Region) *image.Alpha {
	scratch := gg.NewContext(c.dc.Width(), c.dc.Height())
	for _, r := range region {
		corners := [4][2]float64{
			{r.X, r.Y},
			{r.X + r.Width, r.Y},
			{r.X + r.Width, r.Y + r.Height},
			{r.X, r.Y + r.Height},
		}
		for i, p := range corners {
			x, y := c.matrix.TransformPoint(p[0], p[1])
			if i == 0 {
				scratch.MoveTo(x, y)
			} else {
				scratch.LineTo(x, y)
			}
		}
		scratch.ClosePath()
	}
	scratch.SetRGB(1, 1, 1)
	scratch.SetFillRule(gg.FillRuleWinding)
	scratch.Fill()
	return scratch.AsMask()
}

// setMask makes m the clip of both the canvas and the gg context.
func (c *Canvas) setMask(m *image.Alpha) {
	c.mask = m
	c.dc.ResetClip()
	if m != nil {
		// Same size as the context by construction.
		_ = c.dc.SetMask(m)
	}
}

// Clear fills every pixel with col, ignoring transform and clip.
func (c *Canvas) Clear(col udraw.Color) {
	c.dc.SetColor(col.NRGBA())
	c.dc.Clear()
}

// paint fills or strokes the current path.
func (c *Canvas) paint(p udraw.Paint) {
	c.dc.SetColor(p.Color.NRGBA())
	if p.Style == udraw.PaintStroke {
		c.dc.SetLineWidth(p.StrokeWidth)
		c.dc.Stroke()
		return
	}
	c.dc.Fill()
}

func (c *Canvas) DrawRect(r udraw.Rect, p udraw.Paint) {
	c.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	c.paint(p)
}

// DrawRoundRect draws r with elliptical corners. Radii are clamped to half
// the rect's extent; a non-positive radius gives square corners.
func (c *Canvas) DrawRoundRect(r udraw.Rect, rx, ry float64, p udraw.Paint) {
	rx = math.Min(rx, r.Width/2)
	ry = math.Min(ry, r.Height/2)
	if rx <= 0 || ry <= 0 {
		c.DrawRect(r, p)
		return
	}
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.Width, r.Y+r.Height
	dc := c.dc
	dc.NewSubPath()
	dc.DrawEllipticalArc(x0+rx, y0+ry, rx, ry, math.Pi, 1.5*math.Pi)
	dc.DrawEllipticalArc(x1-rx, y0+ry, rx, ry, 1.5*math.Pi, 2*math.Pi)
	dc.DrawEllipticalArc(x1-rx, y1-ry, rx, ry, 0, 0.5*math.Pi)
	dc.DrawEllipticalArc(x0+rx, y1-ry, rx, ry, 0.5*math.Pi, math.Pi)
	dc.ClosePath()
	c.paint(p)
}

// DrawImage draws the src region of img scaled into dst, tinted by the
// paint color.
func (c *Canvas) DrawImage(img image.Image, src image.Rectangle, dst udraw.Rect, p udraw.Paint) {
	src = src.Intersect(img.Bounds())
	if src.Empty() || dst.Empty() {
		return
	}
	var sub image.Image = imaging.Crop(img, src)
	if p.Color != udraw.ColorWhite {
		sub = tint(sub, p.Color)
	}
	dc := c.dc
	dc.Push()
	defer dc.Pop()
	dc.Translate(dst.X, dst.Y)
	dc.Scale(dst.Width/float64(src.Dx()), dst.Height/float64(src.Dy()))
	dc.DrawImage(sub, 0, 0)
}

// tint multiplies every channel of img by col.
func tint(img image.Image, col udraw.Color) *image.NRGBA {
	return imaging.AdjustFunc(img, func(px color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: mulByte(px.R, col.R),
			G: mulByte(px.G, col.G),
			B: mulByte(px.B, col.B),
			A: mulByte(px.A, col.A),
		}
	})
}

func mulByte(b uint8, k float64) uint8 {
	k = math.Max(0, math.Min(1, k))
	return uint8(math.Round(float64(b) * k))
}

// DrawText draws s with its baseline origin at pos.
func (c *Canvas) DrawText(s string, pos udraw.Vec2, p udraw.Paint) {
	face := p.Face
	if face == nil {
		face = c.face
	}
	c.dc.SetFontFace(face)
	c.dc.SetColor(p.Color.NRGBA())
	c.dc.DrawString(s, pos.X, pos.Y)
}
