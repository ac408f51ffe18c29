package udraw

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Text draws a single line of text at the top-left of its entity's rect.
type Text struct {
	BehaviorBase
	drawHooks

	Text      string
	Color     Color
	Antialias bool
	// Face defaults to basicfont.Face7x13 when nil.
	Face font.Face
}

// NewText returns an empty white text.
func NewText() *Text {
	return &Text{Color: ColorWhite, Antialias: true}
}

// Drawable returns t.
func (t *Text) Drawable() Drawable { return t }

func (t *Text) face() font.Face {
	if t.Face == nil {
		return basicfont.Face7x13
	}
	return t.Face
}

// Measure returns the ink bounds of the text relative to the baseline
// origin. The top is usually negative.
func (t *Text) Measure() Rect {
	b, _ := font.BoundString(t.face(), t.Text)
	minX, minY := float64(b.Min.X)/64, float64(b.Min.Y)/64
	maxX, maxY := float64(b.Max.X)/64, float64(b.Max.Y)/64
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Draw places the baseline one measured text height below the rect's top.
func (t *Text) Draw(rect image.Rectangle, c Canvas) error {
	return drawInRect(&t.BehaviorBase, "Text", rect, c, func(local Rect) {
		pos := local.Position()
		pos.Y += t.Measure().Height
		c.DrawText(t.Text, pos, Paint{
			Color:     t.Color,
			Style:     PaintFill,
			Antialias: t.Antialias,
			Face:      t.face(),
		})
	})
}
