package udraw

import "image"

// drawHooks supplies empty BeginDraw and EndDraw for leaves that only paint.
type drawHooks struct{}

func (drawHooks) BeginDraw(image.Rectangle, Canvas) error { return nil }
func (drawHooks) EndDraw(image.Rectangle, Canvas) error   { return nil }

// drawInRect runs paint inside the entity's Transform space with the local
// rect. It fails when the Transform is not in rect layout and skips paint
// when the world rect misses the capture rect entirely.
func drawInRect(b *BehaviorBase, who string, rect image.Rectangle, c Canvas, paint func(local Rect)) error {
	t, err := requireRectTransform(b, who)
	if err != nil {
		return err
	}
	if !RectFromImage(rect).Intersects(t.WorldRect()) {
		return nil
	}
	restore := t.PushCanvas(c)
	defer restore()
	paint(t.Rect())
	return nil
}

// Rectangle fills or outlines its entity's rect.
type Rectangle struct {
	BehaviorBase
	drawHooks
	Paint Paint
}

// NewRectangle returns a rectangle painted with DefaultPaint.
func NewRectangle() *Rectangle {
	return &Rectangle{Paint: DefaultPaint()}
}

// Drawable returns r.
func (r *Rectangle) Drawable() Drawable { return r }

// Draw paints the rect.
func (r *Rectangle) Draw(rect image.Rectangle, c Canvas) error {
	return drawInRect(&r.BehaviorBase, "Rectangle", rect, c, func(local Rect) {
		c.DrawRect(local, r.Paint)
	})
}

// RoundRectangle is a Rectangle with elliptical corners of radii RX and RY.
type RoundRectangle struct {
	BehaviorBase
	drawHooks
	Paint  Paint
	RX, RY float64
}

// NewRoundRectangle returns a round rectangle painted with DefaultPaint and
// square corners.
func NewRoundRectangle() *RoundRectangle {
	return &RoundRectangle{Paint: DefaultPaint()}
}

// Drawable returns r.
func (r *RoundRectangle) Drawable() Drawable { return r }

// Draw paints the rounded rect.
func (r *RoundRectangle) Draw(rect image.Rectangle, c Canvas) error {
	return drawInRect(&r.BehaviorBase, "RoundRectangle", rect, c, func(local Rect) {
		c.DrawRoundRect(local, r.RX, r.RY, r.Paint)
	})
}
