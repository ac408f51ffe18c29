package udraw

import "image"

// Image draws a Sprite stretched over its entity's rect, tinted by Color.
// A nil Sprite draws BlankTexture, so an Image with only a Color set acts
// as a solid fill.
type Image struct {
	BehaviorBase
	drawHooks

	Sprite    *Sprite
	Color     Color
	Antialias bool
}

// NewImage returns an untinted, antialiased image with no sprite.
func NewImage() *Image {
	return &Image{Color: ColorWhite, Antialias: true}
}

// Drawable returns i.
func (i *Image) Drawable() Drawable { return i }

// Draw paints the sprite region into the local rect.
func (i *Image) Draw(rect image.Rectangle, c Canvas) error {
	return drawInRect(&i.BehaviorBase, "Image", rect, c, func(local Rect) {
		sprite := i.Sprite
		if sprite == nil || sprite.Texture == nil {
			sprite = BlankSprite()
		}
		sprite.Texture.Draw(c, sprite.Rect, local, Paint{
			Color:     i.Color,
			Style:     PaintFill,
			Antialias: i.Antialias,
		})
	})
}

// OnDestroy drops the sprite reference.
func (i *Image) OnDestroy() { i.Sprite = nil }
