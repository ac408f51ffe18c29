package udraw

import (
	"errors"
	"image"
	"image/color"
)

// Texture is an immutable source image. Leaves draw regions of it.
type Texture struct {
	img image.Image
}

// NewTexture wraps img.
func NewTexture(img image.Image) (*Texture, error) {
	if img == nil {
		return nil, errors.New("udraw: nil texture image")
	}
	return &Texture{img: img}, nil
}

// Width returns the pixel width.
func (t *Texture) Width() int { return t.img.Bounds().Dx() }

// Height returns the pixel height.
func (t *Texture) Height() int { return t.img.Bounds().Dy() }

// Bounds returns the full pixel bounds.
func (t *Texture) Bounds() image.Rectangle { return t.img.Bounds() }

// Image returns the underlying image.
func (t *Texture) Image() image.Image { return t.img }

// Draw draws the src region of t into dst on c.
func (t *Texture) Draw(c Canvas, src image.Rectangle, dst Rect, p Paint) {
	c.DrawImage(t.img, src, dst, p)
}

var blankTexture = func() *Texture {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 255})
	return &Texture{img: img}
}()

// BlankTexture returns the shared 1×1 opaque white texture used by leaves
// with no asset assigned.
func BlankTexture() *Texture { return blankTexture }

// Sprite selects a region of a Texture. Pivot is in normalized region space.
type Sprite struct {
	Texture *Texture
	Rect    image.Rectangle
	Pivot   Vec2
}

// NewSprite covers the whole texture with a centered pivot.
func NewSprite(t *Texture) *Sprite {
	return &Sprite{Texture: t, Rect: t.Bounds(), Pivot: Vec2{0.5, 0.5}}
}

// NewSpriteRect covers region r of the texture.
func NewSpriteRect(t *Texture, r image.Rectangle, pivot Vec2) *Sprite {
	return &Sprite{Texture: t, Rect: r.Intersect(t.Bounds()), Pivot: pivot}
}

// BlankSprite returns a sprite over BlankTexture.
func BlankSprite() *Sprite { return NewSprite(blankTexture) }
