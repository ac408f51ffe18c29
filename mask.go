package udraw

import "image"

// Mask clips its own node's drawables and the whole subtree below it. The
// clip is pushed in BeginDraw and popped in EndDraw. Region is in canvas
// (world) coordinates. With no Region and ClipToRect unset the mask does
// nothing, not even a save.
type Mask struct {
	BehaviorBase

	Region Region
	Op     ClipOp
	// ClipToRect clips to the entity's world rect when Region is nil.
	ClipToRect bool

	saved  int
	pushed bool
}

// NewMask returns an intersecting mask with no region.
func NewMask() *Mask { return &Mask{} }

// Drawable returns m.
func (m *Mask) Drawable() Drawable { return m }

// BeginDraw saves the canvas and applies the clip.
func (m *Mask) BeginDraw(_ image.Rectangle, c Canvas) error {
	region := m.Region
	if region == nil && m.ClipToRect {
		t, err := requireRectTransform(&m.BehaviorBase, "Mask")
		if err != nil {
			return err
		}
		region = Region{t.WorldRect()}
	}
	if region == nil {
		return nil
	}
	m.saved = c.Save()
	m.pushed = true
	c.ClipRegion(region, m.Op)
	return nil
}

// Draw is a no-op.
func (m *Mask) Draw(image.Rectangle, Canvas) error { return nil }

// EndDraw restores what BeginDraw saved.
func (m *Mask) EndDraw(_ image.Rectangle, c Canvas) error {
	if !m.pushed {
		return nil
	}
	m.pushed = false
	c.RestoreToCount(m.saved)
	return nil
}

// OnDestroy drops the region.
func (m *Mask) OnDestroy() { m.Region = nil }
