package udraw

import (
	"fmt"
	"slices"
)

// Layout selects the Transform variant.
type Layout uint8

const (
	LayoutPlain Layout = iota // position in the hierarchy only
	LayoutRect                // adds anchor/pivot/size-delta rect layout
)

func (l Layout) String() string {
	if l == LayoutRect {
		return "rect"
	}
	return "plain"
}

// Transform gives an Entity its place in the scene tree. Every entity owns
// exactly one. Position composes additively through the hierarchy, scale
// multiplies, and rotation stays local to the node.
//
// The rect fields are only meaningful when Layout() is LayoutRect.
type Transform struct {
	BehaviorBase

	layout   Layout
	parent   EntityID
	children []EntityID

	// LocalPosition is the offset from the parent's world position.
	LocalPosition Vec2
	// LocalScale multiplies the parent's world scale. Defaults to (1, 1).
	LocalScale Vec2
	// LocalRotation in radians. Not inherited by children.
	LocalRotation float64

	SizeDelta Vec2
	AnchorMin Vec2
	AnchorMax Vec2
	Pivot     Vec2
}

func newTransform() *Transform {
	t := &Transform{LocalScale: Vec2{1, 1}}
	t.resetRect()
	return t
}

func (t *Transform) resetRect() {
	t.SizeDelta = Vec2{}
	t.AnchorMin = Vec2{0.5, 0.5}
	t.AnchorMax = Vec2{0.5, 0.5}
	t.Pivot = Vec2{0.5, 0.5}
}

// setLayout switches the variant in place. Parent, children and local values
// survive; the rect fields start over from their defaults.
func (t *Transform) setLayout(l Layout) {
	if t.layout == l {
		return
	}
	t.layout = l
	t.resetRect()
}

// Kind reports KindRectTransform in rect layout and KindTransform otherwise.
func (t *Transform) Kind() Kind {
	if t.layout == LayoutRect {
		return KindRectTransform
	}
	return KindTransform
}

// Layout returns the active variant.
func (t *Transform) Layout() Layout { return t.layout }

// IsRect reports whether the Transform uses rect layout.
func (t *Transform) IsRect() bool { return t.layout == LayoutRect }

// Transform returns t.
func (t *Transform) Transform() *Transform { return t }

func (t *Transform) scene() *Scene { return t.entity.scene }

func (t *Transform) lookup(id EntityID) *Transform {
	if s := t.scene(); s != nil {
		return s.transformOf(id)
	}
	return nil
}

// --- Hierarchy ---

// Parent returns the parent Transform, or nil at the top of a tree.
func (t *Transform) Parent() *Transform {
	if t.parent.IsZero() {
		return nil
	}
	return t.lookup(t.parent)
}

// Root walks up to the top of t's tree.
func (t *Transform) Root() *Transform {
	r := t
	for p := r.Parent(); p != nil; p = r.Parent() {
		r = p
	}
	return r
}

// Children returns the child Transforms in draw order.
func (t *Transform) Children() []*Transform {
	out := make([]*Transform, 0, len(t.children))
	for _, id := range t.children {
		if c := t.lookup(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// ChildCount returns the number of children.
func (t *Transform) ChildCount() int { return len(t.children) }

// Child returns the child at index, or nil when index is out of range.
func (t *Transform) Child(index int) *Transform {
	if index < 0 || index >= len(t.children) {
		return nil
	}
	return t.lookup(t.children[index])
}

// SetParent moves t under p, appending it to p's children. A nil p detaches
// t. Setting t as its own parent, or under one of its descendants, fails
// with ErrInvalidReparent and leaves the tree unchanged.
func (t *Transform) SetParent(p *Transform) error {
	s := t.scene()
	if s == nil {
		return fmt.Errorf("set parent: %w", ErrInvalidEntity)
	}
	if p == nil {
		t.detach()
		return nil
	}
	name := t.entity.Name()
	if p == t {
		return fmt.Errorf("set parent of %q to itself: %w", name, ErrInvalidReparent)
	}
	if p.scene() != s {
		return fmt.Errorf("set parent of %q across scenes: %w", name, ErrInvalidReparent)
	}
	if p.entity.id == t.parent {
		return nil
	}
	if t.isAncestorOf(p) {
		return fmt.Errorf("set parent of %q to descendant %q: %w", name, p.entity.Name(), ErrInvalidReparent)
	}
	t.detach()
	t.parent = p.entity.id
	p.children = append(p.children, t.entity.id)
	if s.debug {
		s.debugCheckTreeDepth(t)
		s.debugCheckChildCount(p)
	}
	return nil
}

// SetSiblingIndex moves t to index within its parent's children. The index
// is clamped to the valid range.
func (t *Transform) SetSiblingIndex(index int) {
	p := t.Parent()
	if p == nil {
		return
	}
	old := slices.Index(p.children, t.entity.id)
	if old < 0 {
		return
	}
	index = max(0, min(index, len(p.children)-1))
	if old == index {
		return
	}
	p.children = slices.Delete(p.children, old, old+1)
	p.children = slices.Insert(p.children, index, t.entity.id)
}

// SiblingIndex returns t's position among its parent's children, or -1.
func (t *Transform) SiblingIndex() int {
	p := t.Parent()
	if p == nil {
		return -1
	}
	return slices.Index(p.children, t.entity.id)
}

// isAncestorOf reports whether t is node or one of node's ancestors.
func (t *Transform) isAncestorOf(node *Transform) bool {
	for n := node; n != nil; n = n.Parent() {
		if n == t {
			return true
		}
	}
	return false
}

// detach removes t from its parent's child list and clears the parent link.
func (t *Transform) detach() {
	if t.parent.IsZero() {
		return
	}
	if p := t.lookup(t.parent); p != nil {
		if i := slices.Index(p.children, t.entity.id); i >= 0 {
			p.children = slices.Delete(p.children, i, i+1)
		}
	}
	t.parent = EntityID{}
}

// --- World values ---

// Position returns the world position: the parent's world position plus
// LocalPosition. Ancestor rotation and scale do not move it.
func (t *Transform) Position() Vec2 {
	if p := t.Parent(); p != nil {
		return p.Position().Add(t.LocalPosition)
	}
	return t.LocalPosition
}

// SetPosition sets LocalPosition so that Position returns pos.
func (t *Transform) SetPosition(pos Vec2) {
	if p := t.Parent(); p != nil {
		t.LocalPosition = pos.Sub(p.Position())
		return
	}
	t.LocalPosition = pos
}

// Scale returns the component-wise product of the ancestor scales and
// LocalScale.
func (t *Transform) Scale() Vec2 {
	if p := t.Parent(); p != nil {
		return p.Scale().Mul(t.LocalScale)
	}
	return t.LocalScale
}

// SetScale sets LocalScale so that Scale returns s. Axes whose parent scale
// is zero are left untouched.
func (t *Transform) SetScale(s Vec2) {
	p := t.Parent()
	if p == nil {
		t.LocalScale = s
		return
	}
	ps := p.Scale()
	if ps.X != 0 {
		t.LocalScale.X = s.X / ps.X
	}
	if ps.Y != 0 {
		t.LocalScale.Y = s.Y / ps.Y
	}
}

// CalcRect returns the world-space bounds of t's subtree. Rect nodes
// contribute their WorldRect; plain nodes only forward their children. The
// boolean is false when nothing in the subtree has geometry.
func (t *Transform) CalcRect() (Rect, bool) {
	var r Rect
	ok := false
	if t.IsRect() {
		r, ok = t.WorldRect(), true
	}
	for _, c := range t.Children() {
		cr, cok := c.CalcRect()
		r, ok = MergeRects(r, ok, cr, cok)
	}
	return r, ok
}

// PushCanvas saves c and moves it into t's space: translate by the world
// position, rotate by the local rotation, scale by the world scale. The
// returned func restores c to the depth it had before the call.
func (t *Transform) PushCanvas(c Canvas) (restore func()) {
	n := c.Save()
	pos := t.Position()
	scale := t.Scale()
	c.Translate(pos.X, pos.Y)
	c.Rotate(t.LocalRotation)
	c.Scale(scale.X, scale.Y)
	return func() { c.RestoreToCount(n) }
}
