package scenefile

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font"

	"github.com/phanxgames/udraw"
)

// builder turns specs into entities. It caches fonts and textures so that
// repeated references share one instance.
type builder struct {
	dir      string
	fonts    map[string]font.Face
	atlases  map[string]*udraw.Atlas
	textures map[string]*udraw.Texture
}

func invalid(where, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", where, ErrInvalid, fmt.Sprintf(format, args...))
}

func (b *builder) configure(scene *udraw.Scene, f *File) error {
	if f.Background != "" {
		c, err := parseColor(f.Background)
		if err != nil {
			return invalid("background", "%v", err)
		}
		scene.Background = c
	}
	if f.MinSize != nil {
		if len(f.MinSize) != 2 || f.MinSize[0] <= 0 || f.MinSize[1] <= 0 {
			return invalid("minSize", "want two positive integers, got %v", f.MinSize)
		}
		scene.MinSize = image.Pt(f.MinSize[0], f.MinSize[1])
	}
	for name, spec := range f.Fonts {
		face, err := b.loadFont(spec)
		if err != nil {
			return invalid("fonts."+name, "%v", err)
		}
		b.fonts[name] = face
	}
	for name, spec := range f.Atlases {
		a, err := b.loadAtlas(spec)
		if err != nil {
			return invalid("atlases."+name, "%v", err)
		}
		b.atlases[name] = a
	}
	return nil
}

func (b *builder) entity(parent udraw.Entity, spec *EntitySpec, where string) error {
	e := parent.Scene().NewEntity(spec.Name)
	if err := e.SetParent(parent); err != nil {
		return fmt.Errorf("%s: %w", where, err)
	}
	if spec.Transform != nil {
		if err := b.transform(e, spec.Transform, where+".transform"); err != nil {
			return err
		}
	}
	for i := range spec.Components {
		if err := b.component(e, &spec.Components[i], fmt.Sprintf("%s.components[%d]", where, i)); err != nil {
			return err
		}
	}
	if spec.Disabled {
		for _, beh := range e.Behaviors() {
			beh.SetEnabled(false)
		}
	}
	for i := range spec.Children {
		if err := b.entity(e, &spec.Children[i], fmt.Sprintf("%s.children[%d]", where, i)); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) transform(e udraw.Entity, spec *TransformSpec, where string) error {
	t := e.Transform()
	var err error
	if t.LocalPosition, err = vec(spec.Position, t.LocalPosition); err != nil {
		return invalid(where+".position", "%v", err)
	}
	if t.LocalScale, err = vec(spec.Scale, t.LocalScale); err != nil {
		return invalid(where+".scale", "%v", err)
	}
	t.LocalRotation = spec.Rotation * math.Pi / 180

	r := spec.Rect
	if r == nil {
		return nil
	}
	if _, err := e.Attach(udraw.KindRectTransform); err != nil {
		return fmt.Errorf("%s.rect: %w", where, err)
	}
	fields := []struct {
		name string
		src  []float64
		dst  *udraw.Vec2
	}{
		{"size", r.Size, &t.SizeDelta},
		{"anchorMin", r.AnchorMin, &t.AnchorMin},
		{"anchorMax", r.AnchorMax, &t.AnchorMax},
		{"pivot", r.Pivot, &t.Pivot},
	}
	for _, f := range fields {
		if *f.dst, err = vec(f.src, *f.dst); err != nil {
			return invalid(where+".rect."+f.name, "%v", err)
		}
	}
	if r.AnchoredPosition != nil {
		p, err := vec(r.AnchoredPosition, udraw.Vec2{})
		if err != nil {
			return invalid(where+".rect.anchoredPosition", "%v", err)
		}
		t.SetAnchoredPosition(p)
	}
	return nil
}

func (b *builder) component(e udraw.Entity, spec *ComponentSpec, where string) error {
	kind := udraw.Kind(spec.Kind)
	if kind == "" {
		return invalid(where, "missing kind")
	}
	beh, err := e.Attach(kind)
	if err != nil {
		return fmt.Errorf("%s: %w", where, err)
	}
	if err := b.configureBehavior(beh, spec); err != nil {
		return invalid(where, "%v", err)
	}
	if spec.Disabled {
		beh.SetEnabled(false)
	}
	return nil
}

func (b *builder) configureBehavior(beh udraw.Behavior, spec *ComponentSpec) error {
	switch v := beh.(type) {
	case *udraw.Rectangle:
		return b.paint(&v.Paint, spec)
	case *udraw.RoundRectangle:
		if err := b.paint(&v.Paint, spec); err != nil {
			return err
		}
		r, err := vec(spec.Radius, udraw.Vec2{})
		if err != nil {
			return fmt.Errorf("radius: %w", err)
		}
		v.RX, v.RY = r.X, r.Y
	case *udraw.Image:
		return b.image(v, spec)
	case *udraw.Text:
		v.Text = spec.Text
		if err := colorOr(&v.Color, spec.Color); err != nil {
			return err
		}
		if spec.Antialias != nil {
			v.Antialias = *spec.Antialias
		}
		if spec.Font != "" {
			face, ok := b.fonts[spec.Font]
			if !ok {
				return fmt.Errorf("unknown font %q", spec.Font)
			}
			v.Face = face
		}
	case *udraw.Mask:
		op, err := clipOp(spec.Op)
		if err != nil {
			return err
		}
		v.Op = op
		v.ClipToRect = spec.ClipToRect
		for i, r := range spec.Region {
			if len(r) != 4 {
				return fmt.Errorf("region[%d]: want [x, y, w, h], got %v", i, r)
			}
			v.Region = append(v.Region, udraw.Rect{X: r[0], Y: r[1], Width: r[2], Height: r[3]})
		}
	case *udraw.Layer:
		if spec.Alpha != nil {
			v.Alpha = *spec.Alpha
		}
	case *udraw.Tween:
		return tween(v, spec)
	}
	return nil
}

func (b *builder) paint(p *udraw.Paint, spec *ComponentSpec) error {
	if err := colorOr(&p.Color, spec.Color); err != nil {
		return err
	}
	switch spec.Style {
	case "", "fill":
		p.Style = udraw.PaintFill
	case "stroke":
		p.Style = udraw.PaintStroke
	default:
		return fmt.Errorf("unknown style %q", spec.Style)
	}
	if spec.StrokeWidth > 0 {
		p.StrokeWidth = spec.StrokeWidth
	}
	if spec.Antialias != nil {
		p.Antialias = *spec.Antialias
	}
	return nil
}

func (b *builder) image(img *udraw.Image, spec *ComponentSpec) error {
	if err := colorOr(&img.Color, spec.Color); err != nil {
		return err
	}
	if spec.Antialias != nil {
		img.Antialias = *spec.Antialias
	}
	if spec.Atlas != "" {
		if spec.Path != "" {
			return fmt.Errorf("set path or atlas, not both")
		}
		a, ok := b.atlases[spec.Atlas]
		if !ok {
			return fmt.Errorf("unknown atlas %q", spec.Atlas)
		}
		s, ok := a.Sprite(spec.Sprite)
		if !ok {
			return fmt.Errorf("atlas %q has no sprite %q", spec.Atlas, spec.Sprite)
		}
		img.Sprite = s
		return nil
	}
	if spec.Path == "" {
		return nil
	}
	tex, err := b.loadTexture(spec.Path)
	if err != nil {
		return err
	}
	switch len(spec.Source) {
	case 0:
		img.Sprite = udraw.NewSprite(tex)
	case 4:
		s := spec.Source
		img.Sprite = udraw.NewSpriteRect(tex, image.Rect(s[0], s[1], s[0]+s[2], s[1]+s[3]), udraw.Vec2{X: 0.5, Y: 0.5})
	default:
		return fmt.Errorf("source: want [x, y, w, h], got %v", spec.Source)
	}
	return nil
}

func tween(tw *udraw.Tween, spec *ComponentSpec) error {
	prop := udraw.TweenProperty(spec.Property)
	if prop == "" {
		prop = udraw.TweenPosition
	}
	from, err := vec(spec.From, udraw.Vec2{})
	if err != nil {
		return fmt.Errorf("from: %w", err)
	}
	to, err := vec(spec.To, udraw.Vec2{})
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}
	fn, err := easeByName(spec.Ease)
	if err != nil {
		return err
	}
	dur := spec.Duration
	if dur <= 0 {
		dur = 1
	}
	switch prop {
	case udraw.TweenPosition, udraw.TweenScale, udraw.TweenRotation,
		udraw.TweenSize, udraw.TweenAnchoredPosition:
	default:
		return fmt.Errorf("unknown tween property %q", spec.Property)
	}
	tw.Play(prop, from, to, dur, fn)
	tw.Loop = spec.Loop
	return nil
}

func clipOp(s string) (udraw.ClipOp, error) {
	switch s {
	case "", "intersect":
		return udraw.ClipIntersect, nil
	case "difference":
		return udraw.ClipDifference, nil
	}
	return 0, fmt.Errorf("unknown clip op %q", s)
}

// vec converts a two-element list. A nil list yields def.
func vec(v []float64, def udraw.Vec2) (udraw.Vec2, error) {
	if v == nil {
		return def, nil
	}
	if len(v) != 2 {
		return def, fmt.Errorf("want [x, y], got %v", v)
	}
	return udraw.Vec2{X: v[0], Y: v[1]}, nil
}
