package udraw

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenProperty names the Transform value a Tween drives.
type TweenProperty string

const (
	TweenPosition         TweenProperty = "position"          // LocalPosition
	TweenScale            TweenProperty = "scale"             // LocalScale
	TweenRotation         TweenProperty = "rotation"          // LocalRotation, from X
	TweenSize             TweenProperty = "size"              // SizeDelta
	TweenAnchoredPosition TweenProperty = "anchored-position" // AnchoredPosition
)

// Tween animates one property of its entity's Transform from From to To over
// Duration seconds. It advances in Update, so it runs once per capture with
// the capture delta. Loop restarts it when it finishes.
type Tween struct {
	BehaviorBase

	Property TweenProperty
	From, To Vec2
	Duration float64
	Ease     ease.TweenFunc
	Loop     bool

	tweens [2]*gween.Tween
	done   bool
}

// NewTween returns a one-second linear position tween from and to the origin.
func NewTween() *Tween {
	return &Tween{Property: TweenPosition, Duration: 1, Ease: ease.Linear}
}

// Play configures the tween and rewinds it.
func (tw *Tween) Play(prop TweenProperty, from, to Vec2, duration float64, fn ease.TweenFunc) {
	tw.Property = prop
	tw.From = from
	tw.To = to
	tw.Duration = duration
	tw.Ease = fn
	tw.Reset()
}

// Reset rewinds to From. The next Update starts over.
func (tw *Tween) Reset() {
	tw.tweens = [2]*gween.Tween{}
	tw.done = false
}

// Done reports whether a non-looping tween has reached To.
func (tw *Tween) Done() bool { return tw.done }

func (tw *Tween) build() {
	fn := tw.Ease
	if fn == nil {
		fn = ease.Linear
	}
	d := float32(tw.Duration)
	tw.tweens[0] = gween.New(float32(tw.From.X), float32(tw.To.X), d, fn)
	tw.tweens[1] = gween.New(float32(tw.From.Y), float32(tw.To.Y), d, fn)
}

// Update advances by dt seconds and writes the value to the Transform.
func (tw *Tween) Update(dt float64) error {
	if tw.done {
		return nil
	}
	if tw.tweens[0] == nil {
		tw.build()
	}
	x, fx := tw.tweens[0].Update(float32(dt))
	y, fy := tw.tweens[1].Update(float32(dt))
	if err := tw.apply(Vec2{float64(x), float64(y)}); err != nil {
		return err
	}
	if fx && fy {
		if tw.Loop {
			tw.tweens[0].Reset()
			tw.tweens[1].Reset()
		} else {
			tw.done = true
		}
	}
	return nil
}

func (tw *Tween) apply(v Vec2) error {
	t := tw.Transform()
	if t == nil {
		return fmt.Errorf("tween: %w", ErrInvalidEntity)
	}
	switch tw.Property {
	case TweenPosition:
		t.LocalPosition = v
	case TweenScale:
		t.LocalScale = v
	case TweenRotation:
		t.LocalRotation = v.X
	case TweenSize:
		t.SizeDelta = v
	case TweenAnchoredPosition:
		t.SetAnchoredPosition(v)
	default:
		return fmt.Errorf("tween: unknown property %q", tw.Property)
	}
	return nil
}
