package udraw

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"slices"
	"time"
)

// EventSink is the interface for optional ECS integration.
// When set on a Scene, every capture is reported to it.
type EventSink interface {
	EmitCapture(event CaptureEvent)
}

// CaptureEvent describes one finished capture, successful or not.
type CaptureEvent struct {
	Scene    string
	Frame    uint64
	Delta    float64 // seconds since the previous capture
	Bounds   image.Rectangle
	Duration time.Duration
	Err      error
}

// DefaultMinSize is the canvas size used when auto-fit finds no geometry.
var DefaultMinSize = image.Pt(32, 32)

// Scene is the top-level object that owns the entity arena and the root
// Transform, drives the per-capture message sequence, and renders the tree
// into a surface.
type Scene struct {
	// Name identifies the scene in logs and capture events.
	Name string
	// Background fills the surface before drawing.
	Background Color
	// MinSize is the auto-fit fallback when the tree has no geometry.
	MinSize image.Point

	entities    []*entityRecord
	freeIDs     []uint32
	nextVersion uint32
	root        Entity

	factory    SurfaceFactory
	now        func() time.Time
	lastUpdate time.Time
	logger     *slog.Logger
	sink       EventSink
	debug      bool
	frame      uint64
	destroyed  bool
}

// NewScene creates a scene with a pre-created root entity named "Root".
// Surfaces for Capture come from factory.
func NewScene(name string, factory SurfaceFactory) *Scene {
	s := &Scene{
		Name:    name,
		MinSize: DefaultMinSize,
		factory: factory,
		now:     time.Now,
		logger:  slog.Default(),
	}
	s.root = s.NewEntity("Root")
	s.lastUpdate = s.now()
	return s
}

func (s *Scene) String() string { return s.Name }

// Root returns the root entity.
func (s *Scene) Root() Entity { return s.root }

// Add parents e under the root.
func (s *Scene) Add(e Entity) error {
	if e.scene != s {
		return fmt.Errorf("add %q to scene %q: %w", e.Name(), s.Name, ErrInvalidReparent)
	}
	return e.SetParent(s.root)
}

// SetSurfaceFactory replaces the factory used by Capture.
func (s *Scene) SetSurfaceFactory(f SurfaceFactory) { s.factory = f }

// SetLogger sets the logger used in debug mode. nil restores slog.Default().
func (s *Scene) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	s.logger = l
}

// SetEventSink sets the optional capture event sink.
func (s *Scene) SetEventSink(sink EventSink) { s.sink = sink }

// SetDebugMode enables or disables debug mode. When enabled, tree depth and
// child count warnings and per-capture timing stats are logged.
func (s *Scene) SetDebugMode(enabled bool) { s.debug = enabled }

// SetClock replaces the time source used to compute Update deltas.
func (s *Scene) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
	s.lastUpdate = now()
}

// Frame returns the number of captures attempted so far.
func (s *Scene) Frame() uint64 { return s.frame }

// Destroyed reports whether Destroy has been called.
func (s *Scene) Destroyed() bool { return s.destroyed }

// Destroy destroys the root tree and every detached entity. Captures after
// Destroy fail with ErrSceneDestroyed.
func (s *Scene) Destroy() {
	if s.destroyed {
		return
	}
	s.root.Destroy()
	for i, rec := range s.entities {
		if rec.version != 0 {
			s.destroyEntity(EntityID{Index: uint32(i), Version: rec.version})
		}
	}
	s.destroyed = true
}

// Bounds returns the auto-fit pixel rect: the root's CalcRect rounded to
// whole pixels, or MinSize at the origin when that is missing or empty or
// the scene is destroyed.
func (s *Scene) Bounds() image.Rectangle {
	root := s.root.Transform()
	if root == nil {
		return image.Rectangle{Max: s.MinSize}
	}
	if r, ok := root.CalcRect(); ok {
		if px := r.Round(); !px.Empty() {
			return px
		}
	}
	return image.Rectangle{Max: s.MinSize}
}

// --- Capture ---

// Capture renders the whole scene into an image sized to its bounds.
func (s *Scene) Capture() (image.Image, error) {
	return s.capture(image.Rectangle{}, false)
}

// CaptureRect renders the part of the scene inside r.
func (s *Scene) CaptureRect(r image.Rectangle) (image.Image, error) {
	return s.capture(r, true)
}

func (s *Scene) capture(rect image.Rectangle, explicit bool) (img image.Image, err error) {
	if s.destroyed {
		return nil, fmt.Errorf("capture %q: %w", s.Name, ErrSceneDestroyed)
	}
	s.frame++
	start := s.now()
	var stats debugStats
	var delta float64
	defer func() {
		stats.total = s.now().Sub(start)
		s.emit(CaptureEvent{
			Scene:    s.Name,
			Frame:    s.frame,
			Delta:    delta,
			Bounds:   rect,
			Duration: stats.total,
			Err:      err,
		})
		if s.debug {
			s.debugLog(stats, rect, err)
		}
	}()

	t0 := s.now()
	if err = s.preUpdate(s.root); err != nil {
		return nil, err
	}
	delta = start.Sub(s.lastUpdate).Seconds()
	s.lastUpdate = start
	if err = s.update(s.root, delta); err != nil {
		return nil, err
	}
	stats.update = s.now().Sub(t0)

	t0 = s.now()
	if !explicit {
		rect = s.Bounds()
	}
	stats.bounds = s.now().Sub(t0)

	t0 = s.now()
	img, err = s.render(rect)
	stats.draw = s.now().Sub(t0)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// render allocates a surface for rect, draws the tree into it and returns
// the snapshot. The surface is closed whatever happens.
func (s *Scene) render(rect image.Rectangle) (img image.Image, err error) {
	if s.factory == nil {
		return nil, fmt.Errorf("capture %q: no surface factory: %w", s.Name, ErrSurfaceAllocation)
	}
	surface, err := s.factory.CreateSurface(rect.Dx(), rect.Dy(), PixelFormatRGBA8888)
	if err != nil {
		return nil, fmt.Errorf("capture %q %dx%d: %w: %w", s.Name, rect.Dx(), rect.Dy(), ErrSurfaceAllocation, err)
	}
	if surface == nil {
		return nil, fmt.Errorf("capture %q %dx%d: %w", s.Name, rect.Dx(), rect.Dy(), ErrSurfaceAllocation)
	}
	defer func() {
		if cerr := surface.Close(); cerr != nil && err == nil {
			img, err = nil, fmt.Errorf("close surface: %w", cerr)
		}
	}()

	c := surface.Canvas()
	base := c.SaveCount()
	c.Translate(-float64(rect.Min.X), -float64(rect.Min.Y))
	c.Clear(s.Background)
	if err := s.draw(s.root, rect, c); err != nil {
		c.RestoreToCount(base)
		return nil, err
	}
	return surface.Snapshot(), nil
}

func (s *Scene) emit(ev CaptureEvent) {
	if s.sink != nil {
		s.sink.EmitCapture(ev)
	}
}

// --- Dispatch ---

// deliver runs Start on first contact, then fn, for an enabled behavior.
func deliver(b Behavior, fn func(Behavior) error) error {
	if !b.Enabled() {
		return nil
	}
	if base := b.base(); !base.started {
		base.started = true
		b.Start()
	}
	if fn == nil {
		return nil
	}
	return fn(b)
}

// walk sends a message to every behavior on the entity in attachment order
// and then recurses into the children. Both lists are snapshotted first so
// hooks may mutate the tree; entries destroyed mid-walk are skipped.
func (s *Scene) walk(e Entity, fn func(Behavior) error) error {
	rec := e.record()
	if rec == nil {
		return nil
	}
	behaviors := slices.Clone(rec.behaviors)
	children := slices.Clone(rec.transform.children)
	for _, b := range behaviors {
		if b.Entity() != e {
			continue
		}
		if err := deliver(b, fn); err != nil {
			return fmt.Errorf("%s on %q: %w", b.Kind(), e.Name(), err)
		}
	}
	for _, id := range children {
		if err := s.walk(Entity{s, id}, fn); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) preUpdate(e Entity) error {
	return s.walk(e, nil)
}

func (s *Scene) update(e Entity, dt float64) error {
	return s.walk(e, func(b Behavior) error { return b.Update(dt) })
}

// draw renders one node and its subtree. The node's DrawFrame hooks run
// first. Then every enabled Drawable gets BeginDraw, then Draw, then the
// children are drawn, then each begun Drawable gets EndDraw. EndDraw runs
// even when something between failed.
func (s *Scene) draw(e Entity, rect image.Rectangle, c Canvas) (err error) {
	rec := e.record()
	if rec == nil {
		return nil
	}
	behaviors := slices.Clone(rec.behaviors)
	children := slices.Clone(rec.transform.children)

	var drawables []Drawable
	for _, b := range behaviors {
		if b.Entity() != e {
			continue
		}
		if err := deliver(b, func(b Behavior) error { return b.DrawFrame(rect, c) }); err != nil {
			return fmt.Errorf("%s on %q: %w", b.Kind(), e.Name(), err)
		}
		if b.Enabled() {
			if d := b.Drawable(); d != nil {
				drawables = append(drawables, d)
			}
		}
	}

	begun := 0
	defer func() {
		var errs []error
		for _, d := range drawables[:begun] {
			if eerr := d.EndDraw(rect, c); eerr != nil {
				errs = append(errs, fmt.Errorf("end draw on %q: %w", e.Name(), eerr))
			}
		}
		if len(errs) > 0 {
			err = errors.Join(append([]error{err}, errs...)...)
		}
	}()

	for _, d := range drawables {
		if err := d.BeginDraw(rect, c); err != nil {
			return fmt.Errorf("begin draw on %q: %w", e.Name(), err)
		}
		begun++
	}
	for _, d := range drawables {
		if err := d.Draw(rect, c); err != nil {
			return fmt.Errorf("draw on %q: %w", e.Name(), err)
		}
	}
	for _, id := range children {
		if err := s.draw(Entity{s, id}, rect, c); err != nil {
			return err
		}
	}
	return nil
}
