package udraw

import (
	"fmt"
	"slices"
)

// EntityID addresses a slot in a Scene's entity arena. Version distinguishes
// successive occupants of the same slot, so handles to destroyed entities
// stay detectably stale. The zero EntityID never refers to an entity.
type EntityID struct {
	Index   uint32
	Version uint32
}

// IsZero reports whether id is the zero EntityID.
func (id EntityID) IsZero() bool { return id.Version == 0 }

// entityRecord is one arena slot. version is 0 while the slot is free.
type entityRecord struct {
	version   uint32
	name      string
	behaviors []Behavior
	transform *Transform
}

// Entity is a non-owning handle to a node in a Scene. The scene's arena owns
// the node, its behaviors and its Transform; copying an Entity copies only
// the handle.
type Entity struct {
	scene *Scene
	id    EntityID
}

// ID returns the arena handle.
func (e Entity) ID() EntityID { return e.id }

// Scene returns the scene that owns the entity.
func (e Entity) Scene() *Scene { return e.scene }

// Valid reports whether the handle refers to a live entity.
func (e Entity) Valid() bool { return e.record() != nil }

func (e Entity) record() *entityRecord {
	if e.scene == nil {
		return nil
	}
	return e.scene.record(e.id)
}

// Name returns the entity's name, or "" for a stale handle.
func (e Entity) Name() string {
	if rec := e.record(); rec != nil {
		return rec.name
	}
	return ""
}

// SetName renames the entity.
func (e Entity) SetName(name string) {
	if rec := e.record(); rec != nil {
		rec.name = name
	}
}

func (e Entity) String() string {
	if rec := e.record(); rec != nil {
		return rec.name
	}
	return "<destroyed>"
}

// Transform returns the entity's Transform. It is never nil for a live entity.
func (e Entity) Transform() *Transform {
	if rec := e.record(); rec != nil {
		return rec.transform
	}
	return nil
}

// Behaviors returns a copy of the attached behaviors in attachment order.
func (e Entity) Behaviors() []Behavior {
	if rec := e.record(); rec != nil {
		return slices.Clone(rec.behaviors)
	}
	return nil
}

// SetParent is shorthand for e.Transform().SetParent(parent.Transform()).
// A zero parent detaches the entity.
func (e Entity) SetParent(parent Entity) error {
	t := e.Transform()
	if t == nil {
		return ErrInvalidEntity
	}
	if parent == (Entity{}) {
		return t.SetParent(nil)
	}
	pt := parent.Transform()
	if pt == nil {
		return fmt.Errorf("set parent of %q: %w", e.Name(), ErrInvalidEntity)
	}
	return t.SetParent(pt)
}

// Attach constructs a behavior of the given kind, binds it to e and returns
// it. Attaching KindRectTransform switches the existing Transform to rect
// layout in place. Kinds the new behavior requires are attached first when
// missing. Awake runs last.
func (e Entity) Attach(kind Kind) (Behavior, error) {
	rec := e.record()
	if rec == nil {
		return nil, fmt.Errorf("attach %q: %w", kind, ErrInvalidEntity)
	}
	spec, ok := kindRegistry[kind]
	if !ok {
		return nil, fmt.Errorf("attach %q to %q: %w", kind, rec.name, ErrInvalidBehaviorType)
	}

	switch kind {
	case KindTransform:
		return nil, fmt.Errorf("attach %q to %q: %w", kind, rec.name, ErrDuplicateBehavior)
	case KindRectTransform:
		t := rec.transform
		if t.IsRect() {
			return nil, fmt.Errorf("attach %q to %q: %w", kind, rec.name, ErrDuplicateBehavior)
		}
		t.setLayout(LayoutRect)
		t.Awake()
		return t, nil
	}

	if spec.DisallowMultiple && e.Get(kind) != nil {
		return nil, fmt.Errorf("attach %q to %q: %w", kind, rec.name, ErrDuplicateBehavior)
	}

	b := spec.New()
	if b == nil || b.base().self != nil {
		return nil, fmt.Errorf("attach %q to %q: %w", kind, rec.name, ErrInvalidBehaviorType)
	}
	b.base().bind(b, e, kind)
	rec.behaviors = append(rec.behaviors, b)

	for _, req := range spec.Requires {
		// Every entity already owns a Transform of some layout.
		if req == KindTransform || e.Get(req) != nil {
			continue
		}
		if _, err := e.Attach(req); err != nil {
			e.scene.destroyBehavior(e.id, b)
			return nil, fmt.Errorf("attach %q requirement of %q: %w", req, kind, err)
		}
	}

	b.Awake()
	return b, nil
}

// Get returns the first behavior of exactly the given kind, or nil.
func (e Entity) Get(kind Kind) Behavior {
	rec := e.record()
	if rec == nil {
		return nil
	}
	for _, b := range rec.behaviors {
		if b.Kind() == kind {
			return b
		}
	}
	return nil
}

// GetAll returns every behavior of exactly the given kind in attachment order.
func (e Entity) GetAll(kind Kind) []Behavior {
	rec := e.record()
	if rec == nil {
		return nil
	}
	var out []Behavior
	for _, b := range rec.behaviors {
		if b.Kind() == kind {
			out = append(out, b)
		}
	}
	return out
}

// GetInChildren searches e and then each child subtree in child order
// (depth-first, pre-order) and returns the first behavior of the given kind.
func (e Entity) GetInChildren(kind Kind) Behavior {
	if b := e.Get(kind); b != nil {
		return b
	}
	t := e.Transform()
	if t == nil {
		return nil
	}
	for _, child := range t.children {
		if b := (Entity{e.scene, child}).GetInChildren(kind); b != nil {
			return b
		}
	}
	return nil
}

// GetAllInChildren collects every behavior of the given kind in e's subtree,
// in depth-first pre-order.
func (e Entity) GetAllInChildren(kind Kind) []Behavior {
	out := e.GetAll(kind)
	t := e.Transform()
	if t == nil {
		return out
	}
	for _, child := range t.children {
		out = append(out, Entity{e.scene, child}.GetAllInChildren(kind)...)
	}
	return out
}

// Destroy destroys every attached behavior, every descendant entity, and
// detaches e from its parent. Idempotent.
func (e Entity) Destroy() {
	if e.scene != nil {
		e.scene.destroyEntity(e.id)
	}
}

// AttachAs attaches kind to e and asserts the result to T.
func AttachAs[T Behavior](e Entity, kind Kind) (T, error) {
	var zero T
	b, err := e.Attach(kind)
	if err != nil {
		return zero, err
	}
	t, ok := b.(T)
	if !ok {
		return zero, fmt.Errorf("attach %q as %T: %w", kind, zero, ErrInvalidBehaviorType)
	}
	return t, nil
}

// Component returns the first behavior on e whose dynamic type is T.
func Component[T Behavior](e Entity) (T, bool) {
	var zero T
	rec := e.record()
	if rec == nil {
		return zero, false
	}
	for _, b := range rec.behaviors {
		if t, ok := b.(T); ok {
			return t, true
		}
	}
	return zero, false
}

// Components returns every behavior on e whose dynamic type is T.
func Components[T Behavior](e Entity) []T {
	rec := e.record()
	if rec == nil {
		return nil
	}
	var out []T
	for _, b := range rec.behaviors {
		if t, ok := b.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// --- Arena ---

// NewEntity creates a detached entity owning a plain Transform. Attach it to
// the scene tree with Scene.Add or Entity.SetParent.
func (s *Scene) NewEntity(name string) Entity {
	var idx uint32
	if n := len(s.freeIDs); n > 0 {
		idx = s.freeIDs[n-1]
		s.freeIDs = s.freeIDs[:n-1]
	} else {
		idx = uint32(len(s.entities))
		s.entities = append(s.entities, &entityRecord{})
	}
	s.nextVersion++
	rec := s.entities[idx]
	rec.version = s.nextVersion
	rec.name = name

	e := Entity{scene: s, id: EntityID{Index: idx, Version: rec.version}}
	t := newTransform()
	t.bind(t, e, KindTransform)
	rec.transform = t
	rec.behaviors = []Behavior{t}
	t.Awake()
	return e
}

// Entity returns a handle for id, which may be stale.
func (s *Scene) Entity(id EntityID) Entity {
	return Entity{scene: s, id: id}
}

// EntityCount returns the number of live entities, root included.
func (s *Scene) EntityCount() int {
	return len(s.entities) - len(s.freeIDs)
}

func (s *Scene) record(id EntityID) *entityRecord {
	if id.Version == 0 || int(id.Index) >= len(s.entities) {
		return nil
	}
	rec := s.entities[id.Index]
	if rec.version != id.Version {
		return nil
	}
	return rec
}

func (s *Scene) transformOf(id EntityID) *Transform {
	if rec := s.record(id); rec != nil {
		return rec.transform
	}
	return nil
}

// destroyBehavior removes b from the entity id. Transforms take their own
// path: the rect layout reverts to plain, the plain Transform takes the whole
// entity with it.
func (s *Scene) destroyBehavior(id EntityID, b Behavior) {
	rec := s.record(id)
	if rec == nil {
		return
	}
	if t, ok := b.(*Transform); ok && t == rec.transform {
		if t.IsRect() {
			t.setLayout(LayoutPlain)
			return
		}
		s.destroyEntity(id)
		return
	}
	i := slices.Index(rec.behaviors, b)
	if i < 0 {
		return
	}
	b.OnDestroy()
	// OnDestroy may have mutated the list.
	if i = slices.Index(rec.behaviors, b); i >= 0 {
		rec.behaviors = slices.Delete(rec.behaviors, i, i+1)
	}
	b.base().unbind()
}

func (s *Scene) destroyEntity(id EntityID) {
	rec := s.record(id)
	if rec == nil {
		return
	}
	for _, b := range slices.Clone(rec.behaviors) {
		if b == Behavior(rec.transform) {
			continue
		}
		s.destroyBehavior(id, b)
	}

	t := rec.transform
	for _, child := range slices.Clone(t.children) {
		s.destroyEntity(child)
	}
	t.detach()
	t.OnDestroy()
	t.unbind()

	rec.behaviors = nil
	rec.transform = nil
	rec.name = ""
	rec.version = 0
	s.freeIDs = append(s.freeIDs, id.Index)
}
