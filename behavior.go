package udraw

import "image"

// Behavior is a unit of logic or rendering attached to exactly one Entity.
//
// Implementations embed BehaviorBase, which supplies the enable flag, the
// entity binding and no-op defaults for every hook, and register a Kind with
// RegisterKind so Entity.Attach can construct them.
type Behavior interface {
	// Kind returns the registered kind this instance was attached as.
	Kind() Kind
	// Entity returns the owning entity, or the zero Entity once destroyed.
	Entity() Entity
	// Transform returns the owning entity's Transform.
	Transform() *Transform
	Enabled() bool
	SetEnabled(enabled bool)
	// Destroy detaches the behavior from its entity. Idempotent.
	Destroy()

	// Awake is called once, at the end of Attach.
	Awake()
	// Start is called once, before the first per-frame message reaches an
	// enabled instance.
	Start()
	// Update is called every capture with the seconds since the previous one.
	Update(dt float64) error
	// DrawFrame is called every capture during the draw traversal, before
	// the node's Drawable hooks.
	DrawFrame(rect image.Rectangle, c Canvas) error
	// OnDestroy is called once while the behavior is still attached.
	OnDestroy()
	// Drawable returns the behavior's draw hooks, or nil if it does not draw.
	Drawable() Drawable

	base() *BehaviorBase
}

// BehaviorBase carries the state shared by every Behavior. Embed it by value.
type BehaviorBase struct {
	self     Behavior
	entity   Entity
	kind     Kind
	disabled bool
	started  bool
}

func (b *BehaviorBase) base() *BehaviorBase { return b }

// Kind returns the kind the behavior was attached as.
func (b *BehaviorBase) Kind() Kind { return b.kind }

// Entity returns the owning entity.
func (b *BehaviorBase) Entity() Entity { return b.entity }

// Transform returns the owning entity's Transform, or nil when detached.
func (b *BehaviorBase) Transform() *Transform { return b.entity.Transform() }

// Enabled reports whether lifecycle and draw dispatch reach this behavior.
func (b *BehaviorBase) Enabled() bool { return !b.disabled }

// SetEnabled enables or disables the behavior. Disabled behaviors are skipped
// individually; siblings and descendant nodes still run.
func (b *BehaviorBase) SetEnabled(enabled bool) { b.disabled = !enabled }

// Started reports whether Start has fired.
func (b *BehaviorBase) Started() bool { return b.started }

// Destroy removes the behavior from its entity.
func (b *BehaviorBase) Destroy() {
	if b.self == nil || !b.entity.Valid() {
		return
	}
	b.entity.scene.destroyBehavior(b.entity.id, b.self)
}

// Awake is a no-op.
func (b *BehaviorBase) Awake() {}

// Start is a no-op.
func (b *BehaviorBase) Start() {}

// Update is a no-op.
func (b *BehaviorBase) Update(float64) error { return nil }

// DrawFrame is a no-op.
func (b *BehaviorBase) DrawFrame(image.Rectangle, Canvas) error { return nil }

// OnDestroy is a no-op.
func (b *BehaviorBase) OnDestroy() {}

// Drawable returns nil.
func (b *BehaviorBase) Drawable() Drawable { return nil }

func (b *BehaviorBase) bind(self Behavior, e Entity, kind Kind) {
	b.self = self
	b.entity = e
	b.kind = kind
}

func (b *BehaviorBase) unbind() {
	b.entity = Entity{}
}

// Drawable is the capability a Behavior exposes to take part in rendering.
//
// For each node the scene calls BeginDraw on every enabled drawable in
// attachment order, then Draw on each, then draws the child subtrees, then
// EndDraw on each. State pushed in BeginDraw therefore wraps the node's peers
// and its whole subtree. EndDraw runs even when a descendant fails.
type Drawable interface {
	BeginDraw(rect image.Rectangle, c Canvas) error
	Draw(rect image.Rectangle, c Canvas) error
	EndDraw(rect image.Rectangle, c Canvas) error
}

// requireRectTransform returns the entity's Transform when it uses rect
// layout, and ErrMissingDependency otherwise.
func requireRectTransform(b *BehaviorBase, who string) (*Transform, error) {
	t := b.Transform()
	if t == nil || !t.IsRect() {
		return nil, &DependencyError{Behavior: who, Requires: KindRectTransform}
	}
	return t, nil
}

// DependencyError reports a draw hook running without its required
// co-located behavior. It matches ErrMissingDependency with errors.Is.
type DependencyError struct {
	Behavior string
	Requires Kind
}

func (e *DependencyError) Error() string {
	return "udraw: " + e.Behavior + " requires " + string(e.Requires)
}

// Is reports whether target is ErrMissingDependency.
func (e *DependencyError) Is(target error) bool { return target == ErrMissingDependency }
