package udraw

import (
	"errors"
	"image"
	"testing"
)

// probe records lifecycle and draw hooks into a shared log.
type probe struct {
	BehaviorBase
	name     string
	log      *[]string
	drawable bool
	failDraw error
	lastDT   float64
	awoken   int
	destroys int
}

const kindProbe Kind = "test-probe"
const kindNeedsProbe Kind = "test-needs-probe"
const kindBroken Kind = "test-broken"

func init() {
	MustRegisterKind(kindProbe, KindSpec{New: func() Behavior { return &probe{} }})
	MustRegisterKind(kindNeedsProbe, KindSpec{
		New:              func() Behavior { return &probe{} },
		DisallowMultiple: true,
		Requires:         []Kind{KindRectTransform, kindProbe},
	})
	// Requires a kind that cannot be attached, to exercise rollback.
	MustRegisterKind(kindBroken, KindSpec{
		New:      func() Behavior { return &probe{} },
		Requires: []Kind{"test-unregistered"},
	})
}

func (p *probe) rec(ev string) {
	if p.log != nil {
		*p.log = append(*p.log, p.name+":"+ev)
	}
}

func (p *probe) Awake()     { p.awoken++ }
func (p *probe) Start()     { p.rec("start") }
func (p *probe) OnDestroy() { p.destroys++ }

func (p *probe) Update(dt float64) error {
	p.lastDT = dt
	p.rec("update")
	return nil
}

func (p *probe) Drawable() Drawable {
	if p.drawable {
		return p
	}
	return nil
}

func (p *probe) BeginDraw(image.Rectangle, Canvas) error { p.rec("begin"); return nil }
func (p *probe) EndDraw(image.Rectangle, Canvas) error   { p.rec("end"); return nil }

func (p *probe) Draw(image.Rectangle, Canvas) error {
	p.rec("draw")
	return p.failDraw
}

func addProbe(t *testing.T, e Entity, name string, log *[]string, drawable bool) *probe {
	t.Helper()
	p, err := AttachAs[*probe](e, kindProbe)
	if err != nil {
		t.Fatalf("attach probe %s: %v", name, err)
	}
	p.name, p.log, p.drawable = name, log, drawable
	return p
}

func newTestScene() (*Scene, *recFactory) {
	f := &recFactory{}
	return NewScene("test", f), f
}

// --- Creation ---

func TestNewEntityDefaults(t *testing.T) {
	s, _ := newTestScene()
	e := s.NewEntity("a")
	if !e.Valid() {
		t.Fatal("new entity should be valid")
	}
	if e.Name() != "a" || e.String() != "a" {
		t.Errorf("Name = %q, want a", e.Name())
	}
	tr := e.Transform()
	if tr == nil {
		t.Fatal("Transform is nil")
	}
	if tr.IsRect() || tr.Kind() != KindTransform {
		t.Errorf("default layout = %v, want plain", tr.Layout())
	}
	if tr.LocalScale != (Vec2{1, 1}) {
		t.Errorf("LocalScale = %v, want (1, 1)", tr.LocalScale)
	}
	if tr.Parent() != nil {
		t.Error("new entity should be detached")
	}
	if bs := e.Behaviors(); len(bs) != 1 || bs[0] != Behavior(tr) {
		t.Errorf("Behaviors = %v, want only the Transform", bs)
	}
	if tr.Entity() != e {
		t.Error("Transform not bound to its entity")
	}
}

func TestSceneRoot(t *testing.T) {
	s, _ := newTestScene()
	if s.Root().Name() != "Root" {
		t.Errorf("root name = %q, want Root", s.Root().Name())
	}
	if s.EntityCount() != 1 {
		t.Errorf("EntityCount = %d, want 1", s.EntityCount())
	}
}

// --- Attach ---

func TestAttachUnknownKind(t *testing.T) {
	s, _ := newTestScene()
	e := s.NewEntity("a")
	if _, err := e.Attach("nope"); !errors.Is(err, ErrInvalidBehaviorType) {
		t.Errorf("err = %v, want ErrInvalidBehaviorType", err)
	}
	if len(e.Behaviors()) != 1 {
		t.Error("failed attach must not add behaviors")
	}
}

func TestAttachTransformIsDuplicate(t *testing.T) {
	s, _ := newTestScene()
	e := s.NewEntity("a")
	if _, err := e.Attach(KindTransform); !errors.Is(err, ErrDuplicateBehavior) {
		t.Errorf("err = %v, want ErrDuplicateBehavior", err)
	}
}

func TestAttachDisallowMultiple(t *testing.T) {
	s, _ := newTestScene()
	e := s.NewEntity("a")
	if _, err := e.Attach(KindRectangle); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Attach(KindRectangle); !errors.Is(err, ErrDuplicateBehavior) {
		t.Errorf("err = %v, want ErrDuplicateBehavior", err)
	}
	if n := len(e.GetAll(KindRectangle)); n != 1 {
		t.Errorf("rectangles = %d, want 1", n)
	}
}

func TestAttachAllowsMultiple(t *testing.T) {
	s, _ := newTestScene()
	e := s.NewEntity("a")
	addProbe(t, e, "p1", nil, false)
	addProbe(t, e, "p2", nil, false)
	if n := len(e.GetAll(kindProbe)); n != 2 {
		t.Errorf("probes = %d, want 2", n)
	}
	if n := len(Components[*probe](e)); n != 2 {
		t.Errorf("Components = %d, want 2", n)
	}
}

func TestAttachResolvesRequirements(t *testing.T) {
	s, _ := newTestScene()
	e := s.NewEntity("a")
	b, err := e.Attach(kindNeedsProbe)
	if err != nil {
		t.Fatal(err)
	}
	if !e.Transform().IsRect() {
		t.Error("rect-transform requirement not attached")
	}
	if e.Get(kindProbe) == nil {
		t.Error("probe requirement not attached")
	}
	// Requirements land after the requesting instance; Awake runs last.
	bs := e.Behaviors()
	if len(bs) != 3 || bs[1] != b {
		t.Errorf("behavior order = %v", bs)
	}
	if b.(*probe).awoken != 1 {
		t.Errorf("Awake calls = %d, want 1", b.(*probe).awoken)
	}
}

func TestAttachLeafUpgradesTransform(t *testing.T) {
	s, _ := newTestScene()
	e := s.NewEntity("a")
	tr := e.Transform()
	tr.LocalPosition = Vec2{3, 4}
	if _, err := e.Attach(KindImage); err != nil {
		t.Fatal(err)
	}
	if e.Transform() != tr {
		t.Error("rect upgrade must keep the same Transform")
	}
	if !tr.IsRect() || tr.Kind() != KindRectTransform {
		t.Error("Transform not switched to rect layout")
	}
	if tr.LocalPosition != (Vec2{3, 4}) {
		t.Errorf("LocalPosition = %v, want (3, 4)", tr.LocalPosition)
	}
	if e.Get(KindTransform) != nil {
		t.Error("exact query for plain transform must not match a rect Transform")
	}
	if e.Get(KindRectTransform) != Behavior(tr) {
		t.Error("rect transform query should return the Transform")
	}
	if e.Behaviors()[0] != Behavior(tr) {
		t.Error("Transform must keep its position in the behavior list")
	}
}

func TestAttachRectTransformTwice(t *testing.T) {
	s, _ := newTestScene()
	e := s.NewEntity("a")
	if _, err := e.Attach(KindRectTransform); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Attach(KindRectTransform); !errors.Is(err, ErrDuplicateBehavior) {
		t.Errorf("err = %v, want ErrDuplicateBehavior", err)
	}
}

func TestAttachRollbackOnRequirementFailure(t *testing.T) {
	s, _ := newTestScene()
	e := s.NewEntity("a")
	if _, err := e.Attach(kindBroken); !errors.Is(err, ErrInvalidBehaviorType) {
		t.Fatalf("err = %v, want ErrInvalidBehaviorType", err)
	}
	if len(e.Behaviors()) != 1 {
		t.Errorf("behaviors after rollback = %d, want 1", len(e.Behaviors()))
	}
}

func TestAttachAsWrongType(t *testing.T) {
	s, _ := newTestScene()
	e := s.NewEntity("a")
	if _, err := AttachAs[*Text](e, KindRectangle); !errors.Is(err, ErrInvalidBehaviorType) {
		t.Errorf("err = %v, want ErrInvalidBehaviorType", err)
	}
}

func TestAttachOnDestroyedEntity(t *testing.T) {
	s, _ := newTestScene()
	e := s.NewEntity("a")
	e.Destroy()
	if _, err := e.Attach(KindRectangle); !errors.Is(err, ErrInvalidEntity) {
		t.Errorf("err = %v, want ErrInvalidEntity", err)
	}
}

func TestRegisterKindTwice(t *testing.T) {
	err := RegisterKind(KindImage, KindSpec{New: func() Behavior { return NewImage() }})
	if !errors.Is(err, ErrKindRegistered) {
		t.Errorf("err = %v, want ErrKindRegistered", err)
	}
	if err := RegisterKind("", KindSpec{}); !errors.Is(err, ErrInvalidBehaviorType) {
		t.Errorf("err = %v, want ErrInvalidBehaviorType", err)
	}
	if _, ok := LookupKind(KindTween); !ok {
		t.Error("tween kind not registered")
	}
}

// --- Queries ---

func TestGetInChildrenPreOrder(t *testing.T) {
	s, _ := newTestScene()
	a := s.NewEntity("a")
	b := s.NewEntity("b")
	c := s.NewEntity("c")
	d := s.NewEntity("d")
	mustParent(t, b, a)
	mustParent(t, c, b)
	mustParent(t, d, a)

	pc := addProbe(t, c, "c", nil, false)
	pd := addProbe(t, d, "d", nil, false)
	pa := addProbe(t, a, "a", nil, false)

	if got := a.GetInChildren(kindProbe); got != Behavior(pa) {
		t.Errorf("GetInChildren = %v, want own probe first", got)
	}
	all := a.GetAllInChildren(kindProbe)
	want := []Behavior{pa, pc, pd}
	if len(all) != len(want) {
		t.Fatalf("GetAllInChildren len = %d, want %d", len(all), len(want))
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("GetAllInChildren[%d] = %v, want %v", i, all[i].(*probe).name, want[i].(*probe).name)
		}
	}
	if got := b.GetInChildren(kindProbe); got != Behavior(pc) {
		t.Error("GetInChildren from b should find c's probe")
	}
	if got := d.GetInChildren(KindText); got != nil {
		t.Errorf("GetInChildren(text) = %v, want nil", got)
	}
}

func TestComponentByType(t *testing.T) {
	s, _ := newTestScene()
	e := s.NewEntity("a")
	r, _ := AttachAs[*Rectangle](e, KindRectangle)
	got, ok := Component[*Rectangle](e)
	if !ok || got != r {
		t.Error("Component[*Rectangle] did not return the attached rectangle")
	}
	tr, ok := Component[*Transform](e)
	if !ok || tr != e.Transform() {
		t.Error("Component[*Transform] did not return the Transform")
	}
	if _, ok := Component[*Text](e); ok {
		t.Error("Component[*Text] should miss")
	}
}

// --- Destroy ---

func TestBehaviorDestroy(t *testing.T) {
	s, _ := newTestScene()
	e := s.NewEntity("a")
	p := addProbe(t, e, "p", nil, false)
	p.Destroy()
	p.Destroy()
	if e.Get(kindProbe) != nil {
		t.Error("destroyed behavior still attached")
	}
	if p.destroys != 1 {
		t.Errorf("OnDestroy calls = %d, want 1", p.destroys)
	}
	if p.Entity().Valid() {
		t.Error("destroyed behavior still bound")
	}
}

func TestDestroyRectTransformRevertsToPlain(t *testing.T) {
	s, _ := newTestScene()
	parent := s.NewEntity("parent")
	e := s.NewEntity("e")
	c1 := s.NewEntity("c1")
	c2 := s.NewEntity("c2")
	mustParent(t, e, parent)
	mustParent(t, c1, e)
	mustParent(t, c2, e)

	tr := e.Transform()
	if _, err := e.Attach(KindRectTransform); err != nil {
		t.Fatal(err)
	}
	tr.LocalPosition = Vec2{5, 6}
	tr.LocalScale = Vec2{2, 3}
	tr.LocalRotation = 0.5
	tr.SizeDelta = Vec2{10, 10}

	tr.Destroy()

	if !e.Valid() {
		t.Fatal("entity destroyed along with its rect layout")
	}
	if e.Transform() != tr || tr.IsRect() {
		t.Fatal("Transform not reverted to plain")
	}
	if tr.Parent() != parent.Transform() {
		t.Error("parent lost")
	}
	kids := tr.Children()
	if len(kids) != 2 || kids[0] != c1.Transform() || kids[1] != c2.Transform() {
		t.Error("children lost or reordered")
	}
	if tr.LocalPosition != (Vec2{5, 6}) || tr.LocalScale != (Vec2{2, 3}) || tr.LocalRotation != 0.5 {
		t.Errorf("local values changed: %v %v %v", tr.LocalPosition, tr.LocalScale, tr.LocalRotation)
	}
}

func TestDestroyPlainTransformDestroysEntity(t *testing.T) {
	s, _ := newTestScene()
	e := s.NewEntity("e")
	e.Transform().Destroy()
	if e.Valid() {
		t.Error("destroying the plain Transform should destroy the entity")
	}
}

func TestEntityDestroyCascades(t *testing.T) {
	s, _ := newTestScene()
	a := s.NewEntity("a")
	b := s.NewEntity("b")
	c := s.NewEntity("c")
	if err := s.Add(a); err != nil {
		t.Fatal(err)
	}
	mustParent(t, b, a)
	mustParent(t, c, b)
	pb := addProbe(t, b, "b", nil, false)

	before := s.EntityCount()
	a.Destroy()
	a.Destroy()

	for _, e := range []Entity{a, b, c} {
		if e.Valid() {
			t.Errorf("%v still valid", e.ID())
		}
	}
	if pb.destroys != 1 {
		t.Errorf("probe OnDestroy = %d, want 1", pb.destroys)
	}
	if s.Root().Transform().ChildCount() != 0 {
		t.Error("destroyed entity still under root")
	}
	if got := s.EntityCount(); got != before-3 {
		t.Errorf("EntityCount = %d, want %d", got, before-3)
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	s, _ := newTestScene()
	a := s.NewEntity("a")
	old := a.ID()
	a.Destroy()
	b := s.NewEntity("b")
	if b.ID().Index != old.Index {
		t.Fatalf("slot not reused: %v vs %v", b.ID(), old)
	}
	if b.ID().Version == old.Version {
		t.Error("reused slot kept the old version")
	}
	if a.Valid() || a.Name() != "" || a.Transform() != nil {
		t.Error("stale handle still resolves")
	}
	if s.Entity(old).Valid() {
		t.Error("Scene.Entity(old) should be stale")
	}
}

func mustParent(t *testing.T, child, parent Entity) {
	t.Helper()
	if err := child.SetParent(parent); err != nil {
		t.Fatalf("SetParent(%s, %s): %v", child, parent, err)
	}
}
