package udraw

import (
	"fmt"
	"slices"
	"sort"
)

// Kind identifies a registered Behavior type. Queries by Kind are exact: a
// query for one kind never matches another, whatever their Go types share.
type Kind string

// Built-in kinds.
const (
	KindTransform      Kind = "transform"
	KindRectTransform  Kind = "rect-transform"
	KindImage          Kind = "image"
	KindRectangle      Kind = "rectangle"
	KindRoundRectangle Kind = "round-rectangle"
	KindText           Kind = "text"
	KindMask           Kind = "mask"
	KindLayer          Kind = "layer"
	KindTween          Kind = "tween"
)

// KindSpec declares how a kind is constructed and which attachment
// constraints Attach enforces for it.
type KindSpec struct {
	// New returns a fresh, unattached instance.
	New func() Behavior

	// DisallowMultiple rejects a second instance on the same entity.
	DisallowMultiple bool

	// Requires lists kinds that Attach adds first when missing, in order.
	Requires []Kind
}

var kindRegistry = map[Kind]KindSpec{}

// RegisterKind adds kind to the registry consulted by Entity.Attach.
// Registration is expected to happen from init functions, before any scene
// is built.
func RegisterKind(kind Kind, spec KindSpec) error {
	if kind == "" || spec.New == nil {
		return fmt.Errorf("register %q: %w", kind, ErrInvalidBehaviorType)
	}
	if _, ok := kindRegistry[kind]; ok {
		return fmt.Errorf("register %q: %w", kind, ErrKindRegistered)
	}
	spec.Requires = slices.Clone(spec.Requires)
	kindRegistry[kind] = spec
	return nil
}

// MustRegisterKind is like RegisterKind but panics on error.
func MustRegisterKind(kind Kind, spec KindSpec) {
	if err := RegisterKind(kind, spec); err != nil {
		panic(err)
	}
}

// LookupKind returns the spec registered for kind.
func LookupKind(kind Kind) (KindSpec, bool) {
	spec, ok := kindRegistry[kind]
	return spec, ok
}

// Kinds returns every registered kind in sorted order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindRegistry))
	for k := range kindRegistry {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func init() {
	// Transforms are created by the arena, never through New, but both kinds
	// must be known so Attach can validate and upgrade them.
	MustRegisterKind(KindTransform, KindSpec{
		New:              func() Behavior { return newTransform() },
		DisallowMultiple: true,
	})
	MustRegisterKind(KindRectTransform, KindSpec{
		New:              func() Behavior { return newTransform() },
		DisallowMultiple: true,
	})

	drawable := []Kind{KindRectTransform}
	MustRegisterKind(KindImage, KindSpec{
		New:              func() Behavior { return NewImage() },
		DisallowMultiple: true,
		Requires:         drawable,
	})
	MustRegisterKind(KindRectangle, KindSpec{
		New:              func() Behavior { return NewRectangle() },
		DisallowMultiple: true,
		Requires:         drawable,
	})
	MustRegisterKind(KindRoundRectangle, KindSpec{
		New:              func() Behavior { return NewRoundRectangle() },
		DisallowMultiple: true,
		Requires:         drawable,
	})
	MustRegisterKind(KindText, KindSpec{
		New:              func() Behavior { return NewText() },
		DisallowMultiple: true,
		Requires:         drawable,
	})
	MustRegisterKind(KindMask, KindSpec{
		New:              func() Behavior { return NewMask() },
		DisallowMultiple: true,
		Requires:         drawable,
	})
	MustRegisterKind(KindLayer, KindSpec{
		New:              func() Behavior { return NewLayer() },
		DisallowMultiple: true,
		Requires:         drawable,
	})
	MustRegisterKind(KindTween, KindSpec{
		New: func() Behavior { return NewTween() },
	})
}
