package udraw

import "errors"

var (
	// ErrInvalidBehaviorType is returned when Attach is asked for a kind that
	// has not been registered, or whose constructor does not yield a Behavior.
	ErrInvalidBehaviorType = errors.New("udraw: invalid behavior type")

	// ErrDuplicateBehavior is returned when Attach would add a second instance
	// of a kind registered with DisallowMultiple.
	ErrDuplicateBehavior = errors.New("udraw: duplicate behavior")

	// ErrInvalidReparent is returned when SetParent would make a Transform its
	// own parent or ancestor, or link Transforms from different scenes.
	ErrInvalidReparent = errors.New("udraw: invalid reparent")

	// ErrMissingDependency is returned by a draw hook whose required
	// co-located behavior is absent.
	ErrMissingDependency = errors.New("udraw: missing dependency")

	// ErrSurfaceAllocation wraps a SurfaceFactory failure during Capture.
	ErrSurfaceAllocation = errors.New("udraw: surface allocation failed")

	// ErrKindRegistered is returned when RegisterKind is called twice for the
	// same kind.
	ErrKindRegistered = errors.New("udraw: kind already registered")

	// ErrInvalidEntity is returned for operations on a destroyed or zero
	// Entity handle.
	ErrInvalidEntity = errors.New("udraw: invalid entity")

	// ErrSceneDestroyed is returned by Capture after Destroy.
	ErrSceneDestroyed = errors.New("udraw: scene destroyed")
)
