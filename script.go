package udraw

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a capture script.
type scriptStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	Entity string `json:"entity,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner plays a sequence of waits, entity toggles and screenshots
// against a scene, one step per call. It is meant for golden-image checks:
//
//	{"steps": [
//	  {"action": "screenshot", "label": "idle"},
//	  {"action": "wait", "frames": 30},
//	  {"action": "disable", "entity": "badge"},
//	  {"action": "screenshot", "label": "no-badge"}
//	]}
type ScriptRunner struct {
	// BeforeFrame runs before every capture the runner makes. Callers use it
	// to advance a simulated clock.
	BeforeFrame func()

	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	shots     []string
}

// LoadScript parses a JSON capture script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "screenshot", "wait":
		case "enable", "disable":
			if st.Entity == "" {
				return nil, fmt.Errorf("parse script: step %d: %s needs an entity", i, st.Action)
			}
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool { return r.done }

// Screenshots returns the paths written so far.
func (r *ScriptRunner) Screenshots() []string { return r.shots }

// Run steps until the script is done. Screenshots go to dir.
func (r *ScriptRunner) Run(s *Scene, dir string) error {
	for !r.done {
		if err := r.Step(s, dir); err != nil {
			return err
		}
	}
	return nil
}

func (r *ScriptRunner) frame() {
	if r.BeforeFrame != nil {
		r.BeforeFrame()
	}
}

// Step advances the script by one frame. A pending wait consumes the frame
// with a capture whose image is discarded.
func (r *ScriptRunner) Step(s *Scene, dir string) error {
	if r.done {
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		r.frame()
		_, err := s.Capture()
		return err
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		r.frame()
		path, err := s.Screenshot(dir, st.Label)
		if err != nil {
			return fmt.Errorf("script step %d: %w", r.cursor-1, err)
		}
		r.shots = append(r.shots, path)
	case "wait":
		r.waitCount = st.Frames
	case "enable", "disable":
		e, ok := s.Find(st.Entity)
		if !ok {
			return fmt.Errorf("script step %d: no entity named %q", r.cursor-1, st.Entity)
		}
		for _, b := range e.Behaviors() {
			b.SetEnabled(st.Action == "enable")
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
	return nil
}

// Find returns the first entity named name in depth-first order from the
// root.
func (s *Scene) Find(name string) (Entity, bool) {
	var found Entity
	var visit func(t *Transform) bool
	visit = func(t *Transform) bool {
		if t.Entity().Name() == name {
			found = t.Entity()
			return true
		}
		for _, c := range t.Children() {
			if visit(c) {
				return true
			}
		}
		return false
	}
	if tr := s.root.Transform(); tr != nil && visit(tr) {
		return found, true
	}
	return Entity{}, false
}
