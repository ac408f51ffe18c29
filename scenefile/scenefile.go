package scenefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"golang.org/x/image/font"

	"github.com/phanxgames/udraw"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("scenefile: invalid scene")

// File is a decoded scene description.
type File struct {
	Name       string               `yaml:"name"`
	Background string               `yaml:"background"`
	MinSize    []int                `yaml:"minSize"`
	Fonts      map[string]FontSpec  `yaml:"fonts"`
	Atlases    map[string]AtlasSpec `yaml:"atlases"`
	Entities   []EntitySpec         `yaml:"entities"`

	// dir resolves relative asset paths. Empty means the working directory.
	dir string
}

// FontSpec selects a font face. Exactly one of Builtin or Path is set.
type FontSpec struct {
	Builtin string  `yaml:"builtin"`
	Path    string  `yaml:"path"`
	Size    float64 `yaml:"size"`
}

// AtlasSpec names a TexturePacker JSON file and its page images.
type AtlasSpec struct {
	JSON  string   `yaml:"json"`
	Pages []string `yaml:"pages"`
}

// EntitySpec describes one entity and its subtree.
type EntitySpec struct {
	Name string `yaml:"name"`
	// Disabled turns off every behavior of the entity, its Transform
	// included. Children are unaffected.
	Disabled   bool            `yaml:"disabled"`
	Transform  *TransformSpec  `yaml:"transform"`
	Components []ComponentSpec `yaml:"components"`
	Children   []EntitySpec    `yaml:"children"`
}

// TransformSpec sets the entity's local transform. Rect, when present,
// switches the transform to rect layout.
type TransformSpec struct {
	Position []float64 `yaml:"position"`
	Scale    []float64 `yaml:"scale"`
	// Rotation is in degrees.
	Rotation float64   `yaml:"rotation"`
	Rect     *RectSpec `yaml:"rect"`
}

// RectSpec holds the rect-layout fields.
type RectSpec struct {
	Size             []float64 `yaml:"size"`
	AnchorMin        []float64 `yaml:"anchorMin"`
	AnchorMax        []float64 `yaml:"anchorMax"`
	Pivot            []float64 `yaml:"pivot"`
	AnchoredPosition []float64 `yaml:"anchoredPosition"`
}

// ComponentSpec is the union of every built-in component's settings. Only
// the keys that apply to Kind are read.
type ComponentSpec struct {
	Kind     string `yaml:"kind"`
	Disabled bool   `yaml:"disabled"`

	// rectangle, round-rectangle, image, text
	Color       string    `yaml:"color"`
	Style       string    `yaml:"style"`
	StrokeWidth float64   `yaml:"strokeWidth"`
	Antialias   *bool     `yaml:"antialias"`
	Radius      []float64 `yaml:"radius"`

	// image: either a file path with an optional source rect, or a named
	// atlas sprite
	Path   string `yaml:"path"`
	Source []int  `yaml:"source"`
	Atlas  string `yaml:"atlas"`
	Sprite string `yaml:"sprite"`

	// text
	Text string `yaml:"text"`
	Font string `yaml:"font"`

	// mask
	Region     [][]float64 `yaml:"region"`
	Op         string      `yaml:"op"`
	ClipToRect bool        `yaml:"clipToRect"`

	// layer
	Alpha *float64 `yaml:"alpha"`

	// tween
	Property string    `yaml:"property"`
	From     []float64 `yaml:"from"`
	To       []float64 `yaml:"to"`
	Duration float64   `yaml:"duration"`
	Ease     string    `yaml:"ease"`
	Loop     bool      `yaml:"loop"`
}

// Parse decodes a scene description. Relative asset paths resolve against
// the working directory.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return &f, nil
}

// ReadFile reads and decodes the scene description at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Load reads the file at path and builds its scene.
func Load(path string, factory udraw.SurfaceFactory) (*udraw.Scene, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return f.Build(factory)
}

// Build creates a new scene from f. Nothing is kept from a failed build.
func (f *File) Build(factory udraw.SurfaceFactory) (*udraw.Scene, error) {
	b := &builder{
		dir:      f.dir,
		fonts:    map[string]font.Face{},
		atlases:  map[string]*udraw.Atlas{},
		textures: map[string]*udraw.Texture{},
	}
	name := f.Name
	if name == "" {
		name = "scene"
	}
	scene := udraw.NewScene(name, factory)
	if err := b.configure(scene, f); err != nil {
		scene.Destroy()
		return nil, err
	}
	for i := range f.Entities {
		if err := b.entity(scene.Root(), &f.Entities[i], fmt.Sprintf("entities[%d]", i)); err != nil {
			scene.Destroy()
			return nil, err
		}
	}
	return scene, nil
}
