package udraw

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"sort"
)

// AtlasRegion locates a named sprite on an atlas page.
type AtlasRegion struct {
	Page int
	Rect image.Rectangle
	// Pivot is the normalized pivot exported with the frame, or the center.
	Pivot Vec2
}

// Atlas holds atlas page textures and a map of named regions.
type Atlas struct {
	// Pages contains the page textures indexed by page number.
	Pages   []*Texture
	regions map[string]AtlasRegion
}

// Region returns the named region.
func (a *Atlas) Region(name string) (AtlasRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Names returns every region name in sorted order.
func (a *Atlas) Names() []string {
	out := make([]string, 0, len(a.regions))
	for n := range a.regions {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Sprite returns a sprite for the named region. A missing name, or a region
// whose page was not supplied, yields the magenta placeholder sprite and
// false.
func (a *Atlas) Sprite(name string) (*Sprite, bool) {
	r, ok := a.regions[name]
	if !ok || r.Page < 0 || r.Page >= len(a.Pages) || a.Pages[r.Page] == nil {
		return MagentaSprite(), false
	}
	return NewSpriteRect(a.Pages[r.Page], r.Rect, r.Pivot), true
}

// magenta placeholder singleton
var magentaTexture *Texture

func init() {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, B: 255, A: 255})
	magentaTexture = &Texture{img: img}
}

// MagentaSprite returns the 1x1 magenta sprite used for missing regions.
func MagentaSprite() *Sprite { return NewSprite(magentaTexture) }

// LoadAtlas parses TexturePacker JSON data and associates the given page
// textures. Supports both the hash format (single "frames" object) and the
// array format ("textures" array with per-page frame lists). Rotated frames
// are rejected because canvases draw source rects unrotated.
func LoadAtlas(jsonData []byte, pages []*Texture) (*Atlas, error) {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("udraw: parse atlas JSON: %w", err)
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]AtlasRegion),
	}

	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, fmt.Errorf("udraw: parse atlas textures array: %w", err)
		}
		for i, tex := range textures {
			if err := atlas.addFrames(tex.Frames, i); err != nil {
				return nil, err
			}
		}
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("udraw: parse atlas frames: %w", err)
		}
		if err := atlas.addFrames(frames, 0); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("udraw: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return atlas, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonPivot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type jsonFrame struct {
	Frame   jsonRect   `json:"frame"`
	Rotated bool       `json:"rotated"`
	Pivot   *jsonPivot `json:"pivot"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

func (a *Atlas) addFrames(frames map[string]jsonFrame, page int) error {
	for name, f := range frames {
		if f.Rotated {
			return fmt.Errorf("udraw: atlas frame %q is rotated", name)
		}
		if f.Frame.W <= 0 || f.Frame.H <= 0 {
			return fmt.Errorf("udraw: atlas frame %q has empty size", name)
		}
		pivot := Vec2{0.5, 0.5}
		if f.Pivot != nil {
			pivot = Vec2{f.Pivot.X, f.Pivot.Y}
		}
		a.regions[name] = AtlasRegion{
			Page:  page,
			Rect:  image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+f.Frame.W, f.Frame.Y+f.Frame.H),
			Pivot: pivot,
		}
	}
	return nil
}
