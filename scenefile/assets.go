package scenefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/phanxgames/udraw"
)

// parseColor accepts "#rgb", "#rrggbb" and "#rrggbbaa".
func parseColor(s string) (udraw.Color, error) {
	s = strings.TrimSpace(s)
	alpha := 1.0
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return udraw.Color{}, fmt.Errorf("color %q: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return udraw.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	c = c.Clamped()
	return udraw.Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// colorOr overwrites dst when s is set.
func colorOr(dst *udraw.Color, s string) error {
	if s == "" {
		return nil
	}
	c, err := parseColor(s)
	if err != nil {
		return err
	}
	*dst = c
	return nil
}

var builtinFonts = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"gomono":    gomono.TTF,
}

func (b *builder) resolve(path string) string {
	if filepath.IsAbs(path) || b.dir == "" {
		return path
	}
	return filepath.Join(b.dir, path)
}

func (b *builder) loadFont(spec FontSpec) (font.Face, error) {
	var data []byte
	switch {
	case spec.Builtin != "" && spec.Path != "":
		return nil, fmt.Errorf("set builtin or path, not both")
	case spec.Builtin != "":
		var ok bool
		if data, ok = builtinFonts[spec.Builtin]; !ok {
			return nil, fmt.Errorf("unknown builtin font %q", spec.Builtin)
		}
	case spec.Path != "":
		var err error
		if data, err = os.ReadFile(b.resolve(spec.Path)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("set builtin or path")
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	size := spec.Size
	if size <= 0 {
		size = 12
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func (b *builder) loadTexture(path string) (*udraw.Texture, error) {
	full := b.resolve(path)
	if t, ok := b.textures[full]; ok {
		return t, nil
	}
	img, err := imaging.Open(full)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	t, err := udraw.NewTexture(img)
	if err != nil {
		return nil, err
	}
	b.textures[full] = t
	return t, nil
}

func (b *builder) loadAtlas(spec AtlasSpec) (*udraw.Atlas, error) {
	if spec.JSON == "" {
		return nil, fmt.Errorf("missing json")
	}
	data, err := os.ReadFile(b.resolve(spec.JSON))
	if err != nil {
		return nil, err
	}
	pages := make([]*udraw.Texture, len(spec.Pages))
	for i, p := range spec.Pages {
		if pages[i], err = b.loadTexture(p); err != nil {
			return nil, err
		}
	}
	return udraw.LoadAtlas(data, pages)
}

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
	"out-bounce":   ease.OutBounce,
	"out-elastic":  ease.OutElastic,
}

func easeByName(name string) (ease.TweenFunc, error) {
	if name == "" {
		return ease.Linear, nil
	}
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown ease %q", name)
	}
	return fn, nil
}
