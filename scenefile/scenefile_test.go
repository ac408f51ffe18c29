package scenefile

import (
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/udraw"
	"github.com/phanxgames/udraw/ggcanvas"
)

const fullScene = `
name: badge
background: "#102030"
minSize: [64, 48]
fonts:
  body: {builtin: goregular, size: 14}
entities:
  - name: panel
    transform:
      position: [5, 6]
      rotation: 90
      rect:
        size: [120, 40]
        pivot: [0, 0]
    components:
      - kind: round-rectangle
        color: "#ff000080"
        style: stroke
        strokeWidth: 3
        radius: [6, 4]
      - kind: layer
        alpha: 0.25
    children:
      - name: label
        transform:
          rect:
            size: [100, 20]
            anchorMin: [0, 0]
            anchorMax: [1, 1]
        components:
          - {kind: text, text: hello, font: body, color: "#0f0"}
          - kind: mask
            op: difference
            region: [[0, 0, 10, 10], [5, 5, 2, 2]]
      - name: mover
        disabled: true
        components:
          - kind: tween
            property: scale
            from: [1, 1]
            to: [2, 3]
            duration: 0.5
            ease: out-quad
            loop: true
`

func child(t *testing.T, e udraw.Entity, i int) udraw.Entity {
	t.Helper()
	c := e.Transform().Child(i)
	require.NotNil(t, c, "%s has no child %d", e.Name(), i)
	return c.Entity()
}

func TestBuildFullScene(t *testing.T) {
	f, err := Parse([]byte(fullScene))
	require.NoError(t, err)
	scene, err := f.Build(ggcanvas.NewFactory())
	require.NoError(t, err)

	assert.Equal(t, "badge", scene.Name)
	assert.Equal(t, image.Pt(64, 48), scene.MinSize)
	assert.InDelta(t, 0x10/255.0, scene.Background.R, 1e-9)
	assert.InDelta(t, 0x30/255.0, scene.Background.B, 1e-9)

	panel := child(t, scene.Root(), 0)
	assert.Equal(t, "panel", panel.Name())
	tr := panel.Transform()
	require.True(t, tr.IsRect())
	assert.Equal(t, udraw.Vec2{X: 5, Y: 6}, tr.LocalPosition)
	assert.InDelta(t, math.Pi/2, tr.LocalRotation, 1e-12)
	assert.Equal(t, udraw.Vec2{X: 120, Y: 40}, tr.SizeDelta)
	assert.Equal(t, udraw.Vec2{}, tr.Pivot)

	rr, ok := udraw.Component[*udraw.RoundRectangle](panel)
	require.True(t, ok)
	assert.Equal(t, udraw.PaintStroke, rr.Paint.Style)
	assert.Equal(t, 3.0, rr.Paint.StrokeWidth)
	assert.InDelta(t, 128/255.0, rr.Paint.Color.A, 1e-9)
	assert.Equal(t, 6.0, rr.RX)
	assert.Equal(t, 4.0, rr.RY)

	layer, ok := udraw.Component[*udraw.Layer](panel)
	require.True(t, ok)
	assert.Equal(t, 0.25, layer.Alpha)

	label := child(t, panel, 0)
	text, ok := udraw.Component[*udraw.Text](label)
	require.True(t, ok)
	assert.Equal(t, "hello", text.Text)
	assert.NotNil(t, text.Face)
	assert.InDelta(t, 1, text.Color.G, 1e-9)
	assert.InDelta(t, 0, text.Color.R, 1e-9)
	// Stretch anchors add the whole parent size to SizeDelta.
	assert.Equal(t, udraw.Vec2{X: 220, Y: 60}, label.Transform().Size())

	mask, ok := udraw.Component[*udraw.Mask](label)
	require.True(t, ok)
	assert.Equal(t, udraw.ClipDifference, mask.Op)
	assert.Equal(t, udraw.Region{{Width: 10, Height: 10}, {X: 5, Y: 5, Width: 2, Height: 2}}, mask.Region)

	mover := child(t, panel, 1)
	assert.False(t, mover.Transform().Enabled())
	tw, ok := udraw.Component[*udraw.Tween](mover)
	require.True(t, ok)
	assert.Equal(t, udraw.TweenScale, tw.Property)
	assert.Equal(t, udraw.Vec2{X: 2, Y: 3}, tw.To)
	assert.Equal(t, 0.5, tw.Duration)
	assert.False(t, tw.Enabled(), "disabled entities disable every behavior")
	assert.True(t, tw.Loop)
}

func TestCaptureBuiltScene(t *testing.T) {
	f, err := Parse([]byte(`
background: "#0000ff"
entities:
  - name: dot
    transform: {rect: {size: [4, 4]}}
    components:
      - {kind: rectangle, color: "#ffffff"}
`))
	require.NoError(t, err)
	scene, err := f.Build(ggcanvas.NewFactory())
	require.NoError(t, err)
	assert.Equal(t, "scene", scene.Name)

	img, err := scene.CaptureRect(image.Rect(-4, -4, 4, 4))
	require.NoError(t, err)
	out := img.(*image.NRGBA)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, out.NRGBAAt(4, 4))
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, out.NRGBAAt(0, 0))
}

func TestLoadResolvesImagePaths(t *testing.T) {
	dir := t.TempDir()
	tile := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	require.NoError(t, udraw.WritePNG(filepath.Join(dir, "tile.png"), tile))
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
entities:
  - name: a
    components:
      - {kind: image, path: tile.png}
  - name: b
    components:
      - {kind: image, path: tile.png, source: [2, 2, 4, 2], color: "#808080"}
`), 0o644))

	scene, err := Load(path, ggcanvas.NewFactory())
	require.NoError(t, err)

	a, ok := udraw.Component[*udraw.Image](child(t, scene.Root(), 0))
	require.True(t, ok)
	require.NotNil(t, a.Sprite)
	assert.Equal(t, 8, a.Sprite.Texture.Width())

	b, ok := udraw.Component[*udraw.Image](child(t, scene.Root(), 1))
	require.True(t, ok)
	assert.Same(t, a.Sprite.Texture, b.Sprite.Texture, "textures are shared")
	assert.Equal(t, image.Rect(2, 2, 6, 4), b.Sprite.Rect)
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want udraw.Color
	}{
		{"#fff", udraw.Color{R: 1, G: 1, B: 1, A: 1}},
		{"#000000", udraw.Color{A: 1}},
		{"#ff000000", udraw.Color{R: 1}},
		{" #00ff00 ", udraw.Color{G: 1, A: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseColor(tc.in)
			require.NoError(t, err)
			assert.InDelta(t, tc.want.R, got.R, 1e-9)
			assert.InDelta(t, tc.want.G, got.G, 1e-9)
			assert.InDelta(t, tc.want.B, got.B, 1e-9)
			assert.InDelta(t, tc.want.A, got.A, 1e-9)
		})
	}
	for _, bad := range []string{"red", "#12", "#gggggg", "#ffffffzz"} {
		_, err := parseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestInvalidScenes(t *testing.T) {
	cases := map[string]string{
		"unknown key":      "entities:\n  - name: a\n    colour: red\n",
		"bad minSize":      "minSize: [0, 10]\n",
		"bad background":   "background: blue\n",
		"missing kind":     "entities:\n  - components: [{color: '#fff'}]\n",
		"bad vector":       "entities:\n  - transform: {position: [1, 2, 3]}\n",
		"unknown font":     "entities:\n  - components: [{kind: text, font: nope}]\n",
		"bad font":         "fonts: {x: {builtin: comic}}\n",
		"bad ease":         "entities:\n  - components: [{kind: tween, ease: wobble}]\n",
		"bad tween prop":   "entities:\n  - components: [{kind: tween, property: opacity}]\n",
		"bad style":        "entities:\n  - components: [{kind: rectangle, style: dashed}]\n",
		"bad region":       "entities:\n  - components: [{kind: mask, region: [[1, 2]]}]\n",
		"bad clip op":      "entities:\n  - components: [{kind: mask, op: xor}]\n",
		"missing image":    "entities:\n  - components: [{kind: image, path: missing.png}]\n",
		"nested bad color": "entities:\n  - children:\n      - components: [{kind: rectangle, color: '#zz'}]\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			f, err := Parse([]byte(doc))
			if err == nil {
				_, err = f.Build(ggcanvas.NewFactory())
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestUnknownKindKeepsSentinel(t *testing.T) {
	f, err := Parse([]byte("entities:\n  - components: [{kind: sparkle}]\n"))
	require.NoError(t, err)
	_, err = f.Build(ggcanvas.NewFactory())
	assert.True(t, errors.Is(err, udraw.ErrInvalidBehaviorType), "got %v", err)
}

func TestAtlasImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, udraw.WritePNG(filepath.Join(dir, "ui.png"), image.NewNRGBA(image.Rect(0, 0, 64, 32))))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ui.json"), []byte(`{
  "frames": {
    "button": {"frame": {"x": 0, "y": 0, "w": 32, "h": 16}},
    "icon": {"frame": {"x": 32, "y": 0, "w": 16, "h": 16}, "pivot": {"x": 0, "y": 0}}
  }
}`), 0o644))

	doc := `
atlases:
  ui: {json: ui.json, pages: [ui.png]}
entities:
  - components: [{kind: image, atlas: ui, sprite: icon}]
`
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	scene, err := Load(path, ggcanvas.NewFactory())
	require.NoError(t, err)

	img, ok := udraw.Component[*udraw.Image](child(t, scene.Root(), 0))
	require.True(t, ok)
	assert.Equal(t, image.Rect(32, 0, 48, 16), img.Sprite.Rect)
	assert.Equal(t, udraw.Vec2{}, img.Sprite.Pivot)

	bad := doc + "  - components: [{kind: image, atlas: ui, sprite: missing}]\n"
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))
	_, err = Load(path, ggcanvas.NewFactory())
	assert.ErrorIs(t, err, ErrInvalid)
}
