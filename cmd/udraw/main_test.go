package main

import (
	"bytes"
	"flag"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneYAML = `
name: cli
background: "#000000"
entities:
  - name: box
    transform: {rect: {size: [10, 10]}}
    components:
      - {kind: rectangle, color: "#ffffff"}
      - {kind: tween, property: position, from: [0, 0], to: [100, 0], duration: 1}
`

func writeScene(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sceneYAML), 0o644))
	return dir, path
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func TestRunWritesPNG(t *testing.T) {
	dir, path := writeScene(t)
	out := filepath.Join(dir, "out.png")
	var stdout, stderr bytes.Buffer

	err := run([]string{"-out", out, "-rect", "-20,-20,40,30", path}, &stdout, &stderr)
	require.NoError(t, err)

	img := decode(t, out)
	assert.Equal(t, image.Pt(40, 30), img.Bounds().Size())
	assert.Contains(t, stdout.String(), "wrote "+out+" (40x30, ")
}

func TestRunFramesAdvanceAnimation(t *testing.T) {
	dir, path := writeScene(t)
	out := filepath.Join(dir, "out.png")
	var stdout, stderr bytes.Buffer

	// 30 frames at 60 fps is half the tween: the box sits at x = 50.
	err := run([]string{"-out", out, "-frames", "30", "-fps", "60", "-rect", "0,-10,100,20", path}, &stdout, &stderr)
	require.NoError(t, err)

	img := decode(t, out)
	r, _, _, _ := img.At(50, 10).RGBA()
	assert.Equal(t, uint32(0xffff), r, "box should have moved to x=50")
	r, _, _, _ = img.At(2, 10).RGBA()
	assert.Equal(t, uint32(0), r, "box should have left the origin")
}

func TestRunLogFile(t *testing.T) {
	dir, path := writeScene(t)
	logFile := filepath.Join(dir, "udraw.log")
	var stdout, stderr bytes.Buffer

	err := run([]string{"-out", filepath.Join(dir, "o.png"), "-loglevel", "debug", "-debug", "-logfile", logFile, path}, &stdout, &stderr)
	require.NoError(t, err)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scene loaded")
	assert.Contains(t, string(data), "udraw: capture")
	assert.Empty(t, stderr.String())
}

func TestRunErrors(t *testing.T) {
	_, path := writeScene(t)
	cases := map[string][]string{
		"no scene":      {},
		"two scenes":    {path, path},
		"bad rect":      {"-rect", "1,2,3", path},
		"empty rect":    {"-rect", "0,0,0,5", path},
		"bad level":     {"-loglevel", "loud", path},
		"zero frames":   {"-frames", "0", path},
		"bad fps":       {"-fps", "0", path},
		"bad profile":   {"-profile", "gpu", path},
		"missing scene": {filepath.Join(t.TempDir(), "nope.yaml")},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Error(t, run(args, &stdout, &stderr))
		})
	}
}

func TestHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-h"}, &stdout, &stderr)
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, stderr.String(), "-frames")
}

func TestRectFlag(t *testing.T) {
	var r rectFlag
	assert.Equal(t, "", r.String())
	require.NoError(t, r.Set(" 1, 2, 30, 40"))
	assert.Equal(t, image.Rect(1, 2, 31, 42), r.value)
	assert.Equal(t, "1,2,30,40", r.String())
	assert.Error(t, r.Set("a,b,c,d"))
}

func TestLogLevelFlag(t *testing.T) {
	var l logLevelFlag
	require.NoError(t, l.Set("warn"))
	assert.Equal(t, "WARN", l.String())
	assert.Error(t, l.Set("verbose"))
}

func TestRunScript(t *testing.T) {
	dir, path := writeScene(t)
	script := filepath.Join(dir, "script.json")
	require.NoError(t, os.WriteFile(script, []byte(`{"steps": [
		{"action": "screenshot", "label": "start"},
		{"action": "disable", "entity": "box"},
		{"action": "screenshot", "label": "hidden"}
	]}`), 0o644))
	shots := filepath.Join(dir, "shots")
	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{"-script", script, "-shots", shots, path}, &stdout, &stderr))

	files, err := filepath.Glob(filepath.Join(shots, "*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, stdout.String(), "_start.png")
	assert.Contains(t, stdout.String(), "_hidden.png")
}
