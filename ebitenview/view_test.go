package ebitenview

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/udraw"
	"github.com/phanxgames/udraw/ggcanvas"
)

func newTestViewer(t *testing.T, cfg RunConfig) (*Viewer, *udraw.Scene, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, nil))
	scene := udraw.NewScene("preview", ggcanvas.NewFactory())
	v := NewViewer(scene, cfg)
	v.screenshotPressed = func() bool { return false }
	v.quitPressed = func() bool { return false }
	return v, scene, &buf
}

func TestFit(t *testing.T) {
	tests := []struct {
		src, dst         image.Point
		scale, dx, dy    float64
	}{
		{image.Pt(100, 50), image.Pt(100, 50), 1, 0, 0},
		{image.Pt(32, 32), image.Pt(100, 80), 2, 18, 8},
		{image.Pt(200, 100), image.Pt(100, 100), 0.5, 0, 25},
		{image.Pt(0, 10), image.Pt(100, 100), 1, 0, 0},
	}
	for _, tt := range tests {
		scale, dx, dy := fit(tt.src, tt.dst)
		if scale != tt.scale || dx != tt.dx || dy != tt.dy {
			t.Errorf("fit(%v, %v) = %v, %v, %v; want %v, %v, %v",
				tt.src, tt.dst, scale, dx, dy, tt.scale, tt.dx, tt.dy)
		}
	}
}

func TestNewViewerDefaults(t *testing.T) {
	v, _, _ := newTestViewer(t, RunConfig{})
	if v.cfg.Width != 640 || v.cfg.Height != 480 {
		t.Errorf("size = %dx%d, want 640x480", v.cfg.Width, v.cfg.Height)
	}
	if v.cfg.Title != "udraw - preview" {
		t.Errorf("Title = %q", v.cfg.Title)
	}
	if v.cfg.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q", v.cfg.ScreenshotDir)
	}
}

func TestUpdateCaptures(t *testing.T) {
	v, scene, _ := newTestViewer(t, RunConfig{Rect: image.Rect(0, 0, 12, 8)})
	if err := v.Update(); err != nil {
		t.Fatal(err)
	}
	if v.Latest() == nil || v.Latest().Bounds().Size() != image.Pt(12, 8) {
		t.Fatalf("Latest = %v, want a 12x8 capture", v.Latest())
	}
	if scene.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", scene.Frame())
	}
}

func TestUpdateLogsCaptureErrorOnce(t *testing.T) {
	v, scene, buf := newTestViewer(t, RunConfig{})
	scene.SetSurfaceFactory(nil)
	for i := 0; i < 3; i++ {
		if err := v.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if n := strings.Count(buf.String(), "capture failed"); n != 1 {
		t.Errorf("logged %d capture failures, want 1", n)
	}
	if v.Latest() != nil {
		t.Error("failed capture produced a frame")
	}
}

func TestUpdateQuit(t *testing.T) {
	v, scene, _ := newTestViewer(t, RunConfig{})
	v.quitPressed = func() bool { return true }
	if err := v.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("err = %v, want ebiten.Termination", err)
	}

	v.quitPressed = func() bool { return false }
	scene.Destroy()
	if err := v.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("destroyed scene: err = %v, want ebiten.Termination", err)
	}
}

func TestUpdateScreenshot(t *testing.T) {
	dir := t.TempDir()
	v, scene, buf := newTestViewer(t, RunConfig{ScreenshotDir: dir})
	v.screenshotPressed = func() bool { return true }
	if err := v.Update(); err != nil {
		t.Fatal(err)
	}
	// The screenshot reuses the tick's capture.
	if scene.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", scene.Frame())
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*_preview.png"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("screenshots = %v, want one", matches)
	}
	if _, err := os.Stat(matches[0]); err != nil {
		t.Error(err)
	}
	if !strings.Contains(buf.String(), "screenshot saved") {
		t.Error("screenshot not logged")
	}
}
