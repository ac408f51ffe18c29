// Package ebitenview shows a live udraw scene in an Ebitengine window.
//
// The scene is captured once per tick and the result is blitted to the
// screen, scaled to fit:
//
//	scene := udraw.NewScene("hud", ggcanvas.NewFactory())
//	// ... build entities ...
//	ebitenview.Run(scene, ebitenview.RunConfig{
//		Title: "HUD preview", Width: 640, Height: 480,
//	})
//
// F12 writes a screenshot into RunConfig.ScreenshotDir. Escape closes the
// window.
package ebitenview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/udraw"
)

// RunConfig configures the preview window.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS draws FPS and the scene frame counter in the corner.
	ShowFPS bool
	// Rect is the capture rect. The zero value auto-fits every tick.
	Rect image.Rectangle
	// ScreenshotDir receives F12 screenshots. Defaults to "screenshots".
	ScreenshotDir string
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

var backdrop = color.RGBA{24, 24, 28, 255}

// Viewer is an ebiten.Game that previews a scene. Most callers use Run.
type Viewer struct {
	scene *udraw.Scene
	cfg   RunConfig

	latest  image.Image
	dirty   bool
	frame   *ebiten.Image
	lastErr string

	// key polls are swappable so Update can run without a window.
	screenshotPressed func() bool
	quitPressed       func() bool
}

// NewViewer returns a Viewer for scene. Zero config fields get defaults.
func NewViewer(scene *udraw.Scene, cfg RunConfig) *Viewer {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	if cfg.Title == "" {
		cfg.Title = "udraw - " + scene.Name
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Viewer{
		scene:             scene,
		cfg:               cfg,
		screenshotPressed: func() bool { return inpututil.IsKeyJustPressed(ebiten.KeyF12) },
		quitPressed:       func() bool { return inpututil.IsKeyJustPressed(ebiten.KeyEscape) },
	}
}

// Run opens a window and previews scene until it is closed.
func Run(scene *udraw.Scene, cfg RunConfig) error {
	v := NewViewer(scene, cfg)
	ebiten.SetWindowSize(v.cfg.Width, v.cfg.Height)
	ebiten.SetWindowTitle(v.cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Latest returns the most recent successful capture.
func (v *Viewer) Latest() image.Image { return v.latest }

// Update captures the scene. Capture failures are logged once per distinct
// error and the previous frame stays on screen.
func (v *Viewer) Update() error {
	if v.quitPressed() {
		return ebiten.Termination
	}
	if v.scene.Destroyed() {
		return ebiten.Termination
	}
	img, err := v.capture()
	if err != nil {
		if msg := err.Error(); msg != v.lastErr {
			v.lastErr = msg
			v.cfg.Logger.Warn("ebitenview: capture failed", "scene", v.scene.Name, "error", err)
		}
		return nil
	}
	v.lastErr = ""
	v.latest = img
	v.dirty = true

	if v.screenshotPressed() {
		path, err := v.scene.SaveScreenshot(v.cfg.ScreenshotDir, v.scene.Name, img)
		if err != nil {
			v.cfg.Logger.Error("ebitenview: screenshot failed", "error", err)
		} else {
			v.cfg.Logger.Info("ebitenview: screenshot saved", "path", path)
		}
	}
	return nil
}

func (v *Viewer) capture() (image.Image, error) {
	if v.cfg.Rect.Empty() {
		return v.scene.Capture()
	}
	return v.scene.CaptureRect(v.cfg.Rect)
}

// Draw blits the latest capture, scaled to fit and centered.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(backdrop)
	if v.dirty {
		if v.frame != nil {
			v.frame.Deallocate()
		}
		v.frame = ebiten.NewImageFromImage(v.latest)
		v.dirty = false
	}
	if v.frame != nil {
		scale, dx, dy := fit(v.frame.Bounds().Size(), screen.Bounds().Size())
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(dx, dy)
		if scale < 1 {
			op.Filter = ebiten.FilterLinear
		}
		screen.DrawImage(v.frame, op)
	}
	if v.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nframe: %d", ebiten.ActualFPS(), v.scene.Frame()))
	}
}

// Layout uses the window size as the screen size.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// fit returns the uniform scale and offset that center src inside dst. Small
// captures are shown at integer zoom so pixels stay crisp.
func fit(src, dst image.Point) (scale, dx, dy float64) {
	if src.X <= 0 || src.Y <= 0 || dst.X <= 0 || dst.Y <= 0 {
		return 1, 0, 0
	}
	scale = math.Min(float64(dst.X)/float64(src.X), float64(dst.Y)/float64(src.Y))
	if scale >= 1 {
		scale = math.Floor(scale)
	}
	dx = (float64(dst.X) - float64(src.X)*scale) / 2
	dy = (float64(dst.Y) - float64(src.Y)*scale) / 2
	return scale, dx, dy
}
