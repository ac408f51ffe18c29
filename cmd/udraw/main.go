// Command udraw renders a YAML scene description to a PNG, or previews it in
// a window.
//
//	udraw -out badge.png badge.yaml
//	udraw -frames 30 -fps 60 -out mid-tween.png anim.yaml
//	udraw -script checks.json -shots golden badge.yaml
//	udraw -view badge.yaml
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/phanxgames/udraw"
	"github.com/phanxgames/udraw/ebitenview"
	"github.com/phanxgames/udraw/ggcanvas"
	"github.com/phanxgames/udraw/scenefile"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "udraw:", err)
		}
		os.Exit(1)
	}
}

type options struct {
	out     string
	rect    rectFlag
	frames  int
	fps     float64
	view    bool
	script  string
	shots   string
	debug   bool
	level   logLevelFlag
	logFile string
	profile string
}

func parseFlags(args []string, stderr io.Writer) (*options, string, error) {
	o := &options{}
	o.level.value = slog.LevelInfo
	fs := flag.NewFlagSet("udraw", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.out, "out", "out.png", "PNG file to write")
	fs.Var(&o.rect, "rect", "capture rect as x,y,w,h (default: fit the scene)")
	fs.IntVar(&o.frames, "frames", 1, "number of captures before writing; animations advance between them")
	fs.Float64Var(&o.fps, "fps", 60, "simulated frames per second for -frames")
	fs.BoolVar(&o.view, "view", false, "open a preview window instead of writing a file")
	fs.StringVar(&o.script, "script", "", "run a JSON capture script instead of writing -out")
	fs.StringVar(&o.shots, "shots", "screenshots", "directory for -script screenshots")
	fs.BoolVar(&o.debug, "debug", false, "log per-capture timings")
	fs.Var(&o.level, "loglevel", "set log level")
	fs.StringVar(&o.logFile, "logfile", "", "write logs to this rotating file instead of stderr")
	fs.StringVar(&o.profile, "profile", "", "write a cpu or mem profile to the working directory")
	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, "", fmt.Errorf("expected one scene file, got %d", fs.NArg())
	}
	if o.frames < 1 {
		return nil, "", fmt.Errorf("-frames must be at least 1")
	}
	if o.fps <= 0 {
		return nil, "", fmt.Errorf("-fps must be positive")
	}
	switch o.profile {
	case "", "cpu", "mem":
	default:
		return nil, "", fmt.Errorf("unknown -profile %q", o.profile)
	}
	return o, fs.Arg(0), nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, path, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	var logOut io.Writer = stderr
	if o.logFile != "" {
		lj := &lumberjack.Logger{
			Filename:   o.logFile,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
		}
		defer lj.Close()
		logOut = lj
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: o.level.value}))

	switch o.profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	}

	scene, err := scenefile.Load(path, ggcanvas.NewFactory())
	if err != nil {
		return err
	}
	defer scene.Destroy()
	scene.SetLogger(logger)
	scene.SetDebugMode(o.debug)
	logger.Debug("scene loaded", "path", path, "entities", scene.EntityCount())

	if o.view {
		return ebitenview.Run(scene, ebitenview.RunConfig{
			ShowFPS: true,
			Rect:    o.rect.value,
			Logger:  logger,
		})
	}
	tick := simulateClock(scene, o.fps)
	if o.script != "" {
		return runScript(scene, o, tick, stdout)
	}
	return render(scene, o, tick, stdout)
}

// simulateClock drives scene from a fake clock and returns a func that
// advances it by one frame at fps.
func simulateClock(scene *udraw.Scene, fps float64) func() {
	now := time.Unix(0, 0)
	step := time.Duration(float64(time.Second) / fps)
	scene.SetClock(func() time.Time { return now })
	return func() { now = now.Add(step) }
}

func runScript(scene *udraw.Scene, o *options, tick func(), stdout io.Writer) error {
	data, err := os.ReadFile(o.script)
	if err != nil {
		return err
	}
	runner, err := udraw.LoadScript(data)
	if err != nil {
		return err
	}
	runner.BeforeFrame = tick
	if err := runner.Run(scene, o.shots); err != nil {
		return err
	}
	for _, p := range runner.Screenshots() {
		fmt.Fprintf(stdout, "wrote %s\n", p)
	}
	return nil
}

// render captures o.frames times and writes the last capture.
func render(scene *udraw.Scene, o *options, tick func(), stdout io.Writer) error {
	var img image.Image
	for i := 0; i < o.frames; i++ {
		tick()
		var err error
		if o.rect.set {
			img, err = scene.CaptureRect(o.rect.value)
		} else {
			img, err = scene.Capture()
		}
		if err != nil {
			return err
		}
	}
	if err := udraw.WritePNG(o.out, img); err != nil {
		return err
	}
	info, err := os.Stat(o.out)
	if err != nil {
		return err
	}
	b := img.Bounds()
	fmt.Fprintf(stdout, "wrote %s (%dx%d, %s)\n", o.out, b.Dx(), b.Dy(), humanize.Bytes(uint64(info.Size())))
	return nil
}
