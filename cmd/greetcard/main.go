package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/gekko3d/greetcard"
)

func init() {
	// GLFW must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "TOML config file, watched for live changes")
	width := flag.Int("width", 0, "window width in pixels (overrides config)")
	height := flag.Int("height", 0, "window height in pixels (overrides config)")
	headless := flag.Bool("headless", false, "run without a window, capturing frames in memory")
	frames := flag.Int("frames", 0, "stop after this many frames (0 runs until closed)")
	mute := flag.Bool("mute", false, "disable music playback")
	debug := flag.Bool("debug", false, "enable debug logging")
	seed := flag.Uint64("seed", 0, "seed for the generated particle clouds (0 is random)")
	flag.Parse()

	cfg, err := greetcard.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "greetcard: %v\n", err)
		os.Exit(1)
	}
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}
	if *frames > 0 {
		cfg.Window.Frames = *frames
	}
	if *seed != 0 {
		cfg.Scene.Seed = *seed
	}
	cfg.Window.Headless = cfg.Window.Headless || *headless
	cfg.Audio.Muted = cfg.Audio.Muted || *mute
	cfg.Log.Debug = cfg.Log.Debug || *debug

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := buildApp(ctx, cfg, *configPath)
	if cfg.Window.Frames > 0 {
		app.RunFrames(cfg.Window.Frames)
		app.Shutdown()
		return
	}
	app.Run()
}

func buildApp(ctx context.Context, cfg greetcard.Config, configPath string) *greetcard.App {
	var step time.Duration
	if cfg.Window.Headless {
		step = time.Second / 60
	}

	app := greetcard.NewAppBuilder().
		UseModule(
			greetcard.LoggingModule{Prefix: cfg.Log.Prefix, Debug: cfg.Log.Debug},
			greetcard.TimeModule{FixedStep: step},
			greetcard.InputModule{},
			greetcard.AssetServerModule{},
			greetcard.HierarchyModule{},
			greetcard.AnimationModule{},
			greetcard.RotationModule{Speed: cfg.Rotation.Speed},
			greetcard.OrbitCameraModule{},
			greetcard.AudioModule{URL: cfg.Audio.URL, Muted: cfg.Audio.Muted},
			greetcard.OverlayModule{Track: cfg.Audio.Title},
			greetcard.SceneModule{Config: cfg.Scene},
			greetcard.ConfigWatchModule{Path: configPath},
		).
		Build()

	if cfg.Window.Headless {
		greetcard.Resource[greetcard.Input](app).PushResize(cfg.Window.Width, cfg.Window.Height)
		app.UseCapture()
	} else {
		app.UseWGPU(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	}

	app.UseSystem(
		greetcard.System(func(cmd *greetcard.Commands) {
			select {
			case <-ctx.Done():
				cmd.Logger().Infof("interrupted, shutting down")
				cmd.Exit()
			default:
			}
		}).InStage(greetcard.Finale),
	)
	return app
}
