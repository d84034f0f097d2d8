package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/echoflaresat/slidecam/config"
	"github.com/echoflaresat/slidecam/slideprogress"
	"github.com/echoflaresat/slidecam/slideshow"
	"github.com/echoflaresat/slidecam/source"
	"github.com/echoflaresat/slidecam/stage"
	"github.com/echoflaresat/slidecam/texture"
)

type flags struct {
	config             *string
	width, height      *int
	perspective        *float64
	workers            *int
	supersample        *int
	fps, frames, every *int
	out                *string
	title              *string
	verbose            *bool
	showHelp           *bool
}

func defineFlags() flags {
	return flags{
		config: flag.String("config", "", "YAML project file; slide paths may also be given as arguments"),

		width:       flag.Int("width", 0, "Viewport width in pixels (overrides the project file)"),
		height:      flag.Int("height", 0, "Viewport height in pixels (overrides the project file)"),
		perspective: flag.Float64("perspective", 0, "Camera distance from the slide plane in pixels"),

		workers:     flag.Int("workers", 0, "Render workers; defaults to the physical core count"),
		supersample: flag.Int("supersample", 0, "Supersampling factor (higher is slower but smoother)"),
		fps:         flag.Int("fps", 0, "Simulated frames per second"),
		frames:      flag.Int("frames", -1, "Number of frames to simulate"),
		every:       flag.Int("every", 0, "Write every n-th frame"),

		out:   flag.String("out", "", "Output directory for PNG frames"),
		title: flag.String("title", "", "Title for slides given as arguments"),

		verbose:  flag.Bool("v", false, "Log debug messages"),
		showHelp: flag.Bool("h", false, "Show this help message"),
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `slidecam - Headless Slide Carousel Renderer

Usage:
  %[1]s [options] [slide files...]

`, os.Args[0])

	printGroup("Project", []string{"config", "title"})
	printGroup("Viewport", []string{"width", "height", "perspective"})
	printGroup("Rendering Options", []string{"workers", "supersample", "fps", "frames", "every"})
	printGroup("Output", []string{"out"})
	printGroup("Misc", []string{"v", "h"})
}

func printGroup(title string, keys []string) {
	fmt.Fprintf(os.Stderr, "%s:\n", title)
	for _, name := range keys {
		if f := flag.Lookup(name); f != nil {
			fmt.Fprintf(os.Stderr, "  -%-12s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}
	fmt.Fprintln(os.Stderr)
}

func main() {
	fl := defineFlags()
	flag.Usage = printHelp
	flag.Parse()

	if *fl.showHelp {
		printHelp()
		return
	}
	if *fl.verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	cfg, err := loadConfig(fl, flag.Args())
	if err != nil {
		log.Fatal(err)
	}
	logHost(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	written, err := run(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	slog.Info("done", "frames", written, "out", cfg.Output, "elapsed", time.Since(start).Round(time.Millisecond))
}

// loadConfig reads the project file, if any, and applies flag overrides.
func loadConfig(fl flags, args []string) (*config.Config, error) {
	cfg := config.Default()
	if *fl.config != "" {
		loaded, err := config.Read(*fl.config)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", *fl.config, err)
		}
		cfg = *loaded
	}
	for _, path := range args {
		cfg.Slides = append(cfg.Slides, config.Slide{Src: path, Title: *fl.title})
	}

	if *fl.width > 0 {
		cfg.Width = *fl.width
	}
	if *fl.height > 0 {
		cfg.Height = *fl.height
	}
	if *fl.perspective > 0 {
		cfg.Perspective = *fl.perspective
	}
	if *fl.workers > 0 {
		cfg.Workers = *fl.workers
	}
	if *fl.supersample > 0 {
		cfg.Supersample = *fl.supersample
	}
	if *fl.fps > 0 {
		cfg.FPS = *fl.fps
	}
	if *fl.frames >= 0 {
		cfg.Frames = *fl.frames
	}
	if *fl.every > 0 {
		cfg.Every = *fl.every
	}
	if *fl.out != "" {
		cfg.Output = *fl.out
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func logHost(cfg *config.Config) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		slog.Warn("memory stats unavailable", "err", err)
		return
	}
	slog.Info("host",
		"workers", cfg.Workers,
		"mem_total_mb", vm.Total>>20,
		"mem_available_mb", vm.Available>>20,
		"mem_used_percent", fmt.Sprintf("%.1f", vm.UsedPercent),
	)
}

// run loads the slides, plays the script and writes the frames. It
// returns how many frames were written.
func run(ctx context.Context, cfg *config.Config) (int, error) {
	loader, err := texture.NewLoader(cfg.CacheSize)
	if err != nil {
		return 0, err
	}

	specs := make([]source.Spec, len(cfg.Slides))
	for i, s := range cfg.Slides {
		specs[i] = source.Spec{Path: s.Src, DPI: s.DPI, Title: s.Title}
	}
	items, err := source.LoadAll(ctx, loader, specs, cfg.Workers, func(done, total int) {
		fmt.Printf("\rLoading %s", source.Percent(done, total))
	})
	if err != nil {
		return 0, fmt.Errorf("load slides: %w", err)
	}
	fmt.Print("\rLoading 100%\n")

	m, err := stage.New(stage.Props{
		Width:       float64(cfg.Width),
		Height:      float64(cfg.Height),
		Perspective: cfg.Perspective,
		Workers:     cfg.Workers,
		Supersample: cfg.Supersample,
	})
	if err != nil {
		return 0, err
	}
	defer m.Destroy()

	show, err := slideshow.New(slideshow.Props{Manager: m, Items: items})
	if err != nil {
		return 0, err
	}
	defer show.Destroy()

	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		return 0, fmt.Errorf("create %s: %w", cfg.Output, err)
	}

	dt := time.Second / time.Duration(cfg.FPS)
	script := cfg.Script
	written := 0
	for frame := 0; frame < cfg.Frames; frame++ {
		for len(script) > 0 && script[0].At <= frame {
			applyStep(show, script[0])
			script = script[1:]
		}
		m.Tick(dt)

		if frame%cfg.Every != 0 {
			continue
		}
		img, err := m.Snapshot(ctx)
		if err != nil {
			return written, err
		}
		path := filepath.Join(cfg.Output, fmt.Sprintf("frame_%05d.png", frame))
		if err := writePNG(path, img); err != nil {
			return written, fmt.Errorf("failed to write PNG: %w", err)
		}
		written++
		fmt.Printf("\rRendering %3d%%", (frame+1)*100/cfg.Frames)
	}
	if cfg.Frames > 0 {
		fmt.Println()
	}
	return written, nil
}

// applyStep feeds one scripted input to the slideshow.
func applyStep(show *slideshow.Show, step config.Step) {
	slog.Debug("script step", "at", step.At, "action", step.Action)

	switch step.Action {
	case config.ActionWheel:
		if h, ok := show.Carousel().Driver().(*slideprogress.Handler); ok {
			h.Wheel(step.Delta)
		}
	case config.ActionDrag:
		if h, ok := show.Carousel().Driver().(*slideprogress.Handler); ok {
			h.DragStart()
			h.DragMove(-step.Delta)
			h.DragEnd()
		}
	case config.ActionMove:
		show.PointerMove(step.X, step.Y)
	case config.ActionActivate:
		show.Activate()
	case config.ActionDeactivate:
		show.Deactivate()
	case config.ActionNext:
		show.Next()
	case config.ActionPrev:
		show.Prev()
	case config.ActionShow:
		show.Show(time.Duration(step.Duration * float64(time.Second)))
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(f, img)
}
