package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoflaresat/slidecam/carousel"
	"github.com/echoflaresat/slidecam/config"
	"github.com/echoflaresat/slidecam/slideprogress"
	"github.com/echoflaresat/slidecam/slideshow"
	"github.com/echoflaresat/slidecam/stage"
)

// gradient writes a slide whose colour varies across both axes so that
// any UV or sampling change shows up in the output.
func gradient(t *testing.T, dir, name string, tint color.NRGBA) string {
	t.Helper()
	const w, h = 48, 32
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(int(tint.R)*x/w + 20),
				G: uint8(int(tint.G)*y/h + 20),
				B: tint.B,
				A: 255,
			})
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, writePNG(path, img))
	return path
}

func testConfig(t *testing.T, workers int) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Width = 64
	cfg.Height = 36
	cfg.Perspective = 200
	cfg.Workers = workers
	cfg.Frames = 12
	cfg.Every = 3
	cfg.Output = filepath.Join(dir, "out")
	cfg.Slides = []config.Slide{
		{Src: gradient(t, dir, "a.png", color.NRGBA{R: 200, G: 40, B: 90}), Title: "First"},
		{Src: gradient(t, dir, "b.png", color.NRGBA{R: 30, G: 180, B: 200}), Title: "Second"},
	}
	cfg.Script = []config.Step{
		{At: 0, Action: config.ActionShow, Duration: 0.1},
		{At: 1, Action: config.ActionMove, X: 40, Y: 10},
		{At: 2, Action: config.ActionWheel, Delta: 200},
		{At: 8, Action: config.ActionActivate},
	}
	require.NoError(t, cfg.Validate())
	return &cfg
}

func TestRunWritesFrames(t *testing.T) {
	cfg := testConfig(t, 2)
	written, err := run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, written)

	for _, name := range []string{"frame_00000.png", "frame_00003.png", "frame_00006.png", "frame_00009.png"} {
		img := decodePNG(t, filepath.Join(cfg.Output, name))
		assert.Equal(t, image.Rect(0, 0, cfg.Width, cfg.Height), img.Bounds())
	}
	_, err = os.Stat(filepath.Join(cfg.Output, "frame_00001.png"))
	assert.True(t, os.IsNotExist(err))
}

// TestFramesAreDeterministic renders the same script with different
// worker counts; every frame must match byte for byte.
func TestFramesAreDeterministic(t *testing.T) {
	single := testConfig(t, 1)
	parallel := testConfig(t, 4)
	parallel.Slides = single.Slides

	_, err := run(context.Background(), single)
	require.NoError(t, err)
	_, err = run(context.Background(), parallel)
	require.NoError(t, err)

	entries, err := os.ReadDir(single.Output)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		t.Run(e.Name(), func(t *testing.T) {
			runGoldenImageTest(t, filepath.Join(single.Output, e.Name()), filepath.Join(parallel.Output, e.Name()))
		})
	}
}

func TestRunCancelled(t *testing.T) {
	cfg := testConfig(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := run(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApplyStep(t *testing.T) {
	m, err := stage.New(stage.Props{Width: 64, Height: 36, Perspective: 200, Workers: 1})
	require.NoError(t, err)
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	show, err := slideshow.New(slideshow.Props{
		Manager: m,
		Items:   []carousel.Item{{Image: img}, {Image: img}, {Image: img}},
	})
	require.NoError(t, err)
	h := show.Carousel().Driver().(*slideprogress.Handler)

	applyStep(show, config.Step{Action: config.ActionWheel, Delta: 100})
	assert.Greater(t, h.Target(), 0.0)

	before := h.Target()
	applyStep(show, config.Step{Action: config.ActionDrag, Delta: 50})
	assert.Greater(t, h.Target(), before, "dragging up moves forward")

	applyStep(show, config.Step{Action: config.ActionMove, X: 0, Y: 0})
	assert.Equal(t, show.Carousel().Pointer().Radius(), show.Carousel().Pointer().IntensityTarget())

	h.Set(0)
	applyStep(show, config.Step{Action: config.ActionNext})
	assert.True(t, h.IsAnimating())

	applyStep(show, config.Step{Action: config.ActionActivate})
	assert.Equal(t, carousel.Activating, show.Carousel().State())
}

func emptyFlags() flags {
	return flags{
		config: new(string), width: new(int), height: new(int), perspective: new(float64),
		workers: new(int), supersample: new(int), fps: new(int), frames: new(int), every: new(int),
		out: new(string), title: new(string), verbose: new(bool), showHelp: new(bool),
	}
}

func TestLoadConfigFromArgs(t *testing.T) {
	fl := emptyFlags()
	*fl.width = 100
	*fl.frames = 0
	*fl.title = "Deck"

	cfg, err := loadConfig(fl, []string{"a.png", "b.png"})
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 0, cfg.Frames)
	assert.Equal(t, []config.Slide{{Src: "a.png", Title: "Deck"}, {Src: "b.png", Title: "Deck"}}, cfg.Slides)

	_, err = loadConfig(fl, nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLoadConfigFileWithoutSlides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 320\nheight: 180\n"), 0o644))

	fl := emptyFlags()
	*fl.config = path
	*fl.frames = -1

	cfg, err := loadConfig(fl, []string{"a.png"})
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, config.Default().Frames, cfg.Frames)
	assert.Equal(t, []config.Slide{{Src: "a.png"}}, cfg.Slides)

	_, err = loadConfig(fl, nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

// runGoldenImageTest compares the image at actualPath against the one at
// expectedPath and fails if they differ.
func runGoldenImageTest(t *testing.T, expectedPath, actualPath string) {
	t.Helper()

	expectedImg := decodePNG(t, expectedPath)
	img := decodePNG(t, actualPath)

	if !imagesEqual(expectedImg, img) {
		t.Fatalf("image %s differs from baseline %s", actualPath, expectedPath)
	}
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open image: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode image: %v", err)
	}
	return img
}

func imagesEqual(a, b image.Image) bool {
	var bufA, bufB bytes.Buffer
	_ = png.Encode(&bufA, a)
	_ = png.Encode(&bufB, b)
	return bytes.Equal(bufA.Bytes(), bufB.Bytes())
}
