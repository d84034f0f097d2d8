// Command viewer shows a slidecam slideshow in a window and feeds it live
// mouse and keyboard input.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/draw"

	"github.com/echoflaresat/slidecam/config"
	"github.com/echoflaresat/slidecam/slideprogress"
	"github.com/echoflaresat/slidecam/slideshow"
	"github.com/echoflaresat/slidecam/source"
	"github.com/echoflaresat/slidecam/stage"
	"github.com/echoflaresat/slidecam/texture"
)

const (
	// wheelPixels converts one wheel notch to a pixel delta.
	wheelPixels = 100
	// clickSlop is how far a press may travel and still count as a click.
	clickSlop = 4
)

type game struct {
	stage   *stage.Manager
	show    *slideshow.Show
	handler *slideprogress.Handler
	scale   int

	frame    *image.NRGBA
	frameImg *ebiten.Image

	pressed       bool
	lastY, travel float64
	width, height int
	status        string
}

func (g *game) Update() error {
	g.input()
	g.stage.Tick(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

func (g *game) input() {
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx)/float64(g.scale), float64(cy)/float64(g.scale)
	g.show.PointerMove(x, y)

	if _, dy := ebiten.Wheel(); dy != 0 && g.handler != nil {
		g.handler.Wheel(-dy * wheelPixels)
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.pressed = true
		g.lastY, g.travel = y, 0
		if g.handler != nil {
			g.handler.DragStart()
		}
	case g.pressed && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.pressed = false
		if g.handler != nil {
			g.handler.DragEnd()
		}
		if g.travel < clickSlop {
			g.show.Activate()
		}
	case g.pressed:
		step := y - g.lastY
		g.lastY = y
		g.travel += math.Abs(step)
		if g.handler != nil {
			g.handler.DragMove(step)
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.show.Deactivate()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.show.Activate()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight), inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.show.Next()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft), inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.show.Prev()
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	img, err := g.stage.Snapshot(context.Background())
	if err != nil {
		slog.Error("snapshot failed", "err", err)
		return
	}

	if g.frame == nil {
		g.frame = image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
		g.frameImg = ebiten.NewImage(g.width, g.height)
	}
	draw.ApproxBiLinear.Scale(g.frame, g.frame.Bounds(), img, img.Bounds(), draw.Src, nil)
	g.frameImg.WritePixels(g.frame.Pix)
	screen.DrawImage(g.frameImg, nil)

	g.drawScrollLine(screen)
	g.drawContent(screen)
	ebitenutil.DebugPrintAt(screen, g.status, 8, g.height-20)
}

func (g *game) drawScrollLine(screen *ebiten.Image) {
	line := g.show.ScrollLine()
	if line.Opacity == 0 {
		return
	}
	const trackHeight = 120
	x := float32(g.width - 16)
	y := float32(g.height/2 - trackHeight/2)
	vector.DrawFilledRect(screen, x, y, 2, trackHeight, color.NRGBA{R: 255, G: 255, B: 255, A: 60}, false)
	vector.DrawFilledRect(screen, x, y, 2, float32(line.Scale*trackHeight), color.NRGBA{R: 255, G: 255, B: 255, A: 220}, false)
}

// drawContent prints the revealed letters of the visible titles. Debug
// text has no alpha, so letters appear once past half opacity.
func (g *game) drawContent(screen *ebiten.Image) {
	for _, c := range g.show.Contents() {
		if !c.Visible {
			continue
		}
		var title strings.Builder
		for _, l := range c.Letters {
			if l.Opacity >= 0.5 {
				title.WriteRune(l.Rune)
			}
		}
		ebitenutil.DebugPrintAt(screen, title.String(), 24, 24)
		if c.CloseOpacity >= 0.5 {
			ebitenutil.DebugPrintAt(screen, "[esc] close", g.width-96, 24)
		}
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func main() {
	configPath := flag.String("config", "", "YAML project file; slide paths may also be given as arguments")
	scale := flag.Int("scale", 2, "Window pixels per rendered pixel")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Read(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = *loaded
	}
	for _, path := range flag.Args() {
		cfg.Slides = append(cfg.Slides, config.Slide{Src: path})
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "usage: %s [-config file] [-scale n] [slides...]\n", os.Args[0])
		log.Fatal(err)
	}
	if *scale < 1 {
		*scale = 1
	}

	loader, err := texture.NewLoader(cfg.CacheSize)
	if err != nil {
		log.Fatal(err)
	}
	specs := make([]source.Spec, len(cfg.Slides))
	for i, s := range cfg.Slides {
		specs[i] = source.Spec{Path: s.Src, DPI: s.DPI, Title: s.Title}
	}
	items, err := source.LoadAll(context.Background(), loader, specs, cfg.Workers, func(done, total int) {
		fmt.Printf("\rLoading %s", source.Percent(done, total))
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println()

	w := cfg.Width / *scale
	h := cfg.Height / *scale
	m, err := stage.New(stage.Props{
		Width:       float64(w),
		Height:      float64(h),
		Perspective: cfg.Perspective / float64(*scale),
		Workers:     cfg.Workers,
		Supersample: cfg.Supersample,
	})
	if err != nil {
		log.Fatal(err)
	}
	show, err := slideshow.New(slideshow.Props{Manager: m, Items: items})
	if err != nil {
		log.Fatal(err)
	}
	defer show.Destroy()

	g := &game{
		stage:  m,
		show:   show,
		scale:  *scale,
		width:  w * *scale,
		height: h * *scale,
		status: "wheel/drag: scroll  click/enter: open  esc: close  arrows: next/prev",
	}
	g.handler, _ = show.Carousel().Driver().(*slideprogress.Handler)
	show.Show(0)

	ebiten.SetWindowTitle("slidecam")
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetTPS(stage.TargetFPS)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
