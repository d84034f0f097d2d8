// Package texture loads slide images and samples them as cover-fitted,
// bilinearly filtered textures.
package texture

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/echoflaresat/slidecam/colors"
	"github.com/echoflaresat/slidecam/vectors"
)

// Texture is an image bound to a container aspect ratio.
type Texture struct {
	Width  int
	Height int

	img      *image.NRGBA
	fit      UVTransform
	disposed bool
}

// New copies img into a texture fitted to containerAspect.
func New(img image.Image, containerAspect float64) *Texture {
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	t := &Texture{
		Width:  b.Dx(),
		Height: b.Dy(),
		img:    nrgba,
	}
	t.Resize(containerAspect)
	return t
}

// Aspect is the image's width/height.
func (t *Texture) Aspect() float64 {
	return Aspect(t.img.Bounds())
}

// Resize refits the texture to a new container aspect.
func (t *Texture) Resize(containerAspect float64) {
	t.fit = Fit(t.Aspect(), containerAspect)
}

// UV is the current cover-fit transform.
func (t *Texture) UV() UVTransform {
	return t.fit
}

// UVScale is the scale part of the cover-fit transform.
func (t *Texture) UVScale() vectors.Vec2 {
	return t.fit.Scale
}

// Image exposes the texture pixels. It must not be modified.
func (t *Texture) Image() *image.NRGBA {
	return t.img
}

// Sample returns the bilinearly filtered colour at container uv, with
// v = 0 at the bottom edge. Coordinates outside [0,1] clamp to the edge.
func (t *Texture) Sample(uv vectors.Vec2) colors.Color4 {
	if t.disposed || t.Width == 0 || t.Height == 0 {
		return colors.Color4{}
	}
	p := t.fit.Apply(uv)

	u := clamp01(p.X) * float64(t.Width-1)
	v := (1 - clamp01(p.Y)) * float64(t.Height-1)

	x0 := int(math.Floor(u))
	y0 := int(math.Floor(v))
	x1 := min(x0+1, t.Width-1)
	y1 := min(y0+1, t.Height-1)
	fx := u - float64(x0)
	fy := v - float64(y0)

	c00 := t.at(x0, y0)
	c10 := t.at(x1, y0)
	c01 := t.at(x0, y1)
	c11 := t.at(x1, y1)

	top := c00.Mix(c10, fx)
	bottom := c01.Mix(c11, fx)
	return top.Mix(bottom, fy)
}

func (t *Texture) at(x, y int) colors.Color4 {
	c := t.img.NRGBAAt(x, y)
	return colors.From8BitRgb(c.R, c.G, c.B, c.A)
}

// DominantColor computes the texture's background tint.
func (t *Texture) DominantColor() color.RGBA {
	return DominantColor(t.img)
}

// Dispose releases the pixels. Later calls are no-ops.
func (t *Texture) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	t.img = image.NewNRGBA(image.Rectangle{})
}

func (t *Texture) Disposed() bool {
	return t.disposed
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
