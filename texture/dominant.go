package texture

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

const (
	dominantEdge  = 100
	dominantScale = 4 * 0.6
)

// DominantColor returns a darkened average colour of img. The image is
// first downsampled so the long edge is 100 px, then each channel average
// is scaled by 0.6 and floored. The result is opaque and deterministic.
func DominantColor(img image.Image) color.RGBA {
	b := img.Bounds()
	if b.Empty() {
		return color.RGBA{A: 255}
	}

	w, h := dominantEdge, dominantEdge
	if b.Dx() >= b.Dy() {
		h = max(1, int(math.Round(float64(dominantEdge*b.Dy())/float64(b.Dx()))))
	} else {
		w = max(1, int(math.Round(float64(dominantEdge*b.Dx())/float64(b.Dy()))))
	}

	small := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), img, b, draw.Src, nil)

	var r, g, bl float64
	for i := 0; i+3 < len(small.Pix); i += 4 {
		r += float64(small.Pix[i])
		g += float64(small.Pix[i+1])
		bl += float64(small.Pix[i+2])
	}
	// Channel sums are divided by the byte count, hence the factor 4.
	n := float64(len(small.Pix))
	return color.RGBA{
		R: channel(r / n * dominantScale),
		G: channel(g / n * dominantScale),
		B: channel(bl / n * dominantScale),
		A: 255,
	}
}

func channel(v float64) uint8 {
	return uint8(math.Min(255, math.Floor(v)))
}
