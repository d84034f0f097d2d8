package texture

import (
	"image"

	"github.com/echoflaresat/slidecam/vectors"
)

// UVTransform maps container UVs to image UVs: uv' = Offset + uv*Scale.
type UVTransform struct {
	Offset vectors.Vec2
	Scale  vectors.Vec2
}

// Identity leaves UVs untouched.
func Identity() UVTransform {
	return UVTransform{Scale: vectors.Vec2{X: 1, Y: 1}}
}

// Apply transforms uv into image space.
func (t UVTransform) Apply(uv vectors.Vec2) vectors.Vec2 {
	return t.Offset.Add(uv.Mul(t.Scale))
}

// Fit returns the centred cover-fit transform of an image into a container.
// Aspects are width/height. The image always covers the whole container;
// the excess along one axis is cropped equally on both sides.
func Fit(imageAspect, containerAspect float64) UVTransform {
	if imageAspect <= 0 || containerAspect <= 0 {
		return Identity()
	}
	scale := vectors.Vec2{X: 1, Y: 1}
	if containerAspect < imageAspect {
		scale.X = containerAspect / imageAspect
	} else {
		scale.Y = imageAspect / containerAspect
	}
	return UVTransform{
		Offset: vectors.Vec2{X: (1 - scale.X) / 2, Y: (1 - scale.Y) / 2},
		Scale:  scale,
	}
}

// Aspect returns width/height of r, or 0 for an empty rectangle.
func Aspect(r image.Rectangle) float64 {
	if r.Dy() == 0 {
		return 0
	}
	return float64(r.Dx()) / float64(r.Dy())
}
