package render

import (
	"math"

	"github.com/echoflaresat/slidecam/vectors"
)

// Camera models a pinhole perspective camera placed on the +Z axis at
// distance Perspective and looking at the origin. Its vertical field of
// view is chosen so that a plane of the viewport's size at z=0 exactly
// fills the frame.
type Camera struct {
	Perspective float64
	FOVDeg      float64
	TanHalfFOV  float64
	Aspect      float64
	Position    vectors.Vec3
	Forward     vectors.Vec3
	Right       vectors.Vec3
	Up          vectors.Vec3
}

// NewCamera constructs a camera for a width x height viewport.
func NewCamera(perspective, width, height float64) Camera {
	c := Camera{
		Perspective: perspective,
		Position:    vectors.Vec3{Z: perspective},
		Forward:     vectors.Vec3{Z: -1},
		Right:       vectors.Vec3{X: 1},
		Up:          vectors.Vec3{Y: 1},
	}
	c.Resize(width, height)
	return c
}

// Resize recomputes the field of view and aspect for a new viewport.
func (c *Camera) Resize(width, height float64) {
	c.TanHalfFOV = height / 2 / c.Perspective
	c.FOVDeg = 2 * math.Atan(c.TanHalfFOV) * 180 / math.Pi
	c.Aspect = width / height
}

// direction returns the normalized view direction through NDC (x, y).
func (c Camera) direction(x, y float64) vectors.Vec3 {
	xPlane := x * c.TanHalfFOV * c.Aspect
	yPlane := y * c.TanHalfFOV

	return c.Right.Scale(xPlane).
		Add(c.Up.Scale(yPlane)).
		Add(c.Forward).
		Normalize()
}

// RayFromNDC returns the world ray through normalized device coordinates
// with x to the right and y up.
func (c Camera) RayFromNDC(ndc vectors.Vec2) vectors.Ray {
	return vectors.Ray{Origin: c.Position, Direction: c.direction(ndc.X, ndc.Y)}
}

// ComputeRay returns the normalized viewing direction for pixel (i,j)
// given the image dimensions (width,height). i,j can be fractional (for supersampling).
func (c Camera) ComputeRay(i, j float64, width, height int) vectors.Vec3 {
	w := float64(width)
	h := float64(height)

	// Pixel centres to NDC in [-1, +1], flip Y to make +up in screen space.
	xNDC := (i + 0.5 - w/2) / (w / 2)
	yNDC := -((j + 0.5 - h/2) / (h / 2))

	return c.direction(xNDC, yNDC)
}
