// Package pointer smooths raw pointer positions and derives a decaying
// "novelty" intensity from how far the pointer has travelled recently.
package pointer

import (
	"math"

	"github.com/echoflaresat/slidecam/easing"
	"github.com/echoflaresat/slidecam/vectors"
)

const (
	// Ease is the per-frame smoothing rate at an ease multiplier of 1.
	Ease = 0.1
	// Decay is the per-frame rate at which the intensity target falls to 0.
	Decay = Ease * 2

	approximation = 0.001
)

// Tracker holds pointer state in viewport pixels. Move only records the
// target; Render performs the smoothing.
type Tracker struct {
	width, height float64

	current vectors.Vec2
	target  vectors.Vec2

	intensityCurrent float64
	intensityTarget  float64
}

// New returns a tracker for a width x height viewport with the pointer
// resting at its centre. The viewport must not be empty.
func New(width, height float64) *Tracker {
	centre := vectors.Vec2{X: width / 2, Y: height / 2}
	return &Tracker{
		width:   width,
		height:  height,
		current: centre,
		target:  centre,
	}
}

// Resize updates the viewport the tracker normalizes against. Intensities
// are re-capped to the new radius.
func (t *Tracker) Resize(width, height float64) {
	t.width = width
	t.height = height
	t.intensityTarget = math.Min(t.intensityTarget, t.Radius())
	t.intensityCurrent = math.Min(t.intensityCurrent, t.Radius())
}

// Radius is the reference radius: half the viewport diagonal.
func (t *Tracker) Radius() float64 {
	return math.Hypot(t.width, t.height) / 2
}

// Move records a raw pointer position in pixels.
func (t *Tracker) Move(x, y float64) {
	next := vectors.Vec2{X: x, Y: y}
	d := next.Sub(t.target)
	t.target = next
	t.intensityTarget = math.Min(t.intensityTarget+math.Abs(d.X)+math.Abs(d.Y), t.Radius())
}

// Render advances the smoothed state by one frame.
func (t *Tracker) Render(easeMultiplier float64) {
	ease := Ease * easeMultiplier
	t.current.X = easing.LerpApprox(t.current.X, t.target.X, ease, approximation)
	t.current.Y = easing.LerpApprox(t.current.Y, t.target.Y, ease, approximation)
	t.intensityCurrent = easing.LerpApprox(t.intensityCurrent, t.intensityTarget, ease, approximation)
	t.intensityTarget = easing.LerpApprox(t.intensityTarget, 0, Decay*easeMultiplier, approximation)
}

// X is the smoothed horizontal position in [-1,1], left to right.
func (t *Tracker) X() float64 {
	return easing.Scoped(t.current.X, t.width/2, t.width)
}

// Y is the smoothed vertical position in [-1,1], top to bottom.
func (t *Tracker) Y() float64 {
	return easing.Scoped(t.current.Y, t.height/2, t.height)
}

// NDC is the smoothed position in normalized device coordinates with Y up.
func (t *Tracker) NDC() vectors.Vec2 {
	return vectors.Vec2{X: t.X(), Y: -t.Y()}
}

// Intensity is the smoothed intensity normalized by Radius, in [0,1].
func (t *Tracker) Intensity() float64 {
	r := t.Radius()
	if r == 0 {
		return 0
	}
	return t.intensityCurrent / r
}

// Current is the smoothed position in pixels.
func (t *Tracker) Current() vectors.Vec2 { return t.current }

// Target is the last raw position in pixels.
func (t *Tracker) Target() vectors.Vec2 { return t.target }

// IntensityTarget is the raw intensity target in pixels.
func (t *Tracker) IntensityTarget() float64 { return t.intensityTarget }

// IntensityCurrent is the smoothed intensity in pixels.
func (t *Tracker) IntensityCurrent() float64 { return t.intensityCurrent }
