package carousel

import (
	"math"

	"github.com/echoflaresat/slidecam/colors"
	"github.com/echoflaresat/slidecam/texture"
	"github.com/echoflaresat/slidecam/vectors"
)

const (
	noiseFrequency = 3.0
	distortion     = 0.08
	// pulseHighlight is how far the activation pulse lightens the slide.
	pulseHighlight = 0.15
)

// SlideMaterial is the software fragment program of a slide. Its exported
// fields are the uniforms, written by Plane.Render between frames.
type SlideMaterial struct {
	Texture *texture.Texture

	Time           float64
	Aspect         float64
	MouseUV        vectors.Vec2
	MouseIntensity float64
	ActiveProgress float64
	UVScale        vectors.Vec2

	disposed bool
}

// Shade samples the slide with a noise displacement centred on MouseUV and
// brightened by the activation pulse.
func (m *SlideMaterial) Shade(uv vectors.Vec2) colors.Color4 {
	if m.disposed || m.Texture == nil {
		return colors.Color4{}
	}

	if m.MouseIntensity > 0 {
		d := uv.Sub(m.MouseUV)
		d.X *= m.Aspect
		falloff := math.Exp(-8 * (d.X*d.X + d.Y*d.Y))

		p := uv.Mul(m.UVScale).Scale(noiseFrequency)
		offset := vectors.Vec2{
			X: valueNoise(p.X+m.Time*0.3, p.Y-m.Time*0.2),
			Y: valueNoise(p.X-m.Time*0.25+17.3, p.Y+m.Time*0.15+5.1),
		}
		uv = uv.Add(offset.Scale(distortion * m.MouseIntensity * falloff))
	}

	return m.Texture.Sample(uv).Lighten(m.ActiveProgress * pulseHighlight)
}

// Dispose marks the material released. Later calls are no-ops.
func (m *SlideMaterial) Dispose() {
	m.disposed = true
}

func (m *SlideMaterial) Disposed() bool {
	return m.disposed
}

// valueNoise is smooth lattice noise in [-1,1].
func valueNoise(x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ux := fx * fx * (3 - 2*fx)
	uy := fy * fy * (3 - 2*fy)

	ix, iy := int64(x0), int64(y0)
	a := lattice(ix, iy)
	b := lattice(ix+1, iy)
	c := lattice(ix, iy+1)
	d := lattice(ix+1, iy+1)

	top := a + (b-a)*ux
	bottom := c + (d-c)*ux
	return top + (bottom-top)*uy
}

// lattice hashes an integer point to [-1,1].
func lattice(x, y int64) float64 {
	h := uint64(x)*0x9E3779B97F4A7C15 ^ uint64(y)*0xC2B2AE3D27D4EB4F
	h ^= h >> 31
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 29
	return float64(h>>11)/float64(1<<53)*2 - 1
}
