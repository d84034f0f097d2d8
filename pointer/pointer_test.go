package pointer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartsAtCentre(t *testing.T) {
	p := New(800, 600)
	assert.Zero(t, p.X())
	assert.Zero(t, p.Y())
	assert.Zero(t, p.Intensity())
	assert.Equal(t, 500.0, p.Radius())
}

func TestMoveOnlyRecordsTarget(t *testing.T) {
	p := New(800, 600)
	p.Move(800, 0)
	assert.Zero(t, p.X(), "smoothing happens in Render")
	assert.Equal(t, p.Radius(), p.IntensityTarget(), "700px of travel is capped at the radius")

	p.Render(1)
	assert.InDelta(t, 0.1, p.X(), 1e-9)
	assert.InDelta(t, -0.1, p.Y(), 1e-9)
	assert.InDelta(t, 0.1, p.NDC().Y, 1e-9, "NDC points up")
}

func TestSettlesAtTarget(t *testing.T) {
	p := New(200, 100)
	p.Move(0, 100)
	for i := 0; i < 500; i++ {
		p.Render(1)
	}
	assert.Equal(t, -1.0, p.X())
	assert.Equal(t, 1.0, p.Y())
	assert.Zero(t, p.Intensity())
}

func TestIntensityIsBounded(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	w, h := 1280.0, 720.0
	p := New(w, h)
	maxTarget := 0.0

	for i := 0; i < 2000; i++ {
		if i%250 == 249 {
			w, h = 50+r.Float64()*1500, 50+r.Float64()*1000
			p.Resize(w, h)
			maxTarget = math.Max(p.IntensityTarget(), p.IntensityCurrent())
		}
		if r.Intn(3) > 0 {
			p.Move(r.Float64()*w, r.Float64()*h)
		}
		assert.LessOrEqual(t, p.IntensityTarget(), p.Radius())
		maxTarget = math.Max(maxTarget, p.IntensityTarget())

		p.Render(0.5 + r.Float64())
		assert.LessOrEqual(t, p.IntensityCurrent(), maxTarget+1e-9)
		assert.GreaterOrEqual(t, p.Intensity(), 0.0)
		assert.LessOrEqual(t, p.Intensity(), 1.0)
	}
}

func TestShrinkRecapsIntensity(t *testing.T) {
	p := New(1000, 1000)
	p.Move(0, 0)
	p.Move(1000, 1000)
	for i := 0; i < 5; i++ {
		p.Render(1)
	}
	require.Greater(t, p.IntensityCurrent(), 100.0)

	p.Resize(100, 100)
	assert.LessOrEqual(t, p.IntensityTarget(), p.Radius())
	assert.LessOrEqual(t, p.IntensityCurrent(), p.Radius())
	for i := 0; i < 10; i++ {
		p.Render(1)
		assert.LessOrEqual(t, p.Intensity(), 1.0)
	}
}

func TestIntensityChasesUndecayedTarget(t *testing.T) {
	p := New(800, 600)
	p.Move(600, 300)
	p.Render(1)
	assert.InDelta(t, 200*Ease, p.IntensityCurrent(), 1e-9)
	assert.InDelta(t, 200*(1-Decay), p.IntensityTarget(), 1e-9)
}

func TestResizeChangesNormalization(t *testing.T) {
	p := New(100, 100)
	p.Move(100, 50)
	for i := 0; i < 500; i++ {
		p.Render(1)
	}
	assert.Equal(t, 1.0, p.X())

	p.Resize(200, 100)
	assert.Zero(t, p.X())
}
