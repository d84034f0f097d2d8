package scroll

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/echoflaresat/slidecam/events"
)

type fakeSource struct {
	wheel events.Emitter[float64]
	drag  events.Emitter[float64]
}

func (f *fakeSource) OnWheel(fn func(float64)) *events.Subscription    { return f.wheel.On(fn) }
func (f *fakeSource) OnDragMove(fn func(float64)) *events.Subscription { return f.drag.On(fn) }

func TestIntensityStaysNormalized(t *testing.T) {
	src := &fakeSource{}
	s := New(src)
	r := rand.New(rand.NewSource(3))

	for i := 0; i < 3000; i++ {
		if r.Intn(2) == 0 {
			src.wheel.Emit((r.Float64() - 0.5) * 800)
		} else {
			src.drag.Emit((r.Float64() - 0.5) * 60)
		}
		assert.LessOrEqual(t, s.Target(), Max)
		s.Render(0.5 + r.Float64())
		assert.GreaterOrEqual(t, s.Intensity(), 0.0)
		assert.LessOrEqual(t, s.Intensity(), 1.0)
	}
}

func TestNegativeDeltasCountByMagnitude(t *testing.T) {
	s := New(nil)
	s.Add(-30)
	s.Add(20)
	assert.Equal(t, 50.0, s.Target())
}

func TestDecaysToZero(t *testing.T) {
	s := New(nil)
	s.Add(1000)
	assert.Equal(t, Max, s.Target())

	s.Render(1)
	assert.InDelta(t, 9.5, s.Intensity()*Max, 1e-9)

	for i := 0; i < 1000; i++ {
		s.Render(1)
	}
	assert.Zero(t, s.Intensity())
}

func TestDestroyUnsubscribes(t *testing.T) {
	src := &fakeSource{}
	s := New(src)
	s.Destroy()
	assert.Zero(t, src.wheel.Len())
	assert.Zero(t, src.drag.Len())

	src.wheel.Emit(50)
	assert.Zero(t, s.Target())
}
