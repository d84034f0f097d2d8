package stage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoflaresat/slidecam/colors"
)

func TestNewRejectsEmptyViewport(t *testing.T) {
	for _, p := range []Props{
		{Width: 0, Height: 10, Perspective: 10},
		{Width: 10, Height: -1, Perspective: 10},
		{Width: 10, Height: 10, Perspective: 0},
	} {
		_, err := New(p)
		assert.ErrorIs(t, err, ErrViewport)
	}
}

func TestEaseMultiplier(t *testing.T) {
	tests := []struct {
		dt   time.Duration
		want float64
	}{
		{0, 1},
		{time.Second / 60, 1},
		{time.Second / 30, 2},
		{time.Second / 120, 0.5},
		{time.Second, MaxEaseMultiplier},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, EaseMultiplierFor(tt.dt), 1e-9, "dt %v", tt.dt)
	}
}

func TestTickEmitsFrames(t *testing.T) {
	m, err := New(Props{Width: 40, Height: 30, Perspective: 100})
	require.NoError(t, err)

	var frames []Frame
	m.OnRender(func(f Frame) { frames = append(frames, f) })
	m.Tick(time.Second / 30)
	m.Tick(0)

	require.Len(t, frames, 2)
	assert.Equal(t, 1, frames[0].Index)
	assert.InDelta(t, 2, frames[0].EaseMultiplier, 1e-9)
	assert.Equal(t, 2, m.FrameIndex())
	assert.Equal(t, 1.0, m.EaseMultiplier())
}

func TestResize(t *testing.T) {
	m, err := New(Props{Width: 40, Height: 30, Perspective: 100})
	require.NoError(t, err)

	var sizes []Size
	m.OnResize(func(s Size) { sizes = append(sizes, s) })

	require.NoError(t, m.Resize(80, 20))
	assert.ErrorIs(t, m.Resize(0, 20), ErrViewport)

	assert.Equal(t, []Size{{80, 20}}, sizes)
	assert.Equal(t, 80.0, m.Width())
	assert.InDelta(t, 4.0, m.RenderCamera().Aspect, 1e-12)
}

func TestSnapshotDrawsBackground(t *testing.T) {
	m, err := New(Props{Width: 6, Height: 4, Perspective: 50, Workers: 2})
	require.NoError(t, err)
	m.Scene().Background = colors.New(0, 1, 0, 1)

	img, err := m.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, uint8(255), img.NRGBAAt(3, 2).G)
}
