package slideshow

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoflaresat/slidecam/carousel"
	"github.com/echoflaresat/slidecam/slideprogress"
	"github.com/echoflaresat/slidecam/stage"
)

const frame = time.Second / 60

func solid(c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func newTestShow(t *testing.T) (*Show, *stage.Manager, *slideprogress.Handler) {
	t.Helper()
	m, err := stage.New(stage.Props{Width: 64, Height: 48, Perspective: 200, Workers: 1})
	require.NoError(t, err)
	items := []carousel.Item{
		{Image: solid(color.NRGBA{R: 200, A: 255}), Title: "Dunes"},
		{Image: solid(color.NRGBA{G: 200, A: 255}), Title: "Salt Flats"},
		{Image: solid(color.NRGBA{B: 200, A: 255}), Title: "Fjord"},
	}
	s, err := New(Props{Manager: m, Items: items})
	require.NoError(t, err)
	h, ok := s.Carousel().Driver().(*slideprogress.Handler)
	require.True(t, ok)
	return s, m, h
}

func tick(m *stage.Manager, n int) {
	for i := 0; i < n; i++ {
		m.Tick(frame)
	}
}

func TestContentRanges(t *testing.T) {
	c := NewContent("Ab c", nil)
	require.Len(t, c.Letters, 3)
	assert.Equal(t, 'c', c.Letters[2].Rune)
	assert.False(t, c.Visible)
	assert.Equal(t, -90.0, c.Letters[0].RotationX)
	assert.Equal(t, -50.0, c.Letters[0].Y)

	c.Activate()
	c.Advance(300 * time.Millisecond)
	assert.True(t, c.Visible)
	assert.InDelta(t, 0.5, c.Opacity, 1e-9)
	assert.InDelta(t, 0, c.CloseOpacity, 1e-9)
	assert.InDelta(t, 0, c.Letters[0].Opacity, 1e-9)

	c.Advance(300 * time.Millisecond)
	assert.InDelta(t, 1, c.Opacity, 1e-9)
	assert.InDelta(t, 1, c.CloseOpacity, 1e-9)
	assert.Greater(t, c.Letters[0].Opacity, c.Letters[2].Opacity, "letters reveal in order")

	c.Advance(time.Second)
	for _, l := range c.Letters {
		assert.InDelta(t, 1, l.Opacity, 1e-12)
		assert.InDelta(t, 0, l.RotationX, 1e-12)
		assert.InDelta(t, 0, l.Y, 1e-12)
	}

	c.Deactivate()
	c.Advance(2 * time.Second)
	assert.False(t, c.Visible)
	assert.Zero(t, c.Progress())
}

func TestContentClose(t *testing.T) {
	closed := 0
	c := NewContent("x", func() { closed++ })
	c.Close()
	assert.Equal(t, 1, closed)

	c.Destroy()
	c.Close()
	assert.Equal(t, 1, closed)
}

func TestScrollLineFollowsProgress(t *testing.T) {
	s, m, h := newTestShow(t)
	assert.Equal(t, 1.0, s.ScrollLine().Opacity)

	h.Set(1)
	tick(m, 1)
	assert.InDelta(t, 0.5, s.ScrollLine().Scale, 1e-12)

	h.Set(2)
	tick(m, 1)
	assert.InDelta(t, 1, s.ScrollLine().Scale, 1e-12)
}

func TestFocusDrivesOverlays(t *testing.T) {
	s, m, h := newTestShow(t)
	var events []carousel.ActiveIndex
	s.OnActiveIndex(func(a carousel.ActiveIndex) { events = append(events, a) })

	h.Set(1)
	s.Activate()
	assert.Zero(t, s.ScrollLine().Opacity)
	tick(m, 130)

	contents := s.Contents()
	assert.Equal(t, 1.0, contents[1].Progress())
	assert.Zero(t, contents[0].Progress())
	assert.Zero(t, contents[2].Progress())
	assert.Equal(t, carousel.Focused, s.Carousel().State())

	contents[1].Close()
	assert.Equal(t, 1.0, s.ScrollLine().Opacity)
	tick(m, 130)
	assert.Zero(t, contents[1].Progress())
	assert.False(t, contents[1].Visible)
	assert.Equal(t, carousel.Browsing, s.Carousel().State())

	assert.Equal(t, []carousel.ActiveIndex{{Index: 1, Active: true}, {Index: -1}}, events)
}

func TestShowOnce(t *testing.T) {
	s, m, _ := newTestShow(t)
	shown := 0
	s.OnShow(func(struct{}) { shown++ })

	s.Show(0)
	s.Show(time.Second)
	assert.Equal(t, 1, shown)

	tick(m, 1)
	assert.Less(t, s.Carousel().Group().Position.Y, 0.0)
	tick(m, 200)
	assert.InDelta(t, 0, s.Carousel().Group().Position.Y, 1e-9)
}

func TestNewWithoutItems(t *testing.T) {
	m, err := stage.New(stage.Props{Width: 10, Height: 10, Perspective: 10})
	require.NoError(t, err)
	_, err = New(Props{Manager: m})
	assert.ErrorIs(t, err, carousel.ErrNoSlides)
}

func TestDestroy(t *testing.T) {
	s, m, h := newTestShow(t)
	s.Destroy()
	s.Destroy()

	h.Set(1)
	tick(m, 2)
	assert.Zero(t, s.ScrollLine().Scale)
	assert.Empty(t, m.Scene().Meshes())
	s.Show(0)
	s.Activate()
	assert.Equal(t, carousel.Browsing, s.Carousel().State())
}
