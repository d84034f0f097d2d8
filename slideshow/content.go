package slideshow

import (
	"time"
	"unicode"

	"github.com/echoflaresat/slidecam/easing"
	"github.com/echoflaresat/slidecam/timeline"
)

const (
	// RevealDuration is the length of a content reveal.
	RevealDuration = 1500 * time.Millisecond
	// letterShift is the overlap of consecutive letter reveals.
	letterShift = 0.85
)

// Letter is one animated character of a title.
type Letter struct {
	Rune    rune
	Opacity float64
	// RotationX is the flip around the baseline in degrees, -90 when hidden.
	RotationX float64
	// Y is the vertical offset in percent of the letter height.
	Y float64
}

// Content is the text overlay of one slide: a container, its title split
// into letters, and a close button, revealed in staggered sub-ranges of
// one timeline.
type Content struct {
	Title        string
	Visible      bool
	Opacity      float64
	CloseOpacity float64
	Letters      []Letter

	spread   [][2]float64
	timeline *timeline.Timeline
	onClose  func()
}

// NewContent builds the hidden overlay of a slide. onClose runs when the
// close button is pressed.
func NewContent(title string, onClose func()) *Content {
	c := &Content{
		Title:    title,
		timeline: timeline.New(timeline.Props{Duration: RevealDuration}),
		onClose:  onClose,
	}
	for _, r := range title {
		if unicode.IsSpace(r) {
			continue
		}
		c.Letters = append(c.Letters, Letter{Rune: r})
	}
	c.spread = easing.Spread(len(c.Letters), letterShift)
	c.timeline.OnProgress(func(p timeline.Progress) { c.render(p.Linear) })
	c.render(0)
	return c
}

func (c *Content) render(progress float64) {
	container := easing.ClampScope(progress, 0, 0.4)
	title := easing.ClampScope(progress, 0.2, 1)
	closeButton := easing.ClampScope(progress, 0.2, 0.4)

	c.Visible = container > 0
	c.Opacity = container
	c.CloseOpacity = closeButton

	for i := range c.Letters {
		p := easing.ClampScope(title, c.spread[i][0], c.spread[i][1])
		e := easing.OutCubic(p)
		c.Letters[i].Opacity = p
		c.Letters[i].RotationX = -90 * (1 - e)
		c.Letters[i].Y = -50 * (1 - e)
	}
}

// Activate plays the reveal.
func (c *Content) Activate() { c.timeline.Play() }

// Deactivate plays the reveal backwards.
func (c *Content) Deactivate() { c.timeline.Reverse() }

// Advance moves the reveal by one frame.
func (c *Content) Advance(dt time.Duration) { c.timeline.Advance(dt) }

// Progress is the linear reveal progress.
func (c *Content) Progress() float64 { return c.timeline.Progress() }

// Close presses the close button.
func (c *Content) Close() {
	if c.onClose != nil {
		c.onClose()
	}
}

func (c *Content) Destroy() {
	c.timeline.Destroy()
	c.onClose = nil
}
