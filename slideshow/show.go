// Package slideshow composes the carousel with its overlays: the scroll
// line and one text content per slide. It routes focus changes between
// them and exposes the user commands of a running slideshow.
package slideshow

import (
	"log/slog"
	"time"

	"github.com/echoflaresat/slidecam/carousel"
	"github.com/echoflaresat/slidecam/events"
	"github.com/echoflaresat/slidecam/stage"
)

// IntroDuration is the default length of the intro played by Show.
const IntroDuration = 2500 * time.Millisecond

type Props struct {
	Manager carousel.Manager
	Items   []carousel.Item
	// Driver is passed through to the carousel.
	Driver carousel.Driver
}

// Show is a running slideshow.
type Show struct {
	carousel   *carousel.Controller
	scrollLine ScrollLine
	contents   []*Content

	activeIndexEvents events.Emitter[carousel.ActiveIndex]
	showEvents        events.Emitter[struct{}]

	scope     events.Scope
	shown     bool
	destroyed bool
}

func New(props Props) (*Show, error) {
	c, err := carousel.New(carousel.Props{
		Manager: props.Manager,
		Driver:  props.Driver,
		Items:   props.Items,
	})
	if err != nil {
		return nil, err
	}

	s := &Show{
		carousel:   c,
		scrollLine: ScrollLine{Opacity: 1},
	}
	for _, item := range props.Items {
		s.contents = append(s.contents, NewContent(item.Title, s.Deactivate))
	}

	s.scope.Add(
		c.OnProgress(s.scrollLine.Render),
		c.OnActiveIndex(s.handleActiveIndex),
		props.Manager.OnRender(func(f stage.Frame) {
			for _, content := range s.contents {
				content.Advance(f.Delta)
			}
		}),
	)

	slog.Debug("slideshow created", "slides", len(s.contents))
	return s, nil
}

func (s *Show) handleActiveIndex(a carousel.ActiveIndex) {
	if a.Active {
		s.scrollLine.Deactivate()
	} else {
		s.scrollLine.Activate()
	}
	for i, content := range s.contents {
		if a.Active && i == a.Index {
			content.Activate()
		} else {
			content.Deactivate()
		}
	}
	slog.Debug("active slide changed", "index", a.Index, "active", a.Active)
	s.activeIndexEvents.Emit(a)
}

// OnActiveIndex fires after the overlays reacted to a focus change.
func (s *Show) OnActiveIndex(fn func(carousel.ActiveIndex)) *events.Subscription {
	return s.activeIndexEvents.On(fn)
}

// OnShow fires once, when the intro starts.
func (s *Show) OnShow(fn func(struct{})) *events.Subscription {
	return s.showEvents.On(fn)
}

func (s *Show) Carousel() *carousel.Controller { return s.carousel }

func (s *Show) ScrollLine() ScrollLine { return s.scrollLine }

func (s *Show) Contents() []*Content { return s.contents }

// Activate focuses the slide under the current progress.
func (s *Show) Activate() { s.carousel.Activate() }

// Deactivate releases the focused slide.
func (s *Show) Deactivate() { s.carousel.Deactivate() }

func (s *Show) Next() { s.carousel.Next() }

func (s *Show) Prev() { s.carousel.Prev() }

// PointerMove forwards a pointer position in viewport pixels.
func (s *Show) PointerMove(x, y float64) { s.carousel.PointerMove(x, y) }

// Show plays the intro. A zero duration means IntroDuration.
func (s *Show) Show(d time.Duration) {
	if s.destroyed || s.shown {
		return
	}
	if d <= 0 {
		d = IntroDuration
	}
	s.shown = true
	s.carousel.Show(d)
	s.showEvents.Emit(struct{}{})
}

func (s *Show) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.scope.Release()
	for _, content := range s.contents {
		content.Destroy()
	}
	s.carousel.Destroy()
	s.activeIndexEvents.Clear()
	s.showEvents.Clear()
}
