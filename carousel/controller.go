// Package carousel is the slide carousel engine: it turns one scroll
// progress value and the pointer into per-slide poses, shader uniforms,
// a background blend and a focus state machine.
package carousel

import (
	"errors"
	"image"
	"math"
	"time"

	"github.com/echoflaresat/slidecam/colors"
	"github.com/echoflaresat/slidecam/easing"
	"github.com/echoflaresat/slidecam/events"
	"github.com/echoflaresat/slidecam/pointer"
	"github.com/echoflaresat/slidecam/scene"
	"github.com/echoflaresat/slidecam/scroll"
	"github.com/echoflaresat/slidecam/slideprogress"
	"github.com/echoflaresat/slidecam/stage"
	"github.com/echoflaresat/slidecam/timeline"
	"github.com/echoflaresat/slidecam/vectors"
)

// ErrNoSlides is returned when a carousel is built without items.
var ErrNoSlides = errors.New("carousel: no slides")

const (
	// Overscroll is how far progress may run past the first and last slide.
	Overscroll = 0.1

	ActivateDuration = 2 * time.Second
	NavigateDuration = time.Second
	fogDistance      = 8
)

// Manager is the render manager the carousel draws into.
type Manager interface {
	Width() float64
	Height() float64
	Perspective() float64
	EaseMultiplier() float64
	Scene() *scene.Scene
	Camera() scene.Camera
	OnRender(fn func(stage.Frame)) *events.Subscription
	OnResize(fn func(stage.Size)) *events.Subscription
}

// Driver is the scroll progress driver.
type Driver interface {
	scroll.Source
	Progress() float64
	SteppedProgress() float64
	Min() float64
	Max() float64
	Render(dt time.Duration, easeMultiplier float64)
	OnRender(fn func(float64)) *events.Subscription
	To(value float64, d time.Duration)
	ChangeProps(in slideprogress.InputProps)
}

// FocusState is the carousel's focus state.
type FocusState int

const (
	Browsing FocusState = iota
	Activating
	Focused
	Deactivating
)

func (s FocusState) String() string {
	switch s {
	case Browsing:
		return "browsing"
	case Activating:
		return "activating"
	case Focused:
		return "focused"
	case Deactivating:
		return "deactivating"
	}
	return "unknown"
}

// ActiveIndex is the payload of active index events. Active is false when
// the focused slide is being released.
type ActiveIndex struct {
	Index  int
	Active bool
}

// Item is one slide.
type Item struct {
	Image image.Image
	Title string
}

type Props struct {
	Manager Manager
	// Driver is optional; by default the carousel creates and owns a
	// slideprogress.Handler bounded to the slides plus overscroll.
	Driver Driver
	Items  []Item
}

// Controller owns the planes and every per-frame computation.
type Controller struct {
	manager    Manager
	driver     Driver
	handler    *slideprogress.Handler
	pointer    *pointer.Tracker
	scroll     *scroll.Intensity
	group      *scene.Node
	planes     []*Plane
	raycaster  scene.Raycaster
	background colors.Color4

	state          FocusState
	activeIndex    int
	activeProgress float64
	activeTimeline *timeline.Timeline
	showTimeline   *timeline.Timeline

	progressEvents    events.Emitter[float64]
	activeIndexEvents events.Emitter[ActiveIndex]

	scope     events.Scope
	destroyed bool
}

func New(props Props) (*Controller, error) {
	n := len(props.Items)
	if n == 0 {
		return nil, ErrNoSlides
	}
	m := props.Manager

	c := &Controller{
		manager:     m,
		driver:      props.Driver,
		pointer:     pointer.New(m.Width(), m.Height()),
		group:       scene.NewNode("carousel"),
		activeIndex: -1,
	}
	if c.driver == nil {
		c.handler = slideprogress.New(slideprogress.DefaultProps(-Overscroll, float64(n-1)+Overscroll))
		c.driver = c.handler
	}
	c.scroll = scroll.New(c.driver)
	m.Scene().Add(c.group)

	for i, item := range props.Items {
		c.planes = append(c.planes, NewPlane(PlaneProps{
			Manager: m,
			Parent:  c.group,
			Image:   item.Image,
			Index:   i,
			Pointer: c.pointer,
		}))
	}

	c.activeTimeline = timeline.New(timeline.Props{Duration: ActivateDuration, Easing: easing.InOutBack})
	c.scope.Add(
		c.driver.OnRender(func(p float64) { c.progressEvents.Emit(c.normalize(p)) }),
		c.activeTimeline.OnProgress(func(p timeline.Progress) {
			c.activeProgress = easing.Clamp(p.Eased, 0, 1)
		}),
		c.activeTimeline.OnStart(func(struct{}) {
			if c.activeTimeline.IsReversed() {
				c.driver.ChangeProps(slideprogress.InputProps{HasWheel: true, HasDrag: true})
			}
		}),
		c.activeTimeline.OnEnd(func(struct{}) {
			if c.activeTimeline.IsReversed() {
				c.state = Browsing
				c.activeIndex = -1
				c.activeProgress = 0
				return
			}
			c.state = Focused
		}),
		m.OnResize(func(s stage.Size) { c.pointer.Resize(s.Width, s.Height) }),
		m.OnRender(c.render),
	)

	c.renderBackground()
	return c, nil
}

func (c *Controller) normalize(p float64) float64 {
	if len(c.planes) < 2 {
		return 0
	}
	return p / float64(len(c.planes)-1)
}

// OnProgress fires every frame with progress divided by the last index.
func (c *Controller) OnProgress(fn func(float64)) *events.Subscription {
	return c.progressEvents.On(fn)
}

// OnActiveIndex fires when a slide gains or starts losing focus.
func (c *Controller) OnActiveIndex(fn func(ActiveIndex)) *events.Subscription {
	return c.activeIndexEvents.On(fn)
}

// PointerMove records a raw pointer position in viewport pixels.
func (c *Controller) PointerMove(x, y float64) {
	c.pointer.Move(x, y)
}

func (c *Controller) Driver() Driver { return c.driver }

func (c *Controller) Pointer() *pointer.Tracker { return c.pointer }

func (c *Controller) ScrollIntensity() *scroll.Intensity { return c.scroll }

func (c *Controller) Group() *scene.Node { return c.group }

func (c *Controller) Planes() []*Plane { return c.planes }

func (c *Controller) Len() int { return len(c.planes) }

func (c *Controller) State() FocusState { return c.state }

// ActiveIndex returns the focused slide while the state is not Browsing.
func (c *Controller) ActiveIndex() (int, bool) {
	return c.activeIndex, c.activeIndex >= 0
}

// ActiveProgress is the eased activation progress in [0,1].
func (c *Controller) ActiveProgress() float64 { return c.activeProgress }

// Background is the colour of the last frame's background and fog.
func (c *Controller) Background() colors.Color4 { return c.background }

// LocalProgress is a slide's progress relative to the viewport centre.
func LocalProgress(global float64, index int) float64 {
	return global - float64(index)
}

// Activate focuses the slide nearest the current progress. It only acts
// while browsing.
func (c *Controller) Activate() {
	if c.destroyed || c.state != Browsing {
		return
	}
	idx := int(math.Round(c.driver.SteppedProgress()))
	idx = min(max(idx, 0), len(c.planes)-1)

	c.activeIndex = idx
	c.state = Activating
	c.activeIndexEvents.Emit(ActiveIndex{Index: idx, Active: true})
	c.activeTimeline.Play()
	c.driver.ChangeProps(slideprogress.InputProps{})
}

// Deactivate releases focus by reversing the activation. Listeners hear
// about it at once; the index stays readable until the reverse finishes.
func (c *Controller) Deactivate() {
	if c.destroyed || c.state == Browsing || c.state == Deactivating {
		return
	}
	if c.activeTimeline.Progress() == 0 {
		return
	}
	c.state = Deactivating
	c.activeTimeline.Reverse()
	c.activeIndexEvents.Emit(ActiveIndex{Index: -1})
}

// Next animates to the following slide, clamped to the driver bounds.
func (c *Controller) Next() {
	c.navigate(1)
}

// Prev animates to the previous slide, clamped to the driver bounds.
func (c *Controller) Prev() {
	c.navigate(-1)
}

func (c *Controller) navigate(dir float64) {
	if c.destroyed {
		return
	}
	v := easing.Clamp(math.Round(c.driver.Progress())+dir, c.driver.Min(), c.driver.Max())
	c.driver.To(v, NavigateDuration)
}

// Show plays the intro once, lowering the group into place.
func (c *Controller) Show(d time.Duration) {
	if c.destroyed || c.showTimeline != nil {
		return
	}
	c.showTimeline = timeline.New(timeline.Props{Duration: d})
	c.showTimeline.OnProgress(func(p timeline.Progress) {
		rest := 1 - p.Eased
		c.group.Position.Y = c.manager.Height() * rest * -2
		c.group.Rotation.X = math.Pi * 0.35 * rest
	})
	c.showTimeline.Play()
}

func (c *Controller) render(f stage.Frame) {
	em := f.EaseMultiplier

	c.driver.Render(f.Delta, em)
	c.activeTimeline.Advance(f.Delta)
	if c.showTimeline != nil {
		c.showTimeline.Advance(f.Delta)
	}

	c.scroll.Render(em)
	c.pointer.Render(em)
	c.renderPlanes()
	c.renderBackground()
}

func (c *Controller) renderPlanes() {
	m := c.manager
	global := c.driver.Progress()

	scrollYRotation := math.Pi * 0.2 * c.scroll.Intensity()
	mouseYRotation := math.Pi * 0.05 * c.pointer.X()
	mouseXRotation := math.Pi * 0.05 * c.pointer.Y()
	x := m.Width() * -0.025 * c.pointer.X()
	y := m.Height() * 0.025 * c.pointer.Y()

	c.raycaster.SetFromCamera(c.pointer.NDC(), m.Camera())
	meshes := make([]*scene.Mesh, len(c.planes))
	for i, p := range c.planes {
		meshes[i] = p.Mesh()
	}
	hits := c.raycaster.IntersectObjects(meshes)

	for i, p := range c.planes {
		var uv *vectors.Vec2
		for _, h := range hits {
			if h.Mesh == p.Mesh() {
				hit := h.UV
				uv = &hit
				break
			}
		}

		active := 0.0
		if i == c.activeIndex {
			active = c.activeProgress
		}

		p.Render(RenderProps{
			LocalProgress:   LocalProgress(global, i),
			ScrollYRotation: scrollYRotation,
			MouseYRotation:  mouseYRotation,
			MouseXRotation:  mouseXRotation,
			XOffset:         x,
			YOffset:         y,
			ActiveProgress:  active,
			RaycastUV:       uv,
		})
	}
}

// BlendBackground mixes the dominant colours of the two slides around
// global progress.
func BlendBackground(dominant []colors.Color4, global float64) colors.Color4 {
	last := float64(len(dominant) - 1)
	p := easing.Clamp(global, 0, last)
	prev := int(math.Floor(p))
	next := int(math.Ceil(p))
	return dominant[prev].Mix(dominant[next], math.Mod(p, 1))
}

func (c *Controller) renderBackground() {
	dominant := make([]colors.Color4, len(c.planes))
	for i, p := range c.planes {
		dominant[i] = colors.FromRGBA(p.DominantColor())
	}
	c.background = BlendBackground(dominant, c.driver.Progress())

	s := c.manager.Scene()
	s.Background = c.background
	s.Fog = &scene.Fog{
		Color: c.background,
		Near:  0,
		Far:   c.manager.Perspective() * fogDistance,
	}
}

// Destroy tears the carousel down. Later calls are no-ops.
func (c *Controller) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true

	c.scope.Release()
	c.scroll.Destroy()
	if c.handler != nil {
		c.handler.Destroy()
	}
	c.manager.Scene().Remove(c.group)
	for _, p := range c.planes {
		p.Destroy()
	}
	c.activeTimeline.Destroy()
	if c.showTimeline != nil {
		c.showTimeline.Destroy()
	}
	c.progressEvents.Clear()
	c.activeIndexEvents.Clear()
}
