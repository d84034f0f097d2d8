// Package stage owns the viewport, scene and camera, and drives frames:
// each Tick computes the ease multiplier and emits a render event that
// every animated component hangs off.
package stage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/echoflaresat/slidecam/events"
	"github.com/echoflaresat/slidecam/render"
	"github.com/echoflaresat/slidecam/scene"
)

// ErrViewport is returned for a non-positive viewport or perspective.
var ErrViewport = errors.New("stage: invalid viewport")

// TargetFPS is the frame rate at which the ease multiplier is 1.
const TargetFPS = 60

// MaxEaseMultiplier caps the multiplier after long frame stalls so that
// smoothing steps never overshoot their targets.
const MaxEaseMultiplier = 4

type Props struct {
	Width, Height float64
	// Perspective is the camera distance from the z=0 plane.
	Perspective float64
	Workers     int
	Supersample int
}

// Frame is the payload of render events.
type Frame struct {
	Index          int
	Delta          time.Duration
	EaseMultiplier float64
}

// Size is the payload of resize events.
type Size struct {
	Width, Height float64
}

type Manager struct {
	props          Props
	scene          *scene.Scene
	camera         render.Camera
	renderer       render.Renderer
	easeMultiplier float64
	frame          int

	renderEvents events.Emitter[Frame]
	resizeEvents events.Emitter[Size]
}

func New(props Props) (*Manager, error) {
	if err := validate(props.Width, props.Height, props.Perspective); err != nil {
		return nil, err
	}
	return &Manager{
		props:          props,
		scene:          scene.New(),
		camera:         render.NewCamera(props.Perspective, props.Width, props.Height),
		renderer:       render.Renderer{Workers: props.Workers, Supersample: props.Supersample},
		easeMultiplier: 1,
	}, nil
}

func validate(w, h, perspective float64) error {
	if !(w > 0) || !(h > 0) || !(perspective > 0) {
		return fmt.Errorf("%w: %vx%v perspective %v", ErrViewport, w, h, perspective)
	}
	return nil
}

func (m *Manager) Width() float64 { return m.props.Width }

func (m *Manager) Height() float64 { return m.props.Height }

func (m *Manager) Perspective() float64 { return m.props.Perspective }

// EaseMultiplier is the multiplier of the last Tick, 1 before the first.
func (m *Manager) EaseMultiplier() float64 { return m.easeMultiplier }

func (m *Manager) Scene() *scene.Scene { return m.scene }

// Camera is the camera used for raycasting.
func (m *Manager) Camera() scene.Camera { return m.camera }

// RenderCamera is the concrete camera used for drawing.
func (m *Manager) RenderCamera() render.Camera { return m.camera }

// FrameIndex is the number of ticks so far.
func (m *Manager) FrameIndex() int { return m.frame }

func (m *Manager) OnRender(fn func(Frame)) *events.Subscription {
	return m.renderEvents.On(fn)
}

func (m *Manager) OnResize(fn func(Size)) *events.Subscription {
	return m.resizeEvents.On(fn)
}

// Resize changes the viewport and notifies resize listeners.
func (m *Manager) Resize(width, height float64) error {
	if err := validate(width, height, m.props.Perspective); err != nil {
		return err
	}
	m.props.Width = width
	m.props.Height = height
	m.camera.Resize(width, height)
	m.resizeEvents.Emit(Size{Width: width, Height: height})
	return nil
}

// EaseMultiplierFor converts a frame duration into an ease multiplier.
// Non-positive durations count as one nominal frame.
func EaseMultiplierFor(dt time.Duration) float64 {
	if dt <= 0 {
		return 1
	}
	em := float64(dt) / float64(time.Second/TargetFPS)
	return math.Min(em, MaxEaseMultiplier)
}

// Tick advances one frame of duration dt.
func (m *Manager) Tick(dt time.Duration) {
	m.easeMultiplier = EaseMultiplierFor(dt)
	m.frame++
	m.renderEvents.Emit(Frame{Index: m.frame, Delta: dt, EaseMultiplier: m.easeMultiplier})
}

// Snapshot draws the current scene at the viewport size.
func (m *Manager) Snapshot(ctx context.Context) (*image.NRGBA, error) {
	w := int(math.Round(m.props.Width))
	h := int(math.Round(m.props.Height))
	img, err := m.renderer.Render(ctx, m.scene, m.camera, w, h)
	if err != nil {
		return nil, fmt.Errorf("render frame %d: %w", m.frame, err)
	}
	return img, nil
}

// Destroy drops every listener.
func (m *Manager) Destroy() {
	m.renderEvents.Clear()
	m.resizeEvents.Clear()
}
