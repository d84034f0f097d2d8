// Package slideprogress turns wheel and drag input into one continuous,
// momentum-damped progress value measured in slide units, with optional
// snapping to whole steps once input goes idle.
package slideprogress

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/echoflaresat/slidecam/easing"
	"github.com/echoflaresat/slidecam/events"
	"github.com/echoflaresat/slidecam/timeline"
)

// Props configures a Handler.
type Props struct {
	Min, Max float64
	// Step is the snapping unit; 0 disables snapping.
	Step float64
	// Friction is the share of drag release velocity kept per 60 Hz frame.
	Friction float64
	// Ease is the per-frame smoothing rate of progress toward its target.
	Ease float64
	// WheelSpeed converts wheel pixels to progress units.
	WheelSpeed float64
	// DragSpeed converts drag pixels to progress units.
	DragSpeed float64
	// SnapDelay is how many idle frames pass before snapping starts.
	SnapDelay int

	HasWheel bool
	HasDrag  bool
}

// DefaultProps returns the carousel's usual tuning for the given bounds.
func DefaultProps(min, max float64) Props {
	return Props{
		Min:        min,
		Max:        max,
		Step:       1,
		Friction:   0.9,
		Ease:       0.075,
		WheelSpeed: 0.002,
		DragSpeed:  0.003,
		SnapDelay:  12,
		HasWheel:   true,
		HasDrag:    true,
	}
}

// InputProps toggles which inputs are accepted.
type InputProps struct {
	HasWheel bool
	HasDrag  bool
}

type animation struct {
	from, to float64
	clock    *timeline.Timeline
}

// Handler owns the progress value. It is driven by Render once per frame;
// the input methods only record intent.
type Handler struct {
	props Props

	progress float64
	target   float64
	velocity float64

	dragging  bool
	idle      int
	snapVel   float64
	spring    harmonica.Spring
	animation *animation

	renderEvents events.Emitter[float64]
	wheelEvents  events.Emitter[float64]
	dragEvents   events.Emitter[float64]
}

func New(props Props) *Handler {
	if props.Max < props.Min {
		props.Max = props.Min
	}
	start := easing.Clamp(0, props.Min, props.Max)
	return &Handler{
		props:    props,
		progress: start,
		target:   start,
		spring:   harmonica.NewSpring(harmonica.FPS(60), 6.0, 1.0),
	}
}

func (h *Handler) Props() Props { return h.props }

func (h *Handler) Min() float64 { return h.props.Min }

func (h *Handler) Max() float64 { return h.props.Max }

// Progress is the current smoothed progress.
func (h *Handler) Progress() float64 { return h.progress }

// Target is the value progress is easing toward.
func (h *Handler) Target() float64 { return h.target }

// SteppedProgress is progress rounded to the nearest step inside the bounds.
func (h *Handler) SteppedProgress() float64 {
	return h.stepped(h.progress)
}

func (h *Handler) stepped(v float64) float64 {
	if h.props.Step <= 0 {
		return v
	}
	s := math.Round(v/h.props.Step) * h.props.Step
	return easing.Clamp(s, h.props.Min, h.props.Max)
}

// OnRender fires after every Render with the new progress.
func (h *Handler) OnRender(fn func(float64)) *events.Subscription {
	return h.renderEvents.On(fn)
}

// OnWheel fires for every accepted wheel event with its signed delta.
func (h *Handler) OnWheel(fn func(float64)) *events.Subscription {
	return h.wheelEvents.On(fn)
}

// OnDragMove fires for every accepted drag step with its signed delta.
func (h *Handler) OnDragMove(fn func(float64)) *events.Subscription {
	return h.dragEvents.On(fn)
}

// ChangeProps enables or disables wheel and drag input.
func (h *Handler) ChangeProps(in InputProps) {
	h.props.HasWheel = in.HasWheel
	h.props.HasDrag = in.HasDrag
	if !in.HasDrag {
		h.dragging = false
		h.velocity = 0
	}
}

// Wheel records a wheel event; positive deltas move forward.
func (h *Handler) Wheel(delta float64) {
	if !h.props.HasWheel || delta == 0 {
		return
	}
	h.interrupt()
	h.wheelEvents.Emit(delta)
	h.setTarget(h.target + delta*h.props.WheelSpeed)
}

// DragStart begins a drag gesture.
func (h *Handler) DragStart() {
	if !h.props.HasDrag {
		return
	}
	h.interrupt()
	h.dragging = true
	h.velocity = 0
}

// DragMove records one drag step; dragging up (negative step) moves forward.
func (h *Handler) DragMove(step float64) {
	if !h.props.HasDrag || !h.dragging || step == 0 {
		return
	}
	h.idle = 0
	h.dragEvents.Emit(step)
	delta := -step * h.props.DragSpeed
	h.velocity = delta
	h.setTarget(h.target + delta)
}

// DragEnd releases the drag and lets its velocity coast.
func (h *Handler) DragEnd() {
	h.dragging = false
}

// To animates progress to value over d, ignoring input smoothing.
func (h *Handler) To(value float64, d time.Duration) {
	value = easing.Clamp(value, h.props.Min, h.props.Max)
	h.interrupt()
	clock := timeline.New(timeline.Props{Duration: d, Easing: easing.InOutCubic})
	clock.Play()
	h.animation = &animation{from: h.progress, to: value, clock: clock}
	h.target = value
}

// Set jumps progress and target to value immediately.
func (h *Handler) Set(value float64) {
	value = easing.Clamp(value, h.props.Min, h.props.Max)
	h.interrupt()
	h.progress = value
	h.target = value
}

// IsAnimating reports whether a To animation is running.
func (h *Handler) IsAnimating() bool {
	return h.animation != nil
}

func (h *Handler) interrupt() {
	h.idle = 0
	h.snapVel = 0
	h.velocity = 0
	if h.animation != nil {
		h.animation.clock.Destroy()
		h.animation = nil
	}
}

func (h *Handler) setTarget(v float64) {
	h.target = easing.Clamp(v, h.props.Min, h.props.Max)
}

// Render advances progress by one frame.
func (h *Handler) Render(dt time.Duration, easeMultiplier float64) {
	if h.animation != nil {
		a := h.animation
		a.clock.Advance(dt)
		state := a.clock.State()
		h.progress = a.from + (a.to-a.from)*state.Eased
		if !a.clock.IsPlaying() {
			h.progress = a.to
			h.animation = nil
		}
		h.renderEvents.Emit(h.progress)
		return
	}

	if !h.dragging && h.velocity != 0 {
		h.setTarget(h.target + h.velocity*easeMultiplier)
		h.velocity *= math.Pow(h.props.Friction, easeMultiplier)
		if math.Abs(h.velocity) < 1e-4 {
			h.velocity = 0
		}
	}

	if !h.dragging && h.velocity == 0 {
		h.idle++
		if h.props.Step > 0 && h.idle > h.props.SnapDelay {
			snapTo := h.stepped(h.target)
			h.target, h.snapVel = h.spring.Update(h.target, h.snapVel, snapTo)
			if math.Abs(h.target-snapTo) < 1e-4 && math.Abs(h.snapVel) < 1e-4 {
				h.target = snapTo
				h.snapVel = 0
			}
		}
	}

	h.progress = easing.LerpApprox(h.progress, h.target, h.props.Ease*easeMultiplier, 1e-5)
	h.renderEvents.Emit(h.progress)
}

// Destroy drops every listener and stops animations.
func (h *Handler) Destroy() {
	h.interrupt()
	h.renderEvents.Clear()
	h.wheelEvents.Clear()
	h.dragEvents.Clear()
}
