// Package timeline advances a duration-based progress value with an easing
// curve. A Timeline never runs on its own: the owner calls Advance once per
// frame with the frame duration and reads the result.
package timeline

import (
	"time"

	"github.com/echoflaresat/slidecam/easing"
	"github.com/echoflaresat/slidecam/events"
)

// Props configures a Timeline. A nil Easing means easing.InOutCubic.
type Props struct {
	Duration time.Duration
	Easing   easing.Func
}

// Progress is the payload of progress events.
type Progress struct {
	// Linear is the raw progress in [0,1].
	Linear float64
	// Eased is Linear passed through the easing curve.
	Eased float64
}

// Timeline is a reversible, frame-sampled animation clock.
type Timeline struct {
	props Props

	progress  float64
	playing   bool
	reversed  bool
	started   bool
	destroyed bool

	progressEvents events.Emitter[Progress]
	startEvents    events.Emitter[struct{}]
	endEvents      events.Emitter[struct{}]
}

func New(props Props) *Timeline {
	if props.Easing == nil {
		props.Easing = easing.InOutCubic
	}
	return &Timeline{props: props}
}

// OnProgress registers a listener for every advanced frame.
func (t *Timeline) OnProgress(fn func(Progress)) *events.Subscription {
	return t.progressEvents.On(fn)
}

// OnStart fires on the first advanced frame after Play or Reverse.
func (t *Timeline) OnStart(fn func(struct{})) *events.Subscription {
	return t.startEvents.On(fn)
}

// OnEnd fires when progress reaches 1 while playing or 0 while reversed.
func (t *Timeline) OnEnd(fn func(struct{})) *events.Subscription {
	return t.endEvents.On(fn)
}

// Play runs the timeline forward from its current progress.
func (t *Timeline) Play() {
	if t.destroyed || t.progress >= 1 {
		return
	}
	t.reversed = false
	t.playing = true
	t.started = false
}

// Reverse runs the timeline backward from its current progress.
func (t *Timeline) Reverse() {
	if t.destroyed || t.progress <= 0 {
		return
	}
	t.reversed = true
	t.playing = true
	t.started = false
}

// Advance moves progress by dt and emits the resulting events.
func (t *Timeline) Advance(dt time.Duration) {
	if !t.playing || t.destroyed {
		return
	}
	if !t.started {
		t.started = true
		t.startEvents.Emit(struct{}{})
		if !t.playing {
			return
		}
	}

	step := 1.0
	if t.props.Duration > 0 {
		step = float64(dt) / float64(t.props.Duration)
	}
	if t.reversed {
		t.progress = easing.Clamp(t.progress-step, 0, 1)
	} else {
		t.progress = easing.Clamp(t.progress+step, 0, 1)
	}
	t.progressEvents.Emit(t.State())

	if (!t.reversed && t.progress == 1) || (t.reversed && t.progress == 0) {
		t.playing = false
		t.endEvents.Emit(struct{}{})
	}
}

// State returns the current linear and eased progress.
func (t *Timeline) State() Progress {
	return Progress{Linear: t.progress, Eased: t.props.Easing(t.progress)}
}

// Progress returns linear progress in [0,1].
func (t *Timeline) Progress() float64 {
	return t.progress
}

func (t *Timeline) IsPlaying() bool {
	return t.playing
}

func (t *Timeline) IsReversed() bool {
	return t.reversed
}

// Destroy stops the timeline and drops every listener.
func (t *Timeline) Destroy() {
	t.destroyed = true
	t.playing = false
	t.progressEvents.Clear()
	t.startEvents.Clear()
	t.endEvents.Clear()
}
