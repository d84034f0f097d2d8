// Package scroll accumulates the magnitude of recent wheel and drag input
// into a bounded, decaying intensity.
package scroll

import (
	"math"

	"github.com/echoflaresat/slidecam/easing"
	"github.com/echoflaresat/slidecam/events"
)

const (
	// Max bounds the accumulated target.
	Max = 100.0

	DecayEase = 0.05
	ChaseEase = 0.1

	approximation = 0.001
)

// Source emits signed wheel and drag-step deltas.
type Source interface {
	OnWheel(fn func(float64)) *events.Subscription
	OnDragMove(fn func(float64)) *events.Subscription
}

// Intensity tracks scroll intensity in [0, Max].
type Intensity struct {
	current float64
	target  float64
	scope   events.Scope
}

// New subscribes to src. A nil src gives a tracker fed only through Add.
func New(src Source) *Intensity {
	s := &Intensity{}
	if src != nil {
		s.scope.Add(src.OnWheel(s.Add), src.OnDragMove(s.Add))
	}
	return s
}

// Add records one input delta.
func (s *Intensity) Add(delta float64) {
	s.target = easing.Clamp(s.target+math.Abs(delta), 0, Max)
}

// Render decays the target and moves current toward it.
func (s *Intensity) Render(easeMultiplier float64) {
	s.target = easing.LerpApprox(s.target, 0, DecayEase*easeMultiplier, approximation)
	s.current = easing.LerpApprox(s.current, s.target, ChaseEase*easeMultiplier, approximation)
}

// Intensity is the smoothed value normalized to [0,1].
func (s *Intensity) Intensity() float64 {
	return s.current / Max
}

func (s *Intensity) Target() float64 { return s.target }

// Destroy releases the input subscriptions.
func (s *Intensity) Destroy() {
	s.scope.Release()
}
