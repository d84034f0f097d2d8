// Package easing holds the stateless numeric helpers shared by the animated
// components: clamping, range remapping, exponential smoothing and easing
// curves. None of them keep state between calls.
package easing

import "math"

// Func maps linear progress in [0,1] to eased progress. Curves with
// overshoot ("back" curves) may leave [0,1] in the middle of the range but
// always return 0 at 0 and 1 at 1.
type Func func(t float64) float64

// Clamp clamps x into the inclusive range [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Scoped remaps x from [lo, hi] to [0, 1] linearly without clamping.
// lo == hi yields 0.
func Scoped(x, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return (x - lo) / (hi - lo)
}

// ClampScope remaps x from [lo, hi] to [0, 1] and clamps the result.
// It is used to give a sub-animation its own slice of a parent progress.
func ClampScope(x, lo, hi float64) float64 {
	return Clamp(Scoped(x, lo, hi), 0, 1)
}

// Lerp is one exponential-smoothing step: it moves current toward target by
// the fraction ease of the remaining distance.
func Lerp(current, target, ease float64) float64 {
	return current + (target-current)*ease
}

// LerpApprox is Lerp that snaps to target once the result is closer than
// approximation, so smoothed values settle exactly instead of creeping.
func LerpApprox(current, target, ease, approximation float64) float64 {
	v := Lerp(current, target, ease)
	if math.Abs(target-v) < approximation {
		return target
	}
	return v
}

// Spread splits [0,1] into count overlapping windows for staggered
// animations. Each window has the same length and consecutive windows
// start evenly apart; shift in [0,1) controls the overlap (0 means no
// overlap, values near 1 mean almost full overlap).
func Spread(count int, shift float64) [][2]float64 {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return [][2]float64{{0, 1}}
	}
	size := 1 / (float64(count) - shift*(float64(count)-1))
	step := size * (1 - shift)
	out := make([][2]float64, count)
	for i := range out {
		start := step * float64(i)
		out[i] = [2]float64{start, start + size}
	}
	return out
}

// Linear is the identity curve.
func Linear(t float64) float64 { return t }

// InOutCubic accelerates then decelerates.
func InOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

// OutCubic decelerates to rest.
func OutCubic(t float64) float64 {
	f := 1 - t
	return 1 - f*f*f
}

const (
	backC1 = 1.70158
	backC2 = backC1 * 1.525
)

// InOutBack pulls back below 0, then overshoots past 1 before settling.
func InOutBack(t float64) float64 {
	if t < 0.5 {
		f := 2 * t
		return f * f * ((backC2+1)*f - backC2) / 2
	}
	f := 2*t - 2
	return (f*f*((backC2+1)*f+backC2) + 2) / 2
}
