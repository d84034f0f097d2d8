package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/echoflaresat/slidecam/easing"
)

func TestPlayEmitsStartProgressEnd(t *testing.T) {
	tl := New(Props{Duration: 100 * time.Millisecond, Easing: easing.Linear})
	var log []string
	tl.OnStart(func(struct{}) { log = append(log, "start") })
	tl.OnProgress(func(p Progress) { log = append(log, "progress") })
	tl.OnEnd(func(struct{}) { log = append(log, "end") })

	tl.Play()
	assert.True(t, tl.IsPlaying())
	tl.Advance(50 * time.Millisecond)
	assert.InDelta(t, 0.5, tl.Progress(), 1e-9)
	tl.Advance(80 * time.Millisecond)

	assert.Equal(t, 1.0, tl.Progress())
	assert.False(t, tl.IsPlaying())
	assert.Equal(t, []string{"start", "progress", "progress", "end"}, log)
}

func TestReverseFromMiddle(t *testing.T) {
	tl := New(Props{Duration: time.Second, Easing: easing.Linear})
	tl.Play()
	tl.Advance(400 * time.Millisecond)

	starts := 0
	tl.OnStart(func(struct{}) { starts++ })
	tl.Reverse()
	assert.True(t, tl.IsReversed())
	assert.Zero(t, starts, "start fires on the next advanced frame")

	tl.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, starts)
	assert.InDelta(t, 0.3, tl.Progress(), 1e-9)

	tl.Advance(time.Second)
	assert.Equal(t, 0.0, tl.Progress())
	assert.False(t, tl.IsPlaying())
}

func TestPlayAtEndAndReverseAtStartAreNoops(t *testing.T) {
	tl := New(Props{Duration: time.Second})
	tl.Reverse()
	assert.False(t, tl.IsPlaying())

	tl.Play()
	tl.Advance(2 * time.Second)
	tl.Play()
	assert.False(t, tl.IsPlaying())
}

func TestZeroDurationCompletesInOneFrame(t *testing.T) {
	tl := New(Props{})
	tl.Play()
	tl.Advance(time.Millisecond)
	assert.Equal(t, 1.0, tl.Progress())
	assert.InDelta(t, 1.0, tl.State().Eased, 1e-12)
}

func TestDestroyStops(t *testing.T) {
	tl := New(Props{Duration: time.Second})
	called := false
	tl.OnProgress(func(Progress) { called = true })
	tl.Play()
	tl.Destroy()
	tl.Advance(time.Second)
	assert.False(t, called)
	assert.False(t, tl.IsPlaying())
}
