package asset

import "time"

// Animation is the frame timing state machine for an animated texture.
// The index only moves when the accumulator covers the current frame's
// duration; a non-looping animation freezes on its last frame.
type Animation struct {
	durations []time.Duration
	index     int
	acc       time.Duration
	looping   bool
	finished  bool
}

func NewAnimation(durations []time.Duration, looping bool) *Animation {
	d := make([]time.Duration, len(durations))
	for i, v := range durations {
		if v <= 0 {
			v = DefaultFrameDelay
		}
		d[i] = v
	}
	return &Animation{durations: d, looping: looping}
}

// Advance adds dt to the accumulator and steps through as many frames as it
// covers. It reports whether the visible frame changed.
func (a *Animation) Advance(dt time.Duration) bool {
	n := len(a.durations)
	if n <= 1 || a.finished || dt <= 0 {
		return false
	}

	before := a.index
	a.acc += dt
	for a.acc >= a.durations[a.index] {
		a.acc -= a.durations[a.index]
		a.index = (a.index + 1) % n

		if a.index == 0 && !a.looping {
			a.index = n - 1
			a.acc = 0
			a.finished = true
			break
		}
	}

	return a.index != before
}

func (a *Animation) Reset() {
	a.index = 0
	a.acc = 0
	a.finished = false
}

func (a *Animation) Index() int { return a.index }

func (a *Animation) FrameCount() int { return len(a.durations) }

func (a *Animation) IsAnimated() bool { return len(a.durations) > 1 }

// IsFinished is true once a non-looping animation has reached its last frame.
func (a *Animation) IsFinished() bool { return a.finished }

func (a *Animation) Looping() bool { return a.looping }

func (a *Animation) SetLooping(looping bool) {
	a.looping = looping
	if looping {
		a.finished = false
	}
}
