package render

import "math"

const (
	// RatioCompositor redraws on every compositor frame callback.
	RatioCompositor uint32 = 0
	// RatioNever never redraws on its own.
	RatioNever uint32 = math.MaxUint32

	DefaultNativeRate = 60

	counterWrap = 1 << 30
)

// DeriveRatio turns a declared rate into a divisor of the native rate:
// negative rates follow the compositor, zero never redraws.
func DeriveRatio(declared, native int) uint32 {
	if native <= 0 {
		native = DefaultNativeRate
	}
	switch {
	case declared < 0:
		return RatioCompositor
	case declared == 0:
		return RatioNever
	case declared >= native:
		return 1
	}
	return uint32(native / declared)
}

// Pacing holds a display's frame and tick counters.
type Pacing struct {
	framesPerRedraw uint32
	ticksPerUpdate  uint32
	frame           uint32
	tick            uint32
}

func NewPacing(framerate, tickrate, native int) Pacing {
	return Pacing{
		framesPerRedraw: DeriveRatio(framerate, native),
		ticksPerUpdate:  DeriveRatio(tickrate, native),
	}
}

// Step advances both counters and reports whether this step should redraw
// and whether it should update animations.
func (p *Pacing) Step() (redraw, update bool) {
	p.frame = (p.frame + 1) % counterWrap
	p.tick = (p.tick + 1) % counterWrap
	return due(p.frame, p.framesPerRedraw), due(p.tick, p.ticksPerUpdate)
}

func (p *Pacing) Ratios() (framesPerRedraw, ticksPerUpdate uint32) {
	return p.framesPerRedraw, p.ticksPerUpdate
}

func due(counter, ratio uint32) bool {
	switch ratio {
	case RatioCompositor:
		return true
	case RatioNever:
		return false
	}
	return counter%ratio == 0
}
