package wlrenderer

import "time"

// configurePlan is what one layer-surface configure asks of an output.
type configurePlan struct {
	logicalWidth, logicalHeight uint32
	bufferWidth, bufferHeight   uint32

	// setup holds until the swap surface has been configured once. The
	// output then configures it and draws straight away; later configures
	// only resize.
	setup bool
}

// planConfigure resolves a configure event. A zero dimension leaves the
// size to the client, which takes the output mode in logical pixels.
func planConfigure(width, height, modeWidth, modeHeight uint32, scale int32, configured bool) configurePlan {
	if scale <= 0 {
		scale = 1
	}
	s := uint32(scale)
	if width == 0 || height == 0 {
		width, height = modeWidth/s, modeHeight/s
	}
	return configurePlan{
		logicalWidth:  width,
		logicalHeight: height,
		bufferWidth:   width * s,
		bufferHeight:  height * s,
		setup:         !configured,
	}
}

// pacer holds Client.Pace to the native refresh interval.
type pacer struct {
	interval time.Duration
	last     time.Time
}

func newPacer(nativeRate int) pacer {
	return pacer{interval: time.Second / time.Duration(nativeRate)}
}

func (p *pacer) due(now time.Time) bool {
	if now.Sub(p.last) < p.interval {
		return false
	}
	p.last = now
	return true
}

// unpaced keeps the outputs no frame callback will wake. An output waiting
// on its callback draws from the callback instead.
func unpaced(outs []*Output) []*Output {
	due := make([]*Output, 0, len(outs))
	for _, o := range outs {
		if !o.awaitingFrame {
			due = append(due, o)
		}
	}
	return due
}
