package wlrenderer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlanConfigure(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint32
		scale         int32
		configured    bool
		want          configurePlan
	}{
		{"first configure sets up", 1920, 1080, 1, false, configurePlan{1920, 1080, 1920, 1080, true}},
		{"later configure only resizes", 1280, 720, 1, true, configurePlan{1280, 720, 1280, 720, false}},
		{"scaled buffer", 1280, 720, 2, true, configurePlan{1280, 720, 2560, 1440, false}},
		{"zero size takes the mode", 0, 0, 2, false, configurePlan{1920, 1080, 3840, 2160, true}},
		{"bad scale treated as one", 0, 1080, 0, false, configurePlan{3840, 2160, 3840, 2160, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := planConfigure(tt.width, tt.height, 3840, 2160, tt.scale, tt.configured)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPacerHoldsToInterval(t *testing.T) {
	p := newPacer(50)
	start := time.Now()

	assert.True(t, p.due(start))
	assert.False(t, p.due(start.Add(10*time.Millisecond)))
	assert.True(t, p.due(start.Add(20*time.Millisecond)))
	assert.False(t, p.due(start.Add(39*time.Millisecond)))
	assert.True(t, p.due(start.Add(40*time.Millisecond)))
}

func TestUnpacedSkipsOutputsAwaitingFrames(t *testing.T) {
	waiting := &Output{name: "DP-1", awaitingFrame: true}
	idle := &Output{name: "HDMI-A-1"}
	fresh := &Output{name: "eDP-1"}

	assert.Equal(t, []*Output{idle, fresh}, unpaced([]*Output{waiting, idle, fresh}))

	// the callback fired; the output is paced again
	waiting.awaitingFrame = false
	assert.Len(t, unpaced([]*Output{waiting, idle, fresh}), 3)
}
