package render

import (
	"errors"
	"testing"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayStateSetSize(t *testing.T) {
	s := NewDisplayState(1920, 1080)
	s.Presented()

	assert.False(t, s.SetSize(1920, 1080))
	assert.False(t, s.Damaged(), "same size is a no-op")

	assert.False(t, s.SetSize(2560, 1440), "unconfigured layers are not reconfigured")
	assert.True(t, s.Damaged())

	s.Configured = true
	s.Presented()
	assert.True(t, s.SetSize(1280, 720))
	assert.Equal(t, uint32(1280), s.Width)
	assert.Equal(t, uint32(720), s.Height)
}

func TestDisplayStateStaticContentDrawsOnce(t *testing.T) {
	s := NewDisplayState(100, 100)
	s.SetPacing(NewPacing(0, 0, 60))
	now := time.Now()

	render, update, _ := s.Begin(now, true)
	assert.True(t, render)
	assert.False(t, update)
	s.Presented()

	for i := 0; i < 10; i++ {
		render, _, _ = s.Begin(now, true)
		assert.False(t, render)
	}

	s.Damage()
	render, _, _ = s.Begin(now, true)
	assert.True(t, render)
}

func TestDisplayStateEmptyNeverRenders(t *testing.T) {
	s := NewDisplayState(100, 100)
	render, _, _ := s.Begin(time.Now(), false)
	assert.False(t, render)
	assert.True(t, s.Damaged())
}

func TestDisplayStateRatioAndElapsed(t *testing.T) {
	s := NewDisplayState(100, 100)
	s.SetPacing(NewPacing(30, 30, 60))
	s.Presented()
	start := time.Now()

	render, _, _ := s.Begin(start, true)
	assert.False(t, render, "first of every two frames is skipped")

	render, update, elapsed := s.Begin(start.Add(16*time.Millisecond), true)
	assert.True(t, render)
	assert.True(t, update)
	assert.Zero(t, elapsed, "no previous update")
	s.Presented()

	s.Begin(start.Add(32*time.Millisecond), true)
	render, update, elapsed = s.Begin(start.Add(48*time.Millisecond), true)
	assert.True(t, render)
	assert.True(t, update)
	assert.Equal(t, 32*time.Millisecond, elapsed)
}

func TestDisplayStateCompositorDriven(t *testing.T) {
	s := NewDisplayState(100, 100)
	s.SetPacing(NewPacing(-1, -1, 60))
	for i := 0; i < 5; i++ {
		render, update, _ := s.Begin(time.Now(), true)
		assert.True(t, render)
		assert.True(t, update)
		s.Presented()
	}
}

type recordingPass struct {
	calls  []string
	endErr error
}

func (p *recordingPass) SetPipeline(*wgpu.RenderPipeline) { p.calls = append(p.calls, "pipeline") }

func (p *recordingPass) SetBindGroup(uint32, *wgpu.BindGroup, []uint32) {
	p.calls = append(p.calls, "bind")
}

func (p *recordingPass) Draw(vertices, instances, _, _ uint32) {
	p.calls = append(p.calls, "draw")
}

func (p *recordingPass) End() error {
	p.calls = append(p.calls, "end")
	return p.endErr
}

func TestDrawPassDrawsEachRenderableThenEnds(t *testing.T) {
	pass := &recordingPass{}
	rs := []Renderable{&Color{base: base{Name: "sky"}}, &Texture{base: base{Name: "hills"}}}

	require.NoError(t, drawPass(pass, rs))
	assert.Equal(t, []string{"pipeline", "bind", "draw", "pipeline", "bind", "draw", "end"}, pass.calls)
}

func TestDrawPassReportsEndFailure(t *testing.T) {
	invalid := errors.New("validation error")
	pass := &recordingPass{endErr: invalid}

	err := drawPass(pass, []Renderable{&Color{}})
	assert.ErrorIs(t, err, invalid)
}
