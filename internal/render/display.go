package render

import (
	"fmt"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
)

// DisplayState is the GPU-free part of a display layer: its size, damage
// flag and pacing counters.
type DisplayState struct {
	Width, Height uint32
	Configured    bool

	damaged    bool
	pacing     Pacing
	lastUpdate time.Time
}

func NewDisplayState(width, height uint32) *DisplayState {
	return &DisplayState{
		Width:   width,
		Height:  height,
		damaged: true,
		pacing:  NewPacing(0, 0, DefaultNativeRate),
	}
}

// SetSize records a new size and reports whether the swap surface must be
// reconfigured. An unchanged size is a no-op.
func (s *DisplayState) SetSize(width, height uint32) bool {
	if s.Width == width && s.Height == height {
		return false
	}
	s.Width, s.Height = width, height
	s.damaged = true
	return s.Configured
}

// SetPacing replaces the counters, e.g. when a new wallpaper is applied.
func (s *DisplayState) SetPacing(p Pacing) {
	s.pacing = p
	s.damaged = true
}

func (s *DisplayState) Pacing() Pacing {
	return s.pacing
}

func (s *DisplayState) Damage() {
	s.damaged = true
}

func (s *DisplayState) Damaged() bool {
	return s.damaged
}

// Begin steps the counters for one draw call. It reports whether the
// frame must be rendered and, if so, whether animations advance and by
// how much real time.
func (s *DisplayState) Begin(now time.Time, hasContent bool) (render, update bool, elapsed time.Duration) {
	redraw, update := s.pacing.Step()
	if redraw || update {
		s.damaged = true
	}
	if !s.damaged || !hasContent {
		return false, false, 0
	}

	if update {
		if !s.lastUpdate.IsZero() {
			elapsed = now.Sub(s.lastUpdate)
		}
		s.lastUpdate = now
	}
	return true, update, elapsed
}

// Presented clears the damage after a frame reached the compositor.
func (s *DisplayState) Presented() {
	s.damaged = false
}

type renderPass interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	End() error
}

// drawPass draws rs back to front and ends the pass.
func drawPass(pass renderPass, rs []Renderable) error {
	for _, r := range rs {
		pass.SetPipeline(r.Pipeline())
		pass.SetBindGroup(0, r.BindGroup(), nil)
		pass.Draw(QuadVertices, r.Instances(), 0, 0)
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("ending render pass: %w", err)
	}
	return nil
}

// Encode records one render pass that clears target to black and draws
// every renderable in order, then submits it.
func (g *GPU) Encode(target *wgpu.TextureView, rs []Renderable) error {
	encoder, err := g.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("creating command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	err = drawPass(pass, rs)
	pass.Release()
	if err != nil {
		return err
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finishing command buffer: %w", err)
	}
	defer cmd.Release()

	g.Queue.Submit(cmd)
	return nil
}
