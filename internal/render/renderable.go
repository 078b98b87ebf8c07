package render

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/matjam/layerpaper/internal/asset"
	"github.com/matjam/layerpaper/internal/particles"
)

// QuadVertices is the vertex count of the quad every renderable draws.
const QuadVertices = 6

// Renderable is one drawable layer. The set of implementations is closed:
// *Color, *Texture, *AnimatedTexture, *Effect and *Particle.
//
// Pipelines belong to the shared cache; Release frees only what the
// renderable owns.
type Renderable interface {
	Pipeline() *wgpu.RenderPipeline
	BindGroup() *wgpu.BindGroup
	Instances() uint32
	Release()

	renderable()
}

type base struct {
	Name      string
	pipeline  *wgpu.RenderPipeline
	bindGroup *wgpu.BindGroup
}

func (b *base) Pipeline() *wgpu.RenderPipeline { return b.pipeline }
func (b *base) BindGroup() *wgpu.BindGroup     { return b.bindGroup }
func (b *base) Instances() uint32              { return 1 }
func (b *base) renderable()                    {}

func (b *base) releaseBindGroup() {
	if b.bindGroup != nil {
		b.bindGroup.Release()
		b.bindGroup = nil
	}
}

// Color fills the surface with one premultiplied colour.
type Color struct {
	base
	Value  [4]float32
	buffer *wgpu.Buffer
}

func (c *Color) Release() {
	c.releaseBindGroup()
	if c.buffer != nil {
		c.buffer.Release()
		c.buffer = nil
	}
}

// Texture draws a static image stretched over the surface.
type Texture struct {
	base
	texture *asset.Texture
	sampler *wgpu.Sampler
}

func (t *Texture) Release() {
	t.releaseBindGroup()
	t.texture.Release()
	if t.sampler != nil {
		t.sampler.Release()
		t.sampler = nil
	}
}

// AnimatedTexture steps through uploaded frames and rebinds only when the
// visible frame changes.
type AnimatedTexture struct {
	base
	anim    *asset.Animation
	frames  []*asset.Texture
	sampler *wgpu.Sampler
	bind    func(frame int) (*wgpu.BindGroup, error)
}

func (a *AnimatedTexture) IsAnimated() bool { return a.anim.IsAnimated() }

func (a *AnimatedTexture) Animation() *asset.Animation { return a.anim }

func (a *AnimatedTexture) advance(elapsed time.Duration) error {
	if !a.anim.Advance(elapsed) {
		return nil
	}
	bg, err := a.bind(a.anim.Index())
	if err != nil {
		return err
	}
	a.releaseBindGroup()
	a.bindGroup = bg
	return nil
}

func (a *AnimatedTexture) Release() {
	a.releaseBindGroup()
	for _, f := range a.frames {
		f.Release()
	}
	a.frames = nil
	if a.sampler != nil {
		a.sampler.Release()
		a.sampler = nil
	}
}

// Effect draws an image through one of the effect shaders.
type Effect struct {
	base
	Uniform EffectUniform
	texture *asset.Texture
	sampler *wgpu.Sampler
	buffer  *wgpu.Buffer
	queue   *wgpu.Queue
}

func (e *Effect) advance(elapsed time.Duration) error {
	e.Uniform.Advance(float32(elapsed.Seconds()))
	return e.queue.WriteBuffer(e.buffer, 0, e.Uniform.Bytes())
}

func (e *Effect) Release() {
	e.releaseBindGroup()
	e.texture.Release()
	if e.sampler != nil {
		e.sampler.Release()
		e.sampler = nil
	}
	if e.buffer != nil {
		e.buffer.Release()
		e.buffer = nil
	}
}

// Particle simulates a particle pool on the CPU and mirrors it into a
// storage buffer. It draws one quad instance per pool slot.
type Particle struct {
	base
	system *particles.System
	buffer *wgpu.Buffer
	queue  *wgpu.Queue
}

func (p *Particle) Instances() uint32 { return uint32(p.system.Pool().Cap()) }

func (p *Particle) System() *particles.System { return p.system }

func (p *Particle) advance(elapsed time.Duration) error {
	p.system.Update(float32(elapsed.Seconds()))
	return p.queue.WriteBuffer(p.buffer, 0, wgpu.ToBytes(p.system.Particles()))
}

func (p *Particle) Release() {
	p.releaseBindGroup()
	if p.buffer != nil {
		p.buffer.Release()
		p.buffer = nil
	}
}

// PreRender runs the per-frame update for r with the time elapsed since its
// previous update.
func PreRender(r Renderable, elapsed time.Duration) error {
	switch v := r.(type) {
	case *Color, *Texture:
		return nil
	case *AnimatedTexture:
		return v.advance(elapsed)
	case *Effect:
		return v.advance(elapsed)
	case *Particle:
		return v.advance(elapsed)
	}
	return nil
}

// PreRenderAll updates every renderable, logging failures so one bad layer
// does not stop the others.
func PreRenderAll(rs []Renderable, elapsed time.Duration) {
	for _, r := range rs {
		if err := PreRender(r, elapsed); err != nil {
			log.Warnf("Updating %s: %v", Name(r), err)
		}
	}
}

func Name(r Renderable) string {
	switch v := r.(type) {
	case *Color:
		return v.Name
	case *Texture:
		return v.Name
	case *AnimatedTexture:
		return v.Name
	case *Effect:
		return v.Name
	case *Particle:
		return v.Name
	}
	return ""
}

func ReleaseAll(rs []Renderable) {
	for _, r := range rs {
		r.Release()
	}
}
