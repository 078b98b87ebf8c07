package render

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/matjam/layerpaper/internal/asset"
	"github.com/matjam/layerpaper/internal/particles"
	"github.com/matjam/layerpaper/internal/wallpaper"
)

var _ Builder = (*GPU)(nil)

func (g *GPU) textureBindGroup(label string, layout *wgpu.BindGroupLayout, view *wgpu.TextureView, sampler *wgpu.Sampler) (*wgpu.BindGroup, error) {
	return g.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label,
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: sampler},
		},
	})
}

func (g *GPU) BuildColor(l RenderLayer) (Renderable, error) {
	value := ColorOrBlack(l.Color)
	value[3] *= l.Opacity

	pipeline, err := g.pipeline(PipelineColor)
	if err != nil {
		return nil, err
	}
	layout, err := g.layout(LayoutColor)
	if err != nil {
		return nil, err
	}

	buf, err := g.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    l.Name + " color",
		Contents: wgpu.ToBytes(value[:]),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("creating color buffer: %w", err)
	}

	bg, err := g.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  l.Name,
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		buf.Release()
		return nil, fmt.Errorf("creating color bind group: %w", err)
	}

	return &Color{
		base:   base{Name: l.Name, pipeline: pipeline, bindGroup: bg},
		Value:  value,
		buffer: buf,
	}, nil
}

// BuildImage builds a Texture, or an AnimatedTexture when the file's
// container can animate.
func (g *GPU) BuildImage(l RenderLayer) (Renderable, error) {
	format, err := asset.ProbeFile(l.Image)
	if err != nil {
		return nil, err
	}
	if format.Animatable() {
		return g.buildAnimated(l)
	}

	img, err := asset.DecodeStatic(l.Image)
	if err != nil {
		return nil, err
	}
	asset.ScaleAlpha(img, l.Opacity)

	pipeline, err := g.pipeline(PipelineTexture)
	if err != nil {
		return nil, err
	}
	layout, err := g.layout(LayoutTexture)
	if err != nil {
		return nil, err
	}

	tex, err := asset.Upload(g.Device, g.Queue, img, l.Name)
	if err != nil {
		return nil, err
	}
	sampler, err := asset.NewSampler(g.Device, l.Name)
	if err != nil {
		tex.Release()
		return nil, err
	}
	bg, err := g.textureBindGroup(l.Name, layout, tex.View, sampler)
	if err != nil {
		tex.Release()
		sampler.Release()
		return nil, fmt.Errorf("creating texture bind group: %w", err)
	}

	return &Texture{
		base:    base{Name: l.Name, pipeline: pipeline, bindGroup: bg},
		texture: tex,
		sampler: sampler,
	}, nil
}

func (g *GPU) buildAnimated(l RenderLayer) (Renderable, error) {
	seq, err := asset.DecodeAnimated(l.Image)
	if err != nil {
		return nil, err
	}
	for _, f := range seq.Frames {
		asset.ScaleAlpha(f.Image, l.Opacity)
	}

	pipeline, err := g.pipeline(PipelineTexture)
	if err != nil {
		return nil, err
	}
	layout, err := g.layout(LayoutTexture)
	if err != nil {
		return nil, err
	}

	frames, sampler, err := asset.UploadSequence(g.Device, g.Queue, seq, l.Name)
	if err != nil {
		return nil, err
	}

	a := &AnimatedTexture{
		base:    base{Name: l.Name, pipeline: pipeline},
		anim:    asset.NewAnimation(seq.Durations(), l.Params.Bool("loop", seq.Looping)),
		frames:  frames,
		sampler: sampler,
	}
	a.bind = func(frame int) (*wgpu.BindGroup, error) {
		return g.textureBindGroup(fmt.Sprintf("%s frame %d", l.Name, frame), layout, frames[frame].View, sampler)
	}

	if a.bindGroup, err = a.bind(0); err != nil {
		a.Release()
		return nil, fmt.Errorf("creating animated bind group: %w", err)
	}

	log.Debugf("Layer %q: %d frames, animated=%v", l.Name, len(frames), a.IsAnimated())
	return a, nil
}

func (g *GPU) BuildShader(l RenderLayer) (Renderable, error) {
	img, err := asset.DecodeStatic(l.Image)
	if err != nil {
		return nil, err
	}
	if maskPath := l.Params.String("mask"); maskPath != "" {
		mask, err := asset.DecodeStatic(maskPath)
		if err != nil {
			return nil, fmt.Errorf("mask: %w", err)
		}
		asset.ApplyMask(img, mask)
	}

	pipeline, err := g.pipeline(pipelineEffect + string(l.Effect))
	if err != nil {
		return nil, err
	}
	layout, err := g.layout(LayoutEffect)
	if err != nil {
		return nil, err
	}

	tex, err := asset.Upload(g.Device, g.Queue, img, l.Name)
	if err != nil {
		return nil, err
	}
	sampler, err := asset.NewSampler(g.Device, l.Name)
	if err != nil {
		tex.Release()
		return nil, err
	}

	uniform := NewEffectUniform(l.Effect, l.Params, l.Opacity)
	buf, err := g.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    l.Name + " params",
		Contents: uniform.Bytes(),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		tex.Release()
		sampler.Release()
		return nil, fmt.Errorf("creating effect buffer: %w", err)
	}

	bg, err := g.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  l.Name,
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: tex.View},
			{Binding: 1, Sampler: sampler},
			{Binding: 2, Buffer: buf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		tex.Release()
		sampler.Release()
		buf.Release()
		return nil, fmt.Errorf("creating effect bind group: %w", err)
	}

	return &Effect{
		base:    base{Name: l.Name, pipeline: pipeline, bindGroup: bg},
		Uniform: uniform,
		texture: tex,
		sampler: sampler,
		buffer:  buf,
		queue:   g.Queue,
	}, nil
}

func (g *GPU) BuildParticle(l RenderLayer) (Renderable, error) {
	behavior := particles.Fountain
	if script := l.Params.String("script"); script != "" {
		b, err := particles.LoadScript(script)
		if err != nil {
			log.Warnf("Layer %q: %v, using the fountain", l.Name, err)
		} else {
			behavior = b
		}
	}
	system := particles.NewSystem(l.Params.Int("max_particles", particles.DefaultMaxParticles), behavior)

	pipeline, err := g.pipeline(PipelineParticle)
	if err != nil {
		return nil, err
	}
	layout, err := g.layout(LayoutParticle)
	if err != nil {
		return nil, err
	}

	buf, err := g.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    l.Name + " particles",
		Contents: wgpu.ToBytes(system.Particles()),
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("creating particle buffer: %w", err)
	}

	bg, err := g.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  l.Name,
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		buf.Release()
		return nil, fmt.Errorf("creating particle bind group: %w", err)
	}

	return &Particle{
		base:   base{Name: l.Name, pipeline: pipeline, bindGroup: bg},
		system: system,
		buffer: buf,
		queue:  g.Queue,
	}, nil
}

// AssembleWallpaper builds the renderables for w.
func (g *GPU) AssembleWallpaper(w *wallpaper.Wallpaper) ([]Renderable, error) {
	return Assemble(w.Layers, g)
}
