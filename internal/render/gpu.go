package render

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/matjam/layerpaper/internal/render/shaders"
)

// Bind group layout labels.
const (
	LayoutTexture  = "texture"
	LayoutColor    = "color"
	LayoutEffect   = "effect"
	LayoutParticle = "particle"
)

// Pipeline labels. Each effect kind compiles its own shader, so effect
// pipelines are labelled per kind.
const (
	PipelineTexture  = "texture"
	PipelineColor    = "color"
	PipelineParticle = "particle"
	pipelineEffect   = "effect/"
)

// Premultiplied alpha over.
var blendOver = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// GPU is the device, queue and the caches every display shares. It
// implements Builder.
type GPU struct {
	Device    *wgpu.Device
	Queue     *wgpu.Queue
	Format    wgpu.TextureFormat
	Layouts   *Cache[*wgpu.BindGroupLayout]
	Pipelines *Cache[*wgpu.RenderPipeline]
}

// NewGPU wraps a device whose pipelines target format.
func NewGPU(device *wgpu.Device, queue *wgpu.Queue, format wgpu.TextureFormat) *GPU {
	return &GPU{
		Device:    device,
		Queue:     queue,
		Format:    format,
		Layouts:   NewCache[*wgpu.BindGroupLayout](),
		Pipelines: NewCache[*wgpu.RenderPipeline](),
	}
}

// Release drops the cached pipelines and layouts. Renderables must be
// released first.
func (g *GPU) Release() {
	g.Pipelines.Drain(func(label string, p *wgpu.RenderPipeline) {
		log.Debugf("Releasing pipeline %s", label)
		p.Release()
	})
	g.Layouts.Drain(func(_ string, l *wgpu.BindGroupLayout) {
		l.Release()
	})
}

func textureEntries() []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
		{
			Binding:    1,
			Visibility: wgpu.ShaderStageFragment,
			Sampler: wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			},
		},
	}
}

func (g *GPU) layout(label string) (*wgpu.BindGroupLayout, error) {
	return g.Layouts.GetOrInit(label, func() (*wgpu.BindGroupLayout, error) {
		var entries []wgpu.BindGroupLayoutEntry

		switch label {
		case LayoutTexture:
			entries = textureEntries()
		case LayoutColor:
			entries = []wgpu.BindGroupLayoutEntry{{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			}}
		case LayoutEffect:
			entries = append(textureEntries(), wgpu.BindGroupLayoutEntry{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			})
		case LayoutParticle:
			entries = []wgpu.BindGroupLayoutEntry{{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
			}}
		default:
			return nil, fmt.Errorf("unknown bind group layout %q", label)
		}

		log.Debugf("Creating bind group layout %s", label)
		return g.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   label,
			Entries: entries,
		})
	})
}

// pipeline returns the cached pipeline for label, compiling its shader on
// first use.
func (g *GPU) pipeline(label string) (*wgpu.RenderPipeline, error) {
	return g.Pipelines.GetOrInit(label, func() (*wgpu.RenderPipeline, error) {
		var layoutLabel, src string

		switch label {
		case PipelineTexture:
			layoutLabel, src = LayoutTexture, shaders.Texture()
		case PipelineColor:
			layoutLabel, src = LayoutColor, shaders.Color()
		case PipelineParticle:
			layoutLabel, src = LayoutParticle, shaders.Particle()
		case pipelineEffect + "wave", pipelineEffect + "glitch", pipelineEffect + "blur":
			layoutLabel, src = LayoutEffect, shaders.Effect(label[len(pipelineEffect):])
		default:
			return nil, fmt.Errorf("unknown pipeline %q", label)
		}

		bgl, err := g.layout(layoutLabel)
		if err != nil {
			return nil, err
		}

		log.Debugf("Compiling pipeline %s", label)

		module, err := g.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label:          label,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: src},
		})
		if err != nil {
			return nil, fmt.Errorf("compiling %s shader: %w", label, err)
		}
		defer module.Release()

		pl, err := g.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
			Label:            label,
			BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
		})
		if err != nil {
			return nil, fmt.Errorf("creating %s pipeline layout: %w", label, err)
		}
		defer pl.Release()

		return g.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  label,
			Layout: pl,
			Vertex: wgpu.VertexState{
				Module:     module,
				EntryPoint: "vs_main",
			},
			Fragment: &wgpu.FragmentState{
				Module:     module,
				EntryPoint: "fs_main",
				Targets: []wgpu.ColorTargetState{{
					Format:    g.Format,
					Blend:     &blendOver,
					WriteMask: wgpu.ColorWriteMaskAll,
				}},
			},
			Primitive: wgpu.PrimitiveState{
				Topology:  wgpu.PrimitiveTopologyTriangleList,
				FrontFace: wgpu.FrontFaceCCW,
				CullMode:  wgpu.CullModeNone,
			},
			Multisample: wgpu.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
		})
	})
}
