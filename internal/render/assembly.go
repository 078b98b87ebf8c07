package render

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/matjam/layerpaper/internal/wallpaper"
)

type Kind int

const (
	KindColor Kind = iota
	KindImage
	KindParticle
	KindShader
)

func (k Kind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindImage:
		return "image"
	case KindParticle:
		return "particle"
	case KindShader:
		return "shader"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// RenderLayer is a wallpaper layer reduced to what one builder needs.
type RenderLayer struct {
	Kind    Kind
	Name    string
	Color   string
	Image   string
	Effect  wallpaper.EffectKind
	Opacity float32
	Params  wallpaper.Params
}

// Builder turns render layers into renderables.
type Builder interface {
	BuildColor(l RenderLayer) (Renderable, error)
	BuildImage(l RenderLayer) (Renderable, error)
	BuildParticle(l RenderLayer) (Renderable, error)
	BuildShader(l RenderLayer) (Renderable, error)
}

// Classify maps a layer to the kind that draws it. Layers that draw nothing
// report false.
func Classify(l wallpaper.Layer) (RenderLayer, bool) {
	rl := RenderLayer{
		Name:    l.Name,
		Effect:  l.Effect,
		Opacity: l.Opacity,
		Params:  l.Params,
		Color:   l.Content.Color,
		Image:   l.Content.Image,
	}

	switch {
	case l.Effect == wallpaper.EffectParticles:
		rl.Kind = KindParticle
	case l.Effect.IsShader():
		if l.Content.Kind != wallpaper.ContentImage {
			log.Warnf("Layer %q: %s effect needs an image, skipping", l.Name, l.Effect)
			return RenderLayer{}, false
		}
		rl.Kind = KindShader
	case l.Content.Kind == wallpaper.ContentColor:
		rl.Kind = KindColor
	case l.Content.Kind == wallpaper.ContentImage:
		rl.Kind = KindImage
	default:
		return RenderLayer{}, false
	}
	return rl, true
}

// Assemble builds renderables for layers in ascending z order. Layers with
// equal z keep their manifest order. If any layer fails, everything built
// so far is released.
func Assemble(layers []wallpaper.Layer, b Builder) ([]Renderable, error) {
	sorted := slices.Clone(layers)
	slices.SortStableFunc(sorted, func(a, b wallpaper.Layer) int {
		return cmp.Compare(a.ZIndex, b.ZIndex)
	})

	out := make([]Renderable, 0, len(sorted))
	for _, l := range sorted {
		rl, ok := Classify(l)
		if !ok {
			continue
		}

		r, err := build(b, rl)
		if err != nil {
			ReleaseAll(out)
			return nil, fmt.Errorf("building %s layer %q: %w", rl.Kind, rl.Name, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func build(b Builder, l RenderLayer) (Renderable, error) {
	switch l.Kind {
	case KindColor:
		return b.BuildColor(l)
	case KindImage:
		return b.BuildImage(l)
	case KindParticle:
		return b.BuildParticle(l)
	case KindShader:
		return b.BuildShader(l)
	}
	return nil, fmt.Errorf("unknown layer kind %v", l.Kind)
}
