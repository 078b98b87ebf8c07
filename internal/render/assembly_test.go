package render

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/matjam/layerpaper/internal/wallpaper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBuilder builds renderables without a GPU.
type stubBuilder struct {
	built []RenderLayer
	fail  string
}

func (s *stubBuilder) record(l RenderLayer) error {
	if l.Name == s.fail {
		return errors.New("boom")
	}
	s.built = append(s.built, l)
	return nil
}

func (s *stubBuilder) BuildColor(l RenderLayer) (Renderable, error) {
	if err := s.record(l); err != nil {
		return nil, err
	}
	return &Color{base: base{Name: l.Name}, Value: ColorOrBlack(l.Color)}, nil
}

func (s *stubBuilder) BuildImage(l RenderLayer) (Renderable, error) {
	if err := s.record(l); err != nil {
		return nil, err
	}
	return &Texture{base: base{Name: l.Name}}, nil
}

func (s *stubBuilder) BuildParticle(l RenderLayer) (Renderable, error) {
	if err := s.record(l); err != nil {
		return nil, err
	}
	return &Particle{base: base{Name: l.Name}}, nil
}

func (s *stubBuilder) BuildShader(l RenderLayer) (Renderable, error) {
	if err := s.record(l); err != nil {
		return nil, err
	}
	return &Effect{base: base{Name: l.Name}, Uniform: NewEffectUniform(l.Effect, l.Params, l.Opacity)}, nil
}

func colorLayer(name string, z int) wallpaper.Layer {
	return wallpaper.Layer{
		Name:    name,
		Content: wallpaper.Content{Kind: wallpaper.ContentColor, Color: "#000000"},
		ZIndex:  z,
		Opacity: 1,
		Params:  wallpaper.Params{},
	}
}

func names(rs []Renderable) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = Name(r)
	}
	return out
}

func TestAssembleStableZOrder(t *testing.T) {
	layers := []wallpaper.Layer{
		colorLayer("A", 10),
		colorLayer("B", -1000),
		colorLayer("C", 5),
		colorLayer("D", -1000),
	}

	rs, err := Assemble(layers, &stubBuilder{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "D", "C", "A"}, names(rs))

	// The input is not reordered.
	assert.Equal(t, "A", layers[0].Name)
}

func TestAssembleImageAndWaveEffect(t *testing.T) {
	layers := []wallpaper.Layer{
		{
			Name:    "effect",
			Content: wallpaper.Content{Kind: wallpaper.ContentImage, Image: "/wp/bg.png"},
			Effect:  wallpaper.EffectWave,
			ZIndex:  5,
			Opacity: 0.5,
			Params:  wallpaper.Params{},
		},
		{
			Name:    "background",
			Content: wallpaper.Content{Kind: wallpaper.ContentImage, Image: "/wp/bg.png"},
			Effect:  wallpaper.EffectNone,
			ZIndex:  -999,
			Opacity: 1,
			Params:  wallpaper.Params{},
		},
	}

	rs, err := Assemble(layers, &stubBuilder{})
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, []string{"background", "effect"}, names(rs))
	assert.IsType(t, &Texture{}, rs[0])

	effect, ok := rs[1].(*Effect)
	require.True(t, ok)

	buf := effect.Uniform.Bytes()
	require.Len(t, buf, 16)
	amplitude := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:]))
	frequency := math.Float32frombits(binary.LittleEndian.Uint32(buf[8:]))
	assert.InDelta(t, 0.02*0.5, amplitude, 1e-6)
	assert.InDelta(t, 10*0.5, frequency, 1e-6)
}

func TestClassify(t *testing.T) {
	img := wallpaper.Content{Kind: wallpaper.ContentImage, Image: "/a.png"}
	col := wallpaper.Content{Kind: wallpaper.ContentColor, Color: "#fff"}

	tests := []struct {
		name  string
		layer wallpaper.Layer
		kind  Kind
		ok    bool
	}{
		{"color", wallpaper.Layer{Content: col, Effect: wallpaper.EffectNone}, KindColor, true},
		{"image", wallpaper.Layer{Content: img, Effect: wallpaper.EffectNone}, KindImage, true},
		{"particles", wallpaper.Layer{Effect: wallpaper.EffectParticles}, KindParticle, true},
		{"particles over color", wallpaper.Layer{Content: col, Effect: wallpaper.EffectParticles}, KindParticle, true},
		{"glitch", wallpaper.Layer{Content: img, Effect: wallpaper.EffectGlitch}, KindShader, true},
		{"blur without image", wallpaper.Layer{Content: col, Effect: wallpaper.EffectBlur}, 0, false},
		{"empty", wallpaper.Layer{Effect: wallpaper.EffectNone}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl, ok := Classify(tt.layer)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.kind, rl.Kind)
			}
		})
	}
}

func TestAssembleSkipsEmptyLayers(t *testing.T) {
	layers := []wallpaper.Layer{
		colorLayer("A", 0),
		{Name: "spacer", ZIndex: 1, Effect: wallpaper.EffectNone},
		colorLayer("B", 2),
	}

	rs, err := Assemble(layers, &stubBuilder{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(rs))
}

func TestAssembleFailsWhole(t *testing.T) {
	layers := []wallpaper.Layer{colorLayer("A", 0), colorLayer("B", 1)}

	rs, err := Assemble(layers, &stubBuilder{fail: "B"})
	assert.Error(t, err)
	assert.Nil(t, rs)
}

func TestEffectUniformAdvanceWraps(t *testing.T) {
	u := NewEffectUniform(wallpaper.EffectGlitch, wallpaper.Params{"speed": 2}, 1)
	assert.Equal(t, float32(0.5), u.Amplitude)
	assert.Equal(t, float32(2), u.Frequency)

	u.Advance(1.5)
	assert.Equal(t, float32(3), u.Time)

	u.Time = 999
	u.Advance(1)
	assert.InDelta(t, 1, u.Time, 1e-3)
}

func TestEffectUniformBadParamUsesDefault(t *testing.T) {
	u := NewEffectUniform(wallpaper.EffectBlur, wallpaper.Params{"radius": "huge"}, 0.5)
	assert.Equal(t, float32(2), u.Amplitude)
	assert.Equal(t, float32(0), u.Frequency)
}

func TestStaticRenderablesIgnorePreRender(t *testing.T) {
	c := &Color{base: base{Name: "fill"}}
	assert.NoError(t, PreRender(c, 16))
	assert.Equal(t, uint32(1), c.Instances())
}
