package render

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/matjam/layerpaper/internal/wallpaper"
)

// Effect time wraps here to keep float32 precision over long uptimes.
const effectTimeWrap = 1000

// EffectUniform is the parameter block bound at slot 2 of an effect.
// Amplitude is the wave amplitude, glitch intensity or blur radius.
type EffectUniform struct {
	Time      float32
	Amplitude float32
	Frequency float32
	Speed     float32
}

// NewEffectUniform seeds the parameters for kind from p. Amplitude and
// frequency are scaled by opacity, so opacity sets the effect's strength.
func NewEffectUniform(kind wallpaper.EffectKind, p wallpaper.Params, opacity float32) EffectUniform {
	u := EffectUniform{Speed: p.Float("speed", 1)}

	switch kind {
	case wallpaper.EffectWave:
		u.Amplitude = p.Float("amplitude", 0.02)
		u.Frequency = p.Float("frequency", 10)
	case wallpaper.EffectGlitch:
		u.Amplitude = p.Float("intensity", 0.5)
		u.Frequency = p.Float("frequency", 2)
	case wallpaper.EffectBlur:
		u.Amplitude = p.Float("radius", 4)
	}

	u.Amplitude *= opacity
	u.Frequency *= opacity
	return u
}

func (u *EffectUniform) Advance(dt float32) {
	u.Time += dt * u.Speed
	for u.Time > effectTimeWrap {
		u.Time -= effectTimeWrap
	}
}

func (u EffectUniform) Bytes() []byte {
	return wgpu.ToBytes([]EffectUniform{u})
}
