package shaders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourcesHaveEntryPoints(t *testing.T) {
	sources := map[string]string{
		"color":    Color(),
		"texture":  Texture(),
		"wave":     Effect("wave"),
		"glitch":   Effect("glitch"),
		"blur":     Effect("blur"),
		"particle": Particle(),
	}
	for name, src := range sources {
		assert.Contains(t, src, "fn vs_main", name)
		assert.Contains(t, src, "fn fs_main", name)
		assert.Contains(t, src, "var<private> quad", name)
	}
}

func TestUnknownEffectPanics(t *testing.T) {
	assert.Panics(t, func() { Effect("swirl") })
}
