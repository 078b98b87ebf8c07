package wallpaper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const auroraManifest = `
name = "Aurora"
author = "someone"
framerate = 30

[[layers]]
name = "background"
image = "bg.png"
z_index = -999

[[layers]]
name = "waves"
image = "bg.png"
effect = "wave"
z_index = 5
opacity = 0.5

[layers.params]
amplitude = 0.04
frequency = "12"

[[layers]]
name = "sparks"
effect = "particles"
z_index = 10

[layers.params]
max_particles = 200
script = "sparks.go"
`

func makeAurora(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "aurora")
	writeFile(t, filepath.Join(dir, "manifest.toml"), auroraManifest)
	writeFile(t, filepath.Join(dir, "bg.png"), "png")
	writeFile(t, filepath.Join(dir, "sparks.go"), "package main")
	return dir
}

func TestLoad(t *testing.T) {
	dir := makeAurora(t)

	w, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "Aurora", w.Name)
	assert.Equal(t, DefaultVersion, w.Version)
	assert.Equal(t, 30, w.Framerate)
	assert.Equal(t, 30, w.Tickrate)
	require.Len(t, w.Layers, 3)

	bg := w.Layers[0]
	assert.Equal(t, ContentImage, bg.Content.Kind)
	assert.Equal(t, filepath.Join(dir, "bg.png"), bg.Content.Image)
	assert.Equal(t, EffectNone, bg.Effect)
	assert.Equal(t, float32(1), bg.Opacity)

	waves := w.Layers[1]
	assert.Equal(t, EffectWave, waves.Effect)
	assert.Equal(t, float32(0.5), waves.Opacity)
	assert.InDelta(t, 0.04, waves.Params.Float("amplitude", 0), 1e-6)
	assert.Equal(t, float32(12), waves.Params.Float("frequency", 0))
	assert.Equal(t, float32(3), waves.Params.Float("speed", 3))

	sparks := w.Layers[2]
	assert.Equal(t, ContentNone, sparks.Content.Kind)
	assert.Equal(t, 200, sparks.Params.Int("max_particles", 1000))
	assert.Equal(t, filepath.Join(dir, "sparks.go"), sparks.Params.String("script"))
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "manifest.yaml"), `
name: Plain
framerate: -1
tickrate: 10
layers:
  - name: fill
    color: "#336699"
    z_index: 0
`)

	w, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, -1, w.Framerate)
	assert.Equal(t, 10, w.Tickrate)
	require.Len(t, w.Layers, 1)
	assert.Equal(t, Content{Kind: ContentColor, Color: "#336699"}, w.Layers[0].Content)
}

func TestLoadFailsClosed(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     error
	}{
		{"missing image", "name = \"x\"\n[[layers]]\nimage = \"gone.png\"\n", ErrMissingAsset},
		{"missing script", "name = \"x\"\n[[layers]]\neffect = \"particles\"\n[layers.params]\nscript = \"gone.go\"\n", ErrMissingAsset},
		{"no name", "author = \"x\"\n", ErrInvalidManifest},
		{"unknown effect", "name = \"x\"\n[[layers]]\neffect = \"swirl\"\n", ErrInvalidManifest},
		{"color and image", "name = \"x\"\n[[layers]]\ncolor = \"red\"\nimage = \"a.png\"\n", ErrInvalidManifest},
		{"unknown field", "name = \"x\"\nfps = 3\n", ErrInvalidManifest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "manifest.toml"), tt.manifest)
			_, err := Load(dir)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadNotAWallpaper(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpacityClamped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "manifest.toml"), "name = \"x\"\n[[layers]]\ncolor = \"#fff\"\nopacity = 3.0\n")

	w, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, float32(1), w.Layers[0].Opacity)
}

func TestParamsFallback(t *testing.T) {
	p := Params{"radius": "wide", "loop": "false", "count": 4.0}
	assert.Equal(t, float32(2), p.Float("radius", 2))
	assert.False(t, p.Bool("loop", true))
	assert.Equal(t, 4, p.Int("count", 0))
	assert.Equal(t, "", p.String("missing"))
}
