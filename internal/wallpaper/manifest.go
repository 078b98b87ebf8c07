package wallpaper

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultVersion   = "1.0.0"
	DefaultFramerate = 30
)

// Manifest file names, in lookup order.
var ManifestNames = []string{"manifest.toml", "manifest.yaml", "manifest.yml"}

type EffectKind string

const (
	EffectNone      EffectKind = "none"
	EffectParticles EffectKind = "particles"
	EffectWave      EffectKind = "wave"
	EffectGlitch    EffectKind = "glitch"
	EffectBlur      EffectKind = "blur"
)

// IsShader is true for the effects drawn by a fragment shader over an image.
func (e EffectKind) IsShader() bool {
	return e == EffectWave || e == EffectGlitch || e == EffectBlur
}

func parseEffect(s string) (EffectKind, error) {
	switch s {
	case "", "none":
		return EffectNone, nil
	case "particles":
		return EffectParticles, nil
	case "wave":
		return EffectWave, nil
	case "glitch":
		return EffectGlitch, nil
	case "blur", "gaussian":
		return EffectBlur, nil
	}
	return "", fmt.Errorf("%w: unknown effect %q", ErrInvalidManifest, s)
}

// Manifest is the on-disk description of a wallpaper.
type Manifest struct {
	Name        string          `toml:"name" yaml:"name"`
	Author      string          `toml:"author" yaml:"author"`
	Version     string          `toml:"version" yaml:"version"`
	Description string          `toml:"description" yaml:"description"`
	Framerate   *int            `toml:"framerate" yaml:"framerate"`
	Tickrate    *int            `toml:"tickrate" yaml:"tickrate"`
	Layers      []ManifestLayer `toml:"layers" yaml:"layers"`
}

type ManifestLayer struct {
	Name    string         `toml:"name" yaml:"name"`
	Color   string         `toml:"color" yaml:"color"`
	Image   string         `toml:"image" yaml:"image"`
	Effect  string         `toml:"effect" yaml:"effect"`
	ZIndex  int            `toml:"z_index" yaml:"z_index"`
	Opacity *float32       `toml:"opacity" yaml:"opacity"`
	Params  map[string]any `toml:"params" yaml:"params"`
}

// ParseManifest decodes a manifest. name selects the format by file name.
func ParseManifest(name string, data []byte) (*Manifest, error) {
	m := &Manifest{}

	switch name {
	case "manifest.toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(m); err != nil {
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				row, col := derr.Position()
				return nil, fmt.Errorf("%w: %s line %d column %d: %v", ErrInvalidManifest, name, row, col, derr)
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidManifest, name, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(m); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidManifest, name, err)
		}
	}

	if m.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidManifest)
	}
	if m.Version == "" {
		m.Version = DefaultVersion
	}
	return m, nil
}

// Rates resolves the declared framerate and tickrate. The tickrate follows
// the framerate unless set.
func (m *Manifest) Rates() (framerate, tickrate int) {
	framerate = DefaultFramerate
	if m.Framerate != nil {
		framerate = *m.Framerate
	}
	tickrate = framerate
	if m.Tickrate != nil {
		tickrate = *m.Tickrate
	}
	return framerate, tickrate
}
