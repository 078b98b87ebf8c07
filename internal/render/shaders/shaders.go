// Package shaders holds the WGSL sources for every pipeline.
package shaders

import (
	"embed"
	"strings"
)

//go:embed *.wgsl
var files embed.FS

func read(name string) string {
	b, err := files.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func join(names ...string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = read(n)
	}
	return strings.Join(parts, "\n")
}

func Color() string { return join("quad.wgsl", "fullscreen.wgsl", "color.wgsl") }

func Texture() string { return join("quad.wgsl", "fullscreen.wgsl", "texture.wgsl") }

// Effect returns the source for one effect: "wave", "glitch" or "blur".
func Effect(kind string) string {
	return join("quad.wgsl", "fullscreen.wgsl", "effect.wgsl", kind+".wgsl")
}

func Particle() string { return join("quad.wgsl", "particle.wgsl") }
