package wallpaper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cast"
)

var (
	ErrNotFound         = errors.New("wallpaper not found")
	ErrInvalidManifest  = errors.New("invalid manifest")
	ErrMissingAsset     = errors.New("missing asset")
	ErrAlreadyInstalled = errors.New("wallpaper already installed")
)

// Params whose values name files relative to the wallpaper directory.
var pathParams = []string{"script", "mask"}

type ContentKind int

const (
	ContentNone ContentKind = iota
	ContentColor
	ContentImage
)

func (k ContentKind) String() string {
	switch k {
	case ContentColor:
		return "color"
	case ContentImage:
		return "image"
	}
	return "none"
}

type Content struct {
	Kind  ContentKind
	Color string
	// Image is an absolute path.
	Image string
}

// Layer is one validated manifest layer. Asset paths are absolute.
type Layer struct {
	Name    string
	Content Content
	Effect  EffectKind
	ZIndex  int
	Opacity float32
	Params  Params
}

// Wallpaper is a loaded, validated wallpaper directory.
type Wallpaper struct {
	Name        string
	Author      string
	Version     string
	Description string
	Path        string
	Framerate   int
	Tickrate    int
	Layers      []Layer
}

// Load reads and validates the wallpaper in dir. Every referenced asset
// must exist; nothing partially valid is returned.
func Load(dir string) (*Wallpaper, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, abs)
	}

	name, data, err := readManifest(abs)
	if err != nil {
		return nil, err
	}

	m, err := ParseManifest(name, data)
	if err != nil {
		return nil, err
	}

	w := &Wallpaper{
		Name:        m.Name,
		Author:      m.Author,
		Version:     m.Version,
		Description: m.Description,
		Path:        abs,
	}
	w.Framerate, w.Tickrate = m.Rates()

	for i, ml := range m.Layers {
		l, err := resolveLayer(abs, i, ml)
		if err != nil {
			return nil, err
		}
		w.Layers = append(w.Layers, l)
	}

	log.Debugf("Loaded wallpaper %q from %s with %d layers", w.Name, abs, len(w.Layers))
	return w, nil
}

func readManifest(dir string) (string, []byte, error) {
	for _, name := range ManifestNames {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return name, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %s: %w", name, err)
		}
	}
	return "", nil, fmt.Errorf("%w: no manifest in %s", ErrNotFound, dir)
}

// HasManifest reports whether dir looks like a wallpaper.
func HasManifest(dir string) bool {
	for _, name := range ManifestNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func resolveLayer(dir string, index int, ml ManifestLayer) (Layer, error) {
	name := ml.Name
	if name == "" {
		name = fmt.Sprintf("layer %d", index)
	}

	effect, err := parseEffect(ml.Effect)
	if err != nil {
		return Layer{}, fmt.Errorf("layer %q: %w", name, err)
	}

	l := Layer{
		Name:    name,
		Effect:  effect,
		ZIndex:  ml.ZIndex,
		Opacity: 1,
		Params:  Params{},
	}
	if ml.Opacity != nil {
		l.Opacity = min(max(*ml.Opacity, 0), 1)
	}

	switch {
	case ml.Color != "" && ml.Image != "":
		return Layer{}, fmt.Errorf("%w: layer %q has both color and image", ErrInvalidManifest, name)
	case ml.Color != "":
		l.Content = Content{Kind: ContentColor, Color: ml.Color}
	case ml.Image != "":
		path, err := resolveAsset(dir, ml.Image)
		if err != nil {
			return Layer{}, fmt.Errorf("layer %q: %w", name, err)
		}
		l.Content = Content{Kind: ContentImage, Image: path}
	}

	for k, v := range ml.Params {
		l.Params[k] = v
	}
	for _, key := range pathParams {
		v, ok := l.Params[key]
		if !ok {
			continue
		}
		path, err := resolveAsset(dir, cast.ToString(v))
		if err != nil {
			return Layer{}, fmt.Errorf("layer %q %s: %w", name, key, err)
		}
		l.Params[key] = path
	}

	return l, nil
}

func resolveAsset(dir, rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("%w: empty path", ErrMissingAsset)
	}
	path := rel
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, rel)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrMissingAsset, path)
	}
	return path, nil
}
