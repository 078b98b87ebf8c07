package wallpaper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Manager tracks installed wallpapers, wallpapers loaded by path, and the
// one most recently loaded or applied.
type Manager struct {
	sync.Mutex
	dir     string
	loaded  map[string]*Wallpaper
	current *Wallpaper
}

func NewManager(dir string) *Manager {
	return &Manager{
		dir:    dir,
		loaded: make(map[string]*Wallpaper),
	}
}

// Dir is the install directory.
func (m *Manager) Dir() string {
	return m.dir
}

// List returns the names of installed wallpapers, sorted.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", m.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if HasManifest(filepath.Join(m.dir, e.Name())) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadPath loads a wallpaper directory and makes it the current one
// without applying it to any display.
func (m *Manager) LoadPath(path string) (*Wallpaper, error) {
	w, err := Load(path)
	if err != nil {
		return nil, err
	}

	m.Lock()
	defer m.Unlock()
	m.loaded[w.Name] = w
	m.current = w
	log.Infof("Loaded wallpaper %q from %s", w.Name, w.Path)
	return w, nil
}

// Resolve finds a wallpaper by name, preferring one loaded by path over the
// install directory. The result is always freshly read from disk.
func (m *Manager) Resolve(name string) (*Wallpaper, error) {
	m.Lock()
	w, ok := m.loaded[name]
	m.Unlock()
	if ok {
		return Load(w.Path)
	}

	if err := validName(name); err != nil {
		return nil, err
	}
	dir := filepath.Join(m.dir, name)
	if !HasManifest(dir) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return Load(dir)
}

func (m *Manager) Current() *Wallpaper {
	m.Lock()
	defer m.Unlock()
	return m.current
}

func (m *Manager) SetCurrent(w *Wallpaper) {
	m.Lock()
	defer m.Unlock()
	m.current = w
}

// Install copies the wallpaper at src into the install directory under
// name, or under the source directory's base name when name is empty.
func (m *Manager) Install(src, name string) (string, error) {
	w, err := Load(src)
	if err != nil {
		return "", err
	}

	if name == "" {
		name = filepath.Base(w.Path)
	}
	if err := validName(name); err != nil {
		return "", err
	}

	target := filepath.Join(m.dir, name)
	if _, err := os.Stat(target); err == nil {
		return "", fmt.Errorf("%w: %s", ErrAlreadyInstalled, name)
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", m.dir, err)
	}
	if err := os.CopyFS(target, os.DirFS(w.Path)); err != nil {
		os.RemoveAll(target)
		return "", fmt.Errorf("copying %s to %s: %w", w.Path, target, err)
	}

	log.Infof("Installed wallpaper %q to %s", w.Name, target)
	return name, nil
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("%w: invalid wallpaper name %q", ErrNotFound, name)
	}
	return nil
}
