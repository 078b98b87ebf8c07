package wallpaper

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerInstallAndList(t *testing.T) {
	src := makeAurora(t)
	m := NewManager(filepath.Join(t.TempDir(), "wallpapers"))

	names, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	name, err := m.Install(src, "")
	require.NoError(t, err)
	assert.Equal(t, "aurora", name)
	assert.FileExists(t, filepath.Join(m.Dir(), "aurora", "manifest.toml"))
	assert.FileExists(t, filepath.Join(m.Dir(), "aurora", "bg.png"))

	_, err = m.Install(src, "custom")
	require.NoError(t, err)

	_, err = m.Install(src, "aurora")
	assert.ErrorIs(t, err, ErrAlreadyInstalled)

	names, err = m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"aurora", "custom"}, names)
}

func TestManagerInstallRejectsInvalidSource(t *testing.T) {
	m := NewManager(t.TempDir())
	_, err := m.Install(t.TempDir(), "x")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Install(makeAurora(t), "../escape")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerLoadPathAndResolve(t *testing.T) {
	src := makeAurora(t)
	m := NewManager(t.TempDir())
	assert.Nil(t, m.Current())

	w, err := m.LoadPath(src)
	require.NoError(t, err)
	assert.Same(t, w, m.Current())

	// Loaded by path, so resolvable by manifest name without installing.
	r, err := m.Resolve("Aurora")
	require.NoError(t, err)
	assert.Equal(t, src, r.Path)

	_, err = m.Resolve("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
