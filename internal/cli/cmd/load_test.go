package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWallpaperPath(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "mywall"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "mywall", "manifest.toml"), []byte("name = \"mywall\"\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "photos"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "aurora"), []byte("not a directory"), 0o644))

	t.Chdir(root)

	assert.True(t, isWallpaperPath("mywall"))
	assert.True(t, isWallpaperPath("./anything"))
	assert.True(t, isWallpaperPath("/usr/share/wallpapers/x"))
	assert.False(t, isWallpaperPath("photos"), "directory without a manifest")
	assert.False(t, isWallpaperPath("aurora"), "plain file")
	assert.False(t, isWallpaperPath("installed"), "missing, so an installed name")

	t.Chdir(filepath.Join(root, "mywall"))
	assert.True(t, isWallpaperPath("."))
}
