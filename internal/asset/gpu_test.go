package asset

import (
	"errors"
	"image"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	err    error
	layout *wgpu.TextureDataLayout
	size   *wgpu.Extent3D
	bytes  int
}

func (w *recordingWriter) WriteTexture(_ *wgpu.ImageCopyTexture, data []byte, layout *wgpu.TextureDataLayout, size *wgpu.Extent3D) error {
	w.layout, w.size, w.bytes = layout, size, len(data)
	return w.err
}

func TestWritePixelsLayout(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	w := &recordingWriter{}

	size := wgpu.Extent3D{Width: 3, Height: 2, DepthOrArrayLayers: 1}
	require.NoError(t, writePixels(w, nil, img, size, "plain"))

	assert.Equal(t, uint32(12), w.layout.BytesPerRow)
	assert.Equal(t, uint32(2), w.layout.RowsPerImage)
	assert.Equal(t, size, *w.size)
	assert.Equal(t, len(img.Pix), w.bytes)
}

func TestWritePixelsReportsFailure(t *testing.T) {
	lost := errors.New("device lost")
	w := &recordingWriter{err: lost}

	err := writePixels(w, nil, image.NewRGBA(image.Rect(0, 0, 1, 1)), wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1}, "background")
	require.ErrorIs(t, err, lost)
	assert.Contains(t, err.Error(), "uploading background")
}
