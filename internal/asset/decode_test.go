package asset

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func writeGIF(t *testing.T, dir, name string, delays []int, loop int) string {
	t.Helper()
	pal := color.Palette{color.Black, color.White, color.RGBA{R: 255, A: 255}}
	g := &gif.GIF{LoopCount: loop}
	for i, d := range delays {
		frame := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
		for p := range frame.Pix {
			frame.Pix[p] = uint8(i % len(pal))
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, d)
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestClampDelay(t *testing.T) {
	assert.Equal(t, DefaultFrameDelay, ClampDelay(0))
	assert.Equal(t, DefaultFrameDelay, ClampDelay(-time.Second))
	assert.Equal(t, 40*time.Millisecond, ClampDelay(40*time.Millisecond))
	assert.Equal(t, MaxFrameDelay, ClampDelay(10*time.Second))
}

func TestDecodeAnimatedGIF(t *testing.T) {
	path := writeGIF(t, t.TempDir(), "anim.gif", []int{0, 5, 300}, 0)

	seq, err := DecodeAnimated(path)
	require.NoError(t, err)
	require.Len(t, seq.Frames, 3)
	assert.True(t, seq.IsAnimated())
	assert.True(t, seq.Looping)
	assert.Equal(t, []time.Duration{DefaultFrameDelay, 50 * time.Millisecond, MaxFrameDelay}, seq.Durations())
	assert.Equal(t, 4, seq.Frames[0].Image.Bounds().Dx())
}

func TestDecodeAnimatedPlayOnce(t *testing.T) {
	path := writeGIF(t, t.TempDir(), "once.gif", []int{10, 10}, -1)

	seq, err := DecodeAnimated(path)
	require.NoError(t, err)
	assert.False(t, seq.Looping)
}

func TestDecodeAnimatedStillFallsBackToSingleFrame(t *testing.T) {
	path := writePNG(t, t.TempDir(), "still.png", solid(3, 2, color.RGBA{R: 10, A: 255}))

	seq, err := DecodeAnimated(path)
	require.NoError(t, err)
	require.Len(t, seq.Frames, 1)
	assert.False(t, seq.IsAnimated())
	assert.Equal(t, Unbounded, seq.Frames[0].Duration)
}

func TestZeroFramesFallBackToStill(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(2, 2, color.RGBA{G: 200, A: 255})))

	seq, err := sequenceOrStill(composeGIF(&gif.GIF{}), true, buf.Bytes())
	require.NoError(t, err)
	require.Len(t, seq.Frames, 1)
	assert.False(t, seq.IsAnimated())
	assert.False(t, NewAnimation(seq.Durations(), seq.Looping).IsAnimated())
}

func TestDecodeStaticRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := DecodeStatic(path)
	assert.Error(t, err)
}

func TestProbe(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(1, 1, color.RGBA{A: 255})))
	assert.Equal(t, FormatPNG, Probe(buf.Bytes()))
	assert.False(t, Probe(buf.Bytes()).Animatable())
	assert.Equal(t, FormatUnknown, Probe([]byte("hello")))
}

func TestScaleAlpha(t *testing.T) {
	img := solid(1, 1, color.RGBA{R: 200, G: 100, B: 0, A: 255})
	ScaleAlpha(img, 0.5)
	assert.Equal(t, []uint8{100, 50, 0, 128}, img.Pix)
}

func TestApplyMask(t *testing.T) {
	img := solid(4, 4, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	mask := solid(2, 2, color.RGBA{A: 255})

	ApplyMask(img, mask)
	for i := 3; i < len(img.Pix); i += 4 {
		assert.Equal(t, uint8(0), img.Pix[i])
	}
}
