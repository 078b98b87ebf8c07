package asset

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
)

// Pixel data is kept alpha-premultiplied, the way image.RGBA stores it, and
// drawn with premultiplied blending.

// ScaleAlpha multiplies every premultiplied channel by opacity in place.
func ScaleAlpha(img *image.RGBA, opacity float32) {
	if opacity >= 1 {
		return
	}
	if opacity < 0 {
		opacity = 0
	}
	for i := range img.Pix {
		img.Pix[i] = uint8(float32(img.Pix[i])*opacity + 0.5)
	}
}

// ApplyMask resizes mask to img and uses its luminance as an upper bound on
// each pixel's alpha.
func ApplyMask(img *image.RGBA, mask image.Image) {
	b := img.Bounds()
	m := transform.Resize(mask, b.Dx(), b.Dy(), transform.Lanczos)

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			mo := m.PixOffset(x, y)
			lum := 0.299*float32(m.Pix[mo]) + 0.587*float32(m.Pix[mo+1]) + 0.114*float32(m.Pix[mo+2])

			o := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			a := float32(img.Pix[o+3])
			if a == 0 || lum >= a {
				continue
			}
			f := lum / a
			img.Pix[o] = uint8(float32(img.Pix[o])*f + 0.5)
			img.Pix[o+1] = uint8(float32(img.Pix[o+1])*f + 0.5)
			img.Pix[o+2] = uint8(float32(img.Pix[o+2])*f + 0.5)
			img.Pix[o+3] = uint8(lum + 0.5)
		}
	}
}
