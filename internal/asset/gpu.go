package asset

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureFormat is the format every uploaded image uses. Pixel data is
// premultiplied 8-bit RGBA straight from image.RGBA.
const TextureFormat = wgpu.TextureFormatRGBA8Unorm

// Texture is a GPU copy of one decoded image and the view used to bind it.
type Texture struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
	Width   uint32
	Height  uint32
}

func (t *Texture) Release() {
	if t == nil {
		return
	}
	if t.View != nil {
		t.View.Release()
		t.View = nil
	}
	if t.Texture != nil {
		t.Texture.Release()
		t.Texture = nil
	}
}

type textureWriter interface {
	WriteTexture(dst *wgpu.ImageCopyTexture, data []byte, layout *wgpu.TextureDataLayout, size *wgpu.Extent3D) error
}

func writePixels(w textureWriter, tex *wgpu.Texture, img *image.RGBA, size wgpu.Extent3D, label string) error {
	err := w.WriteTexture(
		&wgpu.ImageCopyTexture{
			Aspect:   wgpu.TextureAspectAll,
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
		},
		img.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4 * size.Width,
			RowsPerImage: size.Height,
		},
		&size,
	)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", label, err)
	}
	return nil
}

// Upload creates a texture sized to img and copies the pixels into it.
func Upload(device *wgpu.Device, queue *wgpu.Queue, img *image.RGBA, label string) (*Texture, error) {
	sz := img.Rect.Size()
	size := wgpu.Extent3D{
		Width:              uint32(sz.X),
		Height:             uint32(sz.Y),
		DepthOrArrayLayers: 1,
	}

	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        TextureFormat,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("creating texture %s: %w", label, err)
	}

	if err := writePixels(queue, tex, img, size, label); err != nil {
		tex.Release()
		return nil, err
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("creating view for %s: %w", label, err)
	}

	return &Texture{Texture: tex, View: view, Width: size.Width, Height: size.Height}, nil
}

// NewSampler creates the clamp-to-edge, linear filtered sampler used for
// every wallpaper texture.
func NewSampler(device *wgpu.Device, label string) (*wgpu.Sampler, error) {
	return device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
}

// UploadSequence uploads every frame of seq. Frames share one sampler, which
// the caller owns along with the returned textures.
func UploadSequence(device *wgpu.Device, queue *wgpu.Queue, seq *Sequence, label string) ([]*Texture, *wgpu.Sampler, error) {
	textures := make([]*Texture, 0, len(seq.Frames))
	for i, f := range seq.Frames {
		t, err := Upload(device, queue, f.Image, fmt.Sprintf("%s frame %d", label, i))
		if err != nil {
			for _, t := range textures {
				t.Release()
			}
			return nil, nil, err
		}
		textures = append(textures, t)
	}

	sampler, err := NewSampler(device, label+" sampler")
	if err != nil {
		for _, t := range textures {
			t.Release()
		}
		return nil, nil, fmt.Errorf("creating sampler for %s: %w", label, err)
	}
	return textures, sampler, nil
}
