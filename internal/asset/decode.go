package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/h2non/filetype"
	"golang.org/x/image/webp"
)

const (
	DefaultFrameDelay = 100 * time.Millisecond
	MaxFrameDelay     = 500 * time.Millisecond

	// Unbounded is the duration of a frame that never advances.
	Unbounded = time.Duration(math.MaxInt64)
)

type Format string

const (
	FormatGIF     Format = "gif"
	FormatWebP    Format = "webp"
	FormatPNG     Format = "png"
	FormatJPEG    Format = "jpg"
	FormatUnknown Format = ""
)

// Animatable reports whether the container can carry more than one frame.
// Only GIF frames are decoded; animated WebP plays its first frame.
func (f Format) Animatable() bool {
	return f == FormatGIF || f == FormatWebP
}

// Probe identifies the container from its leading bytes.
func Probe(data []byte) Format {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return FormatUnknown
	}
	switch kind.Extension {
	case "gif":
		return FormatGIF
	case "webp":
		return FormatWebP
	case "png":
		return FormatPNG
	case "jpg", "jpeg":
		return FormatJPEG
	}
	return Format(kind.Extension)
}

// ClampDelay maps an encoded frame delay to a display duration.
func ClampDelay(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultFrameDelay
	}
	if d > MaxFrameDelay {
		return MaxFrameDelay
	}
	return d
}

type Frame struct {
	Image    *image.RGBA
	Duration time.Duration
}

// Sequence is a decoded animated asset, ready for upload.
type Sequence struct {
	Frames  []Frame
	Looping bool
}

func (s *Sequence) IsAnimated() bool { return len(s.Frames) > 1 }

func (s *Sequence) Durations() []time.Duration {
	d := make([]time.Duration, len(s.Frames))
	for i, f := range s.Frames {
		d[i] = f.Duration
	}
	return d
}

// DecodeStatic reads an image file into an RGBA buffer.
func DecodeStatic(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	img, err := decodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// DecodeAnimated decodes every frame of an animated file. Files that cannot
// animate, or whose animation yields no frames, come back as one frame that
// never advances.
func DecodeAnimated(path string) (*Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var frames []Frame
	looping := true

	if Probe(data) == FormatGIF {
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			log.Warnf("Animated decode of %s failed, loading it as a still: %v", path, err)
		} else {
			frames = composeGIF(g)
			// LoopCount -1 means play once.
			looping = g.LoopCount >= 0
		}
	}

	seq, err := sequenceOrStill(frames, looping, data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return seq, nil
}

func sequenceOrStill(frames []Frame, looping bool, data []byte) (*Sequence, error) {
	if len(frames) > 0 {
		return &Sequence{Frames: frames, Looping: looping}, nil
	}

	img, err := decodeBytes(data)
	if err != nil {
		return nil, err
	}
	return &Sequence{Frames: []Frame{{Image: img, Duration: Unbounded}}}, nil
}

func decodeBytes(data []byte) (*image.RGBA, error) {
	var (
		img image.Image
		err error
	)
	if Probe(data) == FormatWebP {
		img, err = webp.Decode(bytes.NewReader(data))
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}
	return ToRGBA(img), nil
}

// ToRGBA returns img as *image.RGBA with its origin at zero, converting if needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// composeGIF renders each GIF frame onto a persistent canvas so partial
// frames and disposal methods produce full images.
func composeGIF(g *gif.GIF) []Frame {
	if len(g.Image) == 0 {
		return nil
	}

	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	frames := make([]Frame, 0, len(g.Image))

	for i, src := range g.Image {
		var restore *image.RGBA
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			restore = image.NewRGBA(canvas.Rect)
			copy(restore.Pix, canvas.Pix)
		}

		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)

		out := image.NewRGBA(canvas.Rect)
		copy(out.Pix, canvas.Pix)

		delay := 0
		if i < len(g.Delay) {
			delay = g.Delay[i]
		}
		frames = append(frames, Frame{
			Image:    out,
			Duration: ClampDelay(time.Duration(delay) * 10 * time.Millisecond),
		})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, src.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = restore
		}
	}

	return frames
}

// ProbeFile identifies the container of the file at path from its header.
func ProbeFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return FormatUnknown, fmt.Errorf("reading %s: %w", path, err)
	}
	return Probe(head[:n]), nil
}
