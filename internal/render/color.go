package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"
	"github.com/lucasb-eyer/go-colorful"
)

var opaqueBlack = [4]float32{0, 0, 0, 1}

var namedColors = map[string][4]float32{
	"black":       {0, 0, 0, 1},
	"white":       {1, 1, 1, 1},
	"red":         {1, 0, 0, 1},
	"green":       {0, 128.0 / 255, 0, 1},
	"blue":        {0, 0, 1, 1},
	"transparent": {0, 0, 0, 0},
}

// ParseColor reads #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(), rgba(), hsl(),
// hsla() and a few names into straight RGBA in [0, 1].
func ParseColor(s string) ([4]float32, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}

	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return [4]float32{}, fmt.Errorf("unrecognised color %q", s)
	}
	fn := s[:open]
	args := splitArgs(s[open+1 : len(s)-1])

	switch fn {
	case "rgb", "rgba":
		return parseRGB(args)
	case "hsl", "hsla":
		return parseHSL(args)
	}
	return [4]float32{}, fmt.Errorf("unrecognised color function %q", fn)
}

// ColorOrBlack parses s, falling back to opaque black.
func ColorOrBlack(s string) [4]float32 {
	c, err := ParseColor(s)
	if err != nil {
		log.Warnf("Invalid color %q, using black: %v", s, err)
		return opaqueBlack
	}
	return c
}

func rgba(c colorful.Color, a float32) [4]float32 {
	c = c.Clamped()
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), a}
}

// parseHex splits off the alpha digits and hands the colour digits to
// colorful.Hex, which reads #rgb and #rrggbb.
func parseHex(h string) ([4]float32, error) {
	var digits, alphaDigits string
	switch len(h) {
	case 3, 6:
		digits = h
	case 4, 8:
		n := len(h) / 4
		digits, alphaDigits = h[:len(h)-n], h[len(h)-n:]
	default:
		return [4]float32{}, fmt.Errorf("bad hex color length %d", len(h))
	}

	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return [4]float32{}, fmt.Errorf("bad hex color: %w", err)
	}

	a := float32(1)
	if alphaDigits != "" {
		v, err := strconv.ParseUint(alphaDigits, 16, 8)
		if err != nil {
			return [4]float32{}, fmt.Errorf("bad hex alpha: %w", err)
		}
		scale := float32(255)
		if len(alphaDigits) == 1 {
			scale = 15
		}
		a = float32(v) / scale
	}
	return rgba(c, a), nil
}

func splitArgs(s string) []string {
	s = strings.ReplaceAll(s, "/", " ")
	s = strings.ReplaceAll(s, ",", " ")
	return strings.Fields(s)
}

// channel parses a 0-255 number or a percentage into [0, 1].
func channel(s string) (float32, error) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(p, 32)
		return clamp01(float32(v) / 100), err
	}
	v, err := strconv.ParseFloat(s, 32)
	return clamp01(float32(v) / 255), err
}

// alpha parses a 0-1 number or a percentage.
func alpha(s string) (float32, error) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(p, 32)
		return clamp01(float32(v) / 100), err
	}
	v, err := strconv.ParseFloat(s, 32)
	return clamp01(float32(v)), err
}

func parseRGB(args []string) ([4]float32, error) {
	if len(args) != 3 && len(args) != 4 {
		return [4]float32{}, fmt.Errorf("rgb wants 3 or 4 arguments, got %d", len(args))
	}
	var v [3]float32
	for i := range v {
		c, err := channel(args[i])
		if err != nil {
			return [4]float32{}, fmt.Errorf("rgb argument %d: %w", i+1, err)
		}
		v[i] = c
	}
	a := float32(1)
	if len(args) == 4 {
		var err error
		if a, err = alpha(args[3]); err != nil {
			return [4]float32{}, fmt.Errorf("rgb alpha: %w", err)
		}
	}
	return rgba(colorful.Color{R: float64(v[0]), G: float64(v[1]), B: float64(v[2])}, a), nil
}

func parseHSL(args []string) ([4]float32, error) {
	if len(args) != 3 && len(args) != 4 {
		return [4]float32{}, fmt.Errorf("hsl wants 3 or 4 arguments, got %d", len(args))
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 32)
	if err != nil {
		return [4]float32{}, fmt.Errorf("hsl hue: %w", err)
	}
	s, err := alpha(args[1])
	if err != nil {
		return [4]float32{}, fmt.Errorf("hsl saturation: %w", err)
	}
	l, err := alpha(args[2])
	if err != nil {
		return [4]float32{}, fmt.Errorf("hsl lightness: %w", err)
	}

	a := float32(1)
	if len(args) == 4 {
		if a, err = alpha(args[3]); err != nil {
			return [4]float32{}, fmt.Errorf("hsl alpha: %w", err)
		}
	}

	return rgba(colorful.Hsl(wrapHue(float32(h)), float64(s), float64(l)), a), nil
}

// wrapHue maps any angle into [0, 360).
func wrapHue(h float32) float64 {
	h = math32.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return float64(h)
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
