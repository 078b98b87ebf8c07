package wallpaper

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cast"
)

// Params is a layer's free-form parameter map. Accessors fall back to the
// given default when a value is absent or cannot be converted.
type Params map[string]any

func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p Params) Float(key string, def float32) float32 {
	v, ok := p[key]
	if !ok {
		return def
	}
	f, err := cast.ToFloat32E(v)
	if err != nil {
		log.Warnf("Param %s=%v is not a number, using %v", key, v, def)
		return def
	}
	return f
}

func (p Params) Int(key string, def int) int {
	v, ok := p[key]
	if !ok {
		return def
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		log.Warnf("Param %s=%v is not an integer, using %v", key, v, def)
		return def
	}
	return i
}

func (p Params) Bool(key string, def bool) bool {
	v, ok := p[key]
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		log.Warnf("Param %s=%v is not a boolean, using %v", key, v, def)
		return def
	}
	return b
}

func (p Params) String(key string) string {
	v, ok := p[key]
	if !ok {
		return ""
	}
	return cast.ToString(v)
}
