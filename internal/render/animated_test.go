package render

import (
	"testing"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/matjam/layerpaper/internal/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStillAnimatedTextureNeverRebinds(t *testing.T) {
	a := &AnimatedTexture{
		anim: asset.NewAnimation([]time.Duration{asset.Unbounded}, false),
		bind: func(int) (*wgpu.BindGroup, error) {
			t.Fatal("single frame textures must not rebind")
			return nil, nil
		},
	}

	assert.False(t, a.IsAnimated())
	require.NoError(t, PreRender(a, time.Hour))
	assert.Equal(t, 0, a.Animation().Index())
}

func TestAnimatedTextureRebindsOnFrameChange(t *testing.T) {
	var bound []int
	a := &AnimatedTexture{
		anim: asset.NewAnimation([]time.Duration{100 * time.Millisecond, 100 * time.Millisecond}, true),
		bind: func(frame int) (*wgpu.BindGroup, error) {
			bound = append(bound, frame)
			return nil, nil
		},
	}

	require.NoError(t, PreRender(a, 40*time.Millisecond))
	assert.Empty(t, bound)
	require.NoError(t, PreRender(a, 70*time.Millisecond))
	require.NoError(t, PreRender(a, 100*time.Millisecond))
	assert.Equal(t, []int{1, 0}, bound)
}
