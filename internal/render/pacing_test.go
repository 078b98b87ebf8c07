package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRatio(t *testing.T) {
	assert.Equal(t, uint32(2), DeriveRatio(30, 60))
	assert.Equal(t, RatioCompositor, DeriveRatio(-1, 60))
	assert.Equal(t, RatioNever, DeriveRatio(0, 60))
	assert.Equal(t, uint32(1), DeriveRatio(90, 60))
	assert.Equal(t, uint32(1), DeriveRatio(60, 60))
	assert.Equal(t, uint32(4), DeriveRatio(15, 60))
	assert.Equal(t, uint32(2), DeriveRatio(30, 0))
}

func TestPacingStep(t *testing.T) {
	p := NewPacing(30, 15, 60)

	var redraws, updates int
	for i := 0; i < 60; i++ {
		r, u := p.Step()
		if r {
			redraws++
		}
		if u {
			updates++
		}
	}
	assert.Equal(t, 30, redraws)
	assert.Equal(t, 15, updates)
}

func TestPacingCompositorAndNever(t *testing.T) {
	p := NewPacing(-1, 0, 60)
	for i := 0; i < 5; i++ {
		r, u := p.Step()
		assert.True(t, r)
		assert.False(t, u)
	}
}
