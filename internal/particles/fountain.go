package particles

import "github.com/chewxy/math32"

const (
	fountainBurst = 5
	spinRate      = 0.1
)

// Fountain ages and moves live particles, and tops the pool up from a point
// near the bottom of the screen whenever fewer than half are alive.
func Fountain(h *Host) {
	dt := h.DeltaTime
	alive := 0

	h.Each(func(_ int, p *Particle) {
		p.Position[0] += p.Velocity[0] * dt
		p.Position[1] += p.Velocity[1] * dt
		p.Rotation += spinRate * dt
		p.Life -= dt
		if p.Life <= 0 {
			p.Alive = 0
			return
		}
		p.Color[3] = math32.Min(p.Life, 1)
		alive++
	})

	if alive >= h.MaxParticles/2 {
		return
	}

	n := min(fountainBurst, h.MaxParticles-alive)
	for range n {
		h.Emit(Spawn{
			X:        0,
			Y:        -0.5,
			VX:       (h.Random(0, 1) - 0.5) * 0.5,
			VY:       h.Random(0, 0.5),
			R:        h.Random(0, 1),
			G:        h.Random(0, 1),
			B:        h.Random(0, 1),
			A:        1,
			Size:     h.Random(0.02, 0.05),
			Rotation: h.Random(0, 2*math32.Pi),
			Life:     h.Random(0.5, 1.5),
		})
	}
}
