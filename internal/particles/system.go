package particles

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
)

const (
	DefaultMaxParticles = 1000
	MaxParticlesLimit   = 100000
)

// Behavior advances the simulation by one step through the host.
type Behavior func(h *Host)

// Host is the view of the pool a behavior works through. Reads and writes
// outside the pool are refused.
type Host struct {
	DeltaTime       float32
	Time            float32
	MaxParticles    int
	ActiveParticles int

	pool *Pool
	rng  *rand.Rand
}

func (h *Host) Emit(s Spawn) bool { return h.pool.Emit(s) }

func (h *Host) Get(i int) (Particle, bool) { return h.pool.Get(i) }

func (h *Host) Set(i int, p Particle) bool { return h.pool.Set(i, p) }

func (h *Host) Kill(i int) {
	if p, ok := h.pool.Get(i); ok {
		p.Alive = 0
		h.pool.Set(i, p)
	}
}

// Each calls fn for every live particle. Changes made through p are kept.
func (h *Host) Each(fn func(i int, p *Particle)) {
	for i := range h.pool.particles {
		if h.pool.particles[i].IsAlive() {
			fn(i, &h.pool.particles[i])
		}
	}
}

// Random returns a value in [lo, hi).
func (h *Host) Random(lo, hi float32) float32 {
	return lo + h.rng.Float32()*(hi-lo)
}

// System owns a pool and the behavior that drives it.
type System struct {
	pool     *Pool
	behavior Behavior
	time     float32
	rng      *rand.Rand
}

func NewSystem(maxParticles int, behavior Behavior) *System {
	if maxParticles < 1 {
		maxParticles = DefaultMaxParticles
	}
	if maxParticles > MaxParticlesLimit {
		log.Warnf("max_particles %d exceeds %d, clamping", maxParticles, MaxParticlesLimit)
		maxParticles = MaxParticlesLimit
	}
	if behavior == nil {
		behavior = Fountain
	}
	return &System{
		pool:     NewPool(maxParticles),
		behavior: behavior,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

func (s *System) Pool() *Pool { return s.pool }

func (s *System) Particles() []Particle { return s.pool.Particles() }

// Update runs the behavior for dt seconds.
func (s *System) Update(dt float32) {
	s.time += dt
	h := &Host{
		DeltaTime:       dt,
		Time:            s.time,
		MaxParticles:    s.pool.Cap(),
		ActiveParticles: s.pool.Active(),
		pool:            s.pool,
		rng:             s.rng,
	}
	s.behavior(h)
}
