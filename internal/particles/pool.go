package particles

// Particle is one pool slot. The layout matches the storage buffer read by
// the particle shader: 48 bytes, vec4 aligned.
type Particle struct {
	Position [2]float32
	Velocity [2]float32
	Color    [4]float32
	Size     float32
	Rotation float32
	Life     float32
	Alive    uint32
}

func (p *Particle) IsAlive() bool { return p.Alive != 0 }

// Spawn describes a new particle. Zero Size, Life and A take the defaults
// 0.05, 1 and 1.
type Spawn struct {
	X, Y       float32
	VX, VY     float32
	Size       float32
	Life       float32
	R, G, B, A float32
	Rotation   float32
}

// Pool is a fixed capacity set of particles. Nothing writes past its length.
type Pool struct {
	particles []Particle
}

func NewPool(capacity int) *Pool {
	return &Pool{particles: make([]Particle, capacity)}
}

func (p *Pool) Cap() int { return len(p.particles) }

// Particles is the backing slice, ready for upload.
func (p *Pool) Particles() []Particle { return p.particles }

func (p *Pool) Active() int {
	n := 0
	for i := range p.particles {
		if p.particles[i].IsAlive() {
			n++
		}
	}
	return n
}

// Emit fills the first dead slot. It reports false when the pool is full.
func (p *Pool) Emit(s Spawn) bool {
	for i := range p.particles {
		if p.particles[i].IsAlive() {
			continue
		}
		if s.Size == 0 {
			s.Size = 0.05
		}
		if s.Life == 0 {
			s.Life = 1
		}
		if s.A == 0 {
			s.A = 1
		}
		p.particles[i] = Particle{
			Position: [2]float32{s.X, s.Y},
			Velocity: [2]float32{s.VX, s.VY},
			Color:    [4]float32{s.R, s.G, s.B, s.A},
			Size:     s.Size,
			Rotation: s.Rotation,
			Life:     s.Life,
			Alive:    1,
		}
		return true
	}
	return false
}

func (p *Pool) Get(i int) (Particle, bool) {
	if i < 0 || i >= len(p.particles) {
		return Particle{}, false
	}
	return p.particles[i], true
}

func (p *Pool) Set(i int, v Particle) bool {
	if i < 0 || i >= len(p.particles) {
		return false
	}
	p.particles[i] = v
	return true
}

func (p *Pool) Clear() {
	clear(p.particles)
}
