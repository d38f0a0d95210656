package glass

import (
	"math"
	"math/rand"
)

// arriveRadius is the distance at which a converging particle counts as
// absorbed by the pane center.
const arriveRadius = 1.5

// ParticleField owns the particle pool. Bursts happen on state entry,
// integration once per frame. Inactive particles are compacted out so the
// pool bound is enforced on the live set, not on a flagged graveyard.
type ParticleField struct {
	tuning    Tuning
	rng       *rand.Rand
	center    Point
	particles []Particle
}

func NewParticleField(t Tuning, rng *rand.Rand) *ParticleField {
	return &ParticleField{
		tuning:    t,
		rng:       rng,
		center:    Point{t.Width / 2, t.Height / 2},
		particles: make([]Particle, 0, t.MaxParticles),
	}
}

func (f *ParticleField) Len() int { return len(f.particles) }

// Particles returns the live pool. Callers must not mutate the slice.
func (f *ParticleField) Particles() []Particle { return f.particles }

func (f *ParticleField) Clear() { f.particles = f.particles[:0] }

// Burst spawns up to count particles around the pane center with outward
// velocities of random direction and magnitude. No-ops once the pool is
// full; that is the expected steady state under heavy shattering.
func (f *ParticleField) Burst(count int) int {
	spawned := 0
	jitter := f.tuning.Width / 10

	for i := 0; i < count; i++ {
		if len(f.particles) >= f.tuning.MaxParticles {
			break
		}
		dir := f.rng.Float64() * 2 * math.Pi
		speed := 0.6 + f.rng.Float64()*2.4
		f.particles = append(f.particles, Particle{
			Pos: Point{
				X: f.center.X + (f.rng.Float64()*2-1)*jitter,
				Y: f.center.Y + (f.rng.Float64()*2-1)*jitter,
			},
			Vel:    Vec{speed * math.Cos(dir), speed * math.Sin(dir)},
			Size:   1 + f.rng.Float64()*2,
			Alpha:  1,
			Active: true,
		})
		spawned++
	}
	return spawned
}

// Integrate advances every particle one frame under the regime the given
// state selects: dispersal while shattered, convergence while rebuilding.
// Other states leave the pool untouched.
func (f *ParticleField) Integrate(s State) {
	switch {
	case s == Shatter || s == HeavyShatter || s == Silence:
		f.disperse()
	case s.Override():
		f.converge()
	}
}

func (f *ParticleField) disperse() {
	live := f.particles[:0]
	for _, p := range f.particles {
		p.Pos = p.Pos.Add(p.Vel)
		p.Vel = p.Vel.Scale(f.tuning.Damping)
		p.Alpha *= f.tuning.AlphaDecay
		if p.Pos.X < 0 || p.Pos.X > f.tuning.Width || p.Pos.Y < 0 || p.Pos.Y > f.tuning.Height {
			p.Alpha *= f.tuning.OffscreenDecay
		}
		if p.Alpha >= f.tuning.Epsilon {
			live = append(live, p)
		}
	}
	f.particles = live
}

func (f *ParticleField) converge() {
	live := f.particles[:0]
	for _, p := range f.particles {
		home := p.Pos.To(f.center)
		if home.Len() <= arriveRadius {
			continue
		}
		p.Vel = home.Scale(f.tuning.ConvergeGain)
		p.Pos = p.Pos.Add(p.Vel)
		live = append(live, p)
	}
	f.particles = live
}
