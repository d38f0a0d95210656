package glass

import (
	"math"
	"math/rand"
)

// CrackField owns the crack collection and the branching generator.
// Randomness comes from the injected source so that a field grown twice
// from the same seed produces identical geometry.
type CrackField struct {
	tuning Tuning
	rng    *rand.Rand
	cracks []Crack
}

func NewCrackField(t Tuning, rng *rand.Rand) *CrackField {
	return &CrackField{
		tuning: t,
		rng:    rng,
		cracks: make([]Crack, 0, t.MaxCracks),
	}
}

func (f *CrackField) Len() int { return len(f.cracks) }

// Cracks returns the live segments. Callers must not mutate the slice.
func (f *CrackField) Cracks() []Crack { return f.cracks }

func (f *CrackField) Clear() { f.cracks = f.cracks[:0] }

// TruncateTo drops every segment appended after the first n. Used by the
// step-back command to discard the generation of a departed level.
func (f *CrackField) TruncateTo(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(f.cracks) {
		f.cracks = f.cracks[:n]
	}
}

type crackSeed struct {
	origin     Point
	angle      float64
	generation int
}

// Grow runs the branching process from one origin. An explicit work list
// replaces native recursion so the depth bound holds regardless of stack
// limits. Returns the number of segments appended.
func (f *CrackField) Grow(origin Point, angle float64, generation int) int {
	added := 0
	work := []crackSeed{{origin, angle, generation}}

	for len(work) > 0 {
		seed := work[len(work)-1]
		work = work[:len(work)-1]

		if len(f.cracks) >= f.tuning.MaxCracks {
			break
		}
		if seed.generation > f.tuning.GenMax {
			continue
		}

		length := f.uniform(f.tuning.LengthMin, f.tuning.LengthMax) / float64(seed.generation+1)
		end := seed.origin.Add(Vec{
			X: length * math.Cos(seed.angle),
			Y: length * math.Sin(seed.angle),
		})

		f.cracks = append(f.cracks, Crack{
			Start:      seed.origin,
			End:        end,
			Generation: seed.generation,
			Alpha:      1,
			Active:     true,
		})
		added++

		if seed.generation >= f.tuning.GenMax {
			continue
		}
		if f.rng.Float64() >= f.tuning.BranchProb {
			continue
		}

		children := 1 + f.rng.Intn(2)
		for i := 0; i < children; i++ {
			perturb := f.uniform(f.tuning.AngleMin, f.tuning.AngleMax)
			if f.rng.Float64() < 0.5 {
				perturb = -perturb
			}
			work = append(work, crackSeed{
				origin:     end,
				angle:      seed.angle + perturb,
				generation: seed.generation + 1,
			})
		}
	}

	return added
}

// Propagate extends one existing non-terminal crack from its endpoint with
// a perturbed angle, modeling a fracture creeping further.
func (f *CrackField) Propagate() int {
	candidates := make([]int, 0, len(f.cracks))
	for i, c := range f.cracks {
		if c.Active && c.Generation < f.tuning.GenMax {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return 0
	}

	c := f.cracks[candidates[f.rng.Intn(len(candidates))]]
	perturb := f.uniform(f.tuning.AngleMin, f.tuning.AngleMax)
	if f.rng.Float64() < 0.5 {
		perturb = -perturb
	}
	return f.Grow(c.End, c.Angle()+perturb, c.Generation+1)
}

// Fade decays segment alpha during the repair sequence and drops segments
// that fell below the live threshold.
func (f *CrackField) Fade(decay, eps float64) {
	live := f.cracks[:0]
	for _, c := range f.cracks {
		c.Alpha *= decay
		if c.Alpha >= eps {
			live = append(live, c)
		}
	}
	f.cracks = live
}

func (f *CrackField) uniform(lo, hi float64) float64 {
	return lo + f.rng.Float64()*(hi-lo)
}
