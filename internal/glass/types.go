package glass

import (
	"math"
	"time"
)

type Point struct {
	X, Y float64
}

type Vec struct {
	X, Y float64
}

func (p Point) Add(v Vec) Point {
	return Point{p.X + v.X, p.Y + v.Y}
}

func (p Point) To(q Point) Vec {
	return Vec{q.X - p.X, q.Y - p.Y}
}

func (v Vec) Scale(f float64) Vec {
	return Vec{v.X * f, v.Y * f}
}

func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Crack is one line segment of a fracture pattern. Generation is the
// branching depth it was spawned at; deeper generations are shorter.
type Crack struct {
	Start      Point
	End        Point
	Generation int
	Alpha      float64
	Active     bool
}

func (c Crack) Angle() float64 {
	return math.Atan2(c.End.Y-c.Start.Y, c.End.X-c.Start.X)
}

type Particle struct {
	Pos    Point
	Vel    Vec
	Size   float64
	Alpha  float64
	Active bool
}

// Tuning holds every constant of the destruction core. One value is shared
// by the session, the crack field and the particle field so that a config
// file or preset tunes the whole pipeline at once.
type Tuning struct {
	// destruction model
	Increment     float64
	IdleTimeout   time.Duration
	RecoverySpeed float64

	// crack generator
	MaxCracks     int
	GenMax        int
	BranchProb    float64
	LengthMin     float64
	LengthMax     float64
	AngleMin      float64
	AngleMax      float64
	PropagateProb float64

	// particle system
	MaxParticles   int
	ShatterBurst   int
	HeavyBurst     int
	Damping        float64
	AlphaDecay     float64
	OffscreenDecay float64
	ConvergeGain   float64
	Epsilon        float64

	// logical coordinate space consumed by the renderer
	Width  float64
	Height float64
}

func DefaultTuning() Tuning {
	return Tuning{
		Increment:     0.01,
		IdleTimeout:   10 * time.Second,
		RecoverySpeed: 0.005,

		MaxCracks:     64,
		GenMax:        4,
		BranchProb:    0.65,
		LengthMin:     16.0,
		LengthMax:     44.0,
		AngleMin:      0.25,
		AngleMax:      0.9,
		PropagateProb: 0.12,

		MaxParticles:   256,
		ShatterBurst:   80,
		HeavyBurst:     150,
		Damping:        0.98,
		AlphaDecay:     0.995,
		OffscreenDecay: 0.9,
		ConvergeGain:   0.12,
		Epsilon:        0.02,

		Width:  160,
		Height: 96,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
