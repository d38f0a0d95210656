package glass

import (
	"math"
	"math/rand"
	"time"
)

// Command is a discrete input event from the button collaborator. Commands
// queued for a frame are applied before the threshold transition of that
// frame.
type Command int

const (
	CmdStepBack Command = iota
	CmdFullReset
)

// Notifier receives state-change events. Implementations must not block;
// audio and haptic cues are fire-and-forget.
type Notifier interface {
	StateChanged(old, new State)
}

// Session owns every piece of mutable destruction state: the level, the
// current/previous states, the crack and particle fields and the activity
// timestamps. It is mutated exactly once per frame, inside Update; the
// render step consumes an immutable Frame snapshot afterwards.
type Session struct {
	tuning Tuning
	rng    *rand.Rand

	level      float64
	state      State
	prev       State
	lastActive time.Time
	lastChange time.Time

	cracks    *CrackField
	particles *ParticleField

	// crackMark is the crack count before the most recent threshold
	// entry, so step-back can drop that level's generation.
	crackMark int

	pending   []Command
	notifiers []Notifier
}

func NewSession(t Tuning, seed int64) *Session {
	rng := rand.New(rand.NewSource(seed))
	return &Session{
		tuning:    t,
		rng:       rng,
		state:     Normal,
		prev:      Normal,
		cracks:    NewCrackField(t, rng),
		particles: NewParticleField(t, rng),
	}
}

func (s *Session) Level() float64        { return s.level }
func (s *Session) State() State          { return s.state }
func (s *Session) Previous() State       { return s.prev }
func (s *Session) Cracks() []Crack       { return s.cracks.Cracks() }
func (s *Session) Particles() []Particle { return s.particles.Particles() }
func (s *Session) Tuning() Tuning        { return s.tuning }

func (s *Session) Subscribe(n Notifier) {
	s.notifiers = append(s.notifiers, n)
}

// Submit queues a command for the next Update.
func (s *Session) Submit(cmd Command) {
	s.pending = append(s.pending, cmd)
}

// Update advances the session one frame: commands first, then input
// integration, then exactly one transition driver (override sequence or
// threshold table, never both), then crack propagation and particle
// integration. delta is the signed rotation read this frame.
func (s *Session) Update(delta int, now time.Time) {
	if s.lastActive.IsZero() {
		s.lastActive = now
	}

	cmds := s.pending
	s.pending = s.pending[:0]
	for _, cmd := range cmds {
		switch cmd {
		case CmdFullReset:
			s.reset(now)
		case CmdStepBack:
			s.stepBack()
		}
	}

	if delta != 0 {
		s.lastActive = now
		if !s.state.Override() {
			s.level = clamp01(s.level + float64(delta)*s.tuning.Increment)
		}
	}

	if !s.state.Override() && s.state.Destructive() &&
		now.Sub(s.lastActive) > s.tuning.IdleTimeout {
		s.lastActive = now // re-arm: one idle period, one trigger
		s.transition(Rebuild, now)
	}

	if s.state.Override() {
		s.advanceRecovery(now)
	} else if base := StateForLevel(s.level); base != s.state {
		s.enterBase(base, now)
	}

	if !s.state.Override() && s.state >= Cracked && s.state <= BigCrack {
		if s.rng.Float64() < s.tuning.PropagateProb {
			s.cracks.Propagate()
		}
	}

	s.particles.Integrate(s.state)
	if s.state.Override() {
		s.cracks.Fade(s.tuning.AlphaDecay*0.97, s.tuning.Epsilon)
	}
}

// advanceRecovery drives the Rebuild -> Recovery -> Normal sequence at the
// configured speed.
func (s *Session) advanceRecovery(now time.Time) {
	s.level = math.Max(0, s.level-s.tuning.RecoverySpeed)

	if s.state == Rebuild && s.level <= 0.5 {
		s.transition(Recovery, now)
	}
	if s.state == Recovery && s.level <= 0 {
		s.level = 0
		s.cracks.Clear()
		s.particles.Clear()
		s.crackMark = 0
		s.transition(Normal, now)
	}
}

// enterBase commits a threshold-table transition and runs the entry
// effects of the new state.
func (s *Session) enterBase(base State, now time.Time) {
	s.transition(base, now)

	switch {
	case base == Normal:
		s.cracks.Clear()
		s.particles.Clear()
		s.crackMark = 0
	case base >= TinyCrack && base <= BigCrack:
		s.crackMark = s.cracks.Len()
		s.spawnCracks(base.Severity() + 1)
	case base == Shatter:
		s.crackMark = s.cracks.Len()
		s.particles.Burst(s.tuning.ShatterBurst)
	case base == HeavyShatter:
		s.crackMark = s.cracks.Len()
		s.particles.Burst(s.tuning.HeavyBurst)
	case base == Silence:
		s.crackMark = s.cracks.Len()
	}
}

func (s *Session) spawnCracks(count int) {
	margin := s.tuning.Width / 8
	for i := 0; i < count; i++ {
		origin := Point{
			X: margin + s.rng.Float64()*(s.tuning.Width-2*margin),
			Y: margin/2 + s.rng.Float64()*(s.tuning.Height-margin),
		}
		angle := s.rng.Float64() * 2 * math.Pi
		s.cracks.Grow(origin, angle, 0)
	}
}

// reset is the full-reset command: unconditional, overrides any in-flight
// recovery sequence.
func (s *Session) reset(now time.Time) {
	s.level = 0
	s.cracks.Clear()
	s.particles.Clear()
	s.crackMark = 0
	s.lastActive = now
	s.transition(Normal, now)
}

// stepBack drops the level just under the current band so the threshold
// table commits the downward transition this same frame, and discards the
// cracks the departed level generated. Ignored mid-recovery.
func (s *Session) stepBack() {
	if s.state.Override() || s.state == Normal {
		return
	}
	s.level = math.Max(0, LowerBound(s.state)-s.tuning.Increment)
	s.cracks.TruncateTo(s.crackMark)
}

func (s *Session) transition(next State, now time.Time) {
	if next == s.state {
		return
	}
	old := s.state
	s.prev = old
	s.state = next
	s.lastChange = now
	for _, n := range s.notifiers {
		n.StateChanged(old, next)
	}
}

// Frame is the immutable per-frame snapshot the renderer consumes.
type Frame struct {
	State       State
	Prev        State
	Level       float64
	Cracks      []Crack
	Particles   []Particle
	TimeInState time.Duration
}

func (s *Session) Frame(now time.Time) Frame {
	cracks := make([]Crack, len(s.cracks.Cracks()))
	copy(cracks, s.cracks.Cracks())
	particles := make([]Particle, len(s.particles.Particles()))
	copy(particles, s.particles.Particles())

	var inState time.Duration
	if !s.lastChange.IsZero() {
		inState = now.Sub(s.lastChange)
	}
	return Frame{
		State:       s.state,
		Prev:        s.prev,
		Level:       s.level,
		Cracks:      cracks,
		Particles:   particles,
		TimeInState: inState,
	}
}

// Snapshot is a compact digest of the session used by determinism tests:
// two runs with equal seeds and inputs must produce equal snapshots.
type Snapshot struct {
	Level     float64
	State     State
	Cracks    int
	Particles int
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Level:     s.level,
		State:     s.state,
		Cracks:    s.cracks.Len(),
		Particles: s.particles.Len(),
	}
}
