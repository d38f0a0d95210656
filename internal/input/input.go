// Package input provides the rotation pollers that feed the destruction
// model. A poller is read once per frame; a failed read degrades to a zero
// delta and is never surfaced further.
package input

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
)

// Poller is one authoritative rotation read per frame.
type Poller interface {
	Poll() (int32, error)
}

// Delta adapts a poll result for the destruction model: read failures
// count as no rotation this frame.
func Delta(p Poller) int32 {
	v, err := p.Poll()
	if err != nil {
		return 0
	}
	return v
}

// Script replays a fixed delta sequence, then reads zero forever. Used by
// headless runs and determinism tests.
type Script struct {
	deltas []int32
	pos    int
}

func NewScript(deltas []int32) *Script {
	return &Script{deltas: deltas}
}

func (s *Script) Poll() (int32, error) {
	if s.pos >= len(s.deltas) {
		return 0, nil
	}
	v := s.deltas[s.pos]
	s.pos++
	return v, nil
}

// ParseScript parses a comma-separated delta list like "1,1,0,-2".
func ParseScript(text string) ([]int32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	parts := strings.Split(text, ",")
	deltas := make([]int32, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad delta %q: %w", part, err)
		}
		deltas = append(deltas, int32(v))
	}
	return deltas, nil
}

// Random produces seeded random rotation in [-magnitude, magnitude],
// biased toward turning forward so stress runs actually escalate.
type Random struct {
	rng       *rand.Rand
	magnitude int32
}

func NewRandom(seed int64, magnitude int32) *Random {
	if magnitude <= 0 {
		magnitude = 1
	}
	return &Random{rng: rand.New(rand.NewSource(seed)), magnitude: magnitude}
}

func (r *Random) Poll() (int32, error) {
	span := 2*r.magnitude + 1
	v := r.rng.Int31n(span) - r.magnitude
	if r.rng.Float64() < 0.15 {
		v += 1
	}
	return v, nil
}

// Accumulator collects key-press rotation between frames; the TUI adds on
// key events and the tick drains the sum as that frame's delta.
type Accumulator struct {
	mu  sync.Mutex
	sum int32
}

func (a *Accumulator) Add(n int32) {
	a.mu.Lock()
	a.sum += n
	a.mu.Unlock()
}

func (a *Accumulator) Poll() (int32, error) {
	a.mu.Lock()
	v := a.sum
	a.sum = 0
	a.mu.Unlock()
	return v, nil
}

// Flaky wraps a poller and fails every nth read. Exercises the
// degrade-to-zero path in tests.
type Flaky struct {
	Inner Poller
	Every int
	reads int
}

func (f *Flaky) Poll() (int32, error) {
	f.reads++
	if f.Every > 0 && f.reads%f.Every == 0 {
		return 0, fmt.Errorf("read failure at poll %d", f.reads)
	}
	return f.Inner.Poll()
}
