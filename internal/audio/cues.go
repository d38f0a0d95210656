package audio

import (
	"fmt"
	"io"
	"time"

	"github.com/san-kum/glassdial/internal/glass"
)

// Haptic is the vibration collaborator. Best-effort; implementations
// never block a frame.
type Haptic interface {
	Vibrate(dur time.Duration, strength float64)
}

type NoopHaptic struct{}

func (NoopHaptic) Vibrate(time.Duration, float64) {}

// BellHaptic approximates a buzz with the terminal bell. Strength and
// duration collapse to one ding; that is all a terminal has.
type BellHaptic struct {
	W io.Writer
}

func (b BellHaptic) Vibrate(time.Duration, float64) {
	if b.W != nil {
		fmt.Fprint(b.W, "\a")
	}
}

type cue struct {
	freq     float64
	dur      time.Duration
	strength float64
}

// cueTable keys on the state being entered. Cracking states chirp high
// and short, shattering drops low and long, the repair sequence hums.
var cueTable = map[glass.State]cue{
	glass.Normal:       {880, 90 * time.Millisecond, 0.1},
	glass.TinyCrack:    {1760, 30 * time.Millisecond, 0.2},
	glass.SmallCrack:   {1480, 40 * time.Millisecond, 0.3},
	glass.Cracked:      {1180, 60 * time.Millisecond, 0.4},
	glass.BigCrack:     {880, 80 * time.Millisecond, 0.5},
	glass.Shatter:      {440, 160 * time.Millisecond, 0.8},
	glass.HeavyShatter: {330, 220 * time.Millisecond, 1.0},
	glass.Silence:      {110, 300 * time.Millisecond, 0.2},
	glass.Rebuild:      {520, 120 * time.Millisecond, 0.3},
	glass.Recovery:     {660, 120 * time.Millisecond, 0.2},
}

// Cues bridges session state changes to tone and haptic output.
type Cues struct {
	Engine *Engine
	Haptic Haptic
}

func NewCues(engine *Engine, haptic Haptic) *Cues {
	if haptic == nil {
		haptic = NoopHaptic{}
	}
	return &Cues{Engine: engine, Haptic: haptic}
}

func (c *Cues) StateChanged(old, new glass.State) {
	q, ok := cueTable[new]
	if !ok {
		return
	}
	if c.Engine != nil {
		c.Engine.Tone(q.freq, q.dur)
	}
	c.Haptic.Vibrate(q.dur, q.strength)
}
