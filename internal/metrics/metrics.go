// Package metrics provides run-level scalar accumulators over frame
// snapshots. Each metric follows the Name/Observe/Value/Reset contract
// the engine expects.
package metrics

import (
	"github.com/san-kum/glassdial/internal/glass"
)

type PeakLevel struct {
	peak float64
}

func NewPeakLevel() *PeakLevel { return &PeakLevel{} }

func (m *PeakLevel) Name() string { return "peak_level" }

func (m *PeakLevel) Observe(f glass.Frame) {
	if f.Level > m.peak {
		m.peak = f.Level
	}
}

func (m *PeakLevel) Value() float64 { return m.peak }
func (m *PeakLevel) Reset()         { m.peak = 0 }

// Transitions counts frames whose state differs from the previous frame.
type Transitions struct {
	count   int
	last    glass.State
	started bool
}

func NewTransitions() *Transitions { return &Transitions{} }

func (m *Transitions) Name() string { return "transitions" }

func (m *Transitions) Observe(f glass.Frame) {
	if m.started && f.State != m.last {
		m.count++
	}
	m.last = f.State
	m.started = true
}

func (m *Transitions) Value() float64 { return float64(m.count) }

func (m *Transitions) Reset() {
	m.count = 0
	m.started = false
}

// TimeInState reports the share of frames spent in one tracked state.
type TimeInState struct {
	tracked glass.State
	in      int
	total   int
}

func NewTimeInState(s glass.State) *TimeInState {
	return &TimeInState{tracked: s}
}

func (m *TimeInState) Name() string { return "time_in_" + m.tracked.String() }

func (m *TimeInState) Observe(f glass.Frame) {
	m.total++
	if f.State == m.tracked {
		m.in++
	}
}

func (m *TimeInState) Value() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.in) / float64(m.total)
}

func (m *TimeInState) Reset() {
	m.in = 0
	m.total = 0
}

// CrackHighWater tracks the largest crack count seen during a run.
type CrackHighWater struct {
	max int
}

func NewCrackHighWater() *CrackHighWater { return &CrackHighWater{} }

func (m *CrackHighWater) Name() string { return "crack_high_water" }

func (m *CrackHighWater) Observe(f glass.Frame) {
	if len(f.Cracks) > m.max {
		m.max = len(f.Cracks)
	}
}

func (m *CrackHighWater) Value() float64 { return float64(m.max) }
func (m *CrackHighWater) Reset()         { m.max = 0 }
