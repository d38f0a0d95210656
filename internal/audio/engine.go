// Package audio emits short tone cues through the beep speaker and routes
// haptic pulses. Everything is fire-and-forget: a failed speaker init
// leaves the engine silent, never broken.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	gain       = 0.25
)

type Engine struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewEngine() *Engine {
	return &Engine{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker. On failure the engine stays in silent
// mode; callers do not need to care.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(e.mixer)
	e.initialized = true
	return nil
}

func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return
	}
	speaker.Lock()
	e.mixer.Clear()
	speaker.Unlock()
	e.initialized = false
}

// Tone plays a sine cue of the given frequency and duration. Returns
// immediately; the mixer streams it out in the background.
func (e *Engine) Tone(freq float64, dur time.Duration) {
	e.mu.Lock()
	ok := e.initialized
	e.mu.Unlock()
	if !ok || freq <= 0 || dur <= 0 {
		return
	}

	streamer := tone(freq, sampleRate.N(dur))
	speaker.Lock()
	e.mixer.Add(streamer)
	speaker.Unlock()
}

// tone builds a finite sine streamer with a short attack/release ramp to
// avoid clicks.
func tone(freq float64, total int) beep.Streamer {
	pos := 0
	ramp := sampleRate.N(4 * time.Millisecond)
	if ramp*2 > total {
		ramp = total / 2
	}

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			v := math.Sin(2 * math.Pi * freq * float64(pos) / float64(sampleRate))
			switch {
			case pos < ramp:
				v *= float64(pos) / float64(ramp)
			case total-pos < ramp:
				v *= float64(total-pos) / float64(ramp)
			}
			samples[i][0] = v * gain
			samples[i][1] = v * gain
			pos++
			n++
		}
		return n, true
	})
}
