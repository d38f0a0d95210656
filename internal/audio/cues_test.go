package audio

import (
	"bytes"
	"testing"
	"time"

	"github.com/san-kum/glassdial/internal/glass"
)

type recordingHaptic struct {
	durs      []time.Duration
	strengths []float64
}

func (r *recordingHaptic) Vibrate(dur time.Duration, strength float64) {
	r.durs = append(r.durs, dur)
	r.strengths = append(r.strengths, strength)
}

func TestCueTableCoversEveryState(t *testing.T) {
	states := []glass.State{
		glass.Normal, glass.TinyCrack, glass.SmallCrack, glass.Cracked,
		glass.BigCrack, glass.Shatter, glass.HeavyShatter, glass.Silence,
		glass.Rebuild, glass.Recovery,
	}
	for _, s := range states {
		if _, ok := cueTable[s]; !ok {
			t.Errorf("no cue for state %v", s)
		}
	}
}

func TestCrackCuesChirpHigherThanShatterCues(t *testing.T) {
	for _, cracking := range []glass.State{glass.TinyCrack, glass.SmallCrack, glass.Cracked} {
		for _, shattering := range []glass.State{glass.Shatter, glass.HeavyShatter, glass.Silence} {
			if cueTable[cracking].freq <= cueTable[shattering].freq {
				t.Errorf("%v cue (%v Hz) not above %v cue (%v Hz)",
					cracking, cueTable[cracking].freq, shattering, cueTable[shattering].freq)
			}
		}
	}
}

func TestCuesDriveHaptic(t *testing.T) {
	rec := &recordingHaptic{}
	cues := NewCues(nil, rec)

	cues.StateChanged(glass.Normal, glass.Shatter)
	cues.StateChanged(glass.Shatter, glass.HeavyShatter)

	if len(rec.durs) != 2 {
		t.Fatalf("haptic fired %d times, want 2", len(rec.durs))
	}
	if rec.strengths[1] <= rec.strengths[0] {
		t.Errorf("heavier shatter not stronger: %v then %v", rec.strengths[0], rec.strengths[1])
	}
}

func TestCuesUnknownStateSilent(t *testing.T) {
	rec := &recordingHaptic{}
	cues := NewCues(nil, rec)

	cues.StateChanged(glass.Normal, glass.State(99))
	if len(rec.durs) != 0 {
		t.Errorf("unknown state fired %d cues", len(rec.durs))
	}
}

func TestCuesDefaultHaptic(t *testing.T) {
	cues := NewCues(nil, nil)
	if cues.Haptic == nil {
		t.Fatal("nil haptic not defaulted")
	}
	// must not panic
	cues.StateChanged(glass.Normal, glass.TinyCrack)
}

func TestBellHaptic(t *testing.T) {
	var buf bytes.Buffer
	BellHaptic{W: &buf}.Vibrate(50*time.Millisecond, 0.5)
	if buf.String() != "\a" {
		t.Errorf("bell wrote %q", buf.String())
	}

	// nil writer is a no-op, not a panic
	BellHaptic{}.Vibrate(50*time.Millisecond, 0.5)
}
