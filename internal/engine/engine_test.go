package engine

import (
	"context"
	"testing"
	"time"

	"github.com/san-kum/glassdial/internal/glass"
	"github.com/san-kum/glassdial/internal/input"
)

func testEngine(seed int64, deltas []int32) *Engine {
	session := glass.NewSession(glass.DefaultTuning(), seed)
	return New(session, input.NewScript(deltas))
}

func forward(n int) []int32 {
	d := make([]int32, n)
	for i := range d {
		d[i] = 1
	}
	return d
}

func TestRunProducesPerFrameSeries(t *testing.T) {
	e := testEngine(1, forward(10))
	cfg := Config{Frames: 20, FrameDt: time.Second / 60, Start: time.Unix(0, 0)}

	result, err := e.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if result.FramesRun != 20 || len(result.Levels) != 20 || len(result.States) != 20 {
		t.Fatalf("series lengths: frames %d, levels %d, states %d",
			result.FramesRun, len(result.Levels), len(result.States))
	}
	if result.Levels[19] <= result.Levels[0] {
		t.Errorf("level did not rise under forward script: %v -> %v",
			result.Levels[0], result.Levels[19])
	}
}

func TestRunEventsStampedWithFrames(t *testing.T) {
	e := testEngine(2, forward(60))
	cfg := Config{Frames: 70, FrameDt: time.Second / 60, Start: time.Unix(0, 0)}

	result, err := e.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Events) == 0 {
		t.Fatal("expected transition events")
	}
	last := -1
	for _, ev := range result.Events {
		if ev.Frame < 0 || ev.Frame >= cfg.Frames {
			t.Errorf("event frame %d outside run", ev.Frame)
		}
		if ev.Frame < last {
			t.Errorf("events out of order: %d after %d", ev.Frame, last)
		}
		last = ev.Frame
	}
}

func TestRunContextCancel(t *testing.T) {
	e := testEngine(3, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := e.Run(ctx, DefaultConfig())
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if result.FramesRun != 0 {
		t.Errorf("ran %d frames after cancellation", result.FramesRun)
	}
}

func TestRunValidatesConfig(t *testing.T) {
	e := testEngine(4, nil)

	if _, err := e.Run(context.Background(), Config{Frames: 0, FrameDt: time.Second / 60}); err == nil {
		t.Error("zero frames accepted")
	}
	if _, err := e.Run(context.Background(), Config{Frames: 10, FrameDt: 0}); err == nil {
		t.Error("zero frame dt accepted")
	}
}

type countingMetric struct {
	name string
	n    int
}

func (m *countingMetric) Name() string          { return m.name }
func (m *countingMetric) Observe(f glass.Frame) { m.n++ }
func (m *countingMetric) Value() float64        { return float64(m.n) }
func (m *countingMetric) Reset()                { m.n = 0 }

func TestMetricsObserveEveryFrame(t *testing.T) {
	e := testEngine(5, forward(5))
	m := &countingMetric{name: "frames_seen"}
	e.AddMetric(m)

	cfg := Config{Frames: 42, FrameDt: time.Second / 60, Start: time.Unix(0, 0)}
	result, err := e.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if result.Metrics["frames_seen"] != 42 {
		t.Errorf("metric saw %v frames, want 42", result.Metrics["frames_seen"])
	}
}

func TestMetricsResetBetweenRuns(t *testing.T) {
	e := testEngine(6, nil)
	m := &countingMetric{name: "frames_seen"}
	e.AddMetric(m)

	cfg := Config{Frames: 10, FrameDt: time.Second / 60, Start: time.Unix(0, 0)}
	if _, err := e.Run(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	result, err := e.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if result.Metrics["frames_seen"] != 10 {
		t.Errorf("second run metric = %v, want 10", result.Metrics["frames_seen"])
	}
}

type frameRecorder struct {
	frames []int
}

func (r *frameRecorder) OnFrame(frame int, f glass.Frame) {
	r.frames = append(r.frames, frame)
}

func TestObserversSeeOrderedFrames(t *testing.T) {
	e := testEngine(7, forward(3))
	rec := &frameRecorder{}
	e.AddObserver(rec)

	cfg := Config{Frames: 15, FrameDt: time.Second / 60, Start: time.Unix(0, 0)}
	if _, err := e.Run(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}

	if len(rec.frames) != 15 {
		t.Fatalf("observer saw %d frames, want 15", len(rec.frames))
	}
	for i, f := range rec.frames {
		if f != i {
			t.Fatalf("frame %d delivered as %d", i, f)
		}
	}
}

func TestRunWithCallbackStopsEarly(t *testing.T) {
	e := testEngine(8, forward(100))
	cfg := Config{Frames: 100, FrameDt: time.Second / 60, Start: time.Unix(0, 0)}

	seen := 0
	err := e.RunWithCallback(context.Background(), cfg, func(frame int, f glass.Frame) bool {
		seen++
		return seen < 7
	})
	if err != nil {
		t.Fatal(err)
	}
	if seen != 7 {
		t.Errorf("callback ran %d times, want 7", seen)
	}
}
