// Package engine runs headless fixed-cadence sessions on a simulated
// clock, so a run is a pure function of seed and input script.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/glassdial/internal/glass"
	"github.com/san-kum/glassdial/internal/input"
)

// Metric accumulates one scalar over a run.
type Metric interface {
	Name() string
	Observe(f glass.Frame)
	Value() float64
	Reset()
}

// Observer sees every frame snapshot as it is produced.
type Observer interface {
	OnFrame(frame int, f glass.Frame)
}

type Config struct {
	Frames  int
	FrameDt time.Duration
	Start   time.Time
}

func DefaultConfig() Config {
	return Config{
		Frames:  600,
		FrameDt: time.Second / 60,
		Start:   time.Unix(0, 0),
	}
}

// Event records one emitted state change and the frame it fired on.
type Event struct {
	Frame int         `json:"frame"`
	Old   glass.State `json:"old"`
	New   glass.State `json:"new"`
}

type Result struct {
	Levels    []float64
	States    []glass.State
	Events    []Event
	FramesRun int
	Metrics   map[string]float64
	Final     glass.Snapshot
}

type Engine struct {
	session   *glass.Session
	poller    input.Poller
	metrics   []Metric
	observers []Observer

	frame  int
	events []Event
}

func New(session *glass.Session, poller input.Poller) *Engine {
	e := &Engine{session: session, poller: poller}
	session.Subscribe(e)
	return e
}

func (e *Engine) AddMetric(m Metric)     { e.metrics = append(e.metrics, m) }
func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// StateChanged collects session events, stamped with the current frame.
func (e *Engine) StateChanged(old, new glass.State) {
	e.events = append(e.events, Event{Frame: e.frame, Old: old, New: new})
}

func (e *Engine) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	for _, m := range e.metrics {
		m.Reset()
	}
	e.events = e.events[:0]

	result := &Result{
		Levels:  make([]float64, 0, cfg.Frames),
		States:  make([]glass.State, 0, cfg.Frames),
		Metrics: make(map[string]float64),
	}

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		e.frame = i
		now := cfg.Start.Add(time.Duration(i) * cfg.FrameDt)
		delta := input.Delta(e.poller)
		e.session.Update(int(delta), now)

		frame := e.session.Frame(now)
		for _, m := range e.metrics {
			m.Observe(frame)
		}
		for _, o := range e.observers {
			o.OnFrame(i, frame)
		}

		result.Levels = append(result.Levels, frame.Level)
		result.States = append(result.States, frame.State)
		result.FramesRun++
	}

	result.Events = append(result.Events, e.events...)
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = e.session.Snapshot()
	return result, nil
}

// RunWithCallback steps frames until the callback returns false or the
// frame budget runs out.
func (e *Engine) RunWithCallback(ctx context.Context, cfg Config, callback func(frame int, f glass.Frame) bool) error {
	if err := validate(cfg); err != nil {
		return err
	}

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		e.frame = i
		now := cfg.Start.Add(time.Duration(i) * cfg.FrameDt)
		e.session.Update(int(input.Delta(e.poller)), now)

		if !callback(i, e.session.Frame(now)) {
			return nil
		}
	}
	return nil
}

func validate(cfg Config) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if cfg.FrameDt <= 0 {
		return fmt.Errorf("frame dt must be positive, got %v", cfg.FrameDt)
	}
	return nil
}
