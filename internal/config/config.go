package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/glassdial/internal/glass"
)

const (
	DefaultFPS    = 60
	DefaultSeed   = 42
	DefaultFrames = 600
)

type Config struct {
	Seed   int64  `yaml:"seed"`
	FPS    int    `yaml:"fps"`
	Audio  bool   `yaml:"audio"`
	Frames int    `yaml:"frames"`
	Tuning Tuning `yaml:"tuning"`
}

// Tuning mirrors glass.Tuning with yaml tags and human units (seconds
// instead of durations). Zero fields fall back to the glass defaults so a
// config file only states what it changes.
type Tuning struct {
	Increment          float64 `yaml:"increment"`
	IdleTimeoutSeconds float64 `yaml:"idle_timeout_seconds"`
	RecoverySpeed      float64 `yaml:"recovery_speed"`
	MaxCracks          int     `yaml:"max_cracks"`
	GenMax             int     `yaml:"gen_max"`
	BranchProb         float64 `yaml:"branch_prob"`
	LengthMin          float64 `yaml:"length_min"`
	LengthMax          float64 `yaml:"length_max"`
	AngleMin           float64 `yaml:"angle_min"`
	AngleMax           float64 `yaml:"angle_max"`
	PropagateProb      float64 `yaml:"propagate_prob"`
	MaxParticles       int     `yaml:"max_particles"`
	ShatterBurst       int     `yaml:"shatter_burst"`
	HeavyBurst         int     `yaml:"heavy_burst"`
	Damping            float64 `yaml:"damping"`
	AlphaDecay         float64 `yaml:"alpha_decay"`
}

func DefaultConfig() Config {
	return Config{
		Seed:   DefaultSeed,
		FPS:    DefaultFPS,
		Audio:  true,
		Frames: DefaultFrames,
	}
}

func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	return cfg, nil
}

// GlassTuning merges the config over the glass defaults.
func (c Config) GlassTuning() glass.Tuning {
	t := glass.DefaultTuning()
	o := c.Tuning

	if o.Increment > 0 {
		t.Increment = o.Increment
	}
	if o.IdleTimeoutSeconds > 0 {
		t.IdleTimeout = time.Duration(o.IdleTimeoutSeconds * float64(time.Second))
	}
	if o.RecoverySpeed > 0 {
		t.RecoverySpeed = o.RecoverySpeed
	}
	if o.MaxCracks > 0 {
		t.MaxCracks = o.MaxCracks
	}
	if o.GenMax > 0 {
		t.GenMax = o.GenMax
	}
	if o.BranchProb > 0 {
		t.BranchProb = o.BranchProb
	}
	if o.LengthMin > 0 {
		t.LengthMin = o.LengthMin
	}
	if o.LengthMax > 0 {
		t.LengthMax = o.LengthMax
	}
	if o.AngleMin > 0 {
		t.AngleMin = o.AngleMin
	}
	if o.AngleMax > 0 {
		t.AngleMax = o.AngleMax
	}
	if o.PropagateProb > 0 {
		t.PropagateProb = o.PropagateProb
	}
	if o.MaxParticles > 0 {
		t.MaxParticles = o.MaxParticles
	}
	if o.ShatterBurst > 0 {
		t.ShatterBurst = o.ShatterBurst
	}
	if o.HeavyBurst > 0 {
		t.HeavyBurst = o.HeavyBurst
	}
	if o.Damping > 0 {
		t.Damping = o.Damping
	}
	if o.AlphaDecay > 0 {
		t.AlphaDecay = o.AlphaDecay
	}
	return t
}

func (c Config) FrameDt() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
