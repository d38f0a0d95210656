// Package storage persists headless runs under a data directory: one
// directory per run holding metadata.json and frames.csv. A stored seed
// plus input script is enough to replay the run exactly.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/glassdial/internal/engine"
	"github.com/san-kum/glassdial/internal/glass"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Frames     int                `json:"frames"`
	FPS        int                `json:"fps"`
	Preset     string             `json:"preset,omitempty"`
	Script     string             `json:"script,omitempty"`
	Random     bool               `json:"random,omitempty"`
	Magnitude  int32              `json:"magnitude,omitempty"`
	FinalState glass.State        `json:"final_state"`
	FinalLevel float64            `json:"final_level"`
	Events     []engine.Event     `json:"events"`
	Metrics    map[string]float64 `json:"metrics"`
}

func (s *Store) Save(meta RunMetadata, result *engine.Result) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.FinalState = result.Final.State
	meta.FinalLevel = result.Final.Level
	meta.Events = result.Events
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeFrames(csvFile, result); err != nil {
		return "", err
	}
	return runID, nil
}

func writeFrames(out io.Writer, result *engine.Result) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"frame", "level", "state"}); err != nil {
		return err
	}
	for i := range result.Levels {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(result.Levels[i], 'f', 6, 64),
			result.States[i].String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// ExportCSV streams a run's frame history in the stored CSV layout.
func (s *Store) ExportCSV(runID string, out io.Writer) error {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(out, file)
	return err
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadLevels reads back the frame history: per-frame level and state name.
func (s *Store) LoadLevels(runID string) ([]float64, []string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []string{}, nil
	}

	levels := make([]float64, 0, len(records)-1)
	states := make([]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 3 {
			continue
		}
		level, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("bad level in %s: %w", runID, err)
		}
		levels = append(levels, level)
		states = append(states, record[2])
	}
	return levels, states, nil
}

// ExportJSON writes the full metadata to out, indented.
func ExportJSON(meta *RunMetadata, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
