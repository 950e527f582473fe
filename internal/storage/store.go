// Package storage persists launch runs: one directory per run holding
// metadata.json and trajectory.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/tosslab/internal/launch"
	"github.com/san-kum/tosslab/internal/vec"
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
	Label      string             `json:"label"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Stop       string             `json:"stop"`
	Completion float64            `json:"completion"`
	Metrics    map[string]float64 `json:"metrics"`
	// Planned is the released sample polyline, kept so exports can draw
	// the intended path next to the flown one.
	Planned [][3]float64 `json:"planned,omitempty"`
}

// PlannedPath converts the stored polyline back to vectors.
func (m *RunMetadata) PlannedPath() []vec.Vec3 {
	out := make([]vec.Vec3, len(m.Planned))
	for i, p := range m.Planned {
		out[i] = vec.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}
	return out
}

// Save writes one run directory and returns its id.
func (s *Store) Save(label string, dt float64, integrator string, planned []vec.Vec3, result *launch.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", label, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	duration := 0.0
	if len(result.Times) > 0 {
		duration = result.Times[len(result.Times)-1]
	}

	meta := RunMetadata{
		ID:         runID,
		Label:      label,
		Timestamp:  time.Now(),
		Dt:         dt,
		Duration:   duration,
		Integrator: integrator,
		Stop:       result.Stop.String(),
		Completion: result.Completion,
		Metrics:    result.Metrics,
	}
	for _, p := range planned {
		meta.Planned = append(meta.Planned, [3]float64{p.X, p.Y, p.Z})
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "trajectory.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.States) == 0 {
		return runID, nil
	}

	header := []string{"time", "px", "py", "pz", "vx", "vy", "vz", "fx", "fy", "fz"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range result.States {
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatFloat(result.Times[i], 'f', 6, 64))
		for _, val := range result.States[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if i < len(result.Controls) {
			for _, val := range result.Controls[i] {
				row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
			}
		} else {
			row = append(row, "0", "0", "0")
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
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
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory reads back the recorded states and times of a run.
func (s *Store) LoadTrajectory(runID string) ([][]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectory.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 7 {
			continue
		}
		tVal, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		state := make([]float64, 0, 6)
		for j := 1; j <= 6; j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				v = 0
			}
			state = append(state, v)
		}
		times = append(times, tVal)
		states = append(states, state)
	}

	return states, times, nil
}
