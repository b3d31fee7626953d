// Package storage persists simulation runs: one directory per run with a
// JSON metadata file and a CSV trajectory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/dpdsim/internal/dpd"
	"github.com/san-kum/dpdsim/internal/sim"
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
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Particles   int                `json:"particles"`
	Box         float64            `json:"box"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	Temperature float64            `json:"temperature"`
	Seed        int64              `json:"seed"`
	Metrics     map[string]float64 `json:"metrics"`
}

func (s *Store) Save(particles int, box, dt float64, steps int, temperature float64, seed int64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("dpd_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   time.Now(),
		Particles:   particles,
		Box:         box,
		Dt:          dt,
		Steps:       steps,
		Temperature: temperature,
		Seed:        seed,
		Metrics:     result.Metrics,
	}

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

	csvFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Frames) == 0 {
		return runID, nil
	}

	n := result.Frames[0].Pos.Particles()
	header := []string{"time"}
	for i := 0; i < n; i++ {
		header = append(header,
			fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i), fmt.Sprintf("z%d", i))
	}
	for i := 0; i < n; i++ {
		header = append(header,
			fmt.Sprintf("vx%d", i), fmt.Sprintf("vy%d", i), fmt.Sprintf("vz%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, fr := range result.Frames {
		row := make([]string, 0, 1+2*len(fr.Pos))
		row = append(row, strconv.FormatFloat(fr.Time, 'f', 6, 64))
		for _, v := range fr.Pos {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		for _, v := range fr.Vel {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
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

// LoadFrames reads the trajectory back into frames.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	// Columns: time, 3N positions, 3N velocities.
	dim := (len(records[0]) - 1) / 2
	frames := make([]sim.Frame, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != 1+2*dim {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			continue
		}
		fr := sim.Frame{Time: t, Pos: make(dpd.Vector, dim), Vel: make(dpd.Vector, dim)}
		ok := true
		for i := 0; i < dim; i++ {
			if fr.Pos[i], err = strconv.ParseFloat(rec[1+i], 64); err != nil {
				ok = false
				break
			}
		}
		for i := 0; ok && i < dim; i++ {
			if fr.Vel[i], err = strconv.ParseFloat(rec[1+dim+i], 64); err != nil {
				ok = false
			}
		}
		if ok {
			frames = append(frames, fr)
		}
	}
	return frames, nil
}
