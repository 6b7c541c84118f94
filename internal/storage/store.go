package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/particlesim/internal/metrics"
)

var ErrShape = errors.New("storage: position arrays differ in length")

var seriesHeader = []string{
	"step", "time", "position_sum", "kinetic_energy",
	"momentum_x", "momentum_y", "step_ns",
}

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
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Bodies     int                `json:"bodies"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Workers    int                `json:"workers"`
	ChunkSize  int                `json:"chunk_size"`
	Dropped    int                `json:"dropped"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	G          float64            `json:"g"`
	Mass       float64            `json:"mass"`
	Epsilon    float64            `json:"epsilon"`
	WallTimeMs float64            `json:"wall_time_ms"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a run directory containing metadata.json, series.csv and
// positions.csv. When meta.ID is empty one is derived from the current time.
func (s *Store) Save(meta RunMetadata, series []metrics.Sample, x, y []float32) (string, error) {
	if len(x) != len(y) {
		return "", fmt.Errorf("%w: %d != %d", ErrShape, len(x), len(y))
	}

	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("run_%d", meta.Timestamp.UnixNano())
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(series)+1)
	rows = append(rows, seriesHeader)
	for _, smp := range series {
		rows = append(rows, []string{
			strconv.Itoa(smp.Step),
			formatFloat(smp.Time),
			formatFloat(smp.PositionSum),
			formatFloat(smp.KineticEnergy),
			formatFloat(smp.MomentumX),
			formatFloat(smp.MomentumY),
			strconv.FormatInt(smp.StepNanos, 10),
		})
	}
	if err := writeCSV(filepath.Join(runDir, "series.csv"), rows); err != nil {
		return "", err
	}

	rows = make([][]string, 0, len(x)+1)
	rows = append(rows, []string{"x", "y"})
	for i := range x {
		rows = append(rows, []string{
			strconv.FormatFloat(float64(x[i]), 'g', -1, 32),
			strconv.FormatFloat(float64(y[i]), 'g', -1, 32),
		})
	}
	if err := writeCSV(filepath.Join(runDir, "positions.csv"), rows); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, newest first.
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
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

func (s *Store) LoadSeries(runID string) ([]metrics.Sample, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}

	out := make([]metrics.Sample, 0, len(records))
	for _, rec := range records {
		if len(rec) < len(seriesHeader) {
			continue
		}

		step, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		vals := make([]float64, 5)
		for j := range vals {
			vals[j], _ = strconv.ParseFloat(rec[j+1], 64)
		}
		ns, _ := strconv.ParseInt(rec[6], 10, 64)

		out = append(out, metrics.Sample{
			Step:          step,
			Time:          vals[0],
			PositionSum:   vals[1],
			KineticEnergy: vals[2],
			MomentumX:     vals[3],
			MomentumY:     vals[4],
			StepNanos:     ns,
		})
	}

	return out, nil
}

func (s *Store) LoadPositions(runID string) (x, y []float32, err error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "positions.csv"))
	if err != nil {
		return nil, nil, err
	}

	x = make([]float32, 0, len(records))
	y = make([]float32, 0, len(records))
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		px, errX := strconv.ParseFloat(rec[0], 32)
		py, errY := strconv.ParseFloat(rec[1], 32)
		if errX != nil || errY != nil {
			continue
		}
		x = append(x, float32(px))
		y = append(y, float32(py))
	}

	return x, y, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Sync()
}

// readCSV returns every record after the header.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}
