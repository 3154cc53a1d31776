// Package store persists run traces: a metadata.json describing the
// reproducibility tuple and a trace.csv of per-cycle derived values.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/verdantlab/verdant/internal/engine"
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

// RunTuple is the full reproducibility tuple: everything that alters the
// cycle stream. Accessibility changes uniforms and the fracture cadence and
// overrides pin scenario channels, so replaying a run from a partial tuple
// silently diverges from the stored trace.
type RunTuple struct {
	Seed          string               `json:"seed"`
	Scenario      string               `json:"scenario"`
	DtMs          int                  `json:"dt_ms"`
	Biome         string               `json:"biome"`
	Accessibility engine.Accessibility `json:"accessibility"`
	Overrides     map[string]float64   `json:"overrides,omitempty"`
}

type RunMetadata struct {
	ID string `json:"id"`
	RunTuple
	Cycles    int       `json:"cycles"`
	Timestamp time.Time `json:"timestamp"`

	FinalPhase    engine.Phase `json:"final_phase"`
	FinalVitality float64      `json:"final_vitality"`
	Fractures     int          `json:"fractures"`
}

var traceHeader = []string{
	"cycle", "time", "phase", "stress", "vitality",
	"channelA", "channelB", "channelS", "channelT",
	"fracture", "macroMutation",
}

// Save writes one run directory and returns its id.
func (s *Store) Save(tuple RunTuple, trace []engine.Snapshot) (string, error) {
	runID := fmt.Sprintf("%s_%d", tuple.Scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		RunTuple:  tuple,
		Cycles:    len(trace),
		Timestamp: time.Now(),
	}
	for _, snap := range trace {
		if snap.MacroMutationFired {
			meta.Fractures++
		}
	}
	if len(trace) > 0 {
		last := trace[len(trace)-1]
		meta.FinalPhase = last.Life.Phase
		meta.FinalVitality = last.Uniforms.UVitality
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

	csvFile, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(traceHeader); err != nil {
		return "", err
	}
	for _, snap := range trace {
		fired := "0"
		if snap.MacroMutationFired {
			fired = "1"
		}
		row := []string{
			strconv.Itoa(snap.CycleIndex),
			strconv.FormatFloat(snap.Time, 'f', 6, 64),
			string(snap.Life.Phase),
			strconv.FormatFloat(snap.Life.Stress, 'f', 6, 64),
			strconv.FormatFloat(snap.Uniforms.UVitality, 'f', 6, 64),
			strconv.FormatFloat(snap.Channels.A, 'f', 6, 64),
			strconv.FormatFloat(snap.Channels.B, 'f', 6, 64),
			strconv.FormatFloat(snap.Channels.S, 'f', 6, 64),
			strconv.FormatFloat(snap.Channels.T, 'f', 6, 64),
			strconv.FormatFloat(snap.Uniforms.UFractureIntensity, 'f', 6, 64),
			fired,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List reads the metadata of every stored run.
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

// Load reads one run's metadata.
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

// TraceColumn reads one named column of a stored trace, for plotting.
func (s *Store) TraceColumn(runID, column string) ([]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
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
		return []float64{}, nil
	}

	col := -1
	for i, name := range records[0] {
		if name == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("trace has no column %q", column)
	}

	out := make([]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		if col >= len(rec) {
			return nil, fmt.Errorf("trace row %d has %d fields, want %d", i+1, len(rec), len(records[0]))
		}
		v, err := strconv.ParseFloat(rec[col], 64)
		if err != nil {
			return nil, fmt.Errorf("trace row %d column %q: %w", i+1, column, err)
		}
		out = append(out, v)
	}
	return out, nil
}
