package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/verdantlab/verdant/internal/engine"
)

// ExportData is the JSON bundle emitted by the export command. Uniforms keep
// their renderer-facing u_* names via the engine struct tags.
type ExportData struct {
	RunTuple
	Cycles int `json:"cycles"`

	Snapshots []ExportSnapshot `json:"snapshots"`
}

type ExportSnapshot struct {
	Cycle    int                `json:"cycle"`
	Time     float64            `json:"time"`
	Phase    engine.Phase       `json:"phase"`
	Stress   float64            `json:"stress"`
	Sensors  map[string]float64 `json:"sensors"`
	Smoothed map[string]float64 `json:"smoothed"`
	Plants   []ExportPlant      `json:"plants"`
	Uniforms engine.Uniforms    `json:"uniforms"`
}

type ExportPlant struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Active bool    `json:"active"`
}

func buildExport(tuple RunTuple, trace []engine.Snapshot) ExportData {
	data := ExportData{
		RunTuple:  tuple,
		Cycles:    len(trace),
		Snapshots: make([]ExportSnapshot, 0, len(trace)),
	}
	for _, snap := range trace {
		plants := make([]ExportPlant, 0, engine.PlantCount)
		for _, e := range snap.PlantsTop3 {
			plants = append(plants, ExportPlant{Name: e.Name, Weight: e.Weight, Active: e.Active})
		}
		data.Snapshots = append(data.Snapshots, ExportSnapshot{
			Cycle:    snap.CycleIndex,
			Time:     snap.Time,
			Phase:    snap.Life.Phase,
			Stress:   snap.Life.Stress,
			Sensors:  snap.SensorsRaw.Map(),
			Smoothed: snap.SensorsSmoothed.Map(),
			Plants:   plants,
			Uniforms: snap.Uniforms,
		})
	}
	return data
}

func exportTo(w io.Writer, tuple RunTuple, trace []engine.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildExport(tuple, trace))
}

// ExportJSON writes the snapshot trace to a file.
func ExportJSON(path string, tuple RunTuple, trace []engine.Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return exportTo(file, tuple, trace)
}

// ExportJSONStdout writes the snapshot trace to standard output.
func ExportJSONStdout(tuple RunTuple, trace []engine.Snapshot) error {
	return exportTo(os.Stdout, tuple, trace)
}
