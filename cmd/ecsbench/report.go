package main

import (
	"io"

	"github.com/argus-labs/columnar/pkg/ecs"
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

type report struct {
	RunID          string               `json:"run_id"`
	Config         benchConfig          `json:"config"`
	ElapsedMS      float64              `json:"elapsed_ms"`
	TicksPerSecond float64              `json:"ticks_per_second"`
	Spawned        int                  `json:"spawned"`
	Despawned      int                  `json:"despawned"`
	Freezes        int                  `json:"freezes"`
	Thaws          int                  `json:"thaws"`
	TrailsCreated  int64                `json:"trails_created"`
	TrailsDropped  int64                `json:"trails_dropped"`
	Archetypes     []ecs.ArchetypeStats `json:"archetypes"`
}

// write encodes the report as indented JSON.
func (r *report) write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return eris.Wrap(err, "failed to encode report")
	}
	return nil
}
