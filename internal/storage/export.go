package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/gyrosim/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Times     []float64    `json:"times"`
	Positions [][3]float64 `json:"positions"`
}

// ExportJSON writes the metadata and the full trajectory as one indented
// JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, samples []dynamo.Sample) error {
	data := ExportData{
		RunMetadata: meta,
		Times:       make([]float64, len(samples)),
		Positions:   make([][3]float64, len(samples)),
	}
	for i, s := range samples {
		data.Times[i] = s.Time
		data.Positions[i] = s.Position.Array()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportMetadata writes only the run metadata.
func ExportMetadata(w io.Writer, meta RunMetadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
