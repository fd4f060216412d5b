package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gyrosim/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "states.csv"
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

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID            string             `json:"id"`
	Source        string             `json:"source"`
	Timestamp     time.Time          `json:"timestamp"`
	Params        dynamo.Params      `json:"params"`
	FPS           float64            `json:"fps"`
	Frames        int                `json:"frames"`
	TrailCapacity int                `json:"trail_capacity"`
	Samples       int                `json:"samples"`
	Metrics       map[string]float64 `json:"metrics,omitempty"`
}

// Duration is the simulated time covered by the run.
func (m RunMetadata) Duration() float64 {
	if m.FPS <= 0 {
		return 0
	}
	return float64(m.Frames) / m.FPS * m.Params.TimeScale
}

// Save writes meta and samples into a new run directory and returns the
// run ID. ID, Timestamp and Samples in meta are filled in.
func (s *Store) Save(meta RunMetadata, samples []dynamo.Sample) (string, error) {
	if meta.Source == "" {
		meta.Source = "run"
	}
	meta.Timestamp = time.Now()
	meta.Samples = len(samples)

	id, runDir, err := s.allocate(meta.Source, meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = id

	if err := writeRun(runDir, meta, samples); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return id, nil
}

func writeRun(runDir string, meta RunMetadata, samples []dynamo.Sample) error {
	if err := writeJSONFile(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCSV(f, samples); err != nil {
		return err
	}
	return f.Close()
}

// allocate creates a fresh directory named after the source and time,
// adding a counter when two runs land on the same millisecond.
func (s *Store) allocate(source string, ts time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", source, ts.UnixMilli())
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
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
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSamples reads the sampled trajectory of a run. A run with no rows
// returns dynamo.ErrEmptyRun.
func (s *Store) LoadSamples(runID string) ([]dynamo.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	samples, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("run %s: %w", runID, dynamo.ErrEmptyRun)
	}
	return samples, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes a time,x,y,z header followed by one row per sample.
func WriteCSV(w io.Writer, samples []dynamo.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "x", "y", "z"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			formatFloat(s.Time),
			formatFloat(s.Position.X),
			formatFloat(s.Position.Y),
			formatFloat(s.Position.Z),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses what WriteCSV produces. The header row is required.
func ReadCSV(r io.Reader) ([]dynamo.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if header[0] != "time" {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var samples []dynamo.Sample
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		var vals [4]float64
		for i, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %d: %w", line, i+1, err)
			}
			vals[i] = v
		}
		samples = append(samples, dynamo.Sample{
			Time:     vals[0],
			Position: dynamo.Vec3{X: vals[1], Y: vals[2], Z: vals[3]},
		})
	}
	return samples, nil
}
