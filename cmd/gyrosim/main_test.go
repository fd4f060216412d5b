package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/storage"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestLoadConfigLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gyrosim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("params:\n  mass: 3\nfps: 24\n"), 0644))

	root := newRootCmd()
	info, _, err := root.Find([]string{"info"})
	require.NoError(t, err)
	require.NoError(t, info.ParseFlags([]string{"--config", path, "--preset", "drift", "--charge", "4"}))

	cfg, err := loadConfig(info)
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.FPS, "file value survives")
	assert.Equal(t, 1.0, cfg.Params.Mass, "preset replaces file params")
	assert.Equal(t, 0.0, cfg.Params.Field)
	assert.Equal(t, 4.0, cfg.Params.Charge, "changed flag wins")
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	root := newRootCmd()
	info, _, err := root.Find([]string{"info"})
	require.NoError(t, err)
	require.NoError(t, info.ParseFlags([]string{"--mass=-1"}))

	_, err = loadConfig(info)
	assert.Error(t, err)
}

func TestRunAnalyzeExport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, execute(t, "run", "--data", dir, "--frames", "240", "--fps", "30"))

	runs, err := storage.New(dir).List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	id := runs[0].ID
	assert.Equal(t, 240, runs[0].Frames)
	assert.Contains(t, runs[0].Metrics, "path_error")

	require.NoError(t, execute(t, "analyze", id, "--data", dir))
	require.NoError(t, execute(t, "list", "--data", dir))

	csvPath := filepath.Join(dir, "out.csv")
	require.NoError(t, execute(t, "export-csv", id, "--data", dir, "-o", csvPath))
	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	samples, err := storage.ReadCSV(f)
	require.NoError(t, err)
	assert.Len(t, samples, 241)

	svgPath := filepath.Join(dir, "out.svg")
	require.NoError(t, execute(t, "export-svg", id, "--data", dir, "--plane", "xz", "-o", svgPath))
	data, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	assert.Error(t, execute(t, "export-svg", id, "--data", dir, "--plane", "zz"))
	assert.Error(t, execute(t, "analyze", "missing", "--data", dir))

	require.NoError(t, execute(t, "fit", id, "--data", dir, "--rounds", "3"))
	assert.Error(t, execute(t, "fit", id, "--data", dir, "--params", "spin"))
}

func TestScenarioCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: bump
duration: 2
fps: 20
events:
  - at: 1
    set:
      field: 2
`), 0644))

	require.NoError(t, execute(t, "scenario", path, "--data", dir))
	runs, err := storage.New(dir).List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "scenario", runs[0].Source)
	assert.Equal(t, 2.0, runs[0].Params.Field)
}

func TestToolCommands(t *testing.T) {
	require.NoError(t, execute(t, "info", "--preset", "tight"))
	require.NoError(t, execute(t, "presets"))
	require.NoError(t, execute(t, "compare", "rk4", "boris", "--dt", "0.01"))
	require.NoError(t, execute(t, "sweep", "field", "0.5", "2", "--steps", "4"))
	require.NoError(t, execute(t, "montecarlo", "--trials", "8", "--seed", "1"))
	assert.Error(t, execute(t, "sweep", "spin", "0", "1"))
	assert.Error(t, execute(t, "compare", "verlet"))

	cfgPath := filepath.Join(t.TempDir(), "integrators.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("integrators: [boris, rk4]\n"), 0644))
	require.NoError(t, execute(t, "compare", "--config", cfgPath, "--dt", "0.01"))
	badPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("integrators: [verlet]\n"), 0644))
	assert.ErrorIs(t, execute(t, "compare", "--config", badPath), dynamo.ErrInvalidConfig)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, execute(t, "init-config", path, "--mass", "2"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mass: 2")
}
