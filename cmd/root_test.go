package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunCommand_WritesResultFile(t *testing.T) {
	// GIVEN a config file and flags that override part of it
	dir := t.TempDir()
	cfgPath := writeTemp(t, "cfg.yaml", `
trace:
  number_users: 3
  method: distance_square
  distance_power: 2
`)
	outPath := filepath.Join(dir, "result.json")

	// WHEN the run command executes
	stdout, err := execute(t, "run", "--config", cfgPath, "--out", outPath,
		"--towers", "10", "--users", "5", "--cycles", "4", "--seed", "7", "--workers", "2")
	require.NoError(t, err)

	// THEN the summary is printed and mentions the grid adjustment
	assert.Contains(t, stdout, "Simulation Summary")
	assert.Contains(t, stdout, "(requested 10)")

	// THEN the JSON document has the expected shapes
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var doc ResultFile
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "trace", doc.Simulator)
	assert.Equal(t, 9, doc.NumberTowers)
	assert.True(t, doc.TowersAdjusted)
	assert.Len(t, doc.Towers, 9)
	assert.Len(t, doc.Distances, 9)
	assert.Len(t, doc.Probabilities, 9)
	require.Len(t, doc.Traces, 5) // --users beats the file
	assert.Len(t, doc.Traces[0], 4)
	assert.Len(t, doc.Occupancy, 4)
	assert.NotEmpty(t, doc.RunID)
	assert.Empty(t, doc.Positions)

	// THEN the embedded config uses the same snake_case keys as the file
	config, ok := doc.Config.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 5, config["number_users"])
	assert.Contains(t, config, "friction_coefficient")
	assert.NotContains(t, config, "NumberUsers")
}

func TestMobilityCommand_WritesResultFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "mobility.json")
	// flag state persists across executions, so reset --config explicitly
	_, err := execute(t, "mobility", "--config", "", "--out", outPath,
		"--towers", "9", "--users", "4", "--cycles", "5", "--seed", "7",
		"--model", "random_direction", "--repeat", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var doc ResultFile
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "mobility", doc.Simulator)
	require.Len(t, doc.Traces, 4)
	assert.Len(t, doc.Traces[0], 10)
	assert.Len(t, doc.Occupancy, 10)
	assert.Len(t, doc.Positions, 4)
	assert.Empty(t, doc.Probabilities)
}

func TestRunCommand_Verbose_LogsStageTimings(t *testing.T) {
	// GIVEN logrus at the CLI default level writing into a buffer
	var logs bytes.Buffer
	logrus.SetOutput(&logs)
	t.Cleanup(func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.WarnLevel)
		verbose = false
	})

	// WHEN run with --verbose and no explicit --log
	_, err := execute(t, "run", "--config", "", "--out", "",
		"--towers", "4", "--users", "2", "--cycles", "3", "--verbose")
	require.NoError(t, err)

	// THEN per-stage timings are reported
	assert.Contains(t, logs.String(), "Took")
	assert.Contains(t, logs.String(), "create user traces")
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	_, err := execute(t, "run", "--log", "shouty")
	assert.Error(t, err)
	logLevel = "warn"
}
