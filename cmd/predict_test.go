package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	bundle, err := filepath.Abs(filepath.Join("..", "models", "bundle.yaml"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "models:\n  path: " + bundle + "\nforecast:\n  min_year: 1965\n  max_year: 2100\n  renewables_break_year: 2008\nlogging:\n  backend: memory\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestPredictCommand(t *testing.T) {
	cfg := writeTestConfig(t)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"predict", "-c", cfg, "--year", "2030", "--explain"})
	defer func() {
		predictYear, predictExplain = 0, false
		rootCmd.SetArgs(nil)
	}()
	require.NoError(t, rootCmd.Execute())

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.EqualValues(t, 2030, out["year"])
	assert.Contains(t, out, "baseline")
	assert.Contains(t, out, "explanation")
}

func TestPredictCommand_OutOfRange(t *testing.T) {
	cfg := writeTestConfig(t)
	rootCmd.SetArgs([]string{"predict", "-c", cfg, "--year", "1800"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	defer func() {
		predictYear = 0
		rootCmd.SetArgs(nil)
	}()
	assert.Error(t, rootCmd.Execute())
}
