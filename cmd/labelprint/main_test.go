package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/WMSLabel/internal/model"
)

// run executes the CLI against files in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{
		"--prefs", filepath.Join(dir, "preferences.json"),
		"--config", filepath.Join(dir, "config.json"),
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeCSV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "stock.csv")
	require.NoError(t, os.WriteFile(path, []byte("Area,Location,Qty\nA,A-01-01,2\nB,B-22-333,1\n"), 0644))
	return path
}

func TestPrintCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "labels.pdf")

	stdout, err := run(t, dir, "print", "--input", writeCSV(t, dir), "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Loaded 3 labels.")
	assert.Contains(t, stdout, "3 pages written to")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestPrintCommand_RequiresInput(t *testing.T) {
	_, err := run(t, t.TempDir(), "print")
	assert.Error(t, err)
}

func TestPrintCommand_EmptySpreadsheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("Area,Location,Qty\n"), 0644))

	_, err := run(t, dir, "print", "--input", path, "--out", filepath.Join(dir, "x.pdf"))
	assert.ErrorIs(t, err, model.ErrEmptyDataset)
	_, statErr := os.Stat(filepath.Join(dir, "x.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	stdout, err := run(t, dir, "inspect", writeCSV(t, dir))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Longest code: B-22-333")
	assert.Contains(t, stdout, "A-01-01")
}

func TestLayoutCommands(t *testing.T) {
	dir := t.TempDir()

	stdout, err := run(t, dir, "layout", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "small-top")
	assert.Contains(t, stdout, "15mm")

	stdout, err = run(t, dir, "layout", "set", "title-size", "30pt")
	require.NoError(t, err)
	assert.Equal(t, "title-size = 30pt\n", stdout)

	_, err = run(t, dir, "layout", "set", "large-left", "120")
	require.NoError(t, err)

	stdout, err = run(t, dir, "layout", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "30pt")
	assert.Contains(t, stdout, "120mm")

	_, err = run(t, dir, "layout", "set", "colour", "1")
	assert.Error(t, err)
	_, err = run(t, dir, "layout", "set", "small-top", "wide")
	assert.Error(t, err)

	_, err = run(t, dir, "layout", "reset")
	require.NoError(t, err)
	stdout, err = run(t, dir, "layout", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "24pt")
}

func TestLayoutExportImport(t *testing.T) {
	dir := t.TempDir()
	preset := filepath.Join(dir, "preset.yaml")

	_, err := run(t, dir, "layout", "set", "spaced-top", "150.5mm")
	require.NoError(t, err)
	_, err = run(t, dir, "layout", "export", preset)
	require.NoError(t, err)

	stdout, err := run(t, dir, "layout", "export", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "spaced-top: 150.5mm")

	_, err = run(t, dir, "layout", "reset")
	require.NoError(t, err)
	_, err = run(t, dir, "layout", "import", preset)
	require.NoError(t, err)

	stdout, err = run(t, dir, "layout", "show")
	require.NoError(t, err)
	var line string
	for _, l := range strings.Split(stdout, "\n") {
		if strings.HasPrefix(l, "spaced-top") {
			line = l
		}
	}
	assert.Contains(t, line, "150.5mm")
}
