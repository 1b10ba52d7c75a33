package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchpulse/internal/config"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	return &config.Paths{
		ExecutableDir: base,
		DataDir:       filepath.Join(base, "data"),
		RawDir:        filepath.Join(base, "data", "raw"),
		DatasetsDir:   filepath.Join(base, "data", "datasets"),
		CacheDir:      filepath.Join(base, "data", "cache"),
		LogsDir:       filepath.Join(base, "logs"),
	}
}

func TestWriteSimpleCSV(t *testing.T) {
	paths := testPaths(t)
	w := NewCSVWriter(paths)

	path := filepath.Join(t.TempDir(), "out.csv")
	err := w.WriteSimpleCSV(path,
		[]string{"team", "points"},
		[][]string{{"River Plate", "55"}, {"Boca Juniors", "50"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"), "BOM prefix for Excel")

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\xEF\xBB\xBF")))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"team", "points"}, rows[0])
	assert.Equal(t, []string{"River Plate", "55"}, rows[1])
}

func TestWriteCSVWithoutBOM(t *testing.T) {
	w := NewCSVWriter(testPaths(t))
	path := filepath.Join(t.TempDir(), "plain.csv")

	err := w.WriteCSV(path, WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"))
}

func TestAppendToCSV(t *testing.T) {
	w := NewCSVWriter(testPaths(t))
	path := filepath.Join(t.TempDir(), "append.csv")

	require.NoError(t, w.WriteCSV(path, WriteOptions{
		Headers: []string{"team"},
		Records: [][]string{{"River Plate"}},
	}))
	require.NoError(t, w.AppendToCSV(path, [][]string{{"Boca Juniors"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
}

func TestCSVWriterResolvesRelativePaths(t *testing.T) {
	paths := testPaths(t)
	w := NewCSVWriter(paths)

	require.NoError(t, w.WriteSimpleCSV("Liga/2024/table.csv", []string{"a"}, nil))
	assert.FileExists(t, filepath.Join(paths.DatasetsDir, "Liga", "2024", "table.csv"))

	require.NoError(t, w.WriteSimpleCSV("cache/tmp.csv", []string{"a"}, nil))
	assert.FileExists(t, filepath.Join(paths.CacheDir, "tmp.csv"))
}

func TestStreamWriter(t *testing.T) {
	w := NewCSVWriter(testPaths(t))
	path := filepath.Join(t.TempDir(), "stream.csv")

	sw, err := w.CreateStreamWriter(path, []string{"team", "goals"})
	require.NoError(t, err)
	require.NoError(t, sw.WriteRecord([]string{"River Plate", "48"}))
	require.NoError(t, sw.WriteRecord([]string{"Boca Juniors", "40"}))
	require.NoError(t, sw.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
}
