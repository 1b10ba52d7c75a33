package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeDirName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain name", "La Liga", "La Liga"},
		{"season with slash", "2023/2024", "2023_2024"},
		{"backslash", `a\b`, "a_b"},
		{"reserved chars", `who?"<>|:what`, "who_what"},
		{"consecutive unsafe collapse", "a//***b", "a_b"},
		{"trims surrounding spaces", "  name  ", "name"},
		{"keeps surrounding underscores", "Torneo 2024/25 *final*", "Torneo 2024_25 _final_"},
		{"only spaces", "   ", "unknown"},
		{"empty", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeDirName(tt.input))
		})
	}
}

func TestSeasonDirs(t *testing.T) {
	p := &Paths{
		RawDir:      filepath.Join("base", "data", "raw"),
		DatasetsDir: filepath.Join("base", "data", "datasets"),
	}

	raw := p.SeasonRawDir("Europe", "Spain", "La Liga", "2023/2024")
	assert.Equal(t, filepath.Join("base", "data", "raw", "Europe", "Spain", "La Liga", "2023_2024"), raw)

	matches := p.SeasonMatchesDir("Europe", "Spain", "La Liga", "2023/2024")
	assert.Equal(t, filepath.Join(raw, "matches"), matches)

	datasets := p.SeasonDatasetsDir("La Liga", "2023/2024")
	assert.Equal(t, filepath.Join("base", "data", "datasets", "La Liga", "2023_2024"), datasets)
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	p := &Paths{
		ExecutableDir: dir,
		DataDir:       filepath.Join(dir, "data"),
		RawDir:        filepath.Join(dir, "data", "raw"),
		DatasetsDir:   filepath.Join(dir, "data", "datasets"),
		CacheDir:      filepath.Join(dir, "data", "cache"),
		LogsDir:       filepath.Join(dir, "logs"),
		WebDir:        filepath.Join(dir, "web"),
		StaticDir:     filepath.Join(dir, "web", "static"),
	}

	require.NoError(t, p.EnsureDirectories())

	for _, d := range []string{p.DataDir, p.RawDir, p.DatasetsDir, p.CacheDir, p.LogsDir, p.WebDir, p.StaticDir} {
		info, err := os.Stat(d)
		require.NoError(t, err, d)
		assert.True(t, info.IsDir(), d)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "absent.txt")))
}

func TestGetPaths(t *testing.T) {
	p, err := GetPaths()
	require.NoError(t, err)

	assert.NotEmpty(t, p.ExecutableDir)
	assert.Equal(t, filepath.Join(p.ExecutableDir, "data"), p.DataDir)
	assert.Equal(t, filepath.Join(p.DataDir, "raw"), p.RawDir)
	assert.Equal(t, filepath.Join(p.DataDir, "datasets"), p.DatasetsDir)
	assert.Equal(t, filepath.Join(p.ExecutableDir, "users.yaml"), p.UsersFile)
}
