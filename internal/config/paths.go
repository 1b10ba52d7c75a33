package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	ExecutableDir string
	WebDir        string
	StaticDir     string
	DataDir       string
	RawDir        string
	DatasetsDir   string
	CacheDir      string
	LogsDir       string

	// Config files
	CredentialsFile  string
	SheetsConfigFile string
	UsersFile        string
}

// GetPaths returns the application paths relative to the executable location
// All paths are ALWAYS relative to the executable directory, never the current working directory
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// All paths are relative to the executable directory.
	// Directory structure:
	// dist/
	//   ├── credentials.json
	//   ├── sheets-config.json
	//   ├── users.yaml
	//   ├── data/
	//   │   ├── raw/           (feed JSON, one tree per season)
	//   │   ├── datasets/      (generated CSV datasets)
	//   │   └── cache/         (temporary files)
	//   ├── logs/
	//   └── web/

	dataDir := filepath.Join(exeDir, "data")

	paths := &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		WebDir:        filepath.Join(exeDir, "web"),
		StaticDir:     filepath.Join(exeDir, "web", "static"),
		RawDir:        filepath.Join(dataDir, "raw"),
		DatasetsDir:   filepath.Join(dataDir, "datasets"),
		CacheDir:      filepath.Join(dataDir, "cache"),
		LogsDir:       filepath.Join(exeDir, "logs"),

		CredentialsFile:  filepath.Join(exeDir, "credentials.json"),
		SheetsConfigFile: filepath.Join(exeDir, "sheets-config.json"),
		UsersFile:        filepath.Join(exeDir, "users.yaml"),
	}

	return paths, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	// Season subtrees are created on demand by the scraper and processor.
	// This only creates the base directories needed by all processes.
	directories := []string{
		p.DataDir,
		p.RawDir,
		p.DatasetsDir,
		p.CacheDir,
		p.LogsDir,
		p.WebDir,
		p.StaticDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// GetRelativePath returns a path relative to the executable directory
func (p *Paths) GetRelativePath(subpath string) string {
	return filepath.Join(p.ExecutableDir, subpath)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

var unsafePathChars = regexp.MustCompile(`[/\\*?"<>|:]+`)

// SanitizeDirName replaces characters that are unsafe in directory names
// with underscores, collapses repeats, and trims surrounding whitespace.
// Competition and season labels come from remote feeds and frequently
// contain slashes ("2023/2024") or other reserved characters.
func SanitizeDirName(name string) string {
	cleaned := unsafePathChars.ReplaceAllString(name, "_")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "unknown"
	}
	return cleaned
}

// SeasonRawDir returns the raw feed directory for a season, e.g.
// data/raw/Europe/Spain/La_Liga/2023_2024.
func (p *Paths) SeasonRawDir(continent, country, competition, season string) string {
	return filepath.Join(p.RawDir,
		SanitizeDirName(continent),
		SanitizeDirName(country),
		SanitizeDirName(competition),
		SanitizeDirName(season))
}

// SeasonMatchesDir returns the per-match event JSON directory for a season
func (p *Paths) SeasonMatchesDir(continent, country, competition, season string) string {
	return filepath.Join(p.SeasonRawDir(continent, country, competition, season), "matches")
}

// SeasonDatasetsDir returns the generated CSV directory for a season, e.g.
// data/datasets/La_Liga/2023_2024.
func (p *Paths) SeasonDatasetsDir(competition, season string) string {
	return filepath.Join(p.DatasetsDir,
		SanitizeDirName(competition),
		SanitizeDirName(season))
}

// GetWebFilePath returns the path to a web file
func (p *Paths) GetWebFilePath(filename string) string {
	return filepath.Join(p.WebDir, filename)
}

// GetStaticFilePath returns the path to a static file
func (p *Paths) GetStaticFilePath(filename string) string {
	return filepath.Join(p.StaticDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetCachePath returns the path for a cache file
func (p *Paths) GetCachePath(filename string) string {
	return filepath.Join(p.CacheDir, filename)
}

// GetCredentialsPath returns the path for the Google Sheets credentials file
func (p *Paths) GetCredentialsPath() string {
	path := p.CredentialsFile
	logger := slog.Default()
	if logger != nil {
		logger.Debug("Credentials path resolved",
			slog.String("path", path),
			slog.Bool("exists", FileExists(path)))
	}
	return path
}

// GetSheetsConfigPath returns the path for the sheets configuration file
func (p *Paths) GetSheetsConfigPath() string {
	path := p.SheetsConfigFile
	logger := slog.Default()
	if logger != nil {
		logger.Debug("Sheets config path resolved",
			slog.String("path", path),
			slog.Bool("exists", FileExists(path)))
	}
	return path
}

// GetUsersFilePath returns the path for the dashboard users file
func (p *Paths) GetUsersFilePath() string {
	return p.UsersFile
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("raw", p.RawDir),
			slog.String("datasets", p.DatasetsDir),
			slog.String("cache", p.CacheDir),
			slog.String("logs", p.LogsDir),
			slog.String("web", p.WebDir),
		),
		slog.Group("config_files",
			slog.String("credentials", p.CredentialsFile),
			slog.String("sheets_config", p.SheetsConfigFile),
			slog.String("users", p.UsersFile),
		))
}
